package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"
	"mariua.net/obras/middleware"
	"mariua.net/obras/pkg/schedule"
	"mariua.net/obras/pkg/workbook"
	"mariua.net/obras/utils"
)

// fields derived on every read; edits must target their inputs instead
var derivedFields = map[string]bool{
	"id":             true,
	"progresso":      true,
	"status":         true,
	"isEnergizada":   true,
	"hasCoordinates": true,
	"prazo":          true,
}

func (h *Handler) workbookStatus(err error) int {
	switch {
	case errors.Is(err, workbook.ErrNotFound), errors.Is(err, workbook.ErrRowNotFound):
		return http.StatusNotFound
	case errors.Is(err, workbook.ErrLocked):
		return http.StatusLocked
	case errors.Is(err, workbook.ErrNoTable), errors.Is(err, schedule.ErrInvalidSchema):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// GetObras returns every work order of the monthly schedule.
func (h *Handler) GetObras(w http.ResponseWriter, r *http.Request) {
	_, res, err := h.loadOrders(r.Context())
	if err != nil {
		h.Logger.Error("Erro ao buscar obras", zap.Error(err))
		h.writeError(w, h.workbookStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"total":     len(res.Orders),
		"obras":     res.Orders,
		"ignoradas": len(res.Skipped),
		"timestamp": h.now().Format(time.RFC3339),
	})
}

// GetObrasMap returns work orders with valid coordinates as GeoJSON.
func (h *Handler) GetObrasMap(w http.ResponseWriter, r *http.Request) {
	_, res, err := h.loadOrders(r.Context())
	if err != nil {
		h.writeError(w, h.workbookStatus(err), err.Error())
		return
	}

	fc := geojson.NewFeatureCollection()
	var points orb.MultiPoint
	var coords []utils.Coordinate
	for _, o := range res.Orders {
		if !o.HasValidCoordinates {
			continue
		}
		pt := orb.Point{*o.Longitude, *o.Latitude}
		points = append(points, pt)
		coords = append(coords, utils.Coordinate{Lat: *o.Latitude, Lng: *o.Longitude})

		f := geojson.NewFeature(pt)
		f.ID = o.ID
		f.Properties["projeto"] = o.ProjectCode
		f.Properties["localidade"] = o.Locality
		f.Properties["encarregado"] = o.Foreman
		f.Properties["status"] = o.Status
		f.Properties["progresso"] = o.ProgressPercent
		fc.Append(f)
	}
	if len(points) > 0 {
		fc.BBox = geojson.NewBBox(points.Bound())
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"total":          len(fc.Features),
		"semCoordenadas": len(res.Orders) - len(fc.Features),
		"centro":         utils.Centroid(coords),
		"mapa":           fc,
	})
}

// UpdateObra writes field-level edits back to the monthly workbook and
// returns the re-normalized work order.
func (h *Handler) UpdateObra(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id < 1 {
		h.writeError(w, http.StatusBadRequest, "id inválido")
		return
	}

	var changes map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&changes); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(changes) == 0 {
		h.writeError(w, http.StatusBadRequest, "nenhum campo para atualizar")
		return
	}

	values, err := h.cellValues(changes)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Editor.SetCells(r.Context(), h.Files.Schedule, h.Files.ScheduleSheet, id, values); err != nil {
		h.Logger.Error("Erro ao salvar obra", zap.Int("id", id), zap.Error(err))
		h.writeError(w, h.workbookStatus(err), err.Error())
		return
	}
	h.Logger.Info("Obra atualizada",
		zap.Int("id", id),
		zap.Int("campos", len(values)),
		zap.String("usuario", middleware.GetUserEmail(r)))

	_, res, err := h.loadOrders(r.Context())
	if err != nil {
		h.writeError(w, h.workbookStatus(err), err.Error())
		return
	}
	for _, o := range res.Orders {
		if o.ID == id {
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "obra": o})
			return
		}
	}
	// the edit may have cleared the project, which drops the row
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "obra": nil})
}

// cellValues maps edited field names to schema columns. Date fields are
// written as real dates so the workbook keeps sorting and filtering them.
func (h *Handler) cellValues(changes map[string]interface{}) (map[int]any, error) {
	values := make(map[int]any, len(changes))
	for name, v := range changes {
		if derivedFields[name] {
			return nil, fmt.Errorf("campo %q é calculado e não pode ser editado", name)
		}
		col, ok := h.Schema.Column(name)
		if !ok {
			return nil, fmt.Errorf("campo %q desconhecido", name)
		}

		switch name {
		case schedule.FieldStartDate, schedule.FieldDueDate:
			if s, _ := utils.CleanText(v); s == "" {
				values[col] = ""
				continue
			}
			d := utils.ToDate(v)
			if d == nil {
				return nil, fmt.Errorf("data inválida para %q", name)
			}
			values[col] = *d
		default:
			if v == nil {
				values[col] = ""
				continue
			}
			values[col] = v
		}
	}
	return values, nil
}

// UploadSchedule replaces the monthly schedule workbook.
func (h *Handler) UploadSchedule(w http.ResponseWriter, r *http.Request) {
	data, filename, table, err := h.readUpload(w, r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := schedule.NormalizeSchedule(table.Rows, h.Schema, h.now(), h.Logger)
	if err != nil {
		h.writeError(w, h.workbookStatus(err), err.Error())
		return
	}
	if len(res.Orders) == 0 {
		h.writeError(w, http.StatusUnprocessableEntity, "nenhuma obra encontrada na planilha")
		return
	}

	if err := h.Src.Save(r.Context(), h.Files.Schedule, bytes.NewReader(data)); err != nil {
		h.Logger.Error("Erro ao salvar planilha", zap.Error(err))
		h.writeError(w, h.workbookStatus(err), err.Error())
		return
	}
	h.Logger.Info("Planilha mensal substituída",
		zap.String("enviado", filename),
		zap.String("destino", h.Src.Describe(h.Files.Schedule)),
		zap.Int("obras", len(res.Orders)))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"total":     len(res.Orders),
		"ignoradas": res.Skipped,
		"timestamp": h.now().Format(time.RFC3339),
	})
}

type debugRow struct {
	Line           int     `json:"linha"`
	Project        string  `json:"projeto"`
	Foreman        string  `json:"encarregado"`
	StartRaw       string  `json:"data_inicio_raw"`
	StartConverted string  `json:"data_inicio_convertida"`
	DueRaw         string  `json:"data_termino_raw"`
	DueConverted   string  `json:"data_termino_convertida"`
	PlannedPoles   float64 `json:"postes_previstos"`
	InstalledPoles float64 `json:"postes_implantados"`
}

// DebugPlanilha shows how the first rows of the monthly workbook convert.
func (h *Handler) DebugPlanilha(w http.ResponseWriter, r *http.Request) {
	table, err := workbook.Read(r.Context(), h.Src, h.Files.Schedule, h.Files.ScheduleSheet)
	if err != nil {
		h.writeError(w, h.workbookStatus(err), err.Error())
		return
	}

	col := func(name string) int {
		c, ok := h.Schema.Column(name)
		if !ok {
			return -1
		}
		return c
	}

	var sample []debugRow
	for i, row := range table.Rows {
		if i == 5 {
			break
		}
		start, due := row.Cell(col(schedule.FieldStartDate)), row.Cell(col(schedule.FieldDueDate))
		sample = append(sample, debugRow{
			Line:           i + 2,
			Project:        utils.TextOr(row.Cell(col(schedule.FieldProject)), ""),
			Foreman:        utils.TextOr(row.Cell(col(schedule.FieldForeman)), ""),
			StartRaw:       fmt.Sprint(start),
			StartConverted: utils.FormatDateLocal(utils.ToDate(start)),
			DueRaw:         fmt.Sprint(due),
			DueConverted:   utils.FormatDateLocal(utils.ToDate(due)),
			PlannedPoles:   utils.ToNumber(row.Cell(col(schedule.FieldPlannedPoles)), 0),
			InstalledPoles: utils.ToNumber(row.Cell(col(schedule.FieldPolesInstalled)), 0),
		})
	}

	header := make([]string, 0, len(table.Header))
	for _, c := range table.Header {
		header = append(header, utils.TextOr(c, ""))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"aba":                table.Sheet,
		"schema":             h.Schema.Version,
		"total_linhas":       len(table.Rows),
		"total_colunas":      len(table.Header),
		"colunas_esperadas":  h.Schema.Width(),
		"colunas":            header,
		"primeiras_5_linhas": sample,
	})
}
