package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"mariua.net/obras/models"
	"mariua.net/obras/pkg/production"
	"mariua.net/obras/utils"
)

// exportTable is a titled grid ready to be written as xlsx or csv.
type exportTable struct {
	Title   string
	Headers []string
	Rows    [][]interface{}
	Summary [][2]interface{}
}

func ordersTable(orders []models.WorkOrder, generated time.Time) exportTable {
	t := exportTable{
		Title: "Obras",
		Headers: []string{
			"ID", "Projeto", "Encarregado", "Supervisor", "Cliente", "Localidade",
			"Postes Previstos", "Postes Implantados", "Início", "Término",
			"Progresso (%)", "Status", "Latitude", "Longitude", "Anotações",
		},
	}
	counts := map[models.Status]int{}
	for _, o := range orders {
		counts[o.Status]++
		t.Rows = append(t.Rows, []interface{}{
			o.ID, o.ProjectCode, o.Foreman, o.Supervisor, o.Client, o.Locality,
			o.PlannedPoles, o.PolesInstalled, o.StartDate.String(), o.DueDate.String(),
			o.ProgressPercent, string(o.Status), floatOrBlank(o.Latitude), floatOrBlank(o.Longitude), o.Notes,
		})
	}
	t.Summary = append(t.Summary, [2]interface{}{"Gerado em", generated.Format("02/01/2006 15:04")})
	t.Summary = append(t.Summary, [2]interface{}{"Total", len(orders)})
	for _, s := range models.AllStatuses {
		t.Summary = append(t.Summary, [2]interface{}{string(s), counts[s]})
	}
	return t
}

func productionTable(day time.Time, records []models.ProductionRecord) exportTable {
	t := exportTable{
		Title: "Produção " + day.Format(utils.DateLayoutBR),
		Headers: []string{
			"Data", "Projeto", "Supervisor", "Encarregado", "Título", "Município",
			"Atividade", "Cavas", "Cavas em Rocha", "Postes", "Locação",
			"Responsável", "Justificativa", "Lançamentos", "Progresso (%)", "Status",
		},
	}
	for _, rec := range records {
		t.Rows = append(t.Rows, []interface{}{
			rec.Date.String(), rec.ProjectCode, rec.Supervisor, rec.Foreman, rec.Title, rec.Municipality,
			rec.ScheduledActivity, rec.TrenchesActual, rec.TrenchesInRockActual, rec.PolesActual, rec.LayoutActual,
			rec.ResponsibleTeam, rec.FieldJustification, rec.MatchedEntries, rec.CompletionPercent, string(rec.CompletionStatus),
		})
	}
	s := summarize(records)
	t.Summary = [][2]interface{}{
		{"Programadas", s.Planned},
		{"Concluídas", s.Completed},
		{"Em andamento", s.InProgress},
		{"Iniciadas", s.Started},
		{"Não concluídas", s.NotDone},
	}
	return t
}

func floatOrBlank(f *float64) interface{} {
	if f == nil {
		return ""
	}
	return *f
}

// ExportObras downloads the normalized monthly schedule (?formato=xlsx|csv).
func (h *Handler) ExportObras(w http.ResponseWriter, r *http.Request) {
	_, res, err := h.loadOrders(r.Context())
	if err != nil {
		h.writeError(w, h.workbookStatus(err), err.Error())
		return
	}
	h.sendExport(w, r, ordersTable(res.Orders, h.now()))
}

// ExportProduction downloads the production reconciliation for ?data=.
func (h *Handler) ExportProduction(w http.ResponseWriter, r *http.Request) {
	day, ok := h.parseQueryDate(r)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "data inválida, use DD-MM-AAAA")
		return
	}
	snap, err := h.currentSchedule(r.Context())
	if err != nil {
		h.writeError(w, h.workbookStatus(err), err.Error())
		return
	}
	log, err := h.loadLog(r.Context())
	if err != nil {
		h.writeError(w, h.workbookStatus(err), err.Error())
		return
	}
	h.sendExport(w, r, productionTable(day, production.ReconcileProduction(snap.TasksOn(day), log, day)))
}

func (h *Handler) sendExport(w http.ResponseWriter, r *http.Request, t exportTable) {
	stamp := h.now().Format("20060102_150405")

	switch strings.ToLower(r.URL.Query().Get("formato")) {
	case "csv":
		data, err := createCSVFile(t)
		if err != nil {
			h.writeError(w, http.StatusInternalServerError, "Failed to generate CSV file")
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s_%s.csv", sanitizeFilename(t.Title), stamp))
		w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	case "", "xlsx":
		f, err := createExcelFile(t, h.now())
		if err != nil {
			h.writeError(w, http.StatusInternalServerError, "Failed to generate Excel file")
			return
		}
		defer f.Close()
		buffer, err := f.WriteToBuffer()
		if err != nil {
			h.writeError(w, http.StatusInternalServerError, "Failed to write Excel file")
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s_%s.xlsx", sanitizeFilename(t.Title), stamp))
		w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))
		w.WriteHeader(http.StatusOK)
		w.Write(buffer.Bytes())
	default:
		h.writeError(w, http.StatusBadRequest, "formato deve ser xlsx ou csv")
	}
}

// createExcelFile lays out title, headers, data and a summary block.
func createExcelFile(t exportTable, generated time.Time) (*excelize.File, error) {
	f := excelize.NewFile()
	sheetName := "Relatorio"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	f.SetCellValue(sheetName, "A1", t.Title)
	f.SetCellStyle(sheetName, "A1", "A1", titleStyle)
	f.SetRowHeight(sheetName, 1, 30)
	f.SetCellValue(sheetName, "A2", "Gerado em "+generated.Format("02/01/2006 15:04"))

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	for colIdx, header := range t.Headers {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 4)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
		col := columnIndexToLetter(colIdx + 1)
		f.SetColWidth(sheetName, col, col, 18)
	}

	for rowIdx, row := range t.Rows {
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+5)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	if len(t.Summary) > 0 {
		summaryRow := len(t.Rows) + 7
		summaryStyle, _ := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true},
			Fill: excelize.Fill{Type: "pattern", Color: []string{"#E7E6E6"}, Pattern: 1},
		})
		cell, _ := excelize.CoordinatesToCellName(1, summaryRow)
		f.SetCellValue(sheetName, cell, "Resumo")
		f.SetCellStyle(sheetName, cell, cell, summaryStyle)

		for _, kv := range t.Summary {
			summaryRow++
			keyCell, _ := excelize.CoordinatesToCellName(1, summaryRow)
			valueCell, _ := excelize.CoordinatesToCellName(2, summaryRow)
			f.SetCellValue(sheetName, keyCell, kv[0])
			f.SetCellValue(sheetName, valueCell, kv[1])
		}
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

// createCSVFile writes headers, rows and the summary block. Semicolons keep
// the file opening in pt-BR spreadsheet apps, which use comma decimals.
func createCSVFile(t exportTable) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.Comma = ';'

	writer.Write(t.Headers)
	for _, row := range t.Rows {
		record := make([]string, 0, len(row))
		for _, value := range row {
			record = append(record, fmt.Sprintf("%v", value))
		}
		writer.Write(record)
	}

	if len(t.Summary) > 0 {
		writer.Write([]string{})
		writer.Write([]string{"Resumo"})
		for _, kv := range t.Summary {
			writer.Write([]string{fmt.Sprintf("%v", kv[0]), fmt.Sprintf("%v", kv[1])})
		}
	}

	writer.Flush()
	return buf.Bytes(), writer.Error()
}

func sanitizeFilename(filename string) string {
	replacements := map[rune]rune{
		'/':  '_',
		'\\': '_',
		':':  '_',
		'*':  '_',
		'?':  '_',
		'"':  '_',
		'<':  '_',
		'>':  '_',
		'|':  '_',
		' ':  '_',
	}

	result := []rune{}
	for _, char := range filename {
		if replacement, exists := replacements[char]; exists {
			result = append(result, replacement)
		} else {
			result = append(result, char)
		}
	}

	return string(result)
}

func columnIndexToLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+(col%26))) + result
		col /= 26
	}
	return result
}
