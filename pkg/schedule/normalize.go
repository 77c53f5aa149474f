package schedule

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"mariua.net/obras/models"
	"mariua.net/obras/utils"
)

// Diagnostic explains why one input row produced no record. Line is the
// 1-based spreadsheet line, counting the header.
type Diagnostic struct {
	Line   int    `json:"linha"`
	Reason string `json:"motivo"`
}

// Result is the outcome of one ingestion pass.
type Result struct {
	Orders  []models.WorkOrder `json:"obras"`
	Skipped []Diagnostic       `json:"ignoradas"`
}

// StatusCounts tallies orders per status.
func (r Result) StatusCounts() map[models.Status]int {
	counts := make(map[models.Status]int, len(models.AllStatuses))
	for _, o := range r.Orders {
		counts[o.Status]++
	}
	return counts
}

const (
	reasonNoProject = "projeto vazio"
	headerLines     = 1
)

// NormalizeSchedule turns the data rows of a monthly schedule (header
// already removed) into work orders. Rows without a project are dropped and
// rows that fail while being built are logged and skipped; neither aborts the
// batch. The only error is an invalid schema.
func NormalizeSchedule(rows []models.RawRow, schema Schema, today time.Time, logger *zap.Logger) (Result, error) {
	if err := schema.Validate(); err != nil {
		return Result{}, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	today = utils.DateOf(today)
	projectCol, _ := schema.Column(FieldProject)

	res := Result{Orders: make([]models.WorkOrder, 0, len(rows))}
	for index, row := range rows {
		line := index + 1 + headerLines

		order, err := buildOrder(index, row, schema, projectCol, today)
		if err != nil {
			logger.Error("Erro na linha", zap.Int("line", line), zap.Error(err))
			res.Skipped = append(res.Skipped, Diagnostic{Line: line, Reason: err.Error()})
			continue
		}
		if order == nil {
			res.Skipped = append(res.Skipped, Diagnostic{Line: line, Reason: reasonNoProject})
			continue
		}

		res.Orders = append(res.Orders, *order)
		if len(res.Orders) <= 5 {
			logger.Debug("Obra normalizada",
				zap.String("projeto", order.ProjectCode),
				zap.String("status", string(order.Status)),
				zap.String("inicio", order.StartDate.String()),
				zap.String("termino", order.DueDate.String()),
				zap.Int("progresso", order.ProgressPercent))
		}
	}

	counts := res.StatusCounts()
	logger.Info("Processamento concluído",
		zap.String("schema", schema.Version),
		zap.Int("total", len(res.Orders)),
		zap.Int("ignoradas", len(res.Skipped)),
		zap.Int("em_andamento", counts[models.StatusInProgress]),
		zap.Int("concluidas", counts[models.StatusCompleted]),
		zap.Int("vencidas", counts[models.StatusExpired]),
		zap.Int("programadas", counts[models.StatusScheduled]),
		zap.Int("energizadas", counts[models.StatusEnergized]))

	return res, nil
}

// buildOrder returns nil, nil for rows that carry no project.
func buildOrder(index int, row models.RawRow, schema Schema, projectCol int, today time.Time) (order *models.WorkOrder, err error) {
	defer func() {
		if r := recover(); r != nil {
			order, err = nil, fmt.Errorf("linha inválida: %v", r)
		}
	}()

	id := index + 1
	project, ok := utils.CleanText(row.Cell(projectCol))
	if !ok {
		if !schema.SynthesizeMissingProject || !hasTeamData(row, schema) {
			return nil, nil
		}
		project = fmt.Sprintf("B-%04d", id)
	}

	o := &models.WorkOrder{ID: id}
	applyDefaults(o)
	for _, f := range schema.Fields {
		f.Apply(o, row.Cell(f.Column))
	}
	o.ProjectCode = project

	o.HasValidCoordinates = utils.ValidCoordinates(o.Latitude, o.Longitude)
	o.ProgressPercent = ProgressPercent(o.PlannedPoles, o.PolesInstalled)
	o.IsEnergized = IsEnergized(o.Notes)
	o.Status = ResolveStatus(o.StartDate.Time(), o.DueDate.Time(), o.ProgressPercent, o.Notes, today)
	return o, nil
}

func hasTeamData(row models.RawRow, schema Schema) bool {
	for _, name := range []string{FieldForeman, FieldSupervisor} {
		if col, ok := schema.Column(name); ok {
			if _, present := utils.CleanText(row.Cell(col)); present {
				return true
			}
		}
	}
	return false
}
