package schedule

import (
	"mariua.net/obras/models"
	"mariua.net/obras/utils"
)

// DailyColumns positions the daily-schedule fields.
type DailyColumns struct {
	Date, Project, Supervisor, Foreman, Title, Municipality, Activity, Criterion int
}

// DefaultDailyColumns is the 8-column daily schedule layout.
var DefaultDailyColumns = DailyColumns{
	Date:         0,
	Project:      1,
	Supervisor:   2,
	Foreman:      3,
	Title:        4,
	Municipality: 5,
	Activity:     6,
	Criterion:    7,
}

// ParseDailySchedule reads the data rows of a daily schedule. Rows without a
// project or a usable date are reported and skipped.
func ParseDailySchedule(rows []models.RawRow, cols DailyColumns) ([]models.PlannedTask, []Diagnostic) {
	tasks := make([]models.PlannedTask, 0, len(rows))
	var skipped []Diagnostic

	for index, row := range rows {
		line := index + 1 + headerLines

		project, ok := utils.CleanText(row.Cell(cols.Project))
		if !ok {
			skipped = append(skipped, Diagnostic{Line: line, Reason: reasonNoProject})
			continue
		}
		date := utils.ToDate(row.Cell(cols.Date))
		if date == nil {
			skipped = append(skipped, Diagnostic{Line: line, Reason: "data inválida"})
			continue
		}

		tasks = append(tasks, models.PlannedTask{
			Date:              models.NewLocalDate(date),
			ProjectCode:       project,
			Supervisor:        utils.TextOr(row.Cell(cols.Supervisor), notAvailable),
			Foreman:           utils.TextOr(row.Cell(cols.Foreman), notAvailable),
			Title:             utils.TextOr(row.Cell(cols.Title), ""),
			Municipality:      utils.TextOr(row.Cell(cols.Municipality), ""),
			ScheduledActivity: utils.TextOr(row.Cell(cols.Activity), ""),
			Criterion:         utils.TextOr(row.Cell(cols.Criterion), ""),
		})
	}
	return tasks, skipped
}
