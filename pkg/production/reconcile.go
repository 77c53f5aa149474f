package production

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"mariua.net/obras/models"
	"mariua.net/obras/utils"
)

// ActivityType is the kind of work a planned task schedules.
type ActivityType int

const (
	ActivityOther ActivityType = iota
	ActivityInstallation
	ActivityExcavation
	ActivityEnergization
	ActivityLayout
	ActivityLaunch
)

func (a ActivityType) String() string {
	switch a {
	case ActivityInstallation:
		return "implantacao"
	case ActivityExcavation:
		return "escavacao"
	case ActivityEnergization:
		return "energizacao"
	case ActivityLayout:
		return "locacao"
	case ActivityLaunch:
		return "lancamento"
	}
	return "outra"
}

// Completion thresholds: a quantity strictly above these counts as done.
const (
	polesThreshold    = 0
	trenchesThreshold = 0
	layoutThreshold   = 0

	// graded activities are complete at this many units
	gradedTarget = 10
)

// ClassifyActivity maps a scheduled-activity label to its type. Keywords are
// checked in priority order.
func ClassifyActivity(activity string) ActivityType {
	a := utils.FoldAccents(activity)
	switch {
	case utils.ContainsAny(a, "IMPLANTACAO", "IMPLANTAR", "IMPLANTA"):
		return ActivityInstallation
	case utils.ContainsAny(a, "ESCAVACAO", "CAVA"):
		return ActivityExcavation
	case utils.ContainsAny(a, "ENERGIZACAO", "ENERGIZA"):
		return ActivityEnergization
	case utils.ContainsAny(a, "LOCACAO"):
		return ActivityLayout
	case utils.ContainsAny(a, "LANCAMENTO", "LANCAR"):
		return ActivityLaunch
	}
	return ActivityOther
}

// ReconcileProduction reconciles every task planned for asOf against the
// log. A zero asOf reconciles all tasks.
func ReconcileProduction(tasks []models.PlannedTask, log []models.LogEntry, asOf time.Time) []models.ProductionRecord {
	var day time.Time
	if !asOf.IsZero() {
		day = utils.DateOf(asOf)
	}

	records := make([]models.ProductionRecord, 0, len(tasks))
	for _, t := range tasks {
		if !day.IsZero() {
			if d := t.Date.Time(); d == nil || !d.Equal(day) {
				continue
			}
		}
		records = append(records, Reconcile(t, log))
	}
	return records
}

// ReconcileLogRows is ReconcileProduction over raw log rows (header removed).
func ReconcileLogRows(tasks []models.PlannedTask, logRows []models.RawRow, cols LogColumns, asOf time.Time) []models.ProductionRecord {
	return ReconcileProduction(tasks, ParseLog(logRows, cols), asOf)
}

// Reconcile aggregates the log entries matching task and grades completion.
func Reconcile(task models.PlannedTask, log []models.LogEntry) models.ProductionRecord {
	rec := models.ProductionRecord{
		Date:              task.Date,
		ProjectCode:       task.ProjectCode,
		Supervisor:        task.Supervisor,
		Foreman:           task.Foreman,
		Title:             task.Title,
		Municipality:      task.Municipality,
		ScheduledActivity: task.ScheduledActivity,
	}

	for _, e := range log {
		if !Matches(task, e) {
			continue
		}
		rec.MatchedEntries++
		if rec.ResponsibleTeam == "" {
			rec.ResponsibleTeam = e.Crew
		}
		if rec.FieldJustification == "" {
			rec.FieldJustification = strings.TrimSpace(e.FieldReturn)
		}
		accumulate(&rec, e)
	}

	rec.CompletionPercent, rec.CompletionStatus = grade(ClassifyActivity(task.ScheduledActivity), rec)
	return rec
}

// Matches reports whether a log entry belongs to the task: same project and
// a service date on the task's day.
func Matches(task models.PlannedTask, e models.LogEntry) bool {
	if !strings.EqualFold(strings.TrimSpace(task.ProjectCode), strings.TrimSpace(e.ProjectCode)) {
		return false
	}
	d := task.Date.Time()
	if d == nil {
		return false
	}
	return DateMatches(*d, e.ServiceDate)
}

// DateMatches compares a task date with a raw log date cell. Cells that
// parse as a date must be that date; other text matches when its numeric
// tokens include the day, month and year, which tolerates the mixed date
// formats found in field logs.
func DateMatches(day time.Time, cell any) bool {
	if parsed := utils.ToDate(cell); parsed != nil {
		return parsed.Equal(utils.DateOf(day))
	}

	tokens := numericTokens(utils.TextOr(cell, ""))
	y, m, d := day.Date()
	return tokens[y] && tokens[int(m)] && tokens[d]
}

// numericTokens returns the integers found between non-digit runs, so
// "dia 8" yields 8 and "18/11" yields 18 and 11 but never 8 or 1.
func numericTokens(text string) map[int]bool {
	tokens := make(map[int]bool)
	for _, f := range strings.FieldsFunc(text, func(r rune) bool { return !unicode.IsDigit(r) }) {
		if n, err := strconv.Atoi(f); err == nil {
			tokens[n] = true
		}
	}
	return tokens
}

func accumulate(rec *models.ProductionRecord, e models.LogEntry) {
	a := utils.FoldAccents(e.Activity)
	switch {
	case utils.ContainsAny(a, "POSTE BT", "POSTE AT"):
		rec.PolesActual += e.Quantity
	case utils.ContainsAny(a, "ESCAVACAO", "CAVA") && !strings.Contains(a, "ESTAI"):
		if strings.Contains(a, "ROCHA") {
			rec.TrenchesInRockActual += e.Quantity
		} else {
			rec.TrenchesActual += e.Quantity
		}
	case strings.Contains(a, "LOCACAO"):
		rec.LayoutActual = e.Quantity
	}
}

func grade(kind ActivityType, rec models.ProductionRecord) (int, models.CompletionStatus) {
	justification := utils.FoldAccents(rec.FieldJustification)

	switch kind {
	case ActivityInstallation:
		return binary(rec.PolesActual > polesThreshold)
	case ActivityExcavation:
		return binary(rec.TrenchesActual > trenchesThreshold || rec.TrenchesInRockActual > trenchesThreshold)
	case ActivityEnergization:
		return binary(utils.ContainsAny(justification, "ENERGIZADA", "EXECUTADO"))
	case ActivityLayout:
		return binary(rec.LayoutActual > layoutThreshold)
	case ActivityLaunch:
		return binary(utils.ContainsAny(justification, "LANCAMENTO", "LANCOU"))
	}

	total := rec.TrenchesActual + rec.TrenchesInRockActual + rec.PolesActual
	pct := int(math.Min(100, math.Round(total/gradedTarget*100)))
	switch {
	case pct >= 80:
		return pct, models.CompletionCompleted
	case pct >= 50:
		return pct, models.CompletionInProgress
	case pct > 0:
		return pct, models.CompletionStarted
	}
	return 0, models.CompletionNotCompleted
}

func binary(done bool) (int, models.CompletionStatus) {
	if done {
		return 100, models.CompletionCompleted
	}
	return 0, models.CompletionNotCompleted
}
