package handlers

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"mariua.net/obras/models"
	"mariua.net/obras/pkg/production"
	"mariua.net/obras/utils"
)

var queryDateLayouts = []string{"02-01-2006", "02/01/2006", "2006-01-02"}

// parseQueryDate reads ?data=, defaulting to today.
func (h *Handler) parseQueryDate(r *http.Request) (time.Time, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("data"))
	if raw == "" {
		return utils.Today(h.now()), true
	}
	for _, layout := range queryDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return utils.DateOf(t), true
		}
	}
	return time.Time{}, false
}

type productionSummary struct {
	Planned    int `json:"programadas"`
	Completed  int `json:"concluidas"`
	InProgress int `json:"emAndamento"`
	Started    int `json:"iniciadas"`
	NotDone    int `json:"naoConcluidas"`
	Percent    int `json:"percentual"`
}

func summarize(records []models.ProductionRecord) productionSummary {
	s := productionSummary{Planned: len(records)}
	for _, rec := range records {
		switch rec.CompletionStatus {
		case models.CompletionCompleted:
			s.Completed++
		case models.CompletionInProgress:
			s.InProgress++
		case models.CompletionStarted:
			s.Started++
		default:
			s.NotDone++
		}
	}
	if s.Planned > 0 {
		s.Percent = s.Completed * 100 / s.Planned
	}
	return s
}

// GetProductionDay reconciles the tasks planned for ?data= against the
// production log.
func (h *Handler) GetProductionDay(w http.ResponseWriter, r *http.Request) {
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
	tasks := snap.TasksOn(day)

	var log []models.LogEntry
	if len(tasks) > 0 {
		log, err = h.loadLog(r.Context())
		if err != nil {
			h.Logger.Error("Erro ao ler produção", zap.Error(err))
			h.writeError(w, h.workbookStatus(err), err.Error())
			return
		}
	}

	records := production.ReconcileProduction(tasks, log, day)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"data":      day.Format(utils.DateLayoutBR),
		"total":     len(records),
		"resumo":    summarize(records),
		"producao":  records,
		"timestamp": h.now().Format(time.RFC3339),
	})
}
