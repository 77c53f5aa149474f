package handlers

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"mariua.net/obras/models"
	"mariua.net/obras/pkg/production"
	"mariua.net/obras/pkg/schedule"
	"mariua.net/obras/pkg/workbook"
	"mariua.net/obras/utils"
)

// GetDashboard summarizes the monthly schedule and today's production.
// The monthly workbook and the production log are read concurrently.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	today := utils.Today(h.now())

	var (
		orders schedule.Result
		tasks  []models.PlannedTask
		log    []models.LogEntry
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		_, res, err := h.loadOrders(ctx)
		orders = res
		return err
	})
	g.Go(func() error {
		snap, err := h.currentSchedule(ctx)
		if errors.Is(err, workbook.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		tasks = snap.TasksOn(today)
		if len(tasks) == 0 {
			return nil
		}
		log, err = h.loadLog(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.Logger.Error("Erro ao montar painel", zap.Error(err))
		h.writeError(w, h.workbookStatus(err), err.Error())
		return
	}

	engine := utils.NewAnalyticsEngine()
	byStatus := utils.GroupBy(orders.Orders,
		func(o models.WorkOrder) string { return string(o.Status) },
		func(o models.WorkOrder) float64 { return float64(o.PlannedPoles) })
	bySupervisor := utils.GroupBy(orders.Orders,
		func(o models.WorkOrder) string { return o.Supervisor },
		func(o models.WorkOrder) float64 { return float64(o.PolesInstalled) })

	var planned, installed int
	for _, o := range orders.Orders {
		planned += o.PlannedPoles
		installed += o.PolesInstalled
	}

	counts := orders.StatusCounts()
	statusTotals := make([]map[string]interface{}, 0, len(models.AllStatuses))
	for _, s := range models.AllStatuses {
		statusTotals = append(statusTotals, map[string]interface{}{"status": s, "total": counts[s]})
	}

	resp := map[string]interface{}{
		"success":           true,
		"totalObras":        len(orders.Orders),
		"ignoradas":         len(orders.Skipped),
		"porStatus":         statusTotals,
		"postesPrevistos":   planned,
		"postesImplantados": installed,
		"progressoGeral":    schedule.ProgressPercent(planned, installed),
		"producaoHoje":      summarize(production.ReconcileProduction(tasks, log, today)),
		"timestamp":         h.now().Format(time.RFC3339),
	}
	if chart, err := engine.TransformToChartData(byStatus, "doughnut", "Obras por status", false); err == nil {
		resp["graficoStatus"] = chart
	}
	if chart, err := engine.TransformToChartData(bySupervisor, "bar", "Postes implantados por supervisor", true); err == nil {
		resp["graficoSupervisor"] = chart
	}

	writeJSON(w, http.StatusOK, resp)
}
