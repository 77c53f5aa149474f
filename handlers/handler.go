package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"mariua.net/obras/middleware"
	"mariua.net/obras/models"
	"mariua.net/obras/pkg/production"
	"mariua.net/obras/pkg/schedule"
	"mariua.net/obras/pkg/workbook"
)

// Files names the workbooks the API reads from its Source.
type Files struct {
	Schedule      string
	ScheduleSheet string
	DailySchedule string
	ProductionLog string
}

// Handler carries the collaborators every endpoint needs.
type Handler struct {
	DB     *gorm.DB
	Src    workbook.Source
	Editor *workbook.Editor
	Store  *schedule.Store
	Repo   *schedule.Repository
	Schema schedule.Schema
	Auth   *middleware.JWT
	Files  Files
	Logger *zap.Logger

	MaxUploadBytes int64
	Now            func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"success":   false,
		"error":     msg,
		"timestamp": h.now().Format(time.RFC3339),
	})
}

// loadOrders reads and normalizes the monthly schedule.
func (h *Handler) loadOrders(ctx context.Context) (*workbook.Table, schedule.Result, error) {
	table, err := workbook.Read(ctx, h.Src, h.Files.Schedule, h.Files.ScheduleSheet)
	if err != nil {
		return nil, schedule.Result{}, err
	}
	res, err := schedule.NormalizeSchedule(table.Rows, h.Schema, h.now(), h.Logger)
	if err != nil {
		return nil, schedule.Result{}, err
	}
	return table, res, nil
}

// loadLog reads the production log, resolving its columns from the header.
func (h *Handler) loadLog(ctx context.Context) ([]models.LogEntry, error) {
	table, err := workbook.Read(ctx, h.Src, h.Files.ProductionLog, "")
	if err != nil {
		return nil, err
	}
	cols, ok := production.ColumnsFromHeader(table.Header)
	if !ok {
		h.Logger.Warn("Cabeçalho da produção não reconhecido, usando colunas padrão",
			zap.String("arquivo", h.Src.Describe(h.Files.ProductionLog)))
	}
	return production.ParseLog(table.Rows, cols), nil
}

// currentSchedule returns the uploaded daily schedule, falling back to the
// daily schedule workbook in the source when nothing was uploaded yet.
func (h *Handler) currentSchedule(ctx context.Context) (*schedule.Snapshot, error) {
	if snap := h.Store.Current(); snap != nil {
		return snap, nil
	}

	table, err := workbook.Read(ctx, h.Src, h.Files.DailySchedule, "")
	if err != nil {
		return nil, err
	}
	tasks, skipped := schedule.ParseDailySchedule(table.Rows, schedule.DefaultDailyColumns)
	snap := h.Store.InitIfEmpty(schedule.NewSnapshot(h.Files.DailySchedule, tasks, skipped, h.now()))
	h.Logger.Info("Programação diária carregada do arquivo",
		zap.String("arquivo", h.Src.Describe(h.Files.DailySchedule)),
		zap.Int("tarefas", len(tasks)))
	return snap, nil
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"schema":    h.Schema.Version,
		"timestamp": h.now().Format(time.RFC3339),
	})
}
