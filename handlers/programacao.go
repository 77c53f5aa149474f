package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"mariua.net/obras/middleware"
	"mariua.net/obras/pkg/schedule"
)

// UploadDailySchedule parses a daily schedule workbook and installs it as
// the current snapshot. Nothing is persisted until SaveDailySchedule.
func (h *Handler) UploadDailySchedule(w http.ResponseWriter, r *http.Request) {
	_, filename, table, err := h.readUpload(w, r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tasks, skipped := schedule.ParseDailySchedule(table.Rows, schedule.DefaultDailyColumns)
	if len(tasks) == 0 {
		h.writeError(w, http.StatusUnprocessableEntity, "nenhuma tarefa encontrada na planilha")
		return
	}

	snap := schedule.NewSnapshot(filename, tasks, skipped, h.now())
	h.Store.Replace(snap)
	h.Logger.Info("Programação diária enviada",
		zap.String("arquivo", filename),
		zap.String("snapshot", snap.ID.String()),
		zap.Int("tarefas", len(tasks)),
		zap.Int("ignoradas", len(skipped)),
		zap.String("usuario", middleware.GetUserEmail(r)))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"snapshot":  snap.ID,
		"total":     len(tasks),
		"ignoradas": skipped,
		"timestamp": h.now().Format(time.RFC3339),
	})
}

// GetDailySchedule returns the current daily schedule snapshot.
func (h *Handler) GetDailySchedule(w http.ResponseWriter, r *http.Request) {
	snap, err := h.currentSchedule(r.Context())
	if err != nil {
		h.writeError(w, h.workbookStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"total":       len(snap.Tasks),
		"programacao": snap,
	})
}

// SaveDailySchedule persists the current snapshot, replacing the stored one.
func (h *Handler) SaveDailySchedule(w http.ResponseWriter, r *http.Request) {
	snap := h.Store.Current()
	if snap == nil {
		h.writeError(w, http.StatusConflict, "nenhuma programação carregada")
		return
	}

	if err := h.Repo.Save(r.Context(), snap); err != nil {
		h.Logger.Error("Erro ao salvar programação", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "erro ao salvar programação")
		return
	}
	h.Logger.Info("Programação diária salva",
		zap.String("snapshot", snap.ID.String()),
		zap.Int("tarefas", len(snap.Tasks)),
		zap.String("usuario", middleware.GetUserEmail(r)))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"snapshot": snap.ID,
		"total":    len(snap.Tasks),
	})
}
