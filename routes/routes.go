package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"mariua.net/obras/handlers"
	"mariua.net/obras/middleware"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(h *handlers.Handler, logger *zap.Logger) http.Handler {
	r := mux.NewRouter()

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/api/health", h.Health).Methods("GET")
	r.HandleFunc("/api/login", h.Login).Methods("POST")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/obras", h.GetObras).Methods("GET")
	api.HandleFunc("/obras/mapa", h.GetObrasMap).Methods("GET")
	api.HandleFunc("/obras/mapa.kml", h.ExportObrasKML).Methods("GET")
	api.HandleFunc("/obras/export", h.ExportObras).Methods("GET")
	api.HandleFunc("/debug-planilha", h.DebugPlanilha).Methods("GET")
	api.HandleFunc("/programacao-diaria", h.GetDailySchedule).Methods("GET")
	api.HandleFunc("/producao-dia", h.GetProductionDay).Methods("GET")
	api.HandleFunc("/producao-dia/export", h.ExportProduction).Methods("GET")
	api.HandleFunc("/dashboard/resumo", h.GetDashboard).Methods("GET")

	// =====================================================
	// Protected Routes (require JWT authentication)
	// =====================================================
	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(h.Auth.Middleware)
	protected.HandleFunc("/obras/{id:[0-9]+}", h.UpdateObra).Methods("PUT")
	protected.HandleFunc("/obras/upload", h.UploadSchedule).Methods("POST")
	protected.HandleFunc("/programacao-diaria/upload", h.UploadDailySchedule).Methods("POST")
	protected.HandleFunc("/programacao-diaria/salvar", h.SaveDailySchedule).Methods("POST")

	return middleware.CORS(middleware.RequestLogger(logger)(r))
}
