package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"mariua.net/obras/config"
	"mariua.net/obras/handlers"
	"mariua.net/obras/middleware"
	"mariua.net/obras/pkg/schedule"
	"mariua.net/obras/pkg/workbook"
	"mariua.net/obras/routes"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

// openSource picks GCS on Cloud Run or when USE_GCS is set, else the upload
// directory. The returned func releases the source.
func openSource(ctx context.Context, cfg config.Config, logger *zap.Logger) (workbook.Source, func(), error) {
	if cfg.UseGCS {
		if cfg.GCSBucket == "" {
			return nil, nil, errors.New("GCS_BUCKET is required when USE_GCS is enabled")
		}
		src, err := workbook.NewGCSSource(ctx, cfg.GCSBucket, cfg.GCSPrefix)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using GCS storage", zap.String("bucket", cfg.GCSBucket), zap.String("prefix", cfg.GCSPrefix))
		return src, func() { src.Close() }, nil
	}
	logger.Info("Using local storage", zap.String("dir", cfg.UploadDir))
	return workbook.NewLocalSource(cfg.UploadDir), func() {}, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load(nil)
	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.Connect(cfg, logger)
	if err != nil {
		return err
	}
	if err := config.SeedAdmin(db, cfg.AdminEmail, cfg.AdminPassword, logger); err != nil {
		logger.Warn("Admin seeding failed", zap.Error(err))
	}

	auth, err := middleware.NewJWT(cfg.JWTSecret)
	if err != nil {
		return err
	}

	schema, err := schedule.LoadSchema(cfg.ScheduleSchema)
	if err != nil {
		return err
	}
	if err := schema.Validate(); err != nil {
		return err
	}

	src, closeSrc, err := openSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSrc()

	repo := schedule.NewRepository(db)
	store := schedule.NewStore()
	if snap, err := repo.Latest(ctx); err != nil {
		logger.Warn("Não foi possível carregar a programação salva", zap.Error(err))
	} else if snap != nil {
		store.Replace(snap)
		logger.Info("Programação salva carregada",
			zap.String("snapshot", snap.ID.String()),
			zap.Int("tarefas", len(snap.Tasks)))
	}

	h := &handlers.Handler{
		DB:     db,
		Src:    src,
		Editor: workbook.NewEditor(src, logger),
		Store:  store,
		Repo:   repo,
		Schema: schema,
		Auth:   auth,
		Files: handlers.Files{
			Schedule:      cfg.ScheduleFile,
			ScheduleSheet: cfg.ScheduleSheet,
			DailySchedule: cfg.DailyScheduleFile,
			ProductionLog: cfg.ProductionLogFile,
		},
		Logger:         logger,
		MaxUploadBytes: cfg.MaxUploadMB << 20,
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.RegisterRoutes(h, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Port), zap.String("schema", schema.Version))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
