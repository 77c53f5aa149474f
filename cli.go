package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"mariua.net/obras/models"
	"mariua.net/obras/pkg/production"
	"mariua.net/obras/pkg/schedule"
	"mariua.net/obras/pkg/workbook"
	"mariua.net/obras/utils"
)

var (
	sheetName  string
	schemaPath string

	schedulePath string
	logPath      string
	dateFlag     string
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <arquivo.xlsx>",
	Short: "Normalize a monthly schedule workbook and print the work orders as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runNormalize,
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile a daily schedule against a production log and print the records as JSON",
	RunE:  runReconcile,
}

func init() {
	normalizeCmd.Flags().StringVar(&sheetName, "sheet", "", "Sheet name (default: first sheet)")
	normalizeCmd.Flags().StringVar(&schemaPath, "schema", "", "YAML column override file")

	reconcileCmd.Flags().StringVar(&schedulePath, "schedule", "", "Daily schedule workbook")
	reconcileCmd.Flags().StringVar(&logPath, "log", "", "Production log workbook")
	reconcileCmd.Flags().StringVar(&dateFlag, "date", "", "Day to reconcile (DD/MM/YYYY or YYYY-MM-DD, default: all days)")
	reconcileCmd.MarkFlagRequired("schedule")
	reconcileCmd.MarkFlagRequired("log")
}

func cliLogger() *zap.Logger {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func readLocal(ctx context.Context, path, sheet string) (*workbook.Table, error) {
	src := workbook.NewLocalSource(filepath.Dir(path))
	return workbook.Read(ctx, src, filepath.Base(path), sheet)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	logger := cliLogger()
	defer logger.Sync()

	schema, err := schedule.LoadSchema(schemaPath)
	if err != nil {
		return err
	}
	table, err := readLocal(cmd.Context(), args[0], sheetName)
	if err != nil {
		return err
	}
	res, err := schedule.NormalizeSchedule(table.Rows, schema, time.Now(), logger)
	if err != nil {
		return err
	}
	return printJSON(cmd, map[string]interface{}{
		"total":     len(res.Orders),
		"obras":     res.Orders,
		"ignoradas": res.Skipped,
	})
}

func runReconcile(cmd *cobra.Command, args []string) error {
	var asOf time.Time
	if dateFlag != "" {
		d := utils.ToDate(dateFlag)
		if d == nil {
			return fmt.Errorf("invalid --date %q", dateFlag)
		}
		asOf = *d
	}

	var (
		tasks   []models.PlannedTask
		skipped []schedule.Diagnostic
		entries []models.LogEntry
	)
	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		table, err := readLocal(ctx, schedulePath, "")
		if err != nil {
			return fmt.Errorf("schedule: %w", err)
		}
		tasks, skipped = schedule.ParseDailySchedule(table.Rows, schedule.DefaultDailyColumns)
		return nil
	})
	g.Go(func() error {
		table, err := readLocal(ctx, logPath, "")
		if err != nil {
			return fmt.Errorf("production log: %w", err)
		}
		cols, _ := production.ColumnsFromHeader(table.Header)
		entries = production.ParseLog(table.Rows, cols)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	for _, d := range skipped {
		fmt.Fprintf(os.Stderr, "linha %d ignorada: %s\n", d.Line, d.Reason)
	}
	return printJSON(cmd, production.ReconcileProduction(tasks, entries, asOf))
}
