package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = ""
)

var rootCmd = &cobra.Command{
	Use:           "obras",
	Short:         "Work-order schedule and production API",
	Long:          `obras serves the monthly work-order schedule, the daily schedule and the production reconciliation read from Excel workbooks.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version info and exit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "Version:   %s\n", Version)
		fmt.Fprintf(cmd.OutOrStdout(), "BuildTime: %s\n", BuildTime)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd, serveCmd, normalizeCmd, reconcileCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
