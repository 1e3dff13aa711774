// Package cmd provides CLI commands for coopsync.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "coopsync",
	Short: "Copy co-op prepaid card history into MoneyForward",
	Long: `coopsync reconciles the university co-op prepaid card history
against a MoneyForward manual account and creates the records that are
missing there.

It supports:
- Resuming the MoneyForward session from a persisted cookie jar
- Syncing prepaid purchases and balance charges for the current and
  previous month
- Recording every submission in a local SQLite history
- Dry-run mode for testing

Example:
  coopsync sync
  coopsync sync --dry-run
  coopsync stats`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(statsCmd)
}

// getConfigFile returns the .env path override, if any.
func getConfigFile() string {
	return cfgFile
}

// exitOnError logs the error and exits. Never call it while a deferred
// session save is still pending; os.Exit skips defers.
func exitOnError(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		os.Exit(1)
	}
}
