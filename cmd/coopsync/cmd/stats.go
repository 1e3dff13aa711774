package cmd

import (
	"fmt"
	"log/slog"

	"github.com/harukit/coopsync/pkg/config"
	"github.com/harukit/coopsync/pkg/db"
	"github.com/spf13/cobra"
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display submission statistics",
	Long: `Display statistics about records created in MoneyForward by past
runs.

Shows:
- Total number of submitted prepaid purchases
- Total number of submitted balance charges
- Last sync timestamp and last synced month

Example:
  coopsync stats`,
	Run: runStats,
}

func runStats(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	slog.Debug("Opening database", "path", cfg.DatabasePath)
	conn, err := db.Open(cfg.DatabasePath)
	exitOnError(err, "failed to open database")
	defer conn.Close()

	history := db.NewHistory(conn)

	stats, err := history.GetStats()
	exitOnError(err, "failed to get statistics")

	lastMonth, err := history.GetMetadata("last_synced_month")
	exitOnError(err, "failed to get metadata")

	fmt.Println("\n=== Submission Statistics ===")
	fmt.Printf("Prepaid purchases sent: %d\n", stats.TotalPrepaid)
	fmt.Printf("Balance charges sent:   %d\n", stats.TotalCharges)

	if stats.LastSync.Valid {
		fmt.Printf("Last sync:              %s\n", stats.LastSync.String)
	} else {
		fmt.Printf("Last sync:              (never)\n")
	}
	if lastMonth != "" {
		fmt.Printf("Last synced month:      %s\n", lastMonth)
	}

	fmt.Println()
}
