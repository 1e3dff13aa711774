package cmd

import (
	"fmt"
	"log/slog"

	"github.com/harukit/coopsync/pkg/config"
	"github.com/harukit/coopsync/pkg/dateutil"
	"github.com/harukit/coopsync/pkg/db"
	"github.com/harukit/coopsync/pkg/moneyforward"
	"github.com/harukit/coopsync/pkg/reconcile"
	"github.com/harukit/coopsync/pkg/seikyo"
	"github.com/spf13/cobra"
)

var dryRun bool

// syncCmd represents the sync command.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile card history and create missing MoneyForward records",
	Long: `Reconcile the co-op card history against MoneyForward and create
the records that are missing there.

This command, for the current month and the previous month:
1. Fetches the MoneyForward history of the configured account
2. Fetches the card's prepaid purchase and balance charge reports
3. Computes which card records have no MoneyForward counterpart
4. Creates those records (purchases as plain entries, charges as
   transfers from the configured source sub-account)
5. Records every submission in the SQLite history

The MoneyForward session is persisted back to the cookie jar whether or
not the run succeeded.

Example:
  coopsync sync
  coopsync sync --dry-run`,
	Run: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&dryRun, "dry-run", false, "log entries without posting them")
}

func runSync(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")
	exitOnError(cfg.Validate(), "invalid configuration")

	rules, err := config.LoadRules(cfg.RulesPath)
	exitOnError(err, "failed to load sync rules")

	// All session work happens inside doSync so its deferred cookie-jar
	// save has run by the time we may exit.
	exitOnError(doSync(cfg, rules), "sync failed")
}

func doSync(cfg *config.Config, rules *config.Rules) error {
	conn, err := db.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer conn.Close()
	history := db.NewHistory(conn)

	slog.Info("Opening MoneyForward session", "jar", cfg.CookieJarPath)
	session, err := moneyforward.Open(moneyforward.Config{
		Email:    cfg.MoneyForward.Email,
		Password: cfg.MoneyForward.Password,
		JarPath:  cfg.CookieJarPath,
	})
	if err != nil {
		return fmt.Errorf("open MoneyForward session: %w", err)
	}
	// Persist the session exactly once, on every exit path.
	defer func() {
		if err := session.Save(); err != nil {
			slog.Error("Failed to persist session", "error", err)
		}
	}()

	slog.Info("Signing in to co-op mypage")
	card, err := seikyo.Login(seikyo.Config{
		LoginID:  cfg.Seikyo.LoginID,
		Password: cfg.Seikyo.Password,
	})
	if err != nil {
		return err
	}

	current := dateutil.CurrentMonth()
	for _, month := range []dateutil.Month{current, current.Previous()} {
		slog.Info("Processing month", "month", month.String())
		if err := syncMonth(session, card, history, rules, month); err != nil {
			return fmt.Errorf("month %s: %w", month, err)
		}
	}

	if !dryRun {
		if err := history.SetMetadata("last_synced_month", current.String()); err != nil {
			slog.Error("Failed to record run metadata", "error", err)
		}
	}
	return nil
}

// syncMonth fetches both sides for one month, reconciles each record kind
// against the ledger set, and submits whatever is missing. A submission
// failure aborts the month's remaining submissions.
func syncMonth(session *moneyforward.Session, card *seikyo.Client, history *db.History, rules *config.Rules, month dateutil.Month) error {
	ledger, err := session.FetchMonth(rules.Account, month)
	if err != nil {
		return err
	}
	prepaid, err := card.FetchMonth(month, seikyo.KindPrepaid)
	if err != nil {
		return err
	}
	charges, err := card.FetchMonth(month, seikyo.KindCharge)
	if err != nil {
		return err
	}
	slog.Info("Fetched records",
		"ledger", len(ledger),
		"prepaid", len(prepaid),
		"charges", len(charges),
	)

	sent := 0
	for _, record := range reconcile.Diff(ledger, prepaid, seikyo.KindPrepaid) {
		entry := moneyforward.Entry{
			Date:           record.Date,
			Amount:         record.Amount,
			SubAccount:     rules.Account,
			Content:        record.Menu,
			LargeCategory:  rules.Prepaid.LargeCategory,
			MiddleCategory: rules.Prepaid.MiddleCategory,
		}
		if err := submitEntry(session, history, seikyo.KindPrepaid, month, entry); err != nil {
			return err
		}
		sent++
	}
	slog.Info("Submitted prepaid records", "month", month.String(), "count", sent)

	sent = 0
	for _, record := range reconcile.Diff(ledger, charges, seikyo.KindCharge) {
		entry := moneyforward.Entry{
			IsTransfer:     true,
			SubAccountFrom: rules.TransferFrom,
			SubAccountTo:   rules.Account,
			Date:           record.Date,
			Amount:         record.Amount,
			SubAccount:     rules.Account,
			Content:        record.Menu,
			LargeCategory:  rules.Charge.LargeCategory,
			MiddleCategory: rules.Charge.MiddleCategory,
		}
		if err := submitEntry(session, history, seikyo.KindCharge, month, entry); err != nil {
			return err
		}
		sent++
	}
	slog.Info("Submitted charge records", "month", month.String(), "count", sent)

	return nil
}

func submitEntry(session *moneyforward.Session, history *db.History, kind seikyo.Kind, month dateutil.Month, entry moneyforward.Entry) error {
	if dryRun {
		slog.Info("[DRY RUN] Would submit",
			"kind", kind.String(),
			"date", entry.Date.Format("2006/01/02"),
			"amount", entry.Amount,
			"content", entry.Content,
		)
		return nil
	}

	if err := session.Submit(entry); err != nil {
		return err
	}

	// History is an audit trail, not the dedup source; a failed insert
	// must not abort the run.
	if err := history.Record(db.Submission{
		RecordKind: kind.String(),
		EntryDate:  entry.Date.Format("2006-01-02"),
		Amount:     entry.Amount,
		Content:    entry.Content,
		Month:      month.String(),
	}); err != nil {
		slog.Error("Failed to record submission history", "error", err)
	}
	return nil
}
