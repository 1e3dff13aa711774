// Package db stores the submission audit trail in SQLite. Reconciliation
// never reads this database — the ledger's own records decide what is
// missing. The history exists so a run's writes can be inspected after the
// fact.
package db

// Schema defines the SQL statements to create database tables.
const Schema = `
-- Entries created in MoneyForward by past runs
CREATE TABLE IF NOT EXISTS submission_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    record_kind TEXT NOT NULL,         -- 'prepaid' or 'charge'
    entry_date TEXT NOT NULL,          -- YYYY-MM-DD
    amount INTEGER NOT NULL,           -- JPY (integer)
    content TEXT NOT NULL,             -- normalized menu text
    month TEXT NOT NULL,               -- YYYY-MM report month
    submitted_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_submission_history_month
    ON submission_history(month);

CREATE INDEX IF NOT EXISTS idx_submission_history_kind
    ON submission_history(record_kind);

-- Key-value metadata about sync runs
CREATE TABLE IF NOT EXISTS sync_metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// InitializeSchema initializes the database schema.
// It creates all tables if they don't exist.
func InitializeSchema(conn *Connection) error {
	if _, err := conn.Exec(Schema); err != nil {
		return err
	}
	return nil
}
