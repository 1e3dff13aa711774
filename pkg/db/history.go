package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Submission is one recorded write to MoneyForward.
type Submission struct {
	ID          int64
	RecordKind  string // "prepaid" or "charge"
	EntryDate   string // YYYY-MM-DD
	Amount      int
	Content     string
	Month       string // YYYY-MM
	SubmittedAt time.Time
}

// History manages submission-history operations.
type History struct {
	conn *Connection
}

// NewHistory creates a new History instance.
func NewHistory(conn *Connection) *History {
	return &History{conn: conn}
}

// Record appends one submission to the history.
func (h *History) Record(s Submission) error {
	query := `
		INSERT INTO submission_history (record_kind, entry_date, amount, content, month)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := h.conn.Exec(query, s.RecordKind, s.EntryDate, s.Amount, s.Content, s.Month)
	if err != nil {
		return fmt.Errorf("failed to record submission: %w", err)
	}
	return nil
}

// ByMonth retrieves every submission recorded for a report month.
func (h *History) ByMonth(month string) ([]Submission, error) {
	query := `
		SELECT id, record_kind, entry_date, amount, content, month, submitted_at
		FROM submission_history
		WHERE month = ?
		ORDER BY entry_date, id
	`

	rows, err := h.conn.Query(query, month)
	if err != nil {
		return nil, fmt.Errorf("failed to get submissions by month: %w", err)
	}
	defer rows.Close()

	var submissions []Submission
	for rows.Next() {
		var s Submission
		if err := rows.Scan(&s.ID, &s.RecordKind, &s.EntryDate, &s.Amount, &s.Content, &s.Month, &s.SubmittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		submissions = append(submissions, s)
	}
	return submissions, rows.Err()
}

// Stats represents submission statistics.
type Stats struct {
	TotalPrepaid int
	TotalCharges int
	LastSync     sql.NullString
}

// GetStats retrieves submission statistics.
func (h *History) GetStats() (*Stats, error) {
	var stats Stats

	err := h.conn.QueryRow(`SELECT COUNT(*) FROM submission_history WHERE record_kind = 'prepaid'`).Scan(&stats.TotalPrepaid)
	if err != nil {
		return nil, fmt.Errorf("failed to get prepaid count: %w", err)
	}

	err = h.conn.QueryRow(`SELECT COUNT(*) FROM submission_history WHERE record_kind = 'charge'`).Scan(&stats.TotalCharges)
	if err != nil {
		return nil, fmt.Errorf("failed to get charge count: %w", err)
	}

	err = h.conn.QueryRow(`SELECT MAX(submitted_at) FROM submission_history`).Scan(&stats.LastSync)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get last sync time: %w", err)
	}

	return &stats, nil
}

// GetMetadata retrieves a metadata value, or "" when the key is unset.
func (h *History) GetMetadata(key string) (string, error) {
	query := `SELECT value FROM sync_metadata WHERE key = ?`

	var value string
	err := h.conn.QueryRow(query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get metadata: %w", err)
	}
	return value, nil
}

// SetMetadata sets a metadata value.
func (h *History) SetMetadata(key, value string) error {
	query := `
		INSERT INTO sync_metadata (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := h.conn.Exec(query, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata: %w", err)
	}
	return nil
}
