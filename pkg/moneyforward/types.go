package moneyforward

import "time"

// Transaction is one row already recorded in MoneyForward. Rows are
// constructed fresh on every month fetch and discarded after the
// reconciliation pass that used them.
type Transaction struct {
	Included    bool // counted in totals by the ledger itself
	Date        time.Time
	Content     string
	Amount      int // negative when money left the account
	Account     string
	Category    string
	SubCategory string
	Memo        string
	IsTransfer  bool
	ID          string // MoneyForward's own row identifier
}

// Entry is a manual record to be created in MoneyForward. Label fields are
// resolved to internal identifiers through the session's indices at submit
// time; an Entry itself is never persisted.
type Entry struct {
	IsTransfer     bool
	IsIncome       bool
	SubAccountFrom string // transfer source; empty when not a transfer
	SubAccountTo   string // transfer destination; empty when not a transfer
	Date           time.Time
	Amount         int
	SubAccount     string
	Content        string
	LargeCategory  string
	MiddleCategory string
}

// Category is one large category with its middle categories, each mapped
// from label to internal id.
type Category struct {
	ID  string
	Sub map[string]string
}
