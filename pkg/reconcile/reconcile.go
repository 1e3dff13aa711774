// Package reconcile computes which card-source records are missing from the
// ledger for one month.
package reconcile

import (
	"github.com/harukit/coopsync/pkg/moneyforward"
	"github.com/harukit/coopsync/pkg/seikyo"
)

// Diff returns the card records that have no matching ledger transaction,
// preserving the card records' input order.
//
// Matching is greedy one-to-one: ledger rows are scanned in their given
// order, a row satisfies at most one card record per call, and ties between
// identical rows go to the first row not yet consumed. A ledger row matches
// a card record when its date, amount magnitude, and content equal the
// record's date, amount, and menu text, and its sign agrees with the record
// kind — prepaid spending is negative in the ledger, balance charges
// positive. Content and menu must have gone through the same normalization
// pipeline before this call.
//
// Diff is pure; identical inputs yield identical output on every call.
func Diff(ledger []moneyforward.Transaction, card []seikyo.Record, kind seikyo.Kind) []seikyo.Record {
	consumed := make(map[string]struct{}, len(ledger))

	var missing []seikyo.Record
cardLoop:
	for _, record := range card {
		for _, txn := range ledger {
			var magnitude int
			switch kind {
			case seikyo.KindPrepaid:
				if txn.Amount >= 0 {
					continue
				}
				magnitude = -txn.Amount
			case seikyo.KindCharge:
				if txn.Amount <= 0 {
					continue
				}
				magnitude = txn.Amount
			}
			if _, ok := consumed[txn.ID]; ok {
				continue
			}
			if txn.Date.Equal(record.Date) && magnitude == record.Amount && txn.Content == record.Menu {
				consumed[txn.ID] = struct{}{}
				continue cardLoop
			}
		}
		missing = append(missing, record)
	}
	return missing
}
