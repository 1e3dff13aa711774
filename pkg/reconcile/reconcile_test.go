package reconcile

import (
	"testing"
	"time"

	"github.com/harukit/coopsync/pkg/dateutil"
	"github.com/harukit/coopsync/pkg/moneyforward"
	"github.com/harukit/coopsync/pkg/seikyo"
)

func july(day int) time.Time {
	return dateutil.Month{Year: 2022, Month: time.July}.Date(day)
}

func txn(day int, content string, amount int, id string) moneyforward.Transaction {
	return moneyforward.Transaction{
		Included: true,
		Date:     july(day),
		Content:  content,
		Amount:   amount,
		ID:       id,
	}
}

func rec(day int, menu string, amount int) seikyo.Record {
	return seikyo.Record{Date: july(day), Menu: menu, Amount: amount}
}

func sameRecords(t *testing.T, got, want []seikyo.Record) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Diff() returned %d records, want %d", len(got), len(want))
	}
	for i := range want {
		g, w := got[i], want[i]
		if !g.Date.Equal(w.Date) || g.Menu != w.Menu || g.Amount != w.Amount || g.Shop != w.Shop {
			t.Errorf("record %d = %v, want %v", i, g, w)
		}
	}
}

func TestDiffPrepaid(t *testing.T) {
	ledger := []moneyforward.Transaction{
		txn(10, "menu1", -120, "id1"),
		txn(11, "menu2", -123, "id2"),
		txn(11, "menu2", -123, "id3"),
		txn(13, "menu2", -123, "id4"),
		txn(13, "menu3", -125, "id5"),
		txn(14, "menu1", -120, "id6"),
	}

	card := []seikyo.Record{
		rec(10, "menu1", 120), // registered
		rec(11, "menu2", 123), // registered
		rec(11, "menu2", 123), // registered
		rec(11, "menu2", 123),
		rec(13, "menu2", 123), // registered
		rec(13, "menu3", 125), // registered
		rec(14, "menu2", 123),
		rec(14, "menu1", 120), // registered
		rec(14, "menu4", 129),
		rec(15, "menu4", 129),
	}

	want := []seikyo.Record{
		rec(11, "menu2", 123),
		rec(14, "menu2", 123),
		rec(14, "menu4", 129),
		rec(15, "menu4", 129),
	}

	sameRecords(t, Diff(ledger, card, seikyo.KindPrepaid), want)
}

func TestDiffCharge(t *testing.T) {
	ledger := []moneyforward.Transaction{
		txn(10, "", 1000, "id1"),
		txn(11, "", 1000, "id2"),
		txn(11, "", 1000, "id3"),
		txn(13, "", 1000, "id4"),
		txn(13, "", 1000, "id5"),
		txn(14, "", 1000, "id6"),
	}

	card := []seikyo.Record{
		rec(10, "", 1000), // registered
		rec(11, "", 1000), // registered
		rec(11, "", 1000), // registered
		rec(11, "", 1000),
		rec(13, "", 1000), // registered
		rec(13, "", 1000), // registered
		rec(14, "", 1000),
		rec(14, "", 1000), // registered
		rec(14, "", 1000),
		rec(15, "", 1000),
	}

	want := []seikyo.Record{
		rec(11, "", 1000),
		rec(14, "", 1000),
		rec(14, "", 1000),
		rec(15, "", 1000),
	}

	sameRecords(t, Diff(ledger, card, seikyo.KindCharge), want)
}

func TestDiffEmptyLedger(t *testing.T) {
	card := []seikyo.Record{rec(10, "menu1", 120)}

	sameRecords(t, Diff(nil, card, seikyo.KindPrepaid), card)
}

func TestDiffConsumesEachRowOnce(t *testing.T) {
	ledger := []moneyforward.Transaction{
		txn(11, "menu2", -123, "id2"),
		txn(11, "menu2", -123, "id3"),
	}
	card := []seikyo.Record{
		rec(11, "menu2", 123),
		rec(11, "menu2", 123),
		rec(11, "menu2", 123),
	}

	// Two ledger rows can absorb only two of the three identical card
	// records.
	sameRecords(t, Diff(ledger, card, seikyo.KindPrepaid), []seikyo.Record{rec(11, "menu2", 123)})
}

func TestDiffSignPolicy(t *testing.T) {
	t.Run("positive row ignored for prepaid", func(t *testing.T) {
		ledger := []moneyforward.Transaction{txn(10, "", 1000, "idX")}
		card := []seikyo.Record{rec(10, "", 1000)}

		sameRecords(t, Diff(ledger, card, seikyo.KindPrepaid), card)
	})

	t.Run("negative row ignored for charge", func(t *testing.T) {
		ledger := []moneyforward.Transaction{txn(10, "", -1000, "idX")}
		card := []seikyo.Record{rec(10, "", 1000)}

		sameRecords(t, Diff(ledger, card, seikyo.KindCharge), card)
	})

	t.Run("zero row never matches", func(t *testing.T) {
		ledger := []moneyforward.Transaction{txn(10, "", 0, "idX")}
		card := []seikyo.Record{rec(10, "", 0)}

		sameRecords(t, Diff(ledger, card, seikyo.KindPrepaid), card)
		sameRecords(t, Diff(ledger, card, seikyo.KindCharge), card)
	})
}

func TestDiffPreservesOrder(t *testing.T) {
	ledger := []moneyforward.Transaction{txn(12, "menu2", -200, "id1")}
	card := []seikyo.Record{
		rec(15, "menu4", 400),
		rec(11, "menu1", 100),
		rec(12, "menu2", 200), // matched
		rec(13, "menu3", 300),
	}

	want := []seikyo.Record{
		rec(15, "menu4", 400),
		rec(11, "menu1", 100),
		rec(13, "menu3", 300),
	}

	sameRecords(t, Diff(ledger, card, seikyo.KindPrepaid), want)
}

func TestDiffIdempotent(t *testing.T) {
	ledger := []moneyforward.Transaction{
		txn(11, "menu2", -123, "id2"),
		txn(11, "menu2", -123, "id3"),
	}
	card := []seikyo.Record{
		rec(11, "menu2", 123),
		rec(11, "menu2", 123),
		rec(11, "menu2", 123),
		rec(12, "menu9", 999),
	}

	first := Diff(ledger, card, seikyo.KindPrepaid)
	second := Diff(ledger, card, seikyo.KindPrepaid)
	sameRecords(t, second, first)
}
