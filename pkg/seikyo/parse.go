package seikyo

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/harukit/coopsync/pkg/dateutil"
	"github.com/harukit/coopsync/pkg/jptext"
)

// Report CSV columns after the header row.
const (
	colDate = iota
	colShop
	colMenu
	colChargeAmount
	colPrepaidAmount
)

// ParseCSV parses a downloaded report. The payload starts with a one-line
// title, followed by a CSV header row and the data rows. The amount column
// differs between the two report kinds.
func ParseCSV(year int, data string, kind Kind) ([]Record, error) {
	_, body, found := strings.Cut(data, "\r\n")
	if !found {
		return nil, fmt.Errorf("parse %s report: missing title line", kind)
	}

	amountCol := colPrepaidAmount
	if kind == KindCharge {
		amountCol = colChargeAmount
	}

	r := csv.NewReader(strings.NewReader(body))
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("parse %s report header: %w", kind, err)
	}
	if len(header) <= amountCol {
		return nil, fmt.Errorf("parse %s report header: %d columns, want at least %d", kind, len(header), amountCol+1)
	}

	var records []Record
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s report row: %w", kind, err)
		}
		date, err := parseDate(year, row[colDate])
		if err != nil {
			return nil, fmt.Errorf("parse %s report: %w", kind, err)
		}
		amount, err := parseAmount(row[amountCol])
		if err != nil {
			return nil, fmt.Errorf("parse %s report: %w", kind, err)
		}
		records = append(records, Record{
			Date:   date,
			Amount: amount,
			Shop:   row[colShop],
			Menu:   jptext.Normalize(row[colMenu]),
		})
	}
	return records, nil
}

// parseDate parses the portal's date format, e.g. "7/1(金)", against the
// report's year.
func parseDate(year int, s string) (time.Time, error) {
	monthStr, rest, ok := strings.Cut(s, "/")
	if !ok {
		return time.Time{}, fmt.Errorf("date %q: missing month separator", s)
	}
	dayStr, _, ok := strings.Cut(rest, "(")
	if !ok {
		return time.Time{}, fmt.Errorf("date %q: missing weekday", s)
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", s, err)
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", s, err)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, dateutil.JST), nil
}

// parseAmount parses a report amount, which is always a bare positive
// magnitude.
func parseAmount(s string) (int, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 31)
	if err != nil {
		return 0, fmt.Errorf("amount %q: %w", s, err)
	}
	return int(n), nil
}
