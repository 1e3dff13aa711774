package moneyforward

import (
	"encoding/csv"
	"fmt"
	"io"
	"mime"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/harukit/coopsync/pkg/dateutil"
	"github.com/harukit/coopsync/pkg/jptext"
)

// FetchMonth downloads the month's history CSV export for the named manual
// account and parses every row. Any malformed row fails the whole fetch;
// callers never see partial results.
func (s *Session) FetchMonth(account string, m dateutil.Month) ([]Transaction, error) {
	idHash, ok := s.accounts[account]
	if !ok {
		return nil, &FetchError{Reason: fmt.Sprintf("account %q not in the account index", account)}
	}

	exportURL := fmt.Sprintf("%s/cf/csv?account_id_hash=%s&year=%d&month=%d",
		s.baseURL, url.QueryEscape(idHash), m.Year, int(m.Month))

	resp, err := s.httpClient.Get(exportURL)
	if err != nil {
		return nil, &FetchError{Reason: "download history csv", Err: err}
	}
	defer resp.Body.Close()

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType != "text/csv" {
		return nil, &FetchError{Reason: fmt.Sprintf("unexpected content type %q", resp.Header.Get("Content-Type"))}
	}

	// The server declares a wrong charset on this endpoint; the payload is
	// Shift_JIS regardless of the header.
	body, err := jptext.DecodeShiftJIS(resp.Body)
	if err != nil {
		return nil, &FetchError{Reason: "decode history csv", Err: err}
	}
	return parseHistoryCSV(body)
}

// parseHistoryCSV parses the decoded export. The whole payload is kana-
// normalized first so free-text fields compare equal against card-source
// rows that went through the same pipeline.
func parseHistoryCSV(body string) ([]Transaction, error) {
	body = jptext.Normalize(body)

	r := csv.NewReader(strings.NewReader(body))
	header, err := r.Read()
	if err != nil {
		return nil, &FetchError{Reason: "history csv has no header row", Err: err}
	}
	if len(header) < 10 {
		return nil, &FetchError{Reason: fmt.Sprintf("history csv header has %d columns, want 10", len(header))}
	}

	var transactions []Transaction
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &FetchError{Reason: "history csv row broken", Err: err}
		}
		date, err := parseHistoryDate(row[1])
		if err != nil {
			return nil, &FetchError{Reason: "history csv row broken", Err: err}
		}
		amount, err := strconv.Atoi(row[3])
		if err != nil {
			return nil, &FetchError{Reason: fmt.Sprintf("history csv amount %q", row[3]), Err: err}
		}
		transactions = append(transactions, Transaction{
			Included:    row[0] == "1",
			Date:        date,
			Content:     row[2],
			Amount:      amount,
			Account:     row[4],
			Category:    row[5],
			SubCategory: row[6],
			Memo:        row[7],
			IsTransfer:  row[8] == "1",
			ID:          row[9],
		})
	}
	return transactions, nil
}

// parseHistoryDate parses the export's 2006/01/02 dates as midnight JST.
func parseHistoryDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006/01/02", s, dateutil.JST)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", s, err)
	}
	return t, nil
}
