// Package seikyo is a client for the university co-op mypage
// (mp.seikyou.jp). It signs in with the member's credentials and downloads
// the per-month prepaid purchase and balance charge reports as CSV.
package seikyo

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/harukit/coopsync/pkg/dateutil"
	"github.com/harukit/coopsync/pkg/jptext"
)

// DefaultBaseURL is the production mypage endpoint.
const DefaultBaseURL = "https://mp.seikyou.jp/mypage-sp"

const maxBody = 4 << 20

// Kind selects which of the two per-month reports to download.
type Kind int

const (
	// KindPrepaid is the purchase history paid from the prepaid balance.
	KindPrepaid Kind = iota
	// KindCharge is the history of payments charging the balance.
	KindCharge
)

func (k Kind) String() string {
	if k == KindCharge {
		return "charge"
	}
	return "prepaid"
}

// Record is one row of a monthly report. Amount is always a positive
// magnitude; the report kind decides how it is interpreted. Menu is already
// normalized and safe to compare against ledger content.
type Record struct {
	Date   time.Time
	Amount int
	Shop   string
	Menu   string
}

// Config configures a mypage client.
type Config struct {
	LoginID  string
	Password string
	BaseURL  string        // Default: DefaultBaseURL
	Timeout  time.Duration // Default: 30 seconds
}

// Client is an authenticated mypage session. The session cookie lives in
// memory only; unlike the ledger session it is cheap to re-establish and is
// not persisted across runs.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Login authenticates against the mypage and returns a ready client.
func Login(config Config) (*Client, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("co-op login: %w", err)
	}
	c := &Client{
		httpClient: &http.Client{Jar: jar, Timeout: timeout},
		baseURL:    baseURL,
	}

	form := url.Values{}
	form.Set("loginId", config.LoginID)
	form.Set("password", config.Password)

	resp, err := c.httpClient.PostForm(baseURL+"/Auth.login.do", form)
	if err != nil {
		return nil, fmt.Errorf("co-op login: %w", err)
	}
	defer resp.Body.Close()
	if _, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody)); err != nil {
		return nil, fmt.Errorf("co-op login: %w", err)
	}

	// The portal answers a rejected login by issuing a fresh session
	// cookie on the final response; a response without Set-Cookie means
	// the credentials were accepted.
	if resp.Header.Get("Set-Cookie") != "" {
		return nil, fmt.Errorf("co-op login: credentials rejected")
	}
	return c, nil
}

// FetchMonth downloads one month's report of the given kind. The portal
// reports only month and day, so returned dates are resolved against the
// requested month's year.
func (c *Client) FetchMonth(m dateutil.Month, kind Kind) ([]Record, error) {
	endpoint := c.baseURL + "/PrepaidHistory.csvDownload.do"
	if kind == KindCharge {
		endpoint = c.baseURL + "/PaymentHistory.csvDownload.do"
	}

	form := url.Values{}
	form.Set("rirekiDate", m.FormatJP())

	resp, err := c.httpClient.PostForm(endpoint, form)
	if err != nil {
		return nil, fmt.Errorf("download %s report: %w", kind, err)
	}
	defer resp.Body.Close()

	// The portal declares the payload charset on the response; decode
	// accordingly so shop and menu text is not misread as UTF-8.
	_, params, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	body, err := jptext.DecodeCharset(resp.Body, params["charset"])
	if err != nil {
		return nil, fmt.Errorf("read %s report: %w", kind, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s report: status %d: %s", kind, resp.StatusCode, strings.TrimSpace(body))
	}
	return ParseCSV(m.Year, body, kind)
}
