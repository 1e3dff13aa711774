// Package moneyforward maintains a scraped session against the MoneyForward
// web UI: it signs in through id.moneyforward.com, derives the label→id
// indices needed to create manual records, downloads per-month history CSV
// exports, and posts new records.
//
// There is no public API for manual accounts, so everything here is coupled
// to the page markup. Each extraction fails with a diagnostic naming the
// structural assumption that broke, to keep markup drift a localized
// failure.
package moneyforward

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	cookiejar "github.com/juju/persistent-cookiejar"
	"golang.org/x/net/publicsuffix"
)

const (
	// DefaultBaseURL serves the authenticated pages and the write endpoint.
	DefaultBaseURL = "https://moneyforward.com"
	// DefaultIDBaseURL is the account provider handling the login protocol.
	DefaultIDBaseURL = "https://id.moneyforward.com"

	// authenticatedMarker appears only on the signed-in top page. Its
	// presence is the sole signal that a session (restored or fresh) is
	// live.
	authenticatedMarker = "グループの追加・編集"

	maxBody = 4 << 20
)

// Config configures a Session.
type Config struct {
	Email    string
	Password string
	JarPath  string        // where the cookie jar is persisted
	BaseURL  string        // Default: DefaultBaseURL
	IDBase   string        // Default: DefaultIDBaseURL
	Timeout  time.Duration // Default: 30 seconds
}

// Session is a fully authenticated MoneyForward session. The token and the
// three indices are populated together when the session is established and
// are read-only afterwards; a Session is never partially indexed.
type Session struct {
	httpClient *http.Client
	jar        *cookiejar.Jar
	baseURL    string
	idBase     string
	email      string
	password   string

	csrfToken   string
	accounts    map[string]string   // account label → account id hash
	subAccounts map[string]string   // sub-account label → id hash
	categories  map[string]Category // large category label → ids
}

// Open restores the session persisted at the configured jar path, or
// performs a full login when the persisted cookies are missing or stale.
// The caller must call Save exactly once when all other use of the session
// is finished, whether or not the run succeeded.
func Open(config Config) (*Session, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	idBase := config.IDBase
	if idBase == "" {
		idBase = DefaultIDBaseURL
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	jar, err := cookiejar.New(&cookiejar.Options{
		PublicSuffixList: publicsuffix.List,
		Filename:         config.JarPath,
	})
	if err != nil {
		return nil, fmt.Errorf("open cookie jar %s: %w", config.JarPath, err)
	}

	s := &Session{
		httpClient: &http.Client{Jar: jar, Timeout: timeout},
		jar:        jar,
		baseURL:    baseURL,
		idBase:     idBase,
		email:      config.Email,
		password:   config.Password,
	}

	// Probe the top page first: the persisted cookies may still carry a
	// live session, in which case the probe response is authoritative and
	// no login is performed.
	resp, err := s.httpClient.Get(baseURL + "/")
	if err != nil {
		return nil, fmt.Errorf("probe top page: %w", err)
	}
	body, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("probe top page: %w", err)
	}
	if strings.Contains(body, authenticatedMarker) {
		if err := s.index(body); err != nil {
			return nil, err
		}
		return s, nil
	}

	if err := s.login(); err != nil {
		return nil, err
	}
	return s, nil
}

// Save writes the cookie jar back to disk so the next run can resume this
// session. It must run on every exit path of the caller, success or error,
// after all other session use is finished.
func (s *Session) Save() error {
	if err := s.jar.Save(); err != nil {
		return fmt.Errorf("save cookie jar: %w", err)
	}
	return nil
}

// login drives the id.moneyforward.com protocol: follow the sign-in
// redirect, identify by email with the page's anti-forgery token, then
// submit the credentials with a fresh token. Each step posts back the query
// parameters the previous redirect landed on.
func (s *Session) login() error {
	// The sign-in page redirects to the provider-specific login endpoint;
	// its query string must be preserved.
	resp, err := s.httpClient.Get(s.baseURL + "/sign_in")
	if err != nil {
		return fmt.Errorf("get sign-in page: %w", err)
	}
	signInURL := resp.Request.URL
	if _, err := readBody(resp); err != nil {
		return fmt.Errorf("get sign-in page: %w", err)
	}

	emailFormURL, err := url.Parse(s.idBase + "/sign_in/email")
	if err != nil {
		return fmt.Errorf("build email form url: %w", err)
	}
	emailFormURL.RawQuery = signInURL.RawQuery

	resp, err = s.httpClient.Get(emailFormURL.String())
	if err != nil {
		return fmt.Errorf("get email form: %w", err)
	}
	formURL := resp.Request.URL
	body, err := readBody(resp)
	if err != nil {
		return fmt.Errorf("get email form: %w", err)
	}
	token, err := pageCSRFToken(body)
	if err != nil {
		return &AuthError{Reason: "email form has no csrf token"}
	}

	form := formURL.Query()
	form.Set("authenticity_token", token)
	form.Set("_method", "post")
	form.Set("mfid_user[email]", s.email)
	form.Set("hiddenPassword", "")
	form.Set("authenticator_response", "")

	resp, err = s.httpClient.PostForm(s.idBase+"/sign_in/email", form)
	if err != nil {
		return fmt.Errorf("post email identification: %w", err)
	}
	formURL = resp.Request.URL
	body, err = readBody(resp)
	if err != nil {
		return fmt.Errorf("post email identification: %w", err)
	}
	token, err = pageCSRFToken(body)
	if err != nil {
		return &AuthError{Reason: "password form has no csrf token"}
	}

	form = formURL.Query()
	form.Set("authenticity_token", token)
	form.Set("_method", "post")
	form.Set("mfid_user[email]", s.email)
	form.Set("mfid_user[password]", s.password)

	resp, err = s.httpClient.PostForm(s.idBase+"/sign_in", form)
	if err != nil {
		return fmt.Errorf("post credentials: %w", err)
	}
	body, err = readBody(resp)
	if err != nil {
		return fmt.Errorf("post credentials: %w", err)
	}
	if !strings.Contains(body, authenticatedMarker) {
		return &AuthError{Reason: "cannot login"}
	}
	return s.index(body)
}

// index derives the token and the three label indices from the
// authenticated top page. Either every field is populated or the session is
// left untouched and the extraction error is returned.
func (s *Session) index(body string) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return &IndexError{Assumption: "top page does not parse: " + err.Error()}
	}
	token, err := extractCSRFToken(doc)
	if err != nil {
		return err
	}
	accounts, err := extractAccounts(doc)
	if err != nil {
		return err
	}
	subAccounts, err := extractSubAccounts(doc)
	if err != nil {
		return err
	}
	categories, err := extractCategories(doc)
	if err != nil {
		return err
	}

	s.csrfToken = token
	s.accounts = accounts
	s.subAccounts = subAccounts
	s.categories = categories
	return nil
}

// pageCSRFToken parses an HTML page and returns its anti-forgery meta tag.
func pageCSRFToken(body string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", &IndexError{Assumption: "page does not parse: " + err.Error()}
	}
	return extractCSRFToken(doc)
}

func readBody(resp *http.Response) (string, error) {
	defer resp.Body.Close()
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
