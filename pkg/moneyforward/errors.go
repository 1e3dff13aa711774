package moneyforward

import "fmt"

// AuthError reports a failed or unverifiable login. It is fatal for the run;
// authentication is never retried.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return "moneyforward: " + e.Reason
}

// IndexError reports a structural assumption about the authenticated page
// that no longer holds while deriving the label indices. Index extraction is
// coupled to the page markup, so the error names the exact assumption that
// broke.
type IndexError struct {
	Assumption string
}

func (e *IndexError) Error() string {
	return "moneyforward: index extraction: " + e.Assumption
}

// FetchError reports a failed month-history download. A fetch either yields
// every row of the month or fails; there are no partial results.
type FetchError struct {
	Reason string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("moneyforward: fetch: %s: %v", e.Reason, e.Err)
	}
	return "moneyforward: fetch: " + e.Reason
}

func (e *FetchError) Unwrap() error { return e.Err }

// SubmitError reports an entry label that cannot be resolved through the
// session's indices. No request has been sent when it is returned.
type SubmitError struct {
	Field string
	Label string
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("moneyforward: submit: %s %q not found", e.Field, e.Label)
}
