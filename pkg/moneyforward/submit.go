package moneyforward

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Submit resolves the entry's labels through the session indices and
// creates one manual record. An unresolvable label fails before any request
// is sent.
//
// The write endpoint returns no structured success or failure payload, so a
// response that is not a transport or HTTP-level failure is treated as
// success.
func (s *Session) Submit(entry Entry) error {
	category, ok := s.categories[entry.LargeCategory]
	if !ok {
		return &SubmitError{Field: "large category", Label: entry.LargeCategory}
	}
	middleID, ok := category.Sub[entry.MiddleCategory]
	if !ok {
		return &SubmitError{Field: "middle category", Label: entry.MiddleCategory}
	}
	subAccountID, ok := s.subAccounts[entry.SubAccount]
	if !ok {
		return &SubmitError{Field: "sub-account", Label: entry.SubAccount}
	}

	fromID := ""
	if entry.SubAccountFrom != "" {
		if fromID, ok = s.subAccounts[entry.SubAccountFrom]; !ok {
			return &SubmitError{Field: "transfer source sub-account", Label: entry.SubAccountFrom}
		}
	}
	toID := ""
	if entry.SubAccountTo != "" {
		if toID, ok = s.subAccounts[entry.SubAccountTo]; !ok {
			return &SubmitError{Field: "transfer destination sub-account", Label: entry.SubAccountTo}
		}
	}

	form := url.Values{}
	form.Set("user_asset_act[is_transfer]", boolFlag(entry.IsTransfer))
	form.Set("user_asset_act[is_income]", boolFlag(entry.IsIncome))
	form.Set("user_asset_act[payment]", "2")
	form.Set("user_asset_act[sub_account_id_hash_from]", fromID)
	form.Set("user_asset_act[sub_account_id_hash_to]", toID)
	form.Set("user_asset_act[updated_at]", entry.Date.Format("2006/01/02"))
	form.Set("user_asset_act[recurring_limit_off_flag]", "0")
	form.Set("user_asset_act[recurring_rule_only_flag]", "0")
	form.Set("user_asset_act[amount]", strconv.Itoa(entry.Amount))
	form.Set("user_asset_act[sub_account_id_hash]", subAccountID)
	form.Set("user_asset_act[large_category_id]", category.ID)
	form.Set("user_asset_act[middle_category_id]", middleID)
	form.Set("user_asset_act[content]", entry.Content)

	req, err := http.NewRequest(http.MethodPost, s.baseURL+"/user_asset_acts", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("submit entry: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-CSRF-Token", s.csrfToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("submit entry: %w", err)
	}
	defer resp.Body.Close()
	if _, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody)); err != nil {
		return fmt.Errorf("submit entry: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("submit entry: status %d", resp.StatusCode)
	}
	return nil
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
