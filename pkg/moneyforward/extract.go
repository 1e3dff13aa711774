package moneyforward

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// extractCSRFToken returns the anti-forgery token from the page's meta tag.
// The same token authorizes every write for the lifetime of the session.
func extractCSRFToken(doc *goquery.Document) (string, error) {
	token, ok := doc.Find(`meta[name="csrf-token"]`).First().Attr("content")
	if !ok {
		return "", &IndexError{Assumption: "csrf-token meta tag not found"}
	}
	return token, nil
}

// extractAccounts builds the account index from the registered-accounts
// section. The account id hash is a fixed path segment of each account link
// (/accounts/show_manual/<hash>).
func extractAccounts(doc *goquery.Document) (map[string]string, error) {
	headings := doc.Find("li.account.facilities-column.border-bottom-dotted p.heading-accounts")
	if headings.Length() == 0 {
		return nil, &IndexError{Assumption: "account list headings not found"}
	}

	accounts := make(map[string]string)
	var indexErr error
	headings.EachWithBreak(func(_ int, heading *goquery.Selection) bool {
		anchor := heading.Find("a").First()
		href, ok := anchor.Attr("href")
		if !ok {
			indexErr = &IndexError{Assumption: "account heading has no link"}
			return false
		}
		segments := strings.Split(href, "/")
		if len(segments) < 4 {
			indexErr = &IndexError{Assumption: fmt.Sprintf("account link %q has no id segment", href)}
			return false
		}
		accounts[strings.TrimSpace(anchor.Text())] = segments[3]
		return true
	})
	if indexErr != nil {
		return nil, indexErr
	}
	return accounts, nil
}

// extractSubAccounts reads the manual-entry form's sub-account select
// control. The option whose value is "0" is the "none" sentinel and is
// skipped.
func extractSubAccounts(doc *goquery.Document) (map[string]string, error) {
	options := doc.Find("select#user_asset_act_sub_account_id_hash option")
	if options.Length() == 0 {
		return nil, &IndexError{Assumption: "sub-account select control not found"}
	}

	subAccounts := make(map[string]string)
	var indexErr error
	options.EachWithBreak(func(_ int, option *goquery.Selection) bool {
		id, ok := option.Attr("value")
		if !ok {
			indexErr = &IndexError{Assumption: "sub-account option has no value"}
			return false
		}
		if id == "0" {
			return true
		}
		subAccounts[strings.TrimSpace(option.Text())] = id
		return true
	})
	if indexErr != nil {
		return nil, indexErr
	}
	return subAccounts, nil
}

// extractCategories walks the category dropdown: each submenu entry is one
// large category with its middle categories nested in a sub-menu. Sub-menu
// items without the m_c_name class are the inline add-category forms and
// are skipped.
func extractCategories(doc *goquery.Document) (map[string]Category, error) {
	entries := doc.Find("li.dropdown-submenu")
	if entries.Length() == 0 {
		return nil, &IndexError{Assumption: "category dropdown not found"}
	}

	categories := make(map[string]Category)
	var indexErr error
	entries.EachWithBreak(func(_ int, entry *goquery.Selection) bool {
		large := entry.Find("a.l_c_name").First()
		if large.Length() == 0 {
			indexErr = &IndexError{Assumption: "category entry has no name link"}
			return false
		}
		id, ok := large.Attr("id")
		if !ok {
			indexErr = &IndexError{Assumption: fmt.Sprintf("category %q has no id", strings.TrimSpace(large.Text()))}
			return false
		}

		sub := make(map[string]string)
		entry.Find("ul.dropdown-menu.sub_menu li > a.m_c_name").EachWithBreak(func(_ int, middle *goquery.Selection) bool {
			middleID, ok := middle.Attr("id")
			if !ok {
				indexErr = &IndexError{Assumption: fmt.Sprintf("middle category %q has no id", strings.TrimSpace(middle.Text()))}
				return false
			}
			sub[strings.TrimSpace(middle.Text())] = middleID
			return true
		})
		if indexErr != nil {
			return false
		}

		categories[strings.TrimSpace(large.Text())] = Category{ID: id, Sub: sub}
		return true
	})
	if indexErr != nil {
		return nil, indexErr
	}
	return categories, nil
}
