package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rules describe where reconciled card records are posted in MoneyForward.
// All fields are human-readable labels; the session resolves them to
// internal identifiers at submit time.
type Rules struct {
	// Account is the manual account holding the card balance. The same
	// label must appear in the account list and in the sub-account
	// select control.
	Account string `yaml:"account"`
	// TransferFrom is the sub-account balance charges are transferred
	// out of.
	TransferFrom string `yaml:"transfer_from"`
	// Prepaid categorizes purchase records, Charge categorizes balance
	// charge records.
	Prepaid CategoryPair `yaml:"prepaid"`
	Charge  CategoryPair `yaml:"charge"`
}

// CategoryPair names a large category and one of its middle categories.
type CategoryPair struct {
	LargeCategory  string `yaml:"large_category"`
	MiddleCategory string `yaml:"middle_category"`
}

// LoadRules reads and validates the sync rules from a YAML file.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules YAML: %w", err)
	}
	if err := rules.validate(); err != nil {
		return nil, err
	}
	return &rules, nil
}

func (r *Rules) validate() error {
	var missing []string
	if r.Account == "" {
		missing = append(missing, "account")
	}
	if r.TransferFrom == "" {
		missing = append(missing, "transfer_from")
	}
	if r.Prepaid.LargeCategory == "" {
		missing = append(missing, "prepaid.large_category")
	}
	if r.Prepaid.MiddleCategory == "" {
		missing = append(missing, "prepaid.middle_category")
	}
	if r.Charge.LargeCategory == "" {
		missing = append(missing, "charge.large_category")
	}
	if r.Charge.MiddleCategory == "" {
		missing = append(missing, "charge.middle_category")
	}

	if len(missing) > 0 {
		return fmt.Errorf("rules file missing required fields: %v", missing)
	}
	return nil
}
