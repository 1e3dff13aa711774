package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validRules = `account: 大学生協
transfer_from: 財布
prepaid:
  large_category: 食費
  middle_category: 食料品
charge:
  large_category: その他
  middle_category: 使途不明金
`

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sync-rules.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write rules fixture: %v", err)
	}
	return path
}

func TestLoadRules(t *testing.T) {
	rules, err := LoadRules(writeRules(t, validRules))
	if err != nil {
		t.Fatalf("LoadRules() error: %v", err)
	}

	if rules.Account != "大学生協" {
		t.Errorf("Account = %q, want %q", rules.Account, "大学生協")
	}
	if rules.TransferFrom != "財布" {
		t.Errorf("TransferFrom = %q, want %q", rules.TransferFrom, "財布")
	}
	if rules.Prepaid.LargeCategory != "食費" || rules.Prepaid.MiddleCategory != "食料品" {
		t.Errorf("Prepaid = %+v", rules.Prepaid)
	}
	if rules.Charge.LargeCategory != "その他" || rules.Charge.MiddleCategory != "使途不明金" {
		t.Errorf("Charge = %+v", rules.Charge)
	}
}

func TestLoadRulesMissingFields(t *testing.T) {
	partial := `account: 大学生協
prepaid:
  large_category: 食費
`
	if _, err := LoadRules(writeRules(t, partial)); err == nil {
		t.Fatal("LoadRules() succeeded, want missing-field error")
	}
}

func TestLoadRulesBadYAML(t *testing.T) {
	if _, err := LoadRules(writeRules(t, "account: [unclosed")); err == nil {
		t.Fatal("LoadRules() succeeded, want parse error")
	}
}

func TestLoadRulesMissingFile(t *testing.T) {
	if _, err := LoadRules(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("LoadRules() succeeded, want read error")
	}
}
