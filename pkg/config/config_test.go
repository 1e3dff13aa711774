package config

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	full := &Config{
		MoneyForward: MoneyForwardConfig{Email: "a@example.com", Password: "pw"},
		Seikyo:       SeikyoConfig{LoginID: "member", Password: "pw"},
	}
	if err := full.Validate(); err != nil {
		t.Errorf("Validate() error on complete config: %v", err)
	}

	partial := &Config{
		MoneyForward: MoneyForwardConfig{Email: "a@example.com"},
	}
	err := partial.Validate()
	if err == nil {
		t.Fatal("Validate() succeeded on partial config")
	}
	for _, name := range []string{"MF_PASSWORD", "SEIKYO_LOGIN_ID", "SEIKYO_PASSWORD"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("Validate() error %q does not name %s", err, name)
		}
	}
	if strings.Contains(err.Error(), "MF_EMAIL") {
		t.Errorf("Validate() error %q names MF_EMAIL, which is set", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, v := range []string{
		"MF_EMAIL", "MF_PASSWORD", "SEIKYO_LOGIN_ID", "SEIKYO_PASSWORD",
		"COOKIE_JAR_PATH", "SYNC_DB_PATH", "SYNC_RULES_PATH", "DEBUG",
	} {
		t.Setenv(v, "")
	}
	t.Setenv("MF_EMAIL", "a@example.com")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.MoneyForward.Email != "a@example.com" {
		t.Errorf("Email = %q", cfg.MoneyForward.Email)
	}
	if cfg.CookieJarPath != "cookies.json" {
		t.Errorf("CookieJarPath = %q, want default", cfg.CookieJarPath)
	}
	if !strings.HasSuffix(cfg.DatabasePath, "coopsync.db") {
		t.Errorf("DatabasePath = %q, want default", cfg.DatabasePath)
	}
	if !cfg.Debug {
		t.Error("Debug must be true when DEBUG=true")
	}
}
