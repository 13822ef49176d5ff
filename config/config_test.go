package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PAGE_DELAY_MS", "MAX_PAGES", "CSV_OUTPUT_PATH", "POSTGRES_ENABLED", "HTTP_TIMEOUT_SEC"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.PageDelay() != time.Second {
		t.Errorf("PageDelay: got %v, want 1s", cfg.PageDelay())
	}
	if cfg.MaxPages != 99 {
		t.Errorf("MaxPages: got %d, want 99", cfg.MaxPages)
	}
	if cfg.CSVOutputPath != "irkutsk_region_offices_buy.csv" {
		t.Errorf("CSVOutputPath: got %q", cfg.CSVOutputPath)
	}
	if cfg.PostgresEnabled {
		t.Error("PostgresEnabled should default to false")
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("HTTPTimeout: got %v, want 30s", cfg.HTTPTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PAGE_DELAY_MS", "0")
	t.Setenv("MAX_PAGES", "5")
	t.Setenv("POSTGRES_ENABLED", "true")
	t.Setenv("POSTGRES_DB", "offers")

	cfg := Load()
	if cfg.PageDelay() != 0 {
		t.Errorf("PageDelay: got %v, want 0", cfg.PageDelay())
	}
	if cfg.MaxPages != 5 {
		t.Errorf("MaxPages: got %d, want 5", cfg.MaxPages)
	}
	if !cfg.PostgresEnabled {
		t.Error("PostgresEnabled should be true")
	}
	if want := "host=localhost port=5432 user=scraper password=scraper123 dbname=offers sslmode=disable"; cfg.DSN() != want {
		t.Errorf("DSN: got %q, want %q", cfg.DSN(), want)
	}
}

func TestGetEnvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("MAX_PAGES", "lots")
	if got := getEnvInt("MAX_PAGES", 99); got != 99 {
		t.Errorf("getEnvInt: got %d, want fallback 99", got)
	}
}
