package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.AccessTokenExpiry != time.Hour {
		t.Errorf("AccessTokenExpiry = %v", cfg.AccessTokenExpiry)
	}
	if cfg.RefreshTokenExpiry != 30*24*time.Hour {
		t.Errorf("RefreshTokenExpiry = %v", cfg.RefreshTokenExpiry)
	}
	if cfg.ChatRetention != 90*24*time.Hour {
		t.Errorf("ChatRetention = %v", cfg.ChatRetention)
	}
	if cfg.CleanupMinMessages != 5 {
		t.Errorf("CleanupMinMessages = %d", cfg.CleanupMinMessages)
	}
}

func TestGetenvDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "45m")
	if got := getenvDuration("TEST_DURATION", time.Hour); got != 45*time.Minute {
		t.Errorf("duration string: %v", got)
	}

	t.Setenv("TEST_DURATION", "12")
	if got := getenvDuration("TEST_DURATION", time.Hour); got != 12*time.Hour {
		t.Errorf("bare integer treated as hours: %v", got)
	}

	t.Setenv("TEST_DURATION", "nonsense")
	if got := getenvDuration("TEST_DURATION", time.Hour); got != time.Hour {
		t.Errorf("unparseable value should fall back: %v", got)
	}
}

func TestGetenvInt(t *testing.T) {
	t.Setenv("TEST_INT", "7")
	if got := getenvInt("TEST_INT", 3); got != 7 {
		t.Errorf("getenvInt = %d", got)
	}
	t.Setenv("TEST_INT", "not-a-number")
	if got := getenvInt("TEST_INT", 3); got != 3 {
		t.Errorf("fallback = %d", got)
	}
}
