package wiki

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	_ = os.Unsetenv("WIKIFETCH_TIMEOUT")
	_ = os.Unsetenv("WIKIFETCH_USER_AGENT")

	cfg, err := LoadConfig("https://en.wikipedia.org/w/api.php")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.BaseURL != "https://en.wikipedia.org/w/api.php" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.UserAgent != defaultUserAgent {
		t.Errorf("UserAgent = %q, want default", cfg.UserAgent)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	_ = os.Setenv("WIKIFETCH_TIMEOUT", "10s")
	_ = os.Setenv("WIKIFETCH_USER_AGENT", "custom-agent/2.0")
	defer func() {
		_ = os.Unsetenv("WIKIFETCH_TIMEOUT")
		_ = os.Unsetenv("WIKIFETCH_USER_AGENT")
	}()

	cfg, err := LoadConfig("example.org")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.Timeout)
	}
	if cfg.UserAgent != "custom-agent/2.0" {
		t.Errorf("UserAgent = %q, want custom-agent/2.0", cfg.UserAgent)
	}
}

func TestLoadConfigInvalidTimeoutIgnored(t *testing.T) {
	_ = os.Setenv("WIKIFETCH_TIMEOUT", "soon")
	defer func() { _ = os.Unsetenv("WIKIFETCH_TIMEOUT") }()

	cfg, err := LoadConfig("example.org")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want default 30s", cfg.Timeout)
	}
}

func TestLoadConfigRequiresBaseURL(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Error("expected error for empty base URL")
	}
}
