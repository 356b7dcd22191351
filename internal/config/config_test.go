package config

import (
	"strings"
	"testing"
)

func TestValidate_InvalidBudgetAction(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Driver: DriverBadger},
		Generation: GenerationConfig{
			APIKey: "test-key",
			Budget: BudgetConfig{
				DailyTokenLimit: 1000000,
				Action:          "invalid_action",
			},
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid budget action")
	}

	expected := `generation.budget.action must be "warn" or "reject", got "invalid_action"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_ValidBudgetActions(t *testing.T) {
	validActions := []string{"", "warn", "reject"}

	for _, action := range validActions {
		t.Run("action="+action, func(t *testing.T) {
			cfg := Config{
				HTTP:       HTTPConfig{Port: 8080},
				Database:   DatabaseConfig{Driver: DriverBadger},
				Generation: GenerationConfig{Budget: BudgetConfig{Action: action}},
			}

			if err := cfg.Validate(); err != nil {
				t.Fatalf("unexpected error for valid action %q: %v", action, err)
			}
		})
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 0},
		Database: DatabaseConfig{Driver: DriverBadger},
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingValkeyAddrs(t *testing.T) {
	for _, driver := range []string{DriverValkey, DriverRedis} {
		cfg := Config{
			HTTP:     HTTPConfig{Port: 8080},
			Database: DatabaseConfig{Driver: driver},
		}
		if err := cfg.Validate(); err == nil {
			t.Fatalf("expected error for missing %s addrs", driver)
		}
	}
}

func TestValidate_BadgerNeedsNoAddrs(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Driver: DriverBadger},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Driver: "postgres"},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestValidate_EmptyAPIKey(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Driver: DriverBadger},
		Auth:     AuthConfig{APIKeys: []string{"key1", ""}},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty api key")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 30 {
		t.Errorf("expected WriteTimeoutSec=30, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.Driver != DriverBadger {
		t.Errorf("expected Driver=badger, got %q", cfg.Database.Driver)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Catalog.Path != "data/laptops.json" {
		t.Errorf("expected catalog path default, got %q", cfg.Catalog.Path)
	}
	if cfg.Generation.Model != "gpt-4o-mini" {
		t.Errorf("expected Model=gpt-4o-mini, got %q", cfg.Generation.Model)
	}
	if cfg.Generation.Breaker.MaxFailures != 5 {
		t.Errorf("expected MaxFailures=5, got %d", cfg.Generation.Breaker.MaxFailures)
	}
	if cfg.Storage.SessionTTLSec != 30*24*3600 {
		t.Errorf("expected 30 day session TTL, got %d", cfg.Storage.SessionTTLSec)
	}
	if cfg.Generation.Enabled() {
		t.Error("generation must be disabled without an api key")
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:       HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Database:   DatabaseConfig{Driver: DriverValkey, ReadinessTimeout: 15},
		Generation: GenerationConfig{Model: "llama-3", Voice: "nova"},
		Storage:    StorageConfig{SessionTTLSec: 60},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Database.Driver != DriverValkey {
		t.Errorf("expected Driver=valkey, got %q", cfg.Database.Driver)
	}
	if cfg.Generation.Model != "llama-3" || cfg.Generation.Voice != "nova" {
		t.Errorf("generation overridden: %+v", cfg.Generation)
	}
	if cfg.Storage.SessionTTLSec != 60 {
		t.Errorf("storage overridden: %+v", cfg.Storage)
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("LAPTOPMATCH_TEST_KEY", "sk-test")

	cfg, err := Parse([]byte(`
http:
  port: ${LAPTOPMATCH_TEST_PORT:-9090}
generation:
  api_key: ${LAPTOPMATCH_TEST_KEY}
auth:
  api_keys: []
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected default port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.Generation.APIKey != "sk-test" || !cfg.Generation.Enabled() {
		t.Errorf("api key not expanded: %q", cfg.Generation.APIKey)
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("http: [unclosed"))
	if err == nil || !strings.Contains(err.Error(), "failed to parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}
