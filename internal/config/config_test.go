package config

import (
	"os"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		HTTP:    HTTPConfig{Port: 8080},
		Catalog: CatalogConfig{Path: "data/catalog.json"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := validConfig()
		cfg.HTTP.Port = port
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected error for port %d", port)
		}
	}
}

func TestValidate_MissingCatalogPath(t *testing.T) {
	cfg := validConfig()
	cfg.Catalog.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing catalog path")
	}
}

func TestValidate_InvalidOverfetch(t *testing.T) {
	cfg := validConfig()
	cfg.Catalog.OverfetchFactor = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for overfetch factor 0")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Catalog.TopK != 3 {
		t.Errorf("expected TopK=3, got %d", cfg.Catalog.TopK)
	}
	if cfg.Catalog.OverfetchFactor != 2 {
		t.Errorf("expected OverfetchFactor=2, got %d", cfg.Catalog.OverfetchFactor)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Embedding.Provider != "openai" {
		t.Errorf("expected Provider=openai, got %q", cfg.Embedding.Provider)
	}
	if cfg.Router.TimeoutSec != 5 {
		t.Errorf("expected Router.TimeoutSec=5, got %d", cfg.Router.TimeoutSec)
	}
	if cfg.Vision.TimeoutSec != 10 {
		t.Errorf("expected Vision.TimeoutSec=10, got %d", cfg.Vision.TimeoutSec)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:    HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Catalog: CatalogConfig{TopK: 5, OverfetchFactor: 4},
		Router:  RouterConfig{TimeoutSec: 2},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Catalog.TopK != 5 {
		t.Errorf("expected TopK=5, got %d", cfg.Catalog.TopK)
	}
	if cfg.Catalog.OverfetchFactor != 4 {
		t.Errorf("expected OverfetchFactor=4, got %d", cfg.Catalog.OverfetchFactor)
	}
	if cfg.Router.TimeoutSec != 2 {
		t.Errorf("expected Router.TimeoutSec=2, got %d", cfg.Router.TimeoutSec)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("DISCOVERY_TEST_VAR", "hello")

	got := string(expandEnvVars([]byte("value: ${DISCOVERY_TEST_VAR}")))
	if got != "value: hello" {
		t.Errorf("got %q", got)
	}
}

func TestExpandEnvVars_Default(t *testing.T) {
	os.Unsetenv("DISCOVERY_UNSET_VAR")

	got := string(expandEnvVars([]byte("value: ${DISCOVERY_UNSET_VAR:-fallback}")))
	if got != "value: fallback" {
		t.Errorf("got %q", got)
	}

	t.Setenv("DISCOVERY_UNSET_VAR", "set")
	got = string(expandEnvVars([]byte("value: ${DISCOVERY_UNSET_VAR:-fallback}")))
	if got != "value: set" {
		t.Errorf("got %q", got)
	}
}

func TestMustLoad_PanicsOnMissingConfig(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for missing config file")
		}
	}()
	MustLoad("no-such-env")
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("GetEnv() = %q, want local", got)
	}

	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("GetEnv() = %q, want prod", got)
	}
}
