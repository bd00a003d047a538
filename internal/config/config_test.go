package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIPort != "8080" {
		t.Fatalf("APIPort = %q", cfg.APIPort)
	}
	if cfg.TruncationLimit != 8000 {
		t.Fatalf("TruncationLimit = %d", cfg.TruncationLimit)
	}
	if cfg.ProviderTimeoutSeconds != 60 {
		t.Fatalf("ProviderTimeoutSeconds = %d", cfg.ProviderTimeoutSeconds)
	}
	if !cfg.PrimaryEnabled() {
		t.Fatalf("expected primary enabled with default OllamaURL")
	}
	if cfg.SecondaryEnabled() {
		t.Fatalf("expected secondary disabled without api key")
	}
}

func TestProviderDisabledSentinel(t *testing.T) {
	t.Setenv("OLLAMA_URL", ProviderDisabled)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.PrimaryEnabled() {
		t.Fatalf("expected primary disabled")
	}
}

func TestFileOverridesTakePrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docmind.yaml")
	content := []byte("api_port: \"9099\"\ntruncation_limit: 4000\npreferred_provider: secondary\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("DOCMIND_CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIPort != "9099" {
		t.Fatalf("APIPort = %q", cfg.APIPort)
	}
	if cfg.TruncationLimit != 4000 {
		t.Fatalf("TruncationLimit = %d", cfg.TruncationLimit)
	}
	if cfg.PreferredProvider != "secondary" {
		t.Fatalf("PreferredProvider = %q", cfg.PreferredProvider)
	}
	// keys absent from the file keep their env/default values
	if cfg.NATSSubject != "documents.ingest" {
		t.Fatalf("NATSSubject = %q", cfg.NATSSubject)
	}
}

func TestFileOverridesInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docmind.yaml")
	if err := os.WriteFile(path, []byte("api_port: ["), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("DOCMIND_CONFIG_FILE", path)

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid yaml")
	}
}
