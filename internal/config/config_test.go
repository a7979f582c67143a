package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveEnvVars(t *testing.T) {
	t.Setenv("FORM283_TEST_KEY", "secret123")

	tests := []struct {
		in   string
		want string
	}{
		{"${FORM283_TEST_KEY}", "secret123"},
		{"prefix-${FORM283_TEST_KEY}-suffix", "prefix-secret123-suffix"},
		{"no-vars", "no-vars"},
		{"${UNSET_FORM283_VAR}", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ResolveEnvVars(tt.in); got != tt.want {
			t.Errorf("ResolveEnvVars(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != "8080" {
		t.Errorf("server defaults = %+v", cfg.Server)
	}
	if cfg.Scoring.ErrorPenalty != 0.05 || cfg.Scoring.WarningPenalty != 0.02 {
		t.Errorf("scoring defaults = %+v", cfg.Scoring)
	}
	if cfg.OCR.Enabled || cfg.LLM.Enabled {
		t.Error("providers should be disabled by default")
	}
	if cfg.LLM.Temperature != 0 {
		t.Errorf("llm temperature = %v, want 0", cfg.LLM.Temperature)
	}
}

func TestManagerLoadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
server:
  host: 0.0.0.0
  port: "9090"
scoring:
  error_penalty: 0.1
  warning_penalty: 0.01
llm:
  model: gpt-4o-mini
  enabled: true
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	cfg := mgr.Get()
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != "9090" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Scoring.ErrorPenalty != 0.1 {
		t.Errorf("error penalty = %v, want 0.1", cfg.Scoring.ErrorPenalty)
	}
	if cfg.LLM.Model != "gpt-4o-mini" || !cfg.LLM.Enabled {
		t.Errorf("llm = %+v", cfg.LLM)
	}
	// Unset keys keep their defaults.
	if cfg.OCR.Model != "prebuilt-layout" {
		t.Errorf("ocr model = %q, want default", cfg.OCR.Model)
	}
}

func TestWriteDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if got := mgr.Get().OCR.Type; got != "azure-di" {
		t.Errorf("round-tripped ocr type = %q", got)
	}
}
