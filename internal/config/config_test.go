package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(PathEnv, "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := &Config{
		Log:    LogConfig{Level: "warn", Format: "text"},
		Eval:   EvalConfig{Variable: "x"},
		Output: OutputConfig{Format: "json"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load (-want +got):\n%s", diff)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meval.yaml")
	content := `
log:
  level: debug
eval:
  variable: t
  defines:
    half: t / 2
    g: "9.81"
output:
  format: yaml
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("MEVAL_LOG_FORMAT", "json")
	t.Setenv("MEVAL_TELEMETRY_ENABLED", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := &Config{
		Log: LogConfig{Level: "debug", Format: "json"},
		Eval: EvalConfig{
			Variable: "t",
			Defines:  map[string]string{"half": "t / 2", "g": "9.81"},
		},
		Output:    OutputConfig{Format: "yaml"},
		Telemetry: TelemetryConfig{Enabled: true},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load (-want +got):\n%s", diff)
	}
}

func TestLoadPathFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meval.yaml")
	if err := os.WriteFile(path, []byte("output:\n  format: yaml\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv(PathEnv, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Output.Format != "yaml" {
		t.Errorf("expected output format yaml, got %s", cfg.Output.Format)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Setenv(PathEnv, "")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}

	for env, value := range map[string]string{
		"MEVAL_LOG_FORMAT":    "xml",
		"MEVAL_LOG_LEVEL":     "loud",
		"MEVAL_OUTPUT_FORMAT": "csv",
	} {
		t.Run(env, func(t *testing.T) {
			t.Setenv(env, value)
			if _, err := Load(""); err == nil {
				t.Errorf("expected an error with %s=%s", env, value)
			}
		})
	}
}
