package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Logger.Level != "info" {
		t.Errorf("expected Logger.Level=info, got %s", cfg.Logger.Level)
	}
	if cfg.Logger.ServiceName != "vectordesk" {
		t.Errorf("expected Logger.ServiceName=vectordesk, got %s", cfg.Logger.ServiceName)
	}
	if cfg.Tracer.AppEnv != "development" {
		t.Errorf("expected Tracer.AppEnv=development, got %s", cfg.Tracer.AppEnv)
	}
	if cfg.Tracer.EnableExport {
		t.Error("expected Tracer.EnableExport=false")
	}
	if cfg.Copy.BatchSize != 100 {
		t.Errorf("expected Copy.BatchSize=100, got %d", cfg.Copy.BatchSize)
	}
	if cfg.Profile.Path != "" {
		t.Errorf("expected empty Profile.Path, got %s", cfg.Profile.Path)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "vectordesk.yaml")

	content := `
logger:
  level: debug
profile:
  path: /var/lib/vectordesk/profiles.db
copy:
  batch_size: 250
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Logger.Level != "debug" {
		t.Errorf("expected Logger.Level=debug, got %s", cfg.Logger.Level)
	}
	if cfg.Profile.Path != "/var/lib/vectordesk/profiles.db" {
		t.Errorf("expected overridden Profile.Path, got %s", cfg.Profile.Path)
	}
	if cfg.Copy.BatchSize != 250 {
		t.Errorf("expected Copy.BatchSize=250, got %d", cfg.Copy.BatchSize)
	}
	// Keys the file does not name keep their defaults.
	if cfg.Logger.ServiceName != "vectordesk" {
		t.Errorf("expected default Logger.ServiceName, got %s", cfg.Logger.ServiceName)
	}
	if cfg.Tracer.AppEnv != "development" {
		t.Errorf("expected default Tracer.AppEnv, got %s", cfg.Tracer.AppEnv)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "vectordesk.yaml")

	if err := os.WriteFile(configPath, []byte("logger: [broken"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected an error for malformed yaml")
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "vectordesk.yaml")

	content := `
copy:
  batch_size: 50
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Copy.BatchSize != 50 {
		t.Errorf("expected Copy.BatchSize=50, got %d", cfg.Copy.BatchSize)
	}
}

func TestLoadFromDir_NestedFallback(t *testing.T) {
	tmpDir := t.TempDir()
	nested := filepath.Join(tmpDir, ".vectordesk")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	content := `
logger:
  level: error
`
	if err := os.WriteFile(filepath.Join(nested, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Logger.Level != "error" {
		t.Errorf("expected Logger.Level=error, got %s", cfg.Logger.Level)
	}
}

func TestLoadFromDir_Empty(t *testing.T) {
	cfg, err := LoadFromDir(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Copy.BatchSize != 100 {
		t.Errorf("expected default Copy.BatchSize, got %d", cfg.Copy.BatchSize)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "vectordesk.yaml")

	cfg := DefaultConfig()
	cfg.Logger.Level = "debug"
	cfg.Copy.BatchSize = 32
	if err := cfg.Save(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Logger.Level != "debug" {
		t.Errorf("expected Logger.Level=debug, got %s", loaded.Logger.Level)
	}
	if loaded.Copy.BatchSize != 32 {
		t.Errorf("expected Copy.BatchSize=32, got %d", loaded.Copy.BatchSize)
	}
}

func TestProfileDBPath(t *testing.T) {
	path := ProfileDBPath("/home/user/.vectordesk")
	expected := filepath.Join("/home/user/.vectordesk", "profiles.db")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}
}
