package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "gitscope.toml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return p
}

func TestLoad_File(t *testing.T) {
	p := writeConfig(t, `
workers = 3
verify_objects = false
max_entry_bytes = 1024
log_level = "debug"
listen_addr = "127.0.0.1:9000"
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Workers != 3 || cfg.VerifyObjects || cfg.MaxEntryBytes != 1024 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.LogLevel != "debug" || cfg.ListenAddr != "127.0.0.1:9000" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.MaxArchiveBytes != Default().MaxArchiveBytes {
		t.Fatalf("unset key should keep default, got %d", cfg.MaxArchiveBytes)
	}
	if cfg.Path() == "" {
		t.Fatalf("Path() empty after loading a file")
	}
	if opts := cfg.ParserOptions(); opts.Workers != 3 || opts.VerifyObjects {
		t.Fatalf("ParserOptions = %+v", opts)
	}
	if l := cfg.Limits(); l.MaxEntryBytes != 1024 {
		t.Fatalf("Limits = %+v", l)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	p := writeConfig(t, "workers = 3\nlisten_addr = \":1\"\n")
	t.Setenv("GITSCOPE_WORKERS", "7")
	t.Setenv("GITSCOPE_LOG_JSON", "true")

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Workers != 7 || !cfg.LogJSON || cfg.ListenAddr != ":1" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.VerifyObjects || cfg.LogLevel != "info" || cfg.Path() != "" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("explicit missing file should fail")
	}

	p := writeConfig(t, "workers = \"many\"\n")
	if _, err := Load(p); err == nil {
		t.Fatalf("bad type should fail")
	}

	p = writeConfig(t, "log_level = \"loud\"\n")
	_, err := Load(p)
	if err == nil || !strings.Contains(err.Error(), "log_level") {
		t.Fatalf("err = %v, want log_level validation error", err)
	}

	t.Setenv("GITSCOPE_WORKERS", "x")
	if _, err := Load(writeConfig(t, "")); err == nil {
		t.Fatalf("bad env value should fail")
	}
}
