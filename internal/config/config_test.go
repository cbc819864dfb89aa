package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingIsFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.FirstRun() {
		t.Error("FirstRun() = false for a missing file")
	}
	if cfg.Backend != "auto" {
		t.Errorf("Backend = %q, want auto", cfg.Backend)
	}
	if cfg.ConfigPath() != path {
		t.Errorf("ConfigPath() = %q, want %q", cfg.ConfigPath(), path)
	}
}

func TestSaveThenLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.json")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	cfg.InstallDir = dir
	cfg.Backend = "terminal"
	cfg.Seed = 99
	cfg.Sound = true
	cfg.Geometry = "800x600"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if cfg.FirstRun() {
		t.Error("FirstRun() still true after Save")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.FirstRun() {
		t.Error("FirstRun() = true for an existing file")
	}
	if loaded.Backend != "terminal" || loaded.Seed != 99 || !loaded.Sound || loaded.Geometry != "800x600" {
		t.Errorf("loaded = %+v", loaded)
	}
	if loaded.InstallDir != dir {
		t.Errorf("InstallDir = %q, want %q", loaded.InstallDir, dir)
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err == nil {
		t.Fatal("Load() error = nil for malformed JSON")
	}
	if cfg == nil {
		t.Fatal("Load() should still return defaults alongside the error")
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("  \n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.FirstRun() {
		t.Error("an empty file should count as a first run")
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("MBT_TEST_DIR", "/tmp/mbt")
	if got := ExpandPath("$MBT_TEST_DIR/logs"); got != filepath.Clean("/tmp/mbt/logs") {
		t.Errorf("ExpandPath() = %q", got)
	}
	if got := ExpandPath("   "); got != "" {
		t.Errorf("ExpandPath(blank) = %q, want empty", got)
	}
	if got := ExpandPath("relative"); !filepath.IsAbs(got) {
		t.Errorf("ExpandPath(relative) = %q, want absolute", got)
	}
}

func TestSaveRequiresInstallDir(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Save(); err == nil {
		t.Error("Save() without install dir should fail")
	}
	var nilCfg *Config
	if err := nilCfg.Save(); err == nil {
		t.Error("Save() on nil config should fail")
	}
}
