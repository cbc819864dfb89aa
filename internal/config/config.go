package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"messagebox-test/internal/core"
)

// Config holds persisted defaults for the common harness flags.
type Config struct {
	InstallDir string `json:"InstallDir"`
	Backend    string `json:"Backend,omitempty"`
	Geometry   string `json:"Geometry,omitempty"`
	Seed       uint64 `json:"Seed,omitempty"`
	Sound      bool   `json:"Sound,omitempty"`
	Verbose    bool   `json:"Verbose,omitempty"`
	LogFile    string `json:"LogFile,omitempty"`

	firstRun bool
	path     string
}

// Default returns a configuration rooted at the platform install directory.
func Default() *Config {
	dir := DefaultInstallDir()
	return &Config{
		InstallDir: dir,
		Backend:    "auto",
		path:       filepath.Join(dir, core.ConfigFileName),
	}
}

// Load reads the configuration at path, or config.json in the default
// install directory when path is empty. A missing file yields defaults and
// marks the configuration as a first run.
func Load(path string) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		cfg.path = ExpandPath(path)
	}

	data, err := os.ReadFile(cfg.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.firstRun = true
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		cfg.firstRun = true
		return cfg, nil
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.InstallDir = ExpandPath(cfg.InstallDir)
	if cfg.InstallDir == "" {
		cfg.InstallDir = DefaultInstallDir()
	}
	if strings.TrimSpace(cfg.Backend) == "" {
		cfg.Backend = "auto"
	}
	return cfg, nil
}

// Save writes the configuration to disk.
func (c *Config) Save() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if strings.TrimSpace(c.InstallDir) == "" {
		return errors.New("install directory is required")
	}
	c.InstallDir = ExpandPath(c.InstallDir)
	path := c.ConfigPath()
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	c.path = path
	c.firstRun = false
	return nil
}

// FirstRun indicates whether no configuration file existed when loading.
func (c *Config) FirstRun() bool {
	if c == nil {
		return true
	}
	return c.firstRun
}

// ConfigPath returns the full path to the settings file.
func (c *Config) ConfigPath() string {
	if c == nil {
		return ""
	}
	if c.path != "" {
		return c.path
	}
	return filepath.Join(c.InstallDir, core.ConfigFileName)
}

// EnsureDir creates the provided directory if necessary.
func EnsureDir(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("empty path")
	}
	return os.MkdirAll(path, 0o755)
}

// ExpandPath expands environment variables, ~ and returns an absolute path.
func ExpandPath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return ""
	}
	expanded := os.ExpandEnv(trimmed)
	if strings.HasPrefix(expanded, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			expanded = filepath.Join(home, strings.TrimPrefix(expanded, "~"))
		}
	}
	expanded = filepath.Clean(expanded)
	if filepath.IsAbs(expanded) {
		return expanded
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return expanded
	}
	return abs
}

// DefaultInstallDir returns the platform-specific configuration root.
func DefaultInstallDir() string {
	base := ""
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("LOCALAPPDATA")
		if base == "" {
			if home := os.Getenv("USERPROFILE"); home != "" {
				base = filepath.Join(home, "AppData", "Local")
			}
		}
	default:
		base = os.Getenv("XDG_CONFIG_HOME")
	}
	if base == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			base = dir
		}
	}
	if base == "" {
		if home, err := os.UserHomeDir(); err == nil {
			base = filepath.Join(home, ".config")
		}
	}
	return ExpandPath(filepath.Join(base, core.InstallDirName))
}
