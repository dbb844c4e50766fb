package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents the emulator configuration.
type Config struct {
	// Execution settings
	Execution struct {
		ClockHz   uint64 `toml:"clock_hz"`
		MaxCycles uint64 `toml:"max_cycles"`
		FlashPath string `toml:"flash_path"`
	} `toml:"execution"`

	// Interrupt controller policy switches, both named Open Questions in
	// the design this core follows rather than guessed away.
	Interrupts struct {
		PlicClaimClearsBeforeHandler bool `toml:"plic_claim_clears_before_handler"`
		ExternalInterruptLoadsMtval  bool `toml:"external_interrupt_loads_mtval"`
	} `toml:"interrupts"`

	// Diagnostics settings
	Diagnostics struct {
		DumpDir  string `toml:"dump_dir"`
		LogLevel string `toml:"log_level"` // error, info, debug, trace
	} `toml:"diagnostics"`

	// Monitor settings
	Monitor struct {
		Enabled   bool `toml:"enabled"`
		RefreshHz int  `toml:"refresh_hz"`
	} `toml:"monitor"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.ClockHz = 10_000_000
	cfg.Execution.MaxCycles = 0 // 0 means unbounded
	cfg.Execution.FlashPath = ""

	cfg.Interrupts.PlicClaimClearsBeforeHandler = true
	cfg.Interrupts.ExternalInterruptLoadsMtval = true

	cfg.Diagnostics.DumpDir = "dumps"
	cfg.Diagnostics.LogLevel = "info"

	cfg.Monitor.Enabled = false
	cfg.Monitor.RefreshHz = 10

	return cfg
}

const appName = "rv32mcu"

// baseDir resolves the platform- and XDG-aware root directory a
// per-kind subdirectory should live under. xdgEnv/xdgDefault give the
// POSIX XDG Base Directory fallback (e.g. XDG_CONFIG_HOME / ~/.config,
// XDG_STATE_HOME / ~/.local/state); Windows has no XDG convention of its
// own and always resolves under %APPDATA%. An explicit RV32MCU_HOME
// overrides both, for callers (CI, containers) that want every artifact
// under one directory regardless of OS.
func baseDir(xdgEnv, xdgDefault string) (string, bool) {
	if dir := os.Getenv("RV32MCU_HOME"); dir != "" {
		return dir, true
	}

	if runtime.GOOS == "windows" {
		dir := os.Getenv("APPDATA")
		if dir == "" {
			dir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		return dir, true
	}

	if dir := os.Getenv(xdgEnv); dir != "" {
		return dir, true
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(home, xdgDefault), true
}

// resolveDir joins kind onto appName beneath base's XDG directory,
// creating it if needed, falling back to a bare relative name (kept in
// the current working directory) when no base directory can be
// determined or created.
func resolveDir(xdgEnv, xdgDefault, kind, fallback string) string {
	base, ok := baseDir(xdgEnv, xdgDefault)
	if !ok {
		return fallback
	}

	dir := filepath.Join(base, appName, kind)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fallback
	}
	return dir
}

// GetConfigPath returns the platform-specific config file path, honoring
// XDG_CONFIG_HOME (or RV32MCU_HOME) ahead of the bare ~/.config fallback.
func GetConfigPath() string {
	dir := resolveDir("XDG_CONFIG_HOME", ".config", "", ".")
	return filepath.Join(dir, "config.toml")
}

// GetLogPath returns the platform-specific log directory path. Logs are
// run-state, not persistent config, so this follows XDG_STATE_HOME
// rather than the XDG_DATA_HOME the teacher project used for its trace
// output.
func GetLogPath() string {
	return resolveDir("XDG_STATE_HOME", filepath.Join(".local", "state"), "logs", "logs")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file. A missing file is
// not an error: the defaults are returned as-is.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
