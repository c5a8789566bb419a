// Package config loads and saves the toolchain's TOML-backed runtime
// settings: execution limits, debugger preferences, display
// formatting, and trace output. It mirrors the shape a bare-metal
// emulator's config layer takes, rescoped to MSC-16's 64 KiB address
// space and four registers.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents the toolchain configuration.
type Config struct {
	Execution struct {
		MaxCycles    uint64 `toml:"max_cycles"`
		DefaultEntry string `toml:"default_entry"`
		EnableTrace  bool   `toml:"enable_trace"`
		EnableStats  bool   `toml:"enable_stats"`
	} `toml:"execution"`

	Debugger struct {
		HistorySize   int  `toml:"history_size"`
		ShowSource    bool `toml:"show_source"`
		ShowRegisters bool `toml:"show_registers"`
	} `toml:"debugger"`

	Display struct {
		NumberFormat string `toml:"number_format"` // hex, dec
		BytesPerLine int    `toml:"bytes_per_line"`
	} `toml:"display"`

	Trace struct {
		OutputFile   string `toml:"output_file"`
		IncludeFlags bool   `toml:"include_flags"`
		MaxEntries   int    `toml:"max_entries"`
	} `toml:"trace"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.MaxCycles = 1_000_000
	cfg.Execution.DefaultEntry = "0x0000"
	cfg.Execution.EnableTrace = false
	cfg.Execution.EnableStats = false

	cfg.Debugger.HistorySize = 500
	cfg.Debugger.ShowSource = true
	cfg.Debugger.ShowRegisters = true

	cfg.Display.NumberFormat = "hex"
	cfg.Display.BytesPerLine = 16

	cfg.Trace.OutputFile = "trace.log"
	cfg.Trace.IncludeFlags = true
	cfg.Trace.MaxEntries = 100_000

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "msc16")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "msc16")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the given path, falling back to
// defaults if the file does not exist.
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

// SaveTo saves configuration to the given path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
