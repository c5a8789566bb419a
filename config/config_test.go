package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Execution.MaxCycles != 1_000_000 {
		t.Errorf("expected MaxCycles=1000000, got %d", cfg.Execution.MaxCycles)
	}
	if cfg.Execution.DefaultEntry != "0x0000" {
		t.Errorf("expected DefaultEntry=0x0000, got %s", cfg.Execution.DefaultEntry)
	}
	if !cfg.Debugger.ShowSource {
		t.Error("expected ShowSource=true")
	}
	if cfg.Display.BytesPerLine != 16 {
		t.Errorf("expected BytesPerLine=16, got %d", cfg.Display.BytesPerLine)
	}
	if cfg.Display.NumberFormat != "hex" {
		t.Errorf("expected NumberFormat=hex, got %s", cfg.Display.NumberFormat)
	}
	if cfg.Trace.MaxEntries != 100_000 {
		t.Errorf("expected MaxEntries=100000, got %d", cfg.Trace.MaxEntries)
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()
	if path == "" {
		t.Fatal("GetConfigPath returned empty string")
	}
	if filepath.Base(path) != "config.toml" {
		t.Errorf("expected path to end in config.toml, got %s", path)
	}
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Execution.MaxCycles != DefaultConfig().Execution.MaxCycles {
		t.Error("expected defaults when config file is missing")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	cfg.Execution.MaxCycles = 42
	cfg.Display.NumberFormat = "dec"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if loaded.Execution.MaxCycles != 42 {
		t.Errorf("expected MaxCycles=42, got %d", loaded.Execution.MaxCycles)
	}
	if loaded.Display.NumberFormat != "dec" {
		t.Errorf("expected NumberFormat=dec, got %s", loaded.Display.NumberFormat)
	}
}
