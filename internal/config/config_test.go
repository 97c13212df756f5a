package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Rules["UNUSED"] != "warning" || cfg.Rules["UNDRIVEN"] != "warning" {
		t.Fatalf("unexpected default rules: %+v", cfg.Rules)
	}
}

func TestLoadFileAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vlog_lint.json")
	if err := os.WriteFile(path, []byte(`{"rules":{"UNUSED":"error"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Rules["UNUSED"] != "error" {
		t.Errorf("explicit rule lost: %+v", cfg.Rules)
	}
	if cfg.Rules["UNDRIVEN"] != "warning" {
		t.Errorf("missing rule not defaulted: %+v", cfg.Rules)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vlog_lint.json")
	cfg := DefaultConfig()
	cfg.Top = "soc_top"
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Top != "soc_top" {
		t.Errorf("top = %q, want soc_top", loaded.Top)
	}
}

func TestSeverityAccessors(t *testing.T) {
	cfg := &Config{Rules: map[string]string{"UNUSED": "off", "UNDRIVEN": "error"}}
	if cfg.IsRuleEnabled("UNUSED") {
		t.Error("UNUSED should be disabled")
	}
	if !cfg.IsRuleEnabled("UNDRIVEN") {
		t.Error("UNDRIVEN should be enabled")
	}
	if got := cfg.GetRuleSeverity("UNDRIVEN", "warning"); got != "error" {
		t.Errorf("severity = %q, want error", got)
	}
	if got := cfg.GetRuleSeverity("OTHER", "warning"); got != "warning" {
		t.Errorf("default severity = %q, want warning", got)
	}
}

func TestShouldIgnoreFile(t *testing.T) {
	cfg := &Config{IgnorePatterns: []string{"*_tb.v", "third_party/*"}}
	if !cfg.ShouldIgnoreFile("cpu_tb.v") {
		t.Error("testbench pattern should match")
	}
	if !cfg.ShouldIgnoreFile("third_party/uart.v") {
		t.Error("directory pattern should match")
	}
	if cfg.ShouldIgnoreFile("cpu.v") {
		t.Error("cpu.v should not match")
	}
}
