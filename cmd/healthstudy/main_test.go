package main

import (
	"testing"

	"github.com/spf13/cobra"
)

func newFlaggedCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "flags"}
	addCommonFlags(cmd)
	return cmd
}

func TestLoadConfigAppliesFlagOverrides(t *testing.T) {
	cmd := newFlaggedCommand()
	if err := cmd.Flags().Set("delimiter", ";"); err != nil {
		t.Fatalf("set delimiter: %v", err)
	}
	if err := cmd.Flags().Set("seed", "7"); err != nil {
		t.Fatalf("set seed: %v", err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Input.Delimiter != ";" {
		t.Fatalf("expected delimiter \";\", got %q", cfg.Input.Delimiter)
	}
	if cfg.Simulation.Seed != 7 {
		t.Fatalf("expected seed 7, got %d", cfg.Simulation.Seed)
	}
}

func TestLoadConfigKeepsDefaultsWithoutFlags(t *testing.T) {
	cfg, err := loadConfig(newFlaggedCommand())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Input.Delimiter != "," {
		t.Fatalf("expected default delimiter, got %q", cfg.Input.Delimiter)
	}
}

func TestLoadConfigRejectsMultiCharDelimiter(t *testing.T) {
	cmd := newFlaggedCommand()
	if err := cmd.Flags().Set("delimiter", "::"); err != nil {
		t.Fatalf("set delimiter: %v", err)
	}
	if _, err := loadConfig(cmd); err == nil {
		t.Fatal("expected validation error for two-character delimiter")
	}
}
