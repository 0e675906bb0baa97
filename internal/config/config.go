// Package config loads table configuration from HCL files. A missing file
// is not an error; defaults are returned so the game runs out of the box.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete game configuration. Both blocks are
// optional in the file; omitted blocks and values fall back to defaults.
type Config struct {
	Table *TableSettings `hcl:"table,block"`
	UI    *UISettings    `hcl:"ui,block"`
}

// TableSettings contains the house rules and seating limits
type TableSettings struct {
	StartingBankroll int `hcl:"starting_bankroll,optional"`
	MaxPlayers       int `hcl:"max_players,optional"`
	MaxSplitHands    int `hcl:"max_split_hands,optional"`
}

// UISettings contains logging and display settings
type UISettings struct {
	LogLevel string `hcl:"log_level,optional"`
	LogFile  string `hcl:"log_file,optional"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Table: &TableSettings{
			StartingBankroll: 500,
			MaxPlayers:       4,
			MaxSplitHands:    4,
		},
		UI: &UISettings{
			LogLevel: "info",
			LogFile:  "blackjack.log",
		},
	}
}

// Load reads configuration from an HCL file, falling back to defaults when
// the file does not exist.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing blocks and values
	if cfg.Table == nil {
		cfg.Table = &TableSettings{}
	}
	if cfg.UI == nil {
		cfg.UI = &UISettings{}
	}
	if cfg.Table.StartingBankroll == 0 {
		cfg.Table.StartingBankroll = 500
	}
	if cfg.Table.MaxPlayers == 0 {
		cfg.Table.MaxPlayers = 4
	}
	if cfg.Table.MaxSplitHands == 0 {
		cfg.Table.MaxSplitHands = 4
	}
	if cfg.UI.LogLevel == "" {
		cfg.UI.LogLevel = "info"
	}
	if cfg.UI.LogFile == "" {
		cfg.UI.LogFile = "blackjack.log"
	}

	return &cfg, nil
}

// Validate checks the configuration for nonsensical values
func (c *Config) Validate() error {
	if c.Table.StartingBankroll < 1 {
		return fmt.Errorf("starting_bankroll must be at least 1, got %d", c.Table.StartingBankroll)
	}
	if c.Table.MaxPlayers < 1 || c.Table.MaxPlayers > 4 {
		return fmt.Errorf("max_players must be between 1 and 4, got %d", c.Table.MaxPlayers)
	}
	if c.Table.MaxSplitHands < 1 {
		return fmt.Errorf("max_split_hands must be at least 1, got %d", c.Table.MaxSplitHands)
	}
	return nil
}
