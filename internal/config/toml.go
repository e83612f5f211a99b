// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Run      RunConfig  `toml:"run"`
	CoinToss GameConfig `toml:"cointoss"`
	Roulette GameConfig `toml:"roulette"`
}

// RunConfig maps execution settings shared by every game.
type RunConfig struct {
	Workers     *int     `toml:"workers"`
	Seed        *int64   `toml:"seed"`
	LogLevel    *string  `toml:"log-level"`
	MinSurvival *float64 `toml:"min-survival"`
}

// GameConfig maps the parameters of one game's sweep. Unset keys keep built-in defaults.
type GameConfig struct {
	StartingBalance *float64 `toml:"starting-balance"`
	FractionStart   *float64 `toml:"fraction-start"`
	FractionStop    *float64 `toml:"fraction-stop"`
	FractionCount   *int     `toml:"fraction-count"`
	BetNumber       *int     `toml:"bet-number"`
	Turns           *int     `toml:"turns"`
	Simulations     *int     `toml:"simulations"`
	RuinThreshold   *float64 `toml:"ruin-threshold"`
	HouseEdge       *float64 `toml:"house-edge"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
