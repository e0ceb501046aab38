// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Replay ReplayConfig `toml:"replay"`
	Score  ScoreConfig  `toml:"score"`
	Report ReportConfig `toml:"report"`
}

// ReplayConfig maps replay-viewer settings.
type ReplayConfig struct {
	Speed    *float64 `toml:"speed"`
	FromTime *float64 `toml:"from-time"`
}

// ScoreConfig maps scoring output settings.
type ScoreConfig struct {
	Store          *bool   `toml:"store"`
	OutputDir      *string `toml:"output-dir"`
	OnlyActivities *bool   `toml:"only-activities"`
}

// ReportConfig maps report rendering settings.
type ReportConfig struct {
	PlotWidth     *int `toml:"plot-width"`
	PlotHeight    *int `toml:"plot-height"`
	MovingAverage *int `toml:"moving-average"`
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
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
