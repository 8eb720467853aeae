// Package config handles simulation configuration loading and management.
package config

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/planet-tanks/internal/ballistics"
	"github.com/Faultbox/planet-tanks/internal/game"
	"github.com/Faultbox/planet-tanks/internal/height"
	"github.com/Faultbox/planet-tanks/internal/logger"
	"github.com/Faultbox/planet-tanks/internal/terrain"
)

// ErrInvalidPlanet is returned for bad planet geometry.
var ErrInvalidPlanet = errors.New("invalid planet config")

// Config holds all settings.
type Config struct {
	Terrain    terrain.Settings  `yaml:"terrain"`
	Planet     PlanetConfig      `yaml:"planet"`
	Ballistics ballistics.Config `yaml:"ballistics"`
	Simulation game.Config       `yaml:"simulation"`
	Logging    LoggingConfig     `yaml:"logging"`
}

// PlanetConfig holds the shape and surface of the planet.
type PlanetConfig struct {
	Radius float32            `yaml:"radius"` // Side length of the root triangle
	Noise  height.NoiseConfig `yaml:"noise"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // console or json
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Options converts the section into logger options with console output.
func (l LoggingConfig) Options() logger.Options {
	opts := logger.Options{
		Level:   l.Level,
		Format:  l.Format,
		Console: true,
	}
	if l.LogFile != "" {
		opts.File = logger.FileConfig{
			Path:       l.LogFile,
			MaxSizeMB:  l.MaxSizeMB,
			MaxBackups: l.MaxBackups,
			MaxAgeDays: l.MaxAgeDays,
			Compress:   l.Compress,
		}
	}
	return opts
}

// Default returns a Config with the values the game ships with.
func Default() *Config {
	fileDefaults := logger.DefaultFileConfig("")
	return &Config{
		Terrain: terrain.DefaultSettings(),
		Planet: PlanetConfig{
			Radius: 40000,
			Noise:  height.DefaultNoiseConfig(),
		},
		Ballistics: ballistics.DefaultConfig(),
		Simulation: game.DefaultConfig(),
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			LogFile:    "",
			MaxSizeMB:  fileDefaults.MaxSizeMB,
			MaxBackups: fileDefaults.MaxBackups,
			MaxAgeDays: fileDefaults.MaxAgeDays,
			Compress:   fileDefaults.Compress,
		},
	}
}

// Validate checks every section and names the first bad one.
func (c *Config) Validate() error {
	if err := c.Terrain.Validate(); err != nil {
		return fmt.Errorf("terrain: %w", err)
	}
	if r := c.Planet.Radius; !(r > 0) || gomath.IsInf(float64(r), 0) {
		return fmt.Errorf("planet: %w: radius must be positive and finite, got %v", ErrInvalidPlanet, r)
	}
	if err := c.Ballistics.Validate(); err != nil {
		return fmt.Errorf("ballistics: %w", err)
	}
	if err := c.Simulation.Validate(); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	return nil
}
