// Package game runs the tank artillery simulation on top of the terrain,
// ballistics and spatial packages.
package game

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid simulation config")

// Config holds simulation and AI tuning.
type Config struct {
	Ticks                  int     `yaml:"ticks"`                     // Ticks run by the headless runner
	TickRate               float32 `yaml:"tick_rate"`                 // Ticks per simulated second
	TankCount              int     `yaml:"tank_count"`                // Tank 0 is the player
	SpawnMaxSpread         float32 `yaml:"spawn_max_spread"`          // Max |x|, |z| of a spawn point
	SpawnMinSpread         float32 `yaml:"spawn_min_spread"`          // Min distance between tanks
	Seed                   uint64  `yaml:"seed"`                      // Spawn and AI randomness
	IndexRefreshHz         float64 `yaml:"index_refresh_hz"`          // Spatial index rebuild rate
	DamageRadius           float32 `yaml:"damage_radius"`             // Shell blast radius
	AIReloadTime           float32 `yaml:"ai_reload_time"`            // Seconds between AI shots
	AIAimInterval          float32 `yaml:"ai_aim_interval"`           // Seconds between AI aim updates
	AITargetSwitchInterval float32 `yaml:"ai_target_switch_interval"` // Seconds an AI sticks to a target
	AIJitter               float32 `yaml:"ai_jitter"`                 // Random timer spread, fraction of interval
}

// DefaultConfig returns the game's default tuning.
func DefaultConfig() Config {
	return Config{
		Ticks:                  3600,
		TickRate:               60,
		TankCount:              12,
		SpawnMaxSpread:         6000,
		SpawnMinSpread:         2000,
		Seed:                   1,
		IndexRefreshHz:         60,
		DamageRadius:           26,
		AIReloadTime:           7,
		AIAimInterval:          1,
		AITargetSwitchInterval: 15,
		AIJitter:               0.2,
	}
}

// Validate reports the first out-of-range value.
func (c Config) Validate() error {
	switch {
	case c.Ticks < 0:
		return fmt.Errorf("%w: ticks must not be negative, got %d", ErrInvalidConfig, c.Ticks)
	case !(c.TickRate > 0):
		return fmt.Errorf("%w: tick_rate must be positive, got %v", ErrInvalidConfig, c.TickRate)
	case c.TankCount < 1:
		return fmt.Errorf("%w: tank_count must be at least 1, got %d", ErrInvalidConfig, c.TankCount)
	case !(c.SpawnMaxSpread > 0):
		return fmt.Errorf("%w: spawn_max_spread must be positive, got %v", ErrInvalidConfig, c.SpawnMaxSpread)
	case c.SpawnMinSpread < 0:
		return fmt.Errorf("%w: spawn_min_spread must not be negative, got %v", ErrInvalidConfig, c.SpawnMinSpread)
	case c.DamageRadius < 0:
		return fmt.Errorf("%w: damage_radius must not be negative, got %v", ErrInvalidConfig, c.DamageRadius)
	case !(c.AIReloadTime > 0) || !(c.AIAimInterval > 0) || !(c.AITargetSwitchInterval > 0):
		return fmt.Errorf("%w: ai intervals must be positive", ErrInvalidConfig)
	case c.AIJitter < 0 || c.AIJitter >= 1:
		return fmt.Errorf("%w: ai_jitter must be in [0, 1), got %v", ErrInvalidConfig, c.AIJitter)
	}
	return nil
}

// TickDuration returns the simulated seconds per tick.
func (c Config) TickDuration() float32 {
	return 1 / c.TickRate
}
