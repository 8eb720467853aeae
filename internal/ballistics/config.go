// Package ballistics computes firing elevations that put a shell on a target
// under constant gravity, optionally with linear air drag.
package ballistics

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRange is returned for a horizontal range that is not positive and finite.
	ErrInvalidRange = errors.New("invalid range")

	// ErrInvalidSpeed is returned for a launch speed that is not positive and finite.
	ErrInvalidSpeed = errors.New("invalid speed")

	// ErrInvalidHeight is returned for a height difference that is not finite.
	ErrInvalidHeight = errors.New("invalid height difference")

	// ErrInvalidConfig is returned when a solver is built from a bad Config.
	ErrInvalidConfig = errors.New("invalid ballistics config")
)

// Config holds the physical constants of the solver.
type Config struct {
	Gravity          float32 `yaml:"gravity"`            // m/s^2
	GravityScale     float32 `yaml:"gravity_scale"`      // Multiplier applied to Gravity
	LinearDamping    float32 `yaml:"linear_damping"`     // 1/s, 0 disables drag
	TrajectoryPoints int     `yaml:"trajectory_points"`  // Samples per trajectory
	SpeedSearchSteps int     `yaml:"speed_search_steps"` // Candidate speeds in SolveMaxSpeed
	MaxIterations    int     `yaml:"max_iterations"`     // Per root-finding stage with drag
	SpeedPerPower    float32 `yaml:"speed_per_power"`    // Muzzle speed per unit of tank power
}

// DefaultConfig returns the constants used by the game.
func DefaultConfig() Config {
	return Config{
		Gravity:          9.81,
		GravityScale:     1.0,
		LinearDamping:    0,
		TrajectoryPoints: 12,
		SpeedSearchSteps: 20,
		MaxIterations:    64,
		SpeedPerPower:    0.25,
	}
}

// Validate checks that the config describes a usable solver.
func (c Config) Validate() error {
	switch {
	case !(c.Gravity > 0):
		return fmt.Errorf("%w: gravity must be positive, got %v", ErrInvalidConfig, c.Gravity)
	case !(c.GravityScale > 0):
		return fmt.Errorf("%w: gravity_scale must be positive, got %v", ErrInvalidConfig, c.GravityScale)
	case c.LinearDamping < 0:
		return fmt.Errorf("%w: linear_damping must not be negative, got %v", ErrInvalidConfig, c.LinearDamping)
	case c.TrajectoryPoints < 2:
		return fmt.Errorf("%w: trajectory_points must be at least 2, got %d", ErrInvalidConfig, c.TrajectoryPoints)
	case c.SpeedSearchSteps < 1:
		return fmt.Errorf("%w: speed_search_steps must be at least 1, got %d", ErrInvalidConfig, c.SpeedSearchSteps)
	case c.MaxIterations < 1:
		return fmt.Errorf("%w: max_iterations must be at least 1, got %d", ErrInvalidConfig, c.MaxIterations)
	case !(c.SpeedPerPower > 0):
		return fmt.Errorf("%w: speed_per_power must be positive, got %v", ErrInvalidConfig, c.SpeedPerPower)
	}
	return nil
}
