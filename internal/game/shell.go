package game

import (
	"github.com/Faultbox/planet-tanks/internal/height"
	"github.com/Faultbox/planet-tanks/pkg/math"
)

// MaxShellAge is how long a shell may fly before it is discarded.
const MaxShellAge = 120

// Shell is a projectile in flight.
type Shell struct {
	Owner    int
	Position math.Vec3
	Velocity math.Vec3
	Age      float32
	Alive    bool
}

// Step advances the shell by dt seconds under gravity and linear damping
// using semi-implicit Euler integration.
func (s *Shell) Step(dt, gravity, damping float32) {
	accel := s.Velocity.Scale(-damping).Add(math.Vec3{Y: -gravity})
	s.Velocity = s.Velocity.Add(accel.Scale(dt))
	s.Position = s.Position.Add(s.Velocity.Scale(dt))
	s.Age += dt
}

// Impacted reports whether the shell has gone below the terrain.
func (s *Shell) Impacted(field height.Field) bool {
	return s.Position.Y <= field.Height(s.Position.X, s.Position.Z)
}

// Expired reports whether the shell has flown too long.
func (s *Shell) Expired() bool {
	return s.Age > MaxShellAge
}
