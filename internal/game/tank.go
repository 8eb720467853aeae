package game

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/planet-tanks/internal/ballistics"
	"github.com/Faultbox/planet-tanks/pkg/math"
)

const (
	// DefaultPower is the power a tank spawns with.
	DefaultPower = 1000
	// MuzzleHeight is the height of the gun above the tank position.
	MuzzleHeight = 1.5
	// HullHeight is how far above the ground a tank is placed.
	HullHeight = 2.0
)

// Tank is one artillery piece. Bearing is measured from +Z towards +X.
type Tank struct {
	ID        int
	Position  math.Vec3
	Bearing   float32
	Elevation float32
	Power     float32
	Player    bool
	Solutions *ballistics.Solutions // Result of the last aim, nil before the first
	Hits      int                   // Times caught in a blast
	Shots     int
}

// NewTank creates a tank with default elevation and power.
func NewTank(id int, pos math.Vec3, player bool) *Tank {
	return &Tank{
		ID:        id,
		Position:  pos,
		Elevation: gomath.Pi / 4,
		Power:     DefaultPower,
		Player:    player,
	}
}

// FireOrigin returns the muzzle position.
func (t *Tank) FireOrigin() math.Vec3 {
	return t.Position.Add(math.Up.Scale(MuzzleHeight))
}

// AimAt turns the tank towards target and sets the elevation from the
// ballistic solution for the current power. An out-of-reach target still
// aims, using the fallback elevation.
func (t *Tank) AimAt(target math.Vec3, solver *ballistics.Solver) error {
	diff := target.Sub(t.FireOrigin())
	rangeX := diff.XZ().Length()

	sols, err := solver.Solve(rangeX, diff.Y, solver.SpeedForPower(t.Power))
	if err != nil {
		return fmt.Errorf("tank %d aim: %w", t.ID, err)
	}
	t.Bearing = float32(gomath.Atan2(float64(diff.X), float64(diff.Z)))
	t.Solutions = &sols
	t.Elevation = sols.Best().Elevation
	return nil
}

// heading returns the rotation from +Z to the tank's bearing.
func (t *Tank) heading() math.Quat {
	return math.QuatFromAxisAngle(math.Up, t.Bearing)
}

// FireDirection returns the unit launch direction.
func (t *Tank) FireDirection() math.Vec3 {
	forward := t.heading().Rotate(math.Vec3{Z: 1})
	el := float64(t.Elevation)
	return forward.Scale(float32(gomath.Cos(el))).
		Add(math.Up.Scale(float32(gomath.Sin(el)))).
		Normalize()
}

// Fire launches a shell along the fire direction at the speed for the tank's power.
func (t *Tank) Fire(solver *ballistics.Solver) *Shell {
	t.Shots++
	return &Shell{
		Owner:    t.ID,
		Position: t.FireOrigin(),
		Velocity: t.FireDirection().Scale(solver.SpeedForPower(t.Power)),
		Alive:    true,
	}
}

// Trajectory3D places a solution's 2D trajectory in the world along the tank's bearing.
func (t *Tank) Trajectory3D(sol *ballistics.Solution) []math.Vec3 {
	if sol == nil {
		return nil
	}
	rot := t.heading()
	origin := t.FireOrigin()
	out := make([]math.Vec3, len(sol.Trajectory))
	for i, p := range sol.Trajectory {
		out[i] = rot.Rotate(math.Vec3{Y: p.Y, Z: p.X}).Add(origin)
	}
	return out
}
