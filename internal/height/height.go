// Package height provides the deterministic elevation functions shared by
// terrain tessellation and gameplay.
package height

import (
	"github.com/Faultbox/planet-tanks/pkg/math"
)

// Field maps a planar (x, z) position to an elevation.
// Implementations must be pure and safe for concurrent use: the terrain
// quadtree samples them from several goroutines and relies on repeated
// queries returning identical values.
type Field interface {
	Height(x, z float32) float32
}

// Func adapts a plain function to the Field interface.
type Func func(x, z float32) float32

// Height calls f(x, z).
func (f Func) Height(x, z float32) float32 {
	return f(x, z)
}

// Flat is a constant-elevation field.
type Flat struct {
	Y float32
}

// Height returns the constant elevation.
func (f Flat) Height(_, _ float32) float32 {
	return f.Y
}

// Apply returns p with its Y component replaced by the field elevation at (p.X, p.Z).
func Apply(f Field, p math.Vec3) math.Vec3 {
	return math.Vec3{X: p.X, Y: f.Height(p.X, p.Z), Z: p.Z}
}
