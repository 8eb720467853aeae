// Package math provides the small float32 vector and rotation types shared by
// the terrain, ballistics and gameplay packages.
package math

import "math"

// Vec2 is a point on a ballistic trajectory or the ground plane. Trajectories
// use X for horizontal distance from the muzzle and Y for height.
type Vec2 struct {
	X, Y float32
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Length returns the magnitude.
func (v Vec2) Length() float32 {
	return float32(math.Hypot(float64(v.X), float64(v.Y)))
}

// Distance returns the distance to another point.
func (v Vec2) Distance(other Vec2) float32 {
	return v.Sub(other).Length()
}
