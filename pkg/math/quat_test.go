package math

import (
	"math"
	"testing"
)

func TestQuatRotate(t *testing.T) {
	// +Z rotated a quarter turn around +Y lands on +X.
	q := QuatFromAxisAngle(Up, float32(math.Pi/2))
	got := q.Rotate(Vec3{0, 0, 1})
	want := Vec3{1, 0, 0}
	if got.Distance(want) > 1e-5 {
		t.Errorf("Rotate() = %v, want %v", got, want)
	}
}

func TestQuatZeroAngle(t *testing.T) {
	v := Vec3{1, 2, 3}
	if got := QuatFromAxisAngle(Up, 0).Rotate(v); got != v {
		t.Errorf("zero rotation changed vector: %v", got)
	}
}

func TestQuatRotateKeepsLength(t *testing.T) {
	v := Vec3{3, -1, 4}
	got := QuatFromAxisAngle(Up, 1.234).Rotate(v)
	if d := got.Length() - v.Length(); d > 1e-4 || d < -1e-4 {
		t.Errorf("length changed from %v to %v", v.Length(), got.Length())
	}
	if got.Y != v.Y {
		t.Errorf("rotation about Up changed Y: %v", got.Y)
	}
}
