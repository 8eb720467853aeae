package game

import (
	gomath "math"

	"github.com/Faultbox/planet-tanks/internal/height"
	"github.com/Faultbox/planet-tanks/pkg/math"
)

// cameraPeriod scales elapsed time in the height oscillation.
const cameraPeriod = 6.0

// CameraProbe is a flying camera that follows a target and slowly moves
// between its lowest and highest altitude. It drives terrain detail like
// any other probe.
type CameraProbe struct {
	Position  math.Vec3
	Height    float32
	minHeight float32
	maxHeight float32
	elapsed   float64
}

// NewCameraProbe creates a camera oscillating between minHeight and maxHeight
// above the ground.
func NewCameraProbe(minHeight, maxHeight float32) *CameraProbe {
	return &CameraProbe{
		Height:    CameraHeight(minHeight, maxHeight, 0),
		minHeight: minHeight,
		maxHeight: maxHeight,
	}
}

// CameraHeight returns the altitude after elapsed seconds. It interpolates in
// log2 space so the camera spends comparable time near the ground and high up.
func CameraHeight(minHeight, maxHeight float32, elapsed float64) float32 {
	lo := gomath.Log2(float64(minHeight))
	hi := gomath.Log2(float64(maxHeight))
	t := (gomath.Cos(elapsed/cameraPeriod) + 1) / 2
	return float32(gomath.Exp2(hi + (lo-hi)*t))
}

// Update advances the animation and places the camera above target.
func (c *CameraProbe) Update(dt float32, target math.Vec3, field height.Field) {
	c.elapsed += float64(dt)
	c.Height = CameraHeight(c.minHeight, c.maxHeight, c.elapsed)
	ground := field.Height(target.X, target.Z)
	c.Position = math.Vec3{X: target.X, Y: ground + c.Height, Z: target.Z}
}
