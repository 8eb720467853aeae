package terrain

import (
	"math/rand/v2"

	"github.com/Faultbox/planet-tanks/internal/height"
	"github.com/Faultbox/planet-tanks/pkg/math"
)

// buildSkirts returns one triangle per edge (corner, projected midpoint, next
// corner) for every edge whose projected midpoint sits below the straight
// edge. A finer neighbor puts a vertex exactly at that projected midpoint, so
// these are the edges where a crack would open; edges bulging upward are
// covered by the neighbor and get nothing.
func buildSkirts(field height.Field, verts [3]math.Vec3, rng *rand.Rand) []TriangleData {
	var skirts []TriangleData
	for i := range 3 {
		a := verts[i]
		b := verts[(i+1)%3]
		straight := a.Midpoint(b)
		mid := height.Apply(field, straight)
		if mid.Y < straight.Y {
			skirts = append(skirts, newTriangleData([3]math.Vec3{a, mid, b}, rng))
		}
	}
	return skirts
}
