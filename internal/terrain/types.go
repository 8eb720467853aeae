package terrain

import (
	"hash/fnv"
	"math/rand/v2"

	"github.com/Faultbox/planet-tanks/pkg/math"
)

// Vertex is one mesh vertex ready for GPU upload.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Mesh is a triangle list: three unique vertices per triangle, no welding.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
}

// TriangleCount returns the number of triangles in the index buffer.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Collider is a static triangle-mesh collision shape.
type Collider struct {
	Vertices [][3]float32
	Indices  [][3]uint32
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// TriangleData is the geometry of one surface triangle.
type TriangleData struct {
	Verts      [3]math.Vec3
	Normals    [3]math.Vec3
	UVs        [3]math.Vec2
	Center     math.Vec3
	MinEdgeLen float32
	MaxEdgeLen float32
}

// newTriangleData derives normals, centroid and edge lengths from three corners.
// The UV is random per triangle and only used for cosmetic texture variation.
func newTriangleData(verts [3]math.Vec3, rng *rand.Rand) TriangleData {
	norm := verts[1].Sub(verts[0]).Cross(verts[2].Sub(verts[1])).Normalize()

	l1 := verts[0].Distance(verts[1])
	l2 := verts[2].Distance(verts[1])
	l3 := verts[0].Distance(verts[2])

	uv := math.Vec2{X: rng.Float32(), Y: rng.Float32()}

	return TriangleData{
		Verts:      verts,
		Normals:    [3]math.Vec3{norm, norm, norm},
		UVs:        [3]math.Vec2{uv, uv, uv},
		Center:     verts[0].Add(verts[1]).Add(verts[2]).Scale(1.0 / 3.0),
		MinEdgeLen: min(l1, l2, l3),
		MaxEdgeLen: max(l1, l2, l3),
	}
}

// coordRNG returns a generator seeded from the patch coordinate, so a given
// patch gets the same UVs every time it is rebuilt.
func coordRNG(coord string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(coord))
	seed := h.Sum64()
	return rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
}

func updateBounds(b *Bounds, p [3]float32) {
	for i := range 3 {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}
