package terrain

import (
	gomath "math"
)

// GenerateMesh flattens the patch's aggregated triangles and skirts into a
// render mesh and a matching collision shape. Both are freshly allocated;
// previously returned meshes are never touched.
func (p *Patch) GenerateMesh() (*Mesh, *Collider) {
	tris := len(p.allData) + len(p.allSkirtData)

	mesh := &Mesh{
		Vertices: make([]Vertex, 0, tris*3),
		Indices:  make([]uint32, 0, tris*3),
		Bounds: Bounds{
			Min: [3]float32{gomath.MaxFloat32, gomath.MaxFloat32, gomath.MaxFloat32},
			Max: [3]float32{-gomath.MaxFloat32, -gomath.MaxFloat32, -gomath.MaxFloat32},
		},
	}
	collider := &Collider{
		Vertices: make([][3]float32, 0, tris*3),
		Indices:  make([][3]uint32, 0, tris),
	}

	emit := func(tri TriangleData) {
		base := uint32(len(mesh.Vertices))
		for i := range 3 {
			pos := tri.Verts[i].Array()
			mesh.Vertices = append(mesh.Vertices, Vertex{
				Position: pos,
				Normal:   tri.Normals[i].Array(),
				TexCoord: [2]float32{tri.UVs[i].X, tri.UVs[i].Y},
			})
			mesh.Indices = append(mesh.Indices, base+uint32(i))
			collider.Vertices = append(collider.Vertices, pos)
			updateBounds(&mesh.Bounds, pos)
		}
		collider.Indices = append(collider.Indices, [3]uint32{base, base + 1, base + 2})
	}

	for _, tri := range p.allData {
		emit(tri)
	}
	for _, tri := range p.allSkirtData {
		emit(tri)
	}
	return mesh, collider
}
