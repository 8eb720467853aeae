package terrain

import "sync"

// MeshSink receives regenerated geometry for base patches. Swap is called
// from the goroutine running Planet.Update, after all regeneration for the
// tick has finished.
type MeshSink interface {
	Swap(index int, mesh *Mesh, collider *Collider)
}

// MeshStore is an in-memory MeshSink holding the current mesh of every base
// patch. It is safe for concurrent readers.
type MeshStore struct {
	mu        sync.RWMutex
	meshes    []*Mesh
	colliders []*Collider
	swaps     int
}

// NewMeshStore creates a store with room for n base patches.
func NewMeshStore(n int) *MeshStore {
	return &MeshStore{
		meshes:    make([]*Mesh, n),
		colliders: make([]*Collider, n),
	}
}

// Swap replaces the geometry for one base patch.
func (s *MeshStore) Swap(index int, mesh *Mesh, collider *Collider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index >= len(s.meshes) {
		grow := index + 1 - len(s.meshes)
		s.meshes = append(s.meshes, make([]*Mesh, grow)...)
		s.colliders = append(s.colliders, make([]*Collider, grow)...)
	}
	s.meshes[index] = mesh
	s.colliders[index] = collider
	s.swaps++
}

// Get returns the current geometry of a base patch, or nils if none was stored.
func (s *MeshStore) Get(index int) (*Mesh, *Collider) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.meshes) {
		return nil, nil
	}
	return s.meshes[index], s.colliders[index]
}

// Len returns the number of slots.
func (s *MeshStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.meshes)
}

// Swaps returns how many times geometry was replaced.
func (s *MeshStore) Swaps() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.swaps
}

// TriangleCount sums the triangles of all stored meshes, skirts included.
func (s *MeshStore) TriangleCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, m := range s.meshes {
		if m != nil {
			n += m.TriangleCount()
		}
	}
	return n
}
