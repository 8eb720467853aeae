package terrain

import (
	"fmt"
	gomath "math"
	"runtime"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/planet-tanks/internal/height"
	"github.com/Faultbox/planet-tanks/internal/logger"
	"github.com/Faultbox/planet-tanks/pkg/math"
)

// Planet is a flat planet: one equilateral root triangle force-split down to
// BaseSplitLevel. Only the resulting base patches are updated each tick.
type Planet struct {
	field    height.Field
	radius   float32
	settings Settings
	root     *Patch
	bases    []*Patch
	sink     MeshSink
	log      *zap.Logger
}

// NewPlanet builds the patch tree for a planet whose root triangle has side
// length radius. Geometry is delivered to sink, which may be nil.
func NewPlanet(field height.Field, radius float32, settings Settings, sink MeshSink) (*Planet, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if !(radius > 0) || gomath.IsInf(float64(radius), 0) {
		return nil, fmt.Errorf("%w: radius must be positive and finite, got %v", ErrInvalidSettings, radius)
	}

	a := radius
	sqrt3 := float32(gomath.Sqrt(3))
	v1 := math.Vec3{X: 0, Y: 0, Z: a / sqrt3}
	v2 := math.Vec3{X: -a / 2, Y: 0, Z: -a / (2 * sqrt3)}
	v3 := math.Vec3{X: a / 2, Y: 0, Z: -a / (2 * sqrt3)}

	// Ordered so the surface normal points up.
	root := NewPatch(field, [3]math.Vec3{v2, v1, v3}, 0, 1, childCoord("", 1))

	p := &Planet{
		field:    field,
		radius:   radius,
		settings: settings,
		root:     root,
		sink:     sink,
		log:      logger.Named("terrain"),
	}
	p.bases = forceSplit(root, BaseSplitLevel, nil)

	p.log.Info("planet created",
		zap.Float32("radius", radius),
		zap.Int("base_patches", len(p.bases)))
	return p, nil
}

// forceSplit splits unconditionally until level and collects the patches there.
func forceSplit(p *Patch, level uint8, out []*Patch) []*Patch {
	if p.level >= level {
		return append(out, p)
	}
	p.split()
	for _, child := range p.children {
		out = forceSplit(child, level, out)
	}
	return out
}

// Update re-tessellates every base patch for the probe positions and hands
// regenerated meshes to the sink. It returns the number of base patches
// whose geometry changed. Probes are snapshotted before any work starts.
func (p *Planet) Update(probes []math.Vec3) int {
	start := time.Now()
	snapshot := slices.Clone(probes)
	settings := p.settings

	type result struct {
		mesh     *Mesh
		collider *Collider
	}
	results := make([]*result, len(p.bases))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, base := range p.bases {
		g.Go(func() error {
			if base.UpdateSplit(snapshot, settings) {
				m, c := base.GenerateMesh()
				results[i] = &result{mesh: m, collider: c}
			}
			return nil
		})
	}
	_ = g.Wait()

	changed := 0
	for i, r := range results {
		if r == nil {
			continue
		}
		changed++
		if p.sink != nil {
			p.sink.Swap(i, r.mesh, r.collider)
		}
	}

	if changed > 0 {
		p.log.Debug("terrain updated",
			zap.Int("changed_patches", changed),
			zap.Int("triangles", p.TriCount()),
			zap.Int("probes", len(snapshot)),
			zap.Duration("took", time.Since(start)))
	}
	return changed
}

// TriCount returns the number of leaf triangles across all base patches.
func (p *Planet) TriCount() int {
	n := 0
	for _, base := range p.bases {
		n += base.TriCount()
	}
	return n
}

// BasePatches returns the base patches in sink index order.
func (p *Planet) BasePatches() []*Patch { return p.bases }

// Root returns the root patch.
func (p *Planet) Root() *Patch { return p.root }

// Field returns the height field the surface is projected onto.
func (p *Planet) Field() height.Field { return p.field }

// Radius returns the side length of the root triangle.
func (p *Planet) Radius() float32 { return p.radius }

// Settings returns the active level-of-detail settings.
func (p *Planet) Settings() Settings { return p.settings }

// SetSettings replaces the settings used by subsequent updates. It must not be
// called concurrently with Update.
func (p *Planet) SetSettings(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	p.settings = s
	return nil
}

// HeightAt samples the terrain height under a world position.
func (p *Planet) HeightAt(x, z float32) float32 {
	return p.field.Height(x, z)
}
