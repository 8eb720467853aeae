package terrain

import (
	"fmt"
	gomath "math"

	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/planet-tanks/internal/height"
	"github.com/Faultbox/planet-tanks/pkg/math"
)

// parallelDepth is how many levels below the base patches fan out into
// goroutines. Deeper subtrees are small enough that scheduling costs more
// than it saves, so they recurse on the caller's goroutine.
const parallelDepth = 3

// Patch is one node of the terrain quadtree: a triangle of the surface that is
// either a leaf or split into exactly four children.
type Patch struct {
	field  height.Field
	data   TriangleData
	skirts []TriangleData

	coord    string
	id       uint8
	level    uint8
	children []*Patch // nil for leaves, otherwise len 4

	// Aggregates over the subtree, rebuilt bottom-up when something changed.
	allData      []TriangleData
	allSkirtData []TriangleData
	maxLeafLevel uint8
	minLeafLevel uint8
	wasUpdated   bool
}

// NewPatch creates a leaf patch. The corners are projected onto the height
// field; only their X and Z are used.
func NewPatch(field height.Field, corners [3]math.Vec3, level, id uint8, coord string) *Patch {
	verts := [3]math.Vec3{
		height.Apply(field, corners[0]),
		height.Apply(field, corners[1]),
		height.Apply(field, corners[2]),
	}
	rng := coordRNG(coord)
	data := newTriangleData(verts, rng)

	return &Patch{
		field:        field,
		data:         data,
		skirts:       buildSkirts(field, verts, rng),
		coord:        coord,
		id:           id,
		level:        level,
		allData:      []TriangleData{data},
		maxLeafLevel: level,
		minLeafLevel: level,
	}
}

func childCoord(parent string, id uint8) string {
	if parent == "" {
		return fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf("%s.%d", parent, id)
}

// Level returns the depth from the root of the planet.
func (p *Patch) Level() uint8 { return p.level }

// ID returns the child index (1..4) within the parent.
func (p *Patch) ID() uint8 { return p.id }

// Coord returns the dotted path of child indices from the root, e.g. "1.3.2".
func (p *Patch) Coord() string { return p.coord }

// Data returns the patch's own triangle.
func (p *Patch) Data() TriangleData { return p.data }

// Skirts returns the skirt triangles of this patch that would hide a crack.
func (p *Patch) Skirts() []TriangleData { return p.skirts }

// Children returns the four children, or nil for a leaf.
func (p *Patch) Children() []*Patch { return p.children }

// IsSplit reports whether the patch has children.
func (p *Patch) IsSplit() bool { return p.children != nil }

// AllData returns the leaf triangles under this patch as of the last update.
func (p *Patch) AllData() []TriangleData { return p.allData }

// AllSkirtData returns the skirt triangles under this patch as of the last update.
func (p *Patch) AllSkirtData() []TriangleData { return p.allSkirtData }

// MaxLeafLevel returns the deepest leaf level in the subtree.
func (p *Patch) MaxLeafLevel() uint8 { return p.maxLeafLevel }

// MinLeafLevel returns the shallowest leaf level in the subtree.
func (p *Patch) MinLeafLevel() uint8 { return p.minLeafLevel }

// TriCount returns the number of leaf triangles represented by the patch.
func (p *Patch) TriCount() int { return len(p.allData) }

// Walk visits the subtree depth-first, parents before children.
// Returning false from fn skips the node's children.
func (p *Patch) Walk(fn func(*Patch) bool) {
	if !fn(p) {
		return
	}
	for _, child := range p.children {
		child.Walk(fn)
	}
}

// LeafCount counts the leaves of the subtree by walking it.
func (p *Patch) LeafCount() int {
	n := 0
	p.Walk(func(q *Patch) bool {
		if !q.IsSplit() {
			n++
		}
		return true
	})
	return n
}

func (p *Patch) split() {
	if p.IsSplit() {
		panic(fmt.Sprintf("terrain: split of already split patch %s", p.coord))
	}
	v1, v2, v3 := p.data.Verts[0], p.data.Verts[1], p.data.Verts[2]
	v12 := v1.Midpoint(v2)
	v23 := v2.Midpoint(v3)
	v13 := v1.Midpoint(v3)

	level := p.level + 1
	p.children = []*Patch{
		NewPatch(p.field, [3]math.Vec3{v12, v23, v13}, level, 1, childCoord(p.coord, 1)),
		NewPatch(p.field, [3]math.Vec3{v1, v12, v13}, level, 2, childCoord(p.coord, 2)),
		NewPatch(p.field, [3]math.Vec3{v12, v2, v23}, level, 3, childCoord(p.coord, 3)),
		NewPatch(p.field, [3]math.Vec3{v13, v23, v3}, level, 4, childCoord(p.coord, 4)),
	}
}

func (p *Patch) merge() {
	if !p.IsSplit() {
		panic(fmt.Sprintf("terrain: merge of leaf patch %s", p.coord))
	}
	p.children = nil
	p.maxLeafLevel = p.level
	p.minLeafLevel = p.level
}

// UpdateSplit splits and merges the subtree for the given probe positions and
// refreshes the aggregated geometry. It reports whether the patch's mesh must
// be regenerated. The probes slice is only read.
func (p *Patch) UpdateSplit(probes []math.Vec3, s Settings) bool {
	dirty := false
	if !p.IsSplit() && p.shouldSplit(probes, s) {
		p.split()
		dirty = true
	}
	if p.IsSplit() && p.shouldMerge(probes, s) {
		p.merge()
		dirty = true
	}
	if p.IsSplit() && p.updateChildren(probes, s) {
		dirty = true
	}

	if dirty || (!p.wasUpdated && p.level >= BaseSplitLevel) {
		p.aggregate(s)
		p.wasUpdated = true
		return true
	}
	return false
}

func (p *Patch) updateChildren(probes []math.Vec3, s Settings) bool {
	var changed [4]bool
	if p.level < BaseSplitLevel+parallelDepth {
		var g errgroup.Group
		for i, child := range p.children {
			g.Go(func() error {
				changed[i] = child.UpdateSplit(probes, s)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, child := range p.children {
			changed[i] = child.UpdateSplit(probes, s)
		}
	}
	return changed[0] || changed[1] || changed[2] || changed[3]
}

// aggregate rebuilds the subtree caches from the children, which must already be current.
func (p *Patch) aggregate(s Settings) {
	if !p.IsSplit() {
		p.allData = []TriangleData{p.data}
		p.maxLeafLevel = p.level
		p.minLeafLevel = p.level
		if p.level < s.MaxSplitLevel {
			p.allSkirtData = p.skirts
		} else {
			p.allSkirtData = nil
		}
		return
	}

	maxLevel, minLevel := p.children[0].maxLeafLevel, p.children[0].minLeafLevel
	total, totalSkirts := 0, 0
	for _, child := range p.children {
		maxLevel = max(maxLevel, child.maxLeafLevel)
		minLevel = min(minLevel, child.minLeafLevel)
		total += len(child.allData)
		totalSkirts += len(child.allSkirtData)
	}
	p.maxLeafLevel = maxLevel
	p.minLeafLevel = minLevel

	allData := make([]TriangleData, 0, total)
	allSkirts := make([]TriangleData, 0, totalSkirts)
	for _, child := range p.children {
		allData = append(allData, child.allData...)
		if child.IsSplit() || child.level < maxLevel || child.level == minLevel {
			allSkirts = append(allSkirts, child.allSkirtData...)
		}
	}
	p.allData = allData
	p.allSkirtData = allSkirts
}

func (p *Patch) shouldSplit(probes []math.Vec3, s Settings) bool {
	if p.level < s.MinSplitLevel {
		return true
	}
	if p.level >= s.MaxSplitLevel ||
		p.data.MinEdgeLen < s.MinTriangleEdgeSize ||
		p.data.MaxEdgeLen/p.data.MinEdgeLen > maxEdgeRatio {
		return false
	}
	return p.distanceOverSize(probes) < s.splitThreshold()
}

func (p *Patch) shouldMerge(probes []math.Vec3, s Settings) bool {
	if p.level <= BaseSplitLevel || p.level <= s.MinSplitLevel {
		return false
	}
	if p.level >= s.MaxSplitLevel {
		return true
	}
	return p.distanceOverSize(probes) > s.mergeThreshold()
}

// distanceOverSize is the distance from the nearest probe to the centroid in
// units of the shortest edge. Without probes it is +Inf.
func (p *Patch) distanceOverSize(probes []math.Vec3) float32 {
	nearest := float32(gomath.Inf(1))
	for _, probe := range probes {
		if d := probe.Distance(p.data.Center); d < nearest {
			nearest = d
		}
	}
	return nearest / p.data.MinEdgeLen
}
