// Package spatial indexes tracked positions (tanks, probes) for nearest and
// radius queries. The index is a kd-tree rebuilt at a bounded rate.
package spatial

import (
	"slices"
	"sync"
	"time"

	"github.com/kyroy/kdtree"
	"github.com/kyroy/kdtree/kdrange"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Faultbox/planet-tanks/internal/logger"
	"github.com/Faultbox/planet-tanks/pkg/math"
)

// Item is one indexed position.
type Item struct {
	ID       int
	Position math.Vec3
}

// point adapts Item to kdtree.Point.
type point struct {
	Item
}

func (p point) Dimensions() int { return 3 }

func (p point) Dimension(i int) float64 {
	switch i {
	case 0:
		return float64(p.Position.X)
	case 1:
		return float64(p.Position.Y)
	default:
		return float64(p.Position.Z)
	}
}

// Index answers proximity queries over the last synced set of items.
// Queries may run concurrently with each other and with Sync.
type Index struct {
	mu       sync.RWMutex
	tree     *kdtree.KDTree
	size     int
	limiter  *rate.Limiter
	built    bool
	rebuilds int
	log      *zap.Logger
}

// NewIndex creates an index that rebuilds at most refreshHz times per second
// of the clock passed to Sync. A non-positive rate rebuilds on every Sync.
func NewIndex(refreshHz float64) *Index {
	limit := rate.Inf
	if refreshHz > 0 {
		limit = rate.Limit(refreshHz)
	}
	return &Index{
		limiter: rate.NewLimiter(limit, 1),
		log:     logger.Named("spatial"),
	}
}

// Sync rebuilds the tree from items if the refresh interval has elapsed at
// now. The first call always rebuilds. It reports whether a rebuild happened.
func (x *Index) Sync(now time.Time, items []Item) bool {
	allowed := x.limiter.AllowN(now, 1)
	x.mu.RLock()
	built := x.built
	x.mu.RUnlock()
	if built && !allowed {
		return false
	}
	x.Rebuild(items)
	return true
}

// Rebuild replaces the indexed items unconditionally.
func (x *Index) Rebuild(items []Item) {
	pts := make([]kdtree.Point, len(items))
	for i, it := range items {
		pts[i] = point{it}
	}
	tree := kdtree.New(pts)

	x.mu.Lock()
	x.tree = tree
	x.size = len(items)
	x.built = true
	x.rebuilds++
	n := x.rebuilds
	x.mu.Unlock()

	x.log.Debug("spatial index rebuilt", zap.Int("items", len(items)), zap.Int("rebuilds", n))
}

// Len returns the number of indexed items.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.size
}

// Rebuilds returns how many times the tree was rebuilt.
func (x *Index) Rebuilds() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.rebuilds
}

// Nearest returns the item closest to p.
func (x *Index) Nearest(p math.Vec3) (Item, bool) {
	items := x.KNearest(p, 1)
	if len(items) == 0 {
		return Item{}, false
	}
	return items[0], true
}

// KNearest returns up to k items ordered by distance to p.
func (x *Index) KNearest(p math.Vec3, k int) []Item {
	if k <= 0 {
		return nil
	}
	x.mu.RLock()
	tree, size := x.tree, x.size
	x.mu.RUnlock()
	if tree == nil || size == 0 {
		return nil
	}

	found := tree.KNN(point{Item{Position: p}}, min(k, size))
	return sortByDistance(p, found)
}

// WithinRadius returns every item at most radius away from p, nearest first.
func (x *Index) WithinRadius(p math.Vec3, radius float32) []Item {
	if radius < 0 {
		return nil
	}
	x.mu.RLock()
	tree, size := x.tree, x.size
	x.mu.RUnlock()
	if tree == nil || size == 0 {
		return nil
	}

	r := float64(radius)
	box := kdrange.New(
		float64(p.X)-r, float64(p.X)+r,
		float64(p.Y)-r, float64(p.Y)+r,
		float64(p.Z)-r, float64(p.Z)+r,
	)
	candidates := tree.RangeSearch(box)

	inside := candidates[:0]
	for _, c := range candidates {
		if c.(point).Position.Distance(p) <= radius {
			inside = append(inside, c)
		}
	}
	return sortByDistance(p, inside)
}

func sortByDistance(p math.Vec3, pts []kdtree.Point) []Item {
	items := make([]Item, len(pts))
	for i, pt := range pts {
		items[i] = pt.(point).Item
	}
	slices.SortStableFunc(items, func(a, b Item) int {
		da, db := a.Position.Distance(p), b.Position.Distance(p)
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		return a.ID - b.ID
	})
	return items
}
