package game

import (
	"context"
	"fmt"
	gomath "math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/planet-tanks/internal/ballistics"
	"github.com/Faultbox/planet-tanks/internal/height"
	"github.com/Faultbox/planet-tanks/internal/logger"
	"github.com/Faultbox/planet-tanks/internal/spatial"
	"github.com/Faultbox/planet-tanks/internal/terrain"
	"github.com/Faultbox/planet-tanks/pkg/math"
)

// maxSpawnAttempts bounds the search for a spawn point far enough from the others.
const maxSpawnAttempts = 1000

// TickStats summarises one tick.
type TickStats struct {
	Tick           int
	Probes         int
	ChangedPatches int
	Triangles      int
	IndexRebuilt   bool
	Fired          int
	Impacts        int
	Hits           int
	ShellsInFlight int
}

// Stats accumulates over a whole run.
type Stats struct {
	Ticks          int     `yaml:"ticks"`
	SimSeconds     float64 `yaml:"sim_seconds"`
	PatchUpdates   int     `yaml:"patch_updates"`
	MaxTriangles   int     `yaml:"max_triangles"`
	IndexRebuilds  int     `yaml:"index_rebuilds"`
	TargetSwitches int     `yaml:"target_switches"`
	Shots          int     `yaml:"shots"`
	Impacts        int     `yaml:"impacts"`
	Hits           int     `yaml:"hits"`
}

// World owns the simulation state and advances it one tick at a time.
type World struct {
	cfg    Config
	planet *terrain.Planet
	solver *ballistics.Solver
	index  *spatial.Index
	camera *CameraProbe

	tanks  []*Tank
	ai     []*AIController // nil entry for the player tank
	shells []*Shell

	rng   *rand.Rand
	clock time.Time
	stats Stats
	log   *zap.Logger
}

// NewWorld spawns the tanks on the planet surface.
func NewWorld(cfg Config, planet *terrain.Planet, solver *ballistics.Solver) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	w := &World{
		cfg:    cfg,
		planet: planet,
		solver: solver,
		index:  spatial.NewIndex(cfg.IndexRefreshHz),
		rng:    rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x5DEECE66D)),
		clock:  time.Unix(0, 0).UTC(),
		log:    logger.Named("game"),
	}

	s := planet.Settings()
	w.camera = NewCameraProbe(s.MinCameraHeight, s.MaxCameraHeight)

	positions := spawnPositions(cfg, planet.Field(), w.rng, w.log)
	for i, pos := range positions {
		player := i == 0
		w.tanks = append(w.tanks, NewTank(i, pos, player))
		if player {
			w.ai = append(w.ai, nil)
		} else {
			w.ai = append(w.ai, NewAIController(i, cfg, w.rng))
		}
	}

	w.log.Info("world created", zap.Int("tanks", len(w.tanks)), zap.Uint64("seed", cfg.Seed))
	return w, nil
}

// spawnPositions scatters tanks over the square of half-size SpawnMaxSpread,
// keeping them SpawnMinSpread apart when it can.
func spawnPositions(cfg Config, field height.Field, rng *rand.Rand, log *zap.Logger) []math.Vec3 {
	randf := func() float32 {
		return cfg.SpawnMaxSpread * (rng.Float32()*2 - 1)
	}
	tooClose := func(p math.Vec3, placed []math.Vec3) bool {
		for _, other := range placed {
			if other.XZ().Distance(p.XZ()) < cfg.SpawnMinSpread {
				return true
			}
		}
		return false
	}

	placed := make([]math.Vec3, 0, cfg.TankCount)
	for i := range cfg.TankCount {
		var p math.Vec3
		for attempt := 0; ; attempt++ {
			p = math.Vec3{X: randf(), Z: randf()}
			if !tooClose(p, placed) {
				break
			}
			if attempt == maxSpawnAttempts {
				log.Warn("no free spawn point, placing tank anyway", zap.Int("tank", i))
				break
			}
		}
		p.Y = field.Height(p.X, p.Z) + HullHeight
		placed = append(placed, p)
	}
	return placed
}

// Tick advances the world by dt seconds: it refreshes terrain around every
// probe, syncs the tank index, lets the AI aim and fire, and moves shells.
func (w *World) Tick(dt float32) TickStats {
	w.stats.Ticks++
	w.stats.SimSeconds += float64(dt)
	w.clock = w.clock.Add(time.Duration(gomath.Round(float64(dt) * float64(time.Second))))
	ts := TickStats{Tick: w.stats.Ticks}
	field := w.planet.Field()

	// Probes
	w.camera.Update(dt, w.tanks[0].Position, field)
	probes := make([]math.Vec3, 0, len(w.tanks)+1+len(w.shells))
	for _, t := range w.tanks {
		probes = append(probes, t.Position)
	}
	probes = append(probes, w.camera.Position)
	for _, s := range w.shells {
		probes = append(probes, s.Position)
	}
	ts.Probes = len(probes)

	// Terrain
	ts.ChangedPatches = w.planet.Update(probes)
	ts.Triangles = w.planet.TriCount()
	w.stats.PatchUpdates += ts.ChangedPatches
	w.stats.MaxTriangles = max(w.stats.MaxTriangles, ts.Triangles)

	// Index
	items := make([]spatial.Item, len(w.tanks))
	for i, t := range w.tanks {
		items[i] = spatial.Item{ID: t.ID, Position: t.Position}
	}
	if w.index.Sync(w.clock, items) {
		ts.IndexRebuilt = true
		w.stats.IndexRebuilds++
	}

	// AI
	for i, ai := range w.ai {
		if ai == nil {
			continue
		}
		tank := w.tanks[i]
		d := ai.Update(dt, tank, w.tanks, w.index)
		if d.Aim {
			if err := tank.AimAt(d.AimPoint, w.solver); err != nil {
				w.log.Warn("aim failed", zap.Int("tank", tank.ID), zap.Error(err))
				ai.AimFailed(d)
				d.Fire = false
			} else if d.Switched {
				w.stats.TargetSwitches++
				target, _ := ai.Target()
				w.log.Debug("target switch",
					zap.Int("tank", tank.ID),
					zap.Int("target", target),
					zap.Float32("elevation", tank.Elevation),
					zap.Bool("in_range", tank.Solutions.InRange()))
			}
		}
		if d.Fire {
			w.shells = append(w.shells, tank.Fire(w.solver))
			ts.Fired++
		}
	}
	w.stats.Shots += ts.Fired

	// Shells
	gravity := w.solver.Gravity()
	damping := w.solver.Config().LinearDamping
	live := w.shells[:0]
	for _, s := range w.shells {
		s.Step(dt, gravity, damping)
		switch {
		case s.Impacted(field):
			s.Alive = false
			ts.Impacts++
			ts.Hits += w.explode(s)
		case s.Expired():
			s.Alive = false
		default:
			live = append(live, s)
		}
	}
	clear(w.shells[len(live):])
	w.shells = live
	ts.ShellsInFlight = len(live)
	w.stats.Impacts += ts.Impacts
	w.stats.Hits += ts.Hits

	return ts
}

// explode applies a shell's blast to every tank within the damage radius.
func (w *World) explode(s *Shell) int {
	victims := w.index.WithinRadius(s.Position, w.cfg.DamageRadius)
	for _, v := range victims {
		if v.ID < 0 || v.ID >= len(w.tanks) {
			continue
		}
		w.tanks[v.ID].Hits++
		w.log.Info("tank hit",
			zap.Int("tank", v.ID),
			zap.Int("shooter", s.Owner),
			zap.Float32("distance", v.Position.Distance(s.Position)))
	}
	return len(victims)
}

// Run ticks the world the given number of times at the configured tick rate.
// It stops early with the context's error when ctx is cancelled.
func (w *World) Run(ctx context.Context, ticks int) (Stats, error) {
	dt := w.cfg.TickDuration()
	every := max(int(w.cfg.TickRate), 1)
	start := time.Now()

	for range ticks {
		if err := ctx.Err(); err != nil {
			return w.stats, fmt.Errorf("simulation stopped at tick %d: %w", w.stats.Ticks, err)
		}
		ts := w.Tick(dt)
		if ts.Tick%every == 0 {
			w.log.Debug("tick",
				zap.Int("tick", ts.Tick),
				zap.Int("triangles", ts.Triangles),
				zap.Int("changed_patches", ts.ChangedPatches),
				zap.Int("shells", ts.ShellsInFlight))
		}
	}

	w.log.Info("simulation finished",
		zap.Int("ticks", w.stats.Ticks),
		zap.Int("shots", w.stats.Shots),
		zap.Int("hits", w.stats.Hits),
		zap.Int("max_triangles", w.stats.MaxTriangles),
		zap.Duration("took", time.Since(start)))
	return w.stats, nil
}

// Tanks returns the tanks; index equals tank ID and tank 0 is the player.
func (w *World) Tanks() []*Tank { return w.tanks }

// Shells returns the shells in flight.
func (w *World) Shells() []*Shell { return w.shells }

// Camera returns the camera probe.
func (w *World) Camera() *CameraProbe { return w.camera }

// Index returns the tank index.
func (w *World) Index() *spatial.Index { return w.index }

// Planet returns the terrain.
func (w *World) Planet() *terrain.Planet { return w.planet }

// AI returns the controller of a tank, or nil for the player.
func (w *World) AI(id int) *AIController {
	if id < 0 || id >= len(w.ai) {
		return nil
	}
	return w.ai[id]
}

// Stats returns the totals so far.
func (w *World) Stats() Stats { return w.stats }

// Now returns the simulation clock.
func (w *World) Now() time.Time { return w.clock }
