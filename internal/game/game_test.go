package game

import (
	"context"
	"errors"
	"testing"

	"github.com/Faultbox/planet-tanks/internal/height"
	"github.com/Faultbox/planet-tanks/internal/terrain"
	"github.com/Faultbox/planet-tanks/pkg/math"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.TankCount = 4
	cfg.SpawnMaxSpread = 1000
	cfg.SpawnMinSpread = 300
	cfg.Seed = 42
	return cfg
}

func newTestWorld(t *testing.T, cfg Config) *World {
	t.Helper()
	s := terrain.DefaultSettings()
	s.MaxSplitLevel = 8
	planet, err := terrain.NewPlanet(height.Flat{}, 40000, s, terrain.NewMeshStore(64))
	if err != nil {
		t.Fatalf("NewPlanet: %v", err)
	}
	w, err := NewWorld(cfg, planet, newSolver(t))
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	return w
}

func TestSpawnPositions(t *testing.T) {
	w := newTestWorld(t, smallConfig())
	tanks := w.Tanks()
	if len(tanks) != 4 {
		t.Fatalf("expected 4 tanks, got %d", len(tanks))
	}
	if !tanks[0].Player || w.AI(0) != nil {
		t.Error("tank 0 should be the player")
	}
	for i, tank := range tanks {
		if tank.ID != i {
			t.Errorf("tank %d has id %d", i, tank.ID)
		}
		if i > 0 && w.AI(i) == nil {
			t.Errorf("tank %d has no AI", i)
		}
		if tank.Position.Y != HullHeight {
			t.Errorf("tank %d not on the ground: y=%v", i, tank.Position.Y)
		}
		if tank.Position.X < -1000 || tank.Position.X > 1000 || tank.Position.Z < -1000 || tank.Position.Z > 1000 {
			t.Errorf("tank %d outside spawn area: %+v", i, tank.Position)
		}
		for j := range i {
			if d := tank.Position.Distance(tanks[j].Position); d < 300 {
				t.Errorf("tanks %d and %d only %v apart", i, j, d)
			}
		}
	}

	again := newTestWorld(t, smallConfig())
	for i := range tanks {
		if again.Tanks()[i].Position != tanks[i].Position {
			t.Fatal("same seed should spawn the same positions")
		}
	}
}

func TestFirstTick(t *testing.T) {
	w := newTestWorld(t, smallConfig())

	ts := w.Tick(w.cfg.TickDuration())
	if ts.Tick != 1 {
		t.Errorf("expected tick 1, got %d", ts.Tick)
	}
	if ts.Probes != 5 {
		t.Errorf("expected 4 tanks + camera as probes, got %d", ts.Probes)
	}
	if ts.ChangedPatches != 64 {
		t.Errorf("first tick should build every base patch, got %d", ts.ChangedPatches)
	}
	if !ts.IndexRebuilt || w.Index().Len() != 4 {
		t.Errorf("index not built: rebuilt=%v len=%d", ts.IndexRebuilt, w.Index().Len())
	}
	if ts.Triangles <= 64 {
		t.Errorf("terrain should refine around probes, got %d triangles", ts.Triangles)
	}
	if w.Camera().Position.Distance(w.Tanks()[0].Position) > 260 {
		t.Errorf("camera not near the player: %+v", w.Camera().Position)
	}
}

func TestShellImpactHitsTank(t *testing.T) {
	w := newTestWorld(t, smallConfig())
	w.Tick(w.cfg.TickDuration())

	victim := w.Tanks()[2]
	w.shells = append(w.shells, &Shell{
		Owner:    1,
		Position: victim.Position.Sub(math.Vec3{Y: HullHeight - 0.5}),
		Velocity: math.Vec3{Y: -50},
		Alive:    true,
	})

	ts := w.Tick(w.cfg.TickDuration())
	if ts.Impacts < 1 || ts.Hits < 1 {
		t.Fatalf("expected an impact with a hit, got %+v", ts)
	}
	if victim.Hits < 1 {
		t.Error("victim hit count not updated")
	}
	for _, s := range w.Shells() {
		if !s.Alive {
			t.Error("dead shell left in flight")
		}
	}
}

func TestRunFiresShells(t *testing.T) {
	w := newTestWorld(t, smallConfig())

	// Long enough for every AI to reload and for the slowest shell to land.
	stats, err := w.Run(context.Background(), 1500)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Ticks != 1500 {
		t.Errorf("expected 1500 ticks, got %d", stats.Ticks)
	}
	if stats.Shots == 0 {
		t.Error("AI tanks never fired")
	}
	if stats.Impacts == 0 {
		t.Error("no shell landed")
	}
	if stats.TargetSwitches == 0 {
		t.Error("AI never picked a target")
	}
	// 60 Hz index refresh with a 60 Hz tick rebuilds every tick.
	if stats.IndexRebuilds < 1490 {
		t.Errorf("expected an index rebuild every tick, got %d", stats.IndexRebuilds)
	}
	if !approx(float32(stats.SimSeconds), 25, 1e-2) {
		t.Errorf("expected 25 simulated seconds, got %v", stats.SimSeconds)
	}
}

func TestIndexRefreshRateLimited(t *testing.T) {
	cfg := smallConfig()
	cfg.IndexRefreshHz = 10
	w := newTestWorld(t, cfg)

	for range 60 {
		w.Tick(cfg.TickDuration())
	}
	// One rebuild on the first tick, then about ten per simulated second.
	if got := w.Stats().IndexRebuilds; got < 9 || got > 12 {
		t.Errorf("expected about 10 rebuilds, got %d", got)
	}
}

func TestRunCancelled(t *testing.T) {
	w := newTestWorld(t, smallConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := w.Run(ctx, 10); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if w.Stats().Ticks != 0 {
		t.Errorf("no tick should run after cancel, got %d", w.Stats().Ticks)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"negative ticks", func(c *Config) { c.Ticks = -1 }},
		{"zero tick rate", func(c *Config) { c.TickRate = 0 }},
		{"no tanks", func(c *Config) { c.TankCount = 0 }},
		{"zero spread", func(c *Config) { c.SpawnMaxSpread = 0 }},
		{"negative damage radius", func(c *Config) { c.DamageRadius = -1 }},
		{"zero reload", func(c *Config) { c.AIReloadTime = 0 }},
		{"jitter too wide", func(c *Config) { c.AIJitter = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestFailedAimDoesNotFire(t *testing.T) {
	cfg := smallConfig()
	cfg.TankCount = 2
	cfg.AIJitter = 0
	cfg.AIReloadTime = 0.5
	cfg.AIAimInterval = 0.5
	w := newTestWorld(t, cfg)

	// Stacking the player on the AI tank leaves it no horizontal range to aim with.
	player, gunner := w.Tanks()[0], w.Tanks()[1]
	player.Position = gunner.Position.Add(math.Vec3{Y: 10})

	ts := w.Tick(1)
	if ts.Fired != 0 || len(w.Shells()) != 0 {
		t.Fatalf("shell fired after failed aim: %+v", ts)
	}
	if gunner.Shots != 0 {
		t.Errorf("expected no shots, got %d", gunner.Shots)
	}
	if _, ok := w.AI(1).Target(); ok {
		t.Error("AI kept its target after failed aim")
	}
}
