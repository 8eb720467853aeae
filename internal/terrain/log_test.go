package terrain

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/planet-tanks/internal/logger"
	"github.com/Faultbox/planet-tanks/pkg/math"
)

func TestPlanetLogsAsTerrain(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := logger.Log
	logger.Log = zap.New(core)
	t.Cleanup(func() { logger.Log = prev })

	p, _ := newTestPlanet(t, DefaultSettings())
	p.Update([]math.Vec3{{}})

	entries := logs.All()
	if len(entries) < 2 {
		t.Fatalf("expected creation and update entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.LoggerName != "terrain" {
			t.Errorf("entry %q logged as %q, want terrain", e.Message, e.LoggerName)
		}
	}
}
