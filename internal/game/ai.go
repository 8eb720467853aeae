package game

import (
	"math/rand/v2"

	"github.com/Faultbox/planet-tanks/internal/spatial"
	"github.com/Faultbox/planet-tanks/pkg/math"
)

// aiCandidates is how many nearby tanks (self included) an AI picks a target from.
const aiCandidates = 5

// Neighbors finds the tanks closest to a point.
type Neighbors interface {
	KNearest(p math.Vec3, k int) []spatial.Item
}

// Decision is what an AI tank wants to do this tick.
type Decision struct {
	Aim      bool
	AimPoint math.Vec3
	Switched bool // Aim is at a newly picked target
	Fire     bool
}

// AIController drives one computer tank: it re-aims every aim interval, keeps
// a target while its shots reach it, switches to a random nearby tank
// otherwise, and fires whenever it is reloaded and has a target.
type AIController struct {
	TankID int

	cfg Config
	rng *rand.Rand

	sinceFire   float32
	sinceAim    float32
	sinceSwitch float32

	fireJitter   float32
	aimJitter    float32
	switchJitter float32

	target    int
	hasTarget bool
}

// NewAIController creates a controller for the given tank.
func NewAIController(tankID int, cfg Config, rng *rand.Rand) *AIController {
	a := &AIController{TankID: tankID, cfg: cfg, rng: rng}
	a.fireJitter = a.jitter(cfg.AIReloadTime)
	return a
}

// Target returns the current target tank, if any.
func (a *AIController) Target() (int, bool) {
	return a.target, a.hasTarget
}

// jitter returns a random offset of up to AIJitter of interval either way.
func (a *AIController) jitter(interval float32) float32 {
	return (a.rng.Float32()*2 - 1) * interval * a.cfg.AIJitter
}

// Update advances the controller's timers by dt and returns its decision.
func (a *AIController) Update(dt float32, self *Tank, tanks []*Tank, near Neighbors) Decision {
	a.sinceFire += dt
	a.sinceAim += dt
	a.sinceSwitch += dt

	var d Decision
	if a.sinceAim >= a.cfg.AIAimInterval+a.aimJitter {
		d.AimPoint, d.Aim, d.Switched = a.aim(self, tanks, near)
	}

	if a.hasTarget && a.sinceFire >= a.cfg.AIReloadTime+a.fireJitter {
		d.Fire = true
		a.sinceFire = 0
		a.fireJitter = a.jitter(a.cfg.AIReloadTime)
	}
	return d
}

func (a *AIController) aim(self *Tank, tanks []*Tank, near Neighbors) (math.Vec3, bool, bool) {
	if a.hasTarget && a.target < len(tanks) &&
		a.sinceSwitch < a.cfg.AITargetSwitchInterval+a.switchJitter &&
		self.Solutions != nil && self.Solutions.InRange() {
		a.aimed()
		return tanks[a.target].Position, true, false
	}

	a.sinceSwitch = 0
	a.switchJitter = a.rng.Float32() * a.cfg.AITargetSwitchInterval
	a.hasTarget = false

	var candidates []spatial.Item
	for _, it := range near.KNearest(self.Position, aiCandidates) {
		if it.ID != self.ID && it.ID >= 0 && it.ID < len(tanks) {
			candidates = append(candidates, it)
		}
	}
	if len(candidates) == 0 {
		return math.Vec3{}, false, false
	}

	pick := candidates[a.rng.IntN(len(candidates))]
	a.target = pick.ID
	a.hasTarget = true
	a.aimed()
	return pick.Position, true, true
}

// AimFailed drops the current target after the tank could not aim at it.
// A shot decided on the same tick is cancelled and does not spend the reload.
func (a *AIController) AimFailed(d Decision) {
	a.hasTarget = false
	if d.Fire {
		a.sinceFire = a.cfg.AIReloadTime + a.fireJitter
	}
}

func (a *AIController) aimed() {
	a.sinceAim = 0
	a.aimJitter = a.jitter(a.cfg.AIAimInterval)
}
