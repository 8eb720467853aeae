package ballistics

import (
	"fmt"
	gomath "math"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/planet-tanks/internal/logger"
	"github.com/Faultbox/planet-tanks/pkg/math"
)

// Solver answers aim queries. It is immutable and safe for concurrent use.
type Solver struct {
	cfg     Config
	gravity float64
	damping float64
	log     *zap.Logger
}

// NewSolver validates cfg and returns a solver for it.
func NewSolver(cfg Config) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Solver{
		cfg:     cfg,
		gravity: float64(cfg.Gravity) * float64(cfg.GravityScale),
		damping: float64(cfg.LinearDamping),
		log:     logger.Named("ballistics"),
	}, nil
}

// Config returns the solver's constants.
func (s *Solver) Config() Config { return s.cfg }

// Gravity returns the effective gravitational acceleration.
func (s *Solver) Gravity() float32 { return float32(s.gravity) }

// SpeedForPower converts tank power into muzzle speed.
func (s *Solver) SpeedForPower(power float32) float32 {
	return power * s.cfg.SpeedPerPower
}

// Solve finds the elevations that hit a target rangeX ahead and dy above the
// muzzle at the given launch speed. An unreachable target is not an error: the
// result then only carries Err.
func (s *Solver) Solve(rangeX, dy, speed float32) (Solutions, error) {
	if err := checkInput(rangeX, dy, speed); err != nil {
		return Solutions{}, err
	}
	sols := s.solveAt(float64(rangeX), float64(dy), float64(speed))
	s.log.Debug("aim solved",
		zap.Float32("range", rangeX),
		zap.Float32("dy", dy),
		zap.Float32("speed", speed),
		zap.Float32("elevation", sols.Best().Elevation),
		zap.Bool("in_range", sols.InRange()))
	return sols, nil
}

// SolveMaxSpeed tries evenly spaced speeds up to maxSpeed and picks the hit
// with the shortest flight time. All lists every hit found, fastest first.
func (s *Solver) SolveMaxSpeed(rangeX, dy, maxSpeed float32) (Solutions, error) {
	if err := checkInput(rangeX, dy, maxSpeed); err != nil {
		return Solutions{}, err
	}
	r, h := float64(rangeX), float64(dy)
	steps := s.cfg.SpeedSearchSteps

	var all []Solution
	for i := 1; i <= steps; i++ {
		v := float64(maxSpeed) * float64(i) / float64(steps)
		sols := s.solveAt(r, h, v)
		if sols.Low != nil {
			all = append(all, *sols.Low)
		}
		if sols.High != nil {
			all = append(all, *sols.High)
		}
	}

	if len(all) == 0 {
		s.log.Debug("target out of reach",
			zap.Float32("range", rangeX),
			zap.Float32("dy", dy),
			zap.Float32("max_speed", maxSpeed))
		return Solutions{Err: s.fallback(r, float64(maxSpeed))}, nil
	}

	slices.SortStableFunc(all, func(a, b Solution) int {
		switch {
		case a.FlightTime < b.FlightTime:
			return -1
		case a.FlightTime > b.FlightTime:
			return 1
		}
		return 0
	})
	chosen := all[0]
	s.log.Debug("speed search",
		zap.Float32("range", rangeX),
		zap.Float32("dy", dy),
		zap.Int("hits", len(all)),
		zap.Float32("speed", chosen.Speed),
		zap.Float32("flight_time", chosen.FlightTime))
	return Solutions{Chosen: &chosen, All: all}, nil
}

func checkInput(rangeX, dy, speed float32) error {
	switch {
	case !(rangeX > 0) || gomath.IsInf(float64(rangeX), 1):
		return fmt.Errorf("%w: %v", ErrInvalidRange, rangeX)
	case gomath.IsNaN(float64(dy)) || gomath.IsInf(float64(dy), 0):
		return fmt.Errorf("%w: %v", ErrInvalidHeight, dy)
	case !(speed > 0) || gomath.IsInf(float64(speed), 1):
		return fmt.Errorf("%w: %v", ErrInvalidSpeed, speed)
	}
	return nil
}

func (s *Solver) solveAt(r, dy, v float64) Solutions {
	if s.damping > 0 {
		return s.solveDrag(r, dy, v)
	}
	return s.solveVacuum(r, dy, v)
}

// solveVacuum uses the closed form
// theta = atan((v^2 -+ sqrt(v^4 - g(g r^2 + 2 dy v^2))) / (g r)).
func (s *Solver) solveVacuum(r, dy, v float64) Solutions {
	g := s.gravity
	v2 := v * v
	par := g*r*r + 2*dy*v2
	sub := v2*v2 - g*par
	if sub < 0 {
		return Solutions{Err: s.fallback(r, v)}
	}
	root := gomath.Sqrt(sub)
	low := gomath.Atan((v2 - root) / (g * r))
	high := gomath.Atan((v2 + root) / (g * r))
	return Solutions{
		Low:  s.solution(low, r, v, true),
		High: s.solution(high, r, v, true),
	}
}

// fallback is the 45 degree shot shown when the target is out of reach.
func (s *Solver) fallback(r, v float64) *Solution {
	return s.solution(gomath.Pi/4, r, v, false)
}

// solution samples the trajectory for an elevation up to the time the shell
// covers r horizontally.
func (s *Solver) solution(elevation, r, v float64, valid bool) *Solution {
	vx := v * gomath.Cos(elevation)
	vy := v * gomath.Sin(elevation)

	flight := s.timeAtRange(r, vx)
	n := s.cfg.TrajectoryPoints
	traj := make([]math.Vec2, n)
	for i := range n {
		t := flight * float64(i) / float64(n-1)
		x, y := s.position(vx, vy, t)
		traj[i] = math.Vec2{X: float32(x), Y: float32(y)}
	}

	return &Solution{
		Elevation:  float32(elevation),
		FlightTime: float32(flight),
		Speed:      float32(v),
		Trajectory: traj,
		Valid:      valid,
	}
}

// position returns the muzzle-relative position after t seconds.
func (s *Solver) position(vx, vy, t float64) (x, y float64) {
	g, a := s.gravity, s.damping
	if a == 0 {
		return vx * t, vy*t - g*t*t/2
	}
	decay := -gomath.Expm1(-a*t) / a
	return vx * decay, (vy+g/a)*decay - g*t/a
}

// timeAtRange returns when the shell has travelled r horizontally. With drag
// the horizontal distance is bounded by vx/a; for ranges beyond that it
// returns the time at which 95% of the bound is covered.
func (s *Solver) timeAtRange(r, vx float64) float64 {
	a := s.damping
	if a == 0 {
		return r / vx
	}
	k := a * r / vx
	if k >= 1 || k < 0 {
		return 3 / a
	}
	return -gomath.Log1p(-k) / a
}
