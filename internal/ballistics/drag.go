package ballistics

import (
	gomath "math"
)

// invPhi is 1/golden ratio.
var invPhi = (gomath.Sqrt(5) - 1) / 2

// solveDrag handles linear damping. The height at the target range as a
// function of elevation rises to a single apex and falls off towards the
// edges of the reachable band, so the apex is found by golden-section search
// and the two roots by bisection on either side of it.
func (s *Solver) solveDrag(r, dy, v float64) Solutions {
	a := s.damping
	k := a * r / v
	if k >= 1 {
		return Solutions{Err: s.fallback(r, v)}
	}

	// Elevations with v cos(theta) > a r reach the range at all.
	limit := gomath.Acos(k)
	eps := limit * 1e-9
	lo, hi := -limit+eps, limit-eps

	miss := func(theta float64) float64 {
		return s.heightAtRange(theta, r, v) - dy
	}

	apex := s.goldenMax(miss, lo, hi)
	if miss(apex) < 0 {
		return Solutions{Err: s.fallback(r, v)}
	}

	var out Solutions
	if low, ok := s.bisect(miss, lo, apex); ok {
		out.Low = s.solution(low, r, v, true)
	}
	if high, ok := s.bisect(miss, apex, hi); ok {
		out.High = s.solution(high, r, v, true)
	}
	if out.Low == nil && out.High == nil {
		out.Err = s.fallback(r, v)
	}
	return out
}

// heightAtRange returns the shell height when it has travelled r horizontally.
func (s *Solver) heightAtRange(theta, r, v float64) float64 {
	vx := v * gomath.Cos(theta)
	vy := v * gomath.Sin(theta)
	k := s.damping * r / vx
	if k >= 1 || k <= 0 {
		return gomath.Inf(-1)
	}
	t := -gomath.Log1p(-k) / s.damping
	_, y := s.position(vx, vy, t)
	return y
}

// goldenMax returns the argmax of a unimodal f on [lo, hi].
func (s *Solver) goldenMax(f func(float64) float64, lo, hi float64) float64 {
	c := hi - invPhi*(hi-lo)
	d := lo + invPhi*(hi-lo)
	fc, fd := f(c), f(d)
	for range s.cfg.MaxIterations {
		if fc > fd {
			hi, d, fd = d, c, fc
			c = hi - invPhi*(hi-lo)
			fc = f(c)
		} else {
			lo, c, fc = c, d, fd
			d = lo + invPhi*(hi-lo)
			fd = f(d)
		}
	}
	return (lo + hi) / 2
}

// bisect finds a sign change of f in [lo, hi]. It fails when the endpoints
// have the same sign.
func (s *Solver) bisect(f func(float64) float64, lo, hi float64) (float64, bool) {
	flo, fhi := f(lo), f(hi)
	if flo == 0 {
		return lo, true
	}
	if fhi == 0 {
		return hi, true
	}
	if (flo < 0) == (fhi < 0) {
		return 0, false
	}
	for range s.cfg.MaxIterations {
		mid := (lo + hi) / 2
		fm := f(mid)
		if fm == 0 {
			return mid, true
		}
		if (fm < 0) == (flo < 0) {
			lo, flo = mid, fm
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, true
}
