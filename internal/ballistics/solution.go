package ballistics

import "github.com/Faultbox/planet-tanks/pkg/math"

// Solution is one firing elevation and the path it produces. Trajectory points
// are (horizontal distance, height) relative to the muzzle, evenly spaced in time
// from launch to FlightTime.
type Solution struct {
	Elevation  float32     `yaml:"elevation"`
	FlightTime float32     `yaml:"flight_time"`
	Speed      float32     `yaml:"speed"`
	Trajectory []math.Vec2 `yaml:"trajectory"`
	Valid      bool        `yaml:"valid"` // false for the out-of-reach fallback
}

// Landing returns the last trajectory point.
func (s *Solution) Landing() math.Vec2 {
	if len(s.Trajectory) == 0 {
		return math.Vec2{}
	}
	return s.Trajectory[len(s.Trajectory)-1]
}

// Solutions is the result of one aim computation. Either at least one of Low,
// High and Chosen is set, or Err holds a 45 degree fallback that does not reach
// the target.
type Solutions struct {
	Low    *Solution  `yaml:"low,omitempty"`
	High   *Solution  `yaml:"high,omitempty"`
	Err    *Solution  `yaml:"err,omitempty"`
	Chosen *Solution  `yaml:"chosen,omitempty"` // Fastest hit from a speed search
	All    []Solution `yaml:"all,omitempty"`    // Speed search candidates by flight time
}

// InRange reports whether any solution reaches the target.
func (s Solutions) InRange() bool {
	return s.Low != nil || s.High != nil || s.Chosen != nil
}

// Best returns the solution a gunner would use: the speed-search pick, then
// the flat shot, then the lob, then the fallback.
func (s Solutions) Best() *Solution {
	switch {
	case s.Chosen != nil:
		return s.Chosen
	case s.Low != nil:
		return s.Low
	case s.High != nil:
		return s.High
	default:
		return s.Err
	}
}
