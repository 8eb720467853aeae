// Package terrain implements the adaptive planet surface: a forest of
// triangle quadtrees that split near probes and merge away from them, with
// skirts hiding the seams between different tessellation depths.
package terrain

import (
	"errors"
	"fmt"
)

// BaseSplitLevel is the depth at which patches become render/physics objects.
// Everything above it is force-split at planet construction.
const BaseSplitLevel uint8 = 3

// maxEdgeRatio is the largest longest/shortest edge ratio a patch may have and still split.
const maxEdgeRatio = 2.0

// ErrInvalidSettings is returned by Settings.Validate.
var ErrInvalidSettings = errors.New("invalid terrain settings")

// Settings controls level-of-detail decisions.
type Settings struct {
	MaxSplitLevel       uint8   `yaml:"max_split_level"`        // Hard cap on depth
	MinSplitLevel       uint8   `yaml:"min_split_level"`        // Patches above this depth always split
	TesselationValue    float32 `yaml:"tesselation_value"`      // Distance / edge-size threshold
	MinCameraHeight     float32 `yaml:"min_camera_height"`      // Camera probe lower bound
	MaxCameraHeight     float32 `yaml:"max_camera_height"`      // Camera probe upper bound
	SplitLazyCoef       float32 `yaml:"split_lazy_coef"`        // Hysteresis band, fraction of TesselationValue
	MinTriangleEdgeSize float32 `yaml:"min_triangle_edge_size"` // Patches with a shorter edge never split
}

// DefaultSettings returns the settings the game ships with.
func DefaultSettings() Settings {
	return Settings{
		MaxSplitLevel:       20,
		MinSplitLevel:       BaseSplitLevel,
		TesselationValue:    3.0,
		MinCameraHeight:     0.3,
		MaxCameraHeight:     250.0,
		SplitLazyCoef:       0.2,
		MinTriangleEdgeSize: 5.2,
	}
}

// Validate reports the first setting outside its allowed range.
func (s Settings) Validate() error {
	switch {
	case s.MinSplitLevel < BaseSplitLevel:
		return fmt.Errorf("%w: min_split_level %d below base level %d", ErrInvalidSettings, s.MinSplitLevel, BaseSplitLevel)
	case s.MaxSplitLevel < s.MinSplitLevel:
		return fmt.Errorf("%w: max_split_level %d below min_split_level %d", ErrInvalidSettings, s.MaxSplitLevel, s.MinSplitLevel)
	case !(s.TesselationValue > 0):
		return fmt.Errorf("%w: tesselation_value must be positive, got %v", ErrInvalidSettings, s.TesselationValue)
	case s.SplitLazyCoef < 0 || s.SplitLazyCoef >= 0.5:
		return fmt.Errorf("%w: split_lazy_coef must be in [0, 0.5), got %v", ErrInvalidSettings, s.SplitLazyCoef)
	case !(s.MinTriangleEdgeSize > 0):
		return fmt.Errorf("%w: min_triangle_edge_size must be positive, got %v", ErrInvalidSettings, s.MinTriangleEdgeSize)
	case s.MinCameraHeight > s.MaxCameraHeight:
		return fmt.Errorf("%w: min_camera_height %v above max_camera_height %v", ErrInvalidSettings, s.MinCameraHeight, s.MaxCameraHeight)
	}
	return nil
}

// splitThreshold is the distance/size ratio below which a leaf splits.
func (s Settings) splitThreshold() float32 {
	return (1 - s.SplitLazyCoef) * s.TesselationValue
}

// mergeThreshold is the distance/size ratio above which a split patch merges.
func (s Settings) mergeThreshold() float32 {
	return (1 + s.SplitLazyCoef) * s.TesselationValue
}
