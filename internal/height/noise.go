package height

import (
	gomath "math"

	"github.com/ojrac/opensimplex-go"
)

// NoiseConfig holds the parameters of the billow noise field.
type NoiseConfig struct {
	Seed           int64   `yaml:"seed"`
	MountainHeight float32 `yaml:"mountain_height"` // Peak amplitude in world units
	BaseFrequency  float32 `yaml:"base_frequency"`  // World units per noise unit of the first layer
	Octaves        int     `yaml:"octaves"`
	Lacunarity     float32 `yaml:"lacunarity"` // Frequency divisor between layers
	PlaneOffset    float32 `yaml:"plane_offset"`
}

// DefaultNoiseConfig returns the terrain noise used by the game.
func DefaultNoiseConfig() NoiseConfig {
	return NoiseConfig{
		Seed:           0,
		MountainHeight: 1000,
		BaseFrequency:  10000,
		Octaves:        4,
		Lacunarity:     3,
		PlaneOffset:    0,
	}
}

// Noise is a multi-layer billow field built on OpenSimplex noise.
// Every layer has the same weight; each one is Lacunarity times wider than
// the previous, so broad continents and local hills are mixed evenly.
type Noise struct {
	cfg    NoiseConfig
	layers []opensimplex.Noise
	freqs  []float64
}

// NewNoise creates a noise field. Octaves below 1 are treated as 1.
func NewNoise(cfg NoiseConfig) *Noise {
	if cfg.Octaves < 1 {
		cfg.Octaves = 1
	}
	if cfg.Lacunarity <= 0 {
		cfg.Lacunarity = 1
	}
	if cfg.BaseFrequency <= 0 {
		cfg.BaseFrequency = 1
	}

	n := &Noise{
		cfg:    cfg,
		layers: make([]opensimplex.Noise, cfg.Octaves),
		freqs:  make([]float64, cfg.Octaves),
	}
	freq := float64(cfg.BaseFrequency)
	for i := range cfg.Octaves {
		n.layers[i] = opensimplex.New(cfg.Seed + int64(i))
		n.freqs[i] = freq
		freq *= float64(cfg.Lacunarity)
	}
	return n
}

// Config returns the parameters the field was built with.
func (n *Noise) Config() NoiseConfig {
	return n.cfg
}

// Height returns the elevation at (x, z), within [-MountainHeight, MountainHeight].
func (n *Noise) Height(x, z float32) float32 {
	var sum float64
	y := float64(n.cfg.PlaneOffset)
	for i, layer := range n.layers {
		f := n.freqs[i]
		v := layer.Eval3(float64(x)/f, y/f, float64(z)/f)
		sum += billow(v)
	}
	return n.cfg.MountainHeight * float32(sum/float64(len(n.layers)))
}

// billow folds signed noise into ridged "cloud" bumps in [-1, 1].
func billow(v float64) float64 {
	v = gomath.Max(-1, gomath.Min(1, v))
	return 2*gomath.Abs(v) - 1
}
