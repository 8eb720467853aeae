package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/planet-tanks/internal/ballistics"
	"github.com/Faultbox/planet-tanks/internal/game"
	"github.com/Faultbox/planet-tanks/internal/terrain"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Terrain defaults
	if cfg.Terrain.MaxSplitLevel != 20 {
		t.Errorf("expected max split level 20, got %d", cfg.Terrain.MaxSplitLevel)
	}
	if cfg.Terrain.MinSplitLevel != terrain.BaseSplitLevel {
		t.Errorf("expected min split level %d, got %d", terrain.BaseSplitLevel, cfg.Terrain.MinSplitLevel)
	}

	// Planet defaults
	if cfg.Planet.Radius != 40000 {
		t.Errorf("expected planet radius 40000, got %f", cfg.Planet.Radius)
	}

	// Ballistics defaults
	if cfg.Ballistics.Gravity != 9.81 {
		t.Errorf("expected gravity 9.81, got %f", cfg.Ballistics.Gravity)
	}
	if cfg.Ballistics.TrajectoryPoints != 12 {
		t.Errorf("expected 12 trajectory points, got %d", cfg.Ballistics.TrajectoryPoints)
	}

	// Simulation defaults
	if cfg.Simulation.TankCount != 12 {
		t.Errorf("expected 12 tanks, got %d", cfg.Simulation.TankCount)
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
terrain:
  max_split_level: 12
  tesselation_value: 4.5
  split_lazy_coef: 0.1

planet:
  radius: 20000
  noise:
    seed: 7
    mountain_height: 300

ballistics:
  linear_damping: 0.02
  trajectory_points: 24

simulation:
  tank_count: 6
  ai_reload_time: 3

logging:
  level: "debug"
  format: "json"
  log_file: "sim.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Terrain.MaxSplitLevel != 12 {
		t.Errorf("expected max split level 12, got %d", cfg.Terrain.MaxSplitLevel)
	}
	if cfg.Terrain.TesselationValue != 4.5 {
		t.Errorf("expected tesselation value 4.5, got %f", cfg.Terrain.TesselationValue)
	}
	// Keys absent from the file keep their defaults
	if cfg.Terrain.MinTriangleEdgeSize != 5.2 {
		t.Errorf("expected min edge size 5.2, got %f", cfg.Terrain.MinTriangleEdgeSize)
	}

	if cfg.Planet.Radius != 20000 {
		t.Errorf("expected radius 20000, got %f", cfg.Planet.Radius)
	}
	if cfg.Planet.Noise.Seed != 7 {
		t.Errorf("expected noise seed 7, got %d", cfg.Planet.Noise.Seed)
	}
	if cfg.Planet.Noise.Octaves != 4 {
		t.Errorf("expected 4 octaves, got %d", cfg.Planet.Noise.Octaves)
	}

	if cfg.Ballistics.LinearDamping != 0.02 {
		t.Errorf("expected damping 0.02, got %f", cfg.Ballistics.LinearDamping)
	}
	if cfg.Ballistics.TrajectoryPoints != 24 {
		t.Errorf("expected 24 trajectory points, got %d", cfg.Ballistics.TrajectoryPoints)
	}

	if cfg.Simulation.TankCount != 6 {
		t.Errorf("expected 6 tanks, got %d", cfg.Simulation.TankCount)
	}
	if cfg.Simulation.AIReloadTime != 3 {
		t.Errorf("expected reload 3, got %f", cfg.Simulation.AIReloadTime)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "sim.log" {
		t.Errorf("expected log file 'sim.log', got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config should be valid: %v", err)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "bad syntax",
			content: `
terrain:
  max_split_level: not a number
  invalid syntax here
`,
		},
		{
			name: "unknown key",
			content: `
terrain:
  max_split_levle: 10
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "invalid.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			cfg := Default()
			if err := loadFromFile(cfg, configPath); err == nil {
				t.Error("expected error loading invalid YAML, got nil")
			}
		})
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("empty file should load: %v", err)
	}
	if cfg.Planet.Radius != Default().Planet.Radius {
		t.Errorf("empty file changed radius to %f", cfg.Planet.Radius)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestLoadFile(t *testing.T) {
	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile with no path: %v", err)
	}
	if cfg.Simulation.Ticks != game.DefaultConfig().Ticks {
		t.Errorf("expected default ticks, got %d", cfg.Simulation.Ticks)
	}

	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(configPath, []byte("planet:\n  radius: -5\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if _, err := LoadFile(configPath); !errors.Is(err, ErrInvalidPlanet) {
		t.Errorf("expected ErrInvalidPlanet, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{
			name:   "max below min split level",
			mutate: func(c *Config) { c.Terrain.MaxSplitLevel = 2 },
			want:   terrain.ErrInvalidSettings,
		},
		{
			name:   "zero radius",
			mutate: func(c *Config) { c.Planet.Radius = 0 },
			want:   ErrInvalidPlanet,
		},
		{
			name:   "negative gravity",
			mutate: func(c *Config) { c.Ballistics.Gravity = -1 },
			want:   ballistics.ErrInvalidConfig,
		},
		{
			name:   "no tanks",
			mutate: func(c *Config) { c.Simulation.TankCount = 0 },
			want:   game.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLoggingOptions(t *testing.T) {
	cfg := Default()

	opts := cfg.Logging.Options()
	if !opts.Console {
		t.Error("expected console output")
	}
	if opts.File.Path != "" {
		t.Errorf("expected no file output, got %s", opts.File.Path)
	}

	cfg.Logging.LogFile = "out.log"
	cfg.Logging.MaxBackups = 9
	opts = cfg.Logging.Options()
	if opts.File.Path != "out.log" {
		t.Errorf("expected file out.log, got %s", opts.File.Path)
	}
	if opts.File.MaxBackups != 9 {
		t.Errorf("expected 9 backups, got %d", opts.File.MaxBackups)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Simulation.TankCount = 5
	cfg.Ballistics.LinearDamping = 0.01
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if loaded.Simulation.TankCount != 5 {
		t.Errorf("expected 5 tanks, got %d", loaded.Simulation.TankCount)
	}
	if loaded.Ballistics.LinearDamping != 0.01 {
		t.Errorf("expected damping 0.01, got %f", loaded.Ballistics.LinearDamping)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Keep the user's real config out of the search
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	// Save current directory
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create config.yaml in current directory
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("simulation:\n  tank_count: 3\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config) error
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) error {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				return nil
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "ticks flag",
			setup: func() {
				*flagTicks = 90
			},
			verify: func(cfg *Config) error {
				if cfg.Simulation.Ticks != 90 {
					t.Errorf("expected 90 ticks, got %d", cfg.Simulation.Ticks)
				}
				return nil
			},
			teardown: func() {
				*flagTicks = 0
			},
		},
		{
			name: "tanks flag",
			setup: func() {
				*flagTanks = 3
			},
			verify: func(cfg *Config) error {
				if cfg.Simulation.TankCount != 3 {
					t.Errorf("expected 3 tanks, got %d", cfg.Simulation.TankCount)
				}
				return nil
			},
			teardown: func() {
				*flagTanks = 0
			},
		},
		{
			name: "seed flag",
			setup: func() {
				*flagSeed = 1234
			},
			verify: func(cfg *Config) error {
				if cfg.Planet.Noise.Seed != 1234 {
					t.Errorf("expected noise seed 1234, got %d", cfg.Planet.Noise.Seed)
				}
				if cfg.Simulation.Seed != 1234 {
					t.Errorf("expected simulation seed 1234, got %d", cfg.Simulation.Seed)
				}
				return nil
			},
			teardown: func() {
				*flagSeed = -1
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			tt.setup()
			defer tt.teardown()

			// Apply flags to default config
			cfg := Default()
			applyFlags(cfg)

			// Verify
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
simulation:
  ticks: 500
  tank_count: 8
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagTanks = 4
	defer func() {
		*flagConfig = ""
		*flagTanks = 0
	}()

	// Load config
	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Tank count should be from flag (4), not file (8)
	if cfg.Simulation.TankCount != 4 {
		t.Errorf("expected 4 tanks from flag, got %d", cfg.Simulation.TankCount)
	}

	// Ticks should be from file (500) since no flag override
	if cfg.Simulation.Ticks != 500 {
		t.Errorf("expected 500 ticks from file, got %d", cfg.Simulation.Ticks)
	}
}
