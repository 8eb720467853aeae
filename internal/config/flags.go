package config

import "flag"

var (
	flagConfig = flag.String("config", "", "Path to config file")
	flagDebug  = flag.Bool("debug", false, "Enable debug logging")
	flagTicks  = flag.Int("ticks", 0, "Number of simulation ticks")
	flagTanks  = flag.Int("tanks", 0, "Number of tanks")
	flagSeed   = flag.Int64("seed", -1, "Seed for terrain noise and simulation")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagTicks > 0 {
		cfg.Simulation.Ticks = *flagTicks
	}
	if *flagTanks > 0 {
		cfg.Simulation.TankCount = *flagTanks
	}
	if *flagSeed >= 0 {
		cfg.Planet.Noise.Seed = *flagSeed
		cfg.Simulation.Seed = uint64(*flagSeed)
	}
}
