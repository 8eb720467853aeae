// aimcalc is a CLI utility for the artillery aiming solver.
package main

import (
	"flag"
	"fmt"
	gomath "math"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/planet-tanks/internal/ballistics"
	"github.com/Faultbox/planet-tanks/internal/config"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "solve":
		cmdSolve(args)
	case "search":
		cmdSearch(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`aimcalc - artillery aiming calculator

Usage:
  aimcalc <command> [options] <range> <height> <speed>

Commands:
  solve  <range> <height> <speed>      Elevations that hit at a fixed muzzle speed
  search <range> <height> <max-speed>  Fastest-arriving shot up to max-speed

Options:
  -config <file>   Read the ballistics section of a config file
  -damping <v>     Linear damping override (1/s)
  -points <n>      Trajectory samples per solution
  -yaml            Print the full result as YAML

Examples:
  aimcalc solve 100 0 50
  aimcalc search -damping 0.05 800 -20 250
  aimcalc solve -yaml 100 0 50`)
}

// options are the flags shared by every command.
type options struct {
	configPath string
	damping    float64
	points     int
	yaml       bool
}

func parseArgs(name string, args []string) (options, [3]float32) {
	var opts options
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.StringVar(&opts.configPath, "config", "", "Config file")
	fs.Float64Var(&opts.damping, "damping", -1, "Linear damping override")
	fs.IntVar(&opts.points, "points", 0, "Trajectory samples")
	fs.BoolVar(&opts.yaml, "yaml", false, "YAML output")
	fs.Parse(args)

	if fs.NArg() != 3 {
		fmt.Fprintf(os.Stderr, "Usage: aimcalc %s [options] <range> <height> <speed>\n", name)
		os.Exit(1)
	}

	var values [3]float32
	for i := range values {
		v, err := strconv.ParseFloat(fs.Arg(i), 32)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: bad number %q: %v\n", fs.Arg(i), err)
			os.Exit(1)
		}
		values[i] = float32(v)
	}
	return opts, values
}

func newSolver(opts options) *ballistics.Solver {
	cfg, err := config.LoadFile(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	bc := cfg.Ballistics
	if opts.damping >= 0 {
		bc.LinearDamping = float32(opts.damping)
	}
	if opts.points > 0 {
		bc.TrajectoryPoints = opts.points
	}

	solver, err := ballistics.NewSolver(bc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return solver
}

func cmdSolve(args []string) {
	opts, v := parseArgs("solve", args)
	solver := newSolver(opts)

	sols, err := solver.Solve(v[0], v[1], v[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	printSolutions(opts, sols)
}

func cmdSearch(args []string) {
	opts, v := parseArgs("search", args)
	solver := newSolver(opts)

	sols, err := solver.SolveMaxSpeed(v[0], v[1], v[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	printSolutions(opts, sols)
}

func printSolutions(opts options, sols ballistics.Solutions) {
	if opts.yaml {
		data, err := yaml.Marshal(sols)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(data)
		return
	}

	if !sols.InRange() {
		fmt.Println("Target out of reach")
		printSolution("fallback", sols.Err)
		return
	}

	printSolution("chosen", sols.Chosen)
	printSolution("low", sols.Low)
	printSolution("high", sols.High)
	if len(sols.All) > 0 {
		fmt.Printf("Candidates: %d\n", len(sols.All))
	}
}

func printSolution(label string, s *ballistics.Solution) {
	if s == nil {
		return
	}
	land := s.Landing()
	fmt.Printf("%-8s elevation %6.2f deg  speed %8.2f  flight %7.2fs  lands (%.1f, %.1f)\n",
		label, float64(s.Elevation)*180/gomath.Pi, s.Speed, s.FlightTime, land.X, land.Y)
}
