// Package main provides the entry point for AdderSim.
// AdderSim models a memory-mapped N-adder register file on a pipelined,
// split-transaction bus, plus the driver traffic that verifies it.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sarchlab/akita/v4/mem/trace"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/akita/v4/sim/directconnection"
	"github.com/sarchlab/akita/v4/tracing"

	"github.com/sarchlab/addersim/adder"
	"github.com/sarchlab/addersim/driver"
	"github.com/sarchlab/addersim/regmap"
)

var (
	configPath   = flag.String("config", "", "Path to register file configuration JSON")
	numAdders    = flag.Int("num-adders", 0, "Override the number of adders")
	operandWidth = flag.Int("operand-width", 0, "Override the operand width in bits")
	beatBytes    = flag.Uint64("beat-bytes", 0, "Override the bus beat size in bytes")
	baseAddr     = flag.Uint64("base", 0, "Override the base address")
	windowSize   = flag.Uint64("window", 0, "Override the decode window size in bytes")
	numJobs      = flag.Int("jobs", 100, "Number of verification jobs to run")
	maxInflight  = flag.Int("max-inflight", 4, "Maximum outstanding driver requests")
	seedFlag     = flag.Int64("seed", 0, "Random seed (0 picks the current time)")
	resetFirst   = flag.Bool("reset-first", false, "Pulse a reset before the first job")
	parallel     = flag.Bool("parallel", false, "Run on the parallel event engine")
	traceFile    = flag.String("trace", "", "Write a bus trace to this file")
	verbose      = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	cfg, err := resolveConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	if *verbose {
		fmt.Printf("Adders: %d x %d-bit behind %d-byte beats\n",
			cfg.NumAdders, cfg.OperandWidth, cfg.BeatBytes)
		fmt.Printf("Window: [0x%X, 0x%X), %d bytes mapped\n",
			cfg.BaseAddr, cfg.BaseAddr+cfg.WindowSize, cfg.Footprint())
		fmt.Printf("Seed: %d\n", seed)
	}

	engine, periph, drv := setupSystem(cfg, seed)

	drv.TickLater()
	if err := engine.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running simulation: %v\n", err)
		os.Exit(1)
	}

	printReport(engine, periph, drv)

	if drv.Stats().JobsFailed > 0 {
		os.Exit(1)
	}
}

// resolveConfig merges the configuration file with command line overrides.
func resolveConfig() (regmap.Config, error) {
	cfg := regmap.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = regmap.LoadConfig(*configPath)
		if err != nil {
			return regmap.Config{}, err
		}
	}

	if *numAdders > 0 {
		cfg.NumAdders = *numAdders
	}
	if *operandWidth > 0 {
		cfg.OperandWidth = *operandWidth
	}
	if *beatBytes > 0 {
		cfg.BeatBytes = *beatBytes
	}
	if *baseAddr > 0 {
		cfg.BaseAddr = *baseAddr
	}
	if *windowSize > 0 {
		cfg.WindowSize = *windowSize
	}

	return cfg, cfg.Validate()
}

// setupSystem assembles the peripheral, the driver, and the connection
// between them on a fresh event engine.
func setupSystem(
	cfg regmap.Config,
	seed int64,
) (sim.Engine, *adder.Comp, *driver.Comp) {
	var engine sim.Engine
	if *parallel {
		engine = sim.NewParallelEngine()
	} else {
		engine = sim.NewSerialEngine()
	}

	if *verbose {
		engine.AcceptHook(sim.NewEventLogger(log.New(os.Stdout, "", 0)))
	}

	periph := adder.MakeBuilder().
		WithEngine(engine).
		WithConfig(cfg).
		Build("Adder")

	jobs := driver.GenerateJobs(*numJobs, seed, cfg)
	drv := driver.MakeBuilder().
		WithEngine(engine).
		WithConfig(cfg).
		WithJobs(jobs).
		WithMaxInflight(*maxInflight).
		WithLowModule(periph.TopPort()).
		WithCtrlModule(periph.CtrlPort()).
		WithResetFirst(*resetFirst).
		Build("Driver")

	conn := directconnection.MakeBuilder().
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		Build("Conn")

	conn.PlugIn(periph.TopPort())
	conn.PlugIn(periph.CtrlPort())
	conn.PlugIn(drv.GetPortByName("Mem"))
	conn.PlugIn(drv.GetPortByName("Ctrl"))

	if *traceFile != "" {
		f, err := os.Create(*traceFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating trace file: %v\n", err)
			os.Exit(1)
		}
		logger := log.New(f, "", 0)
		tracer := trace.NewTracer(logger, engine)
		tracing.CollectTrace(periph, tracer)
	}

	return engine, periph, drv
}

// printReport summarizes the run the way a hardware bring-up log would:
// job outcome first, then the traffic the peripheral actually served.
func printReport(engine sim.Engine, periph *adder.Comp, drv *driver.Comp) {
	freq := 1 * sim.GHz
	cycles := freq.Cycle(engine.CurrentTime())

	dstats := drv.Stats()
	pstats := periph.Stats()

	fmt.Printf("\n")
	fmt.Printf("Jobs completed: %d\n", dstats.JobsCompleted)
	fmt.Printf("Jobs failed:    %d\n", dstats.JobsFailed)
	fmt.Printf("Total cycles:   %d\n", cycles)
	if total := dstats.JobsCompleted + dstats.JobsFailed; total > 0 {
		fmt.Printf("Cycles per job: %.2f\n", float64(cycles)/float64(total))
	}

	fmt.Printf("\n")
	fmt.Printf("Peripheral traffic:\n")
	fmt.Printf("  Writes served:  %d\n", pstats.Writes)
	fmt.Printf("  Reads served:   %d\n", pstats.Reads)
	fmt.Printf("  Sum reads:      %d\n", pstats.SumReads)
	fmt.Printf("  Bad addresses:  %d\n", pstats.BadAddresses)
	fmt.Printf("  Illegal writes: %d\n", pstats.IllegalWrites)
	fmt.Printf("  Resets:         %d\n", pstats.Resets)

	if dstats.BusErrors > 0 || dstats.Mismatches > 0 {
		fmt.Printf("\n")
		fmt.Printf("Failures:\n")
		fmt.Printf("  Bus errors: %d\n", dstats.BusErrors)
		fmt.Printf("  Mismatches: %d\n", dstats.Mismatches)
	}
}
