// Package main provides a profiling wrapper for AdderSim to identify
// performance bottlenecks in the event-driven simulation.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"time"

	"github.com/sarchlab/addersim/benchmarks"
	"github.com/sarchlab/addersim/regmap"
)

var (
	cpuProfile = flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile = flag.String("memprofile", "", "write memory profile to file")
	duration   = flag.Duration("duration", 30*time.Second, "max duration to run (for profiling)")
	jobs       = flag.Int("jobs", 100000, "number of verification jobs to run")
	adders     = flag.Int("adders", 8, "number of adders in the register file")
	inflight   = flag.Int("max-inflight", 16, "maximum outstanding driver requests")
	parallel   = flag.Bool("parallel", false, "run on the parallel event engine")
)

func main() {
	flag.Parse()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	// Watchdog for runs that outgrow the profiling window.
	go func() {
		time.Sleep(*duration)
		fmt.Printf("\nTimeout reached after %v - stopping execution\n", *duration)
		os.Exit(2)
	}()

	cfg := regmap.DefaultConfig()
	cfg.NumAdders = *adders

	scenario := benchmarks.Scenario{
		Name:        "profile",
		Description: "profiling workload",
		Config:      cfg,
		Jobs:        *jobs,
		Seed:        1,
		MaxInflight: *inflight,
	}

	harnessConfig := benchmarks.DefaultHarnessConfig()
	harnessConfig.Parallel = *parallel
	harnessConfig.Output = io.Discard

	harness := benchmarks.NewHarness(harnessConfig)
	harness.AddScenario(scenario)

	start := time.Now()
	results, err := harness.RunAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running workload: %v\n", err)
		os.Exit(1)
	}
	elapsed := time.Since(start)

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating memory profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing memory profile: %v\n", err)
		}
	}

	r := results[0]
	fmt.Printf("\nProfiling Results:\n")
	fmt.Printf("Jobs run:         %d\n", r.Jobs)
	fmt.Printf("Jobs failed:      %d\n", r.JobsFailed)
	fmt.Printf("Simulated cycles: %d\n", r.SimulatedCycles)
	fmt.Printf("Elapsed time:     %v\n", elapsed)
	if elapsed.Seconds() > 0 {
		fmt.Printf("Jobs/second:      %.0f\n", float64(r.Jobs)/elapsed.Seconds())
		fmt.Printf("Cycles/second:    %.0f\n",
			float64(r.SimulatedCycles)/elapsed.Seconds())
	}
}
