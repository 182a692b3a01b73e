// Command benchmark runs the AdderSim throughput benchmark harness.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv       Output results in CSV format (default: human-readable)
//	-json      Output a full JSON report
//	-core      Run only the core scenarios for quick validation
//	-parallel  Run scenarios on the parallel event engine
//
// Example:
//
//	# Run all scenarios with human-readable output
//	go run ./cmd/benchmark
//
//	# Output CSV for spreadsheet comparison
//	go run ./cmd/benchmark -csv > results.csv
//
// Scenario results characterize how register map shape, decode latency, and
// request depth change the cost of one write/write/read verification job.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/addersim/benchmarks"
)

func main() {
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output a full JSON report")
	coreOnly := flag.Bool("core", false, "Run only the core scenarios")
	parallel := flag.Bool("parallel", false, "Run on the parallel event engine")
	flag.Parse()

	config := benchmarks.DefaultHarnessConfig()
	config.Parallel = *parallel
	config.Output = os.Stdout

	harness := benchmarks.NewHarness(config)
	if *coreOnly {
		harness.AddScenarios(benchmarks.GetCoreScenarios())
	} else {
		harness.AddScenarios(benchmarks.GetScenarios())
	}

	if !*csvOutput && !*jsonOutput {
		fmt.Println("AdderSim Benchmark Harness")
		fmt.Println("==========================")
		fmt.Printf("Parallel engine: %v\n", config.Parallel)
		fmt.Println("")
	}

	results, err := harness.RunAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running benchmarks: %v\n", err)
		os.Exit(1)
	}

	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			os.Exit(1)
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)
	}
}
