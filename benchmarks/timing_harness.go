// Package benchmarks provides timing benchmark infrastructure for the adder
// peripheral.
package benchmarks

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/akita/v4/sim/directconnection"

	"github.com/sarchlab/addersim/adder"
	"github.com/sarchlab/addersim/driver"
	"github.com/sarchlab/addersim/regmap"
)

// Result holds the outcome of a single scenario run.
type Result struct {
	// Name identifies the scenario
	Name string `json:"name"`

	// Description explains what the scenario stresses
	Description string `json:"description"`

	// Jobs is the number of verification jobs the driver ran
	Jobs int `json:"jobs"`

	// JobsFailed is the number of jobs that faulted or mismatched
	JobsFailed int `json:"jobs_failed"`

	// SimulatedCycles is the run length on the simulated clock
	SimulatedCycles uint64 `json:"simulated_cycles"`

	// CyclesPerJob is SimulatedCycles divided by the number of jobs
	CyclesPerJob float64 `json:"cycles_per_job"`

	// WritesIssued is the number of operand writes the driver sent
	WritesIssued uint64 `json:"writes_issued"`

	// ReadsIssued is the number of sum reads the driver sent
	ReadsIssued uint64 `json:"reads_issued"`

	// BusErrors is the number of error responses the peripheral returned
	BusErrors uint64 `json:"bus_errors"`

	// Mismatches is the number of sums that disagreed with the expected value
	Mismatches uint64 `json:"mismatches"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// Scenario defines a single benchmark workload.
type Scenario struct {
	// Name identifies the scenario
	Name string

	// Description explains what the scenario stresses
	Description string

	// Config shapes the peripheral under test
	Config regmap.Config

	// Jobs is the number of verification jobs to run
	Jobs int

	// Seed makes the workload reproducible
	Seed int64

	// MaxInflight bounds the driver's outstanding requests
	MaxInflight int

	// DecodeLatency is the peripheral's decode latency in cycles
	DecodeLatency int

	// ResetFirst pulses a reset before the first job
	ResetFirst bool
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// Parallel runs scenarios on the parallel event engine
	Parallel bool

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Verbose enables detailed output
	Verbose bool
}

// DefaultHarnessConfig returns a default harness configuration.
func DefaultHarnessConfig() HarnessConfig {
	return HarnessConfig{
		Parallel: false,
		Output:   os.Stdout,
		Verbose:  false,
	}
}

// Harness runs scenarios and reports results.
type Harness struct {
	config    HarnessConfig
	scenarios []Scenario
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return &Harness{
		config:    config,
		scenarios: []Scenario{},
	}
}

// AddScenario adds a scenario to the harness.
func (h *Harness) AddScenario(s Scenario) {
	h.scenarios = append(h.scenarios, s)
}

// AddScenarios adds multiple scenarios to the harness.
func (h *Harness) AddScenarios(scenarios []Scenario) {
	h.scenarios = append(h.scenarios, scenarios...)
}

// RunAll executes all scenarios and returns results.
func (h *Harness) RunAll() ([]Result, error) {
	results := make([]Result, 0, len(h.scenarios))

	for _, s := range h.scenarios {
		result, err := h.runScenario(s)
		if err != nil {
			return nil, fmt.Errorf("failed to run scenario %s: %w", s.Name, err)
		}
		results = append(results, result)
	}

	return results, nil
}

// runScenario assembles a fresh peripheral and driver, runs the workload to
// completion, and collects statistics.
func (h *Harness) runScenario(s Scenario) (Result, error) {
	if s.DecodeLatency < 1 {
		s.DecodeLatency = 1
	}
	if s.MaxInflight < 1 {
		s.MaxInflight = 4
	}

	var engine sim.Engine
	if h.config.Parallel {
		engine = sim.NewParallelEngine()
	} else {
		engine = sim.NewSerialEngine()
	}

	freq := 1 * sim.GHz

	periph := adder.MakeBuilder().
		WithEngine(engine).
		WithFreq(freq).
		WithConfig(s.Config).
		WithDecodeLatency(s.DecodeLatency).
		Build(s.Name + ".Adder")

	jobs := driver.GenerateJobs(s.Jobs, s.Seed, s.Config)
	drv := driver.MakeBuilder().
		WithEngine(engine).
		WithFreq(freq).
		WithConfig(s.Config).
		WithJobs(jobs).
		WithMaxInflight(s.MaxInflight).
		WithLowModule(periph.TopPort()).
		WithCtrlModule(periph.CtrlPort()).
		WithResetFirst(s.ResetFirst).
		Build(s.Name + ".Driver")

	conn := directconnection.MakeBuilder().
		WithEngine(engine).
		WithFreq(freq).
		Build(s.Name + ".Conn")

	conn.PlugIn(periph.TopPort())
	conn.PlugIn(periph.CtrlPort())
	conn.PlugIn(drv.GetPortByName("Mem"))
	conn.PlugIn(drv.GetPortByName("Ctrl"))

	drv.TickLater()

	start := time.Now()
	if err := engine.Run(); err != nil {
		return Result{}, err
	}
	wallTime := time.Since(start)

	if !drv.Done() {
		stats := drv.Stats()
		return Result{}, fmt.Errorf("retired %d of %d jobs",
			stats.JobsCompleted+stats.JobsFailed, len(jobs))
	}

	stats := drv.Stats()
	cycles := freq.Cycle(engine.CurrentTime())

	result := Result{
		Name:            s.Name,
		Description:     s.Description,
		Jobs:            len(jobs),
		JobsFailed:      stats.JobsFailed,
		SimulatedCycles: cycles,
		WritesIssued:    stats.WritesIssued,
		ReadsIssued:     stats.ReadsIssued,
		BusErrors:       stats.BusErrors,
		Mismatches:      stats.Mismatches,
		WallTime:        wallTime,
	}
	if len(jobs) > 0 {
		result.CyclesPerJob = float64(cycles) / float64(len(jobs))
	}

	return result, nil
}

// PrintResults outputs scenario results in a human-readable format.
func (h *Harness) PrintResults(results []Result) {
	_, _ = fmt.Fprintln(h.config.Output, "=== AdderSim Benchmark Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "Scenario: %s\n", r.Name)
		_, _ = fmt.Fprintf(h.config.Output, "  Description: %s\n", r.Description)
		_, _ = fmt.Fprintf(h.config.Output, "  Jobs:        %d\n", r.Jobs)
		_, _ = fmt.Fprintf(h.config.Output, "  Jobs Failed: %d\n", r.JobsFailed)
		_, _ = fmt.Fprintln(h.config.Output, "  --- Timing ---")
		_, _ = fmt.Fprintf(h.config.Output, "  Simulated Cycles: %d\n", r.SimulatedCycles)
		_, _ = fmt.Fprintf(h.config.Output, "  Cycles Per Job:   %.3f\n", r.CyclesPerJob)
		_, _ = fmt.Fprintln(h.config.Output, "  --- Traffic ---")
		_, _ = fmt.Fprintf(h.config.Output, "  Writes Issued: %d\n", r.WritesIssued)
		_, _ = fmt.Fprintf(h.config.Output, "  Reads Issued:  %d\n", r.ReadsIssued)
		if r.BusErrors > 0 {
			_, _ = fmt.Fprintf(h.config.Output, "  Bus Errors:    %d\n", r.BusErrors)
		}
		if r.Mismatches > 0 {
			_, _ = fmt.Fprintf(h.config.Output, "  Mismatches:    %d\n", r.Mismatches)
		}
		_, _ = fmt.Fprintf(h.config.Output, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

// PrintCSV outputs scenario results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []Result) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,jobs,jobs_failed,cycles,cycles_per_job,writes,reads,bus_errors,mismatches")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%d,%.3f,%d,%d,%d,%d\n",
			r.Name,
			r.Jobs,
			r.JobsFailed,
			r.SimulatedCycles,
			r.CyclesPerJob,
			r.WritesIssued,
			r.ReadsIssued,
			r.BusErrors,
			r.Mismatches,
		)
	}
}

// Report is the complete output format for a benchmark run.
type Report struct {
	// Metadata about the benchmark run
	Metadata ReportMetadata `json:"metadata"`

	// Results is the list of individual scenario results
	Results []Result `json:"results"`

	// Summary contains aggregate statistics
	Summary ReportSummary `json:"summary"`
}

// ReportMetadata contains information about the benchmark run.
type ReportMetadata struct {
	// Timestamp when the benchmark was run
	Timestamp string `json:"timestamp"`

	// Version of the simulator
	Version string `json:"version"`

	// Parallel reports whether the parallel event engine was used
	Parallel bool `json:"parallel"`
}

// ReportSummary contains aggregate statistics across all scenarios.
type ReportSummary struct {
	// TotalScenarios is the number of scenarios run
	TotalScenarios int `json:"total_scenarios"`

	// TotalJobs is the sum of all jobs run
	TotalJobs int `json:"total_jobs"`

	// TotalCycles is the sum of all simulated cycles
	TotalCycles uint64 `json:"total_cycles"`

	// AverageCyclesPerJob is the average cost of one verification job
	AverageCyclesPerJob float64 `json:"average_cycles_per_job"`

	// TotalWallTime is the total wall clock time for all scenarios
	TotalWallTime time.Duration `json:"total_wall_time_ns"`
}

// PrintJSON outputs scenario results in JSON format for automated comparison.
func (h *Harness) PrintJSON(results []Result) error {
	var totalJobs int
	var totalCycles uint64
	var totalWallTime time.Duration
	for _, r := range results {
		totalJobs += r.Jobs
		totalCycles += r.SimulatedCycles
		totalWallTime += r.WallTime
	}

	avgCyclesPerJob := float64(0)
	if totalJobs > 0 {
		avgCyclesPerJob = float64(totalCycles) / float64(totalJobs)
	}

	report := Report{
		Metadata: ReportMetadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "0.1.0",
			Parallel:  h.config.Parallel,
		},
		Results: results,
		Summary: ReportSummary{
			TotalScenarios:      len(results),
			TotalJobs:           totalJobs,
			TotalCycles:         totalCycles,
			AverageCyclesPerJob: avgCyclesPerJob,
			TotalWallTime:       totalWallTime,
		},
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
