package benchmarks

import "github.com/sarchlab/addersim/regmap"

// GetScenarios returns the standard set of scenarios for throughput
// characterization. Each scenario stresses one aspect of the peripheral.
func GetScenarios() []Scenario {
	return []Scenario{
		smallPairs(),
		singleAdderStream(),
		wideFanout(),
		slowDecode(),
		burstTraffic(),
		narrowOperands(),
		resetFirst(),
	}
}

// GetCoreScenarios returns a minimal set of scenarios for quick validation.
func GetCoreScenarios() []Scenario {
	return []Scenario{
		smallPairs(),
		singleAdderStream(),
		wideFanout(),
	}
}

// 1. Small Pairs - Baseline cost of one verification job
func smallPairs() Scenario {
	return Scenario{
		Name:        "small_pairs",
		Description: "100 jobs over 2 adders - baseline write/write/read cost",
		Config:      regmap.DefaultConfig(),
		Jobs:        100,
		Seed:        1,
		MaxInflight: 4,
	}
}

// 2. Single Adder Stream - Every job lands on the same index
func singleAdderStream() Scenario {
	cfg := regmap.DefaultConfig()
	cfg.NumAdders = 1

	return Scenario{
		Name:        "single_adder_stream",
		Description: "200 jobs on one adder - serialization on a single index",
		Config:      cfg,
		Jobs:        200,
		Seed:        2,
		MaxInflight: 4,
	}
}

// 3. Wide Fanout - Jobs spread over many independent adders
func wideFanout() Scenario {
	cfg := regmap.DefaultConfig()
	cfg.NumAdders = 32

	return Scenario{
		Name:        "wide_fanout",
		Description: "500 jobs over 32 adders - index-level parallelism",
		Config:      cfg,
		Jobs:        500,
		Seed:        3,
		MaxInflight: 8,
	}
}

// 4. Slow Decode - Decode latency dominates the round trip
func slowDecode() Scenario {
	return Scenario{
		Name:          "slow_decode",
		Description:   "200 jobs with a 4-cycle decoder - decode-bound throughput",
		Config:        regmap.DefaultConfig(),
		Jobs:          200,
		Seed:          4,
		MaxInflight:   4,
		DecodeLatency: 4,
	}
}

// 5. Burst Traffic - Deep request queues on both sides
func burstTraffic() Scenario {
	cfg := regmap.DefaultConfig()
	cfg.NumAdders = 8

	return Scenario{
		Name:        "burst_traffic",
		Description: "1000 jobs with 16 in flight - queue pressure",
		Config:      cfg,
		Jobs:        1000,
		Seed:        5,
		MaxInflight: 16,
	}
}

// 6. Narrow Operands - Small datapath configuration
func narrowOperands() Scenario {
	cfg := regmap.DefaultConfig()
	cfg.NumAdders = 4
	cfg.OperandWidth = 8
	cfg.BeatBytes = 4

	return Scenario{
		Name:        "narrow_operands",
		Description: "300 jobs on 8-bit adders behind 4-byte beats",
		Config:      cfg,
		Jobs:        300,
		Seed:        6,
		MaxInflight: 4,
	}
}

// 7. Reset First - Adds the control round trip before the workload
func resetFirst() Scenario {
	return Scenario{
		Name:        "reset_first",
		Description: "100 jobs preceded by a reset pulse on the control port",
		Config:      regmap.DefaultConfig(),
		Jobs:        100,
		Seed:        7,
		MaxInflight: 4,
		ResetFirst:  true,
	}
}
