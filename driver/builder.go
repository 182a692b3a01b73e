package driver

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/addersim/regmap"
)

// Builder creates driver components.
type Builder struct {
	engine      sim.Engine
	freq        sim.Freq
	cfg         regmap.Config
	jobs        []*Job
	maxInflight int
	resetFirst  bool
	lowModule   sim.Port
	ctrlModule  sim.Port
}

// MakeBuilder returns a Builder with the default configuration and an
// empty workload.
func MakeBuilder() Builder {
	return Builder{
		freq:        1 * sim.GHz,
		cfg:         regmap.DefaultConfig(),
		maxInflight: 4,
	}
}

// WithEngine specifies the simulation engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq specifies the ticking frequency.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithConfig specifies the register map configuration the driver addresses
// against. It must match the peripheral's.
func (b Builder) WithConfig(cfg regmap.Config) Builder {
	b.cfg = cfg
	return b
}

// WithJobs specifies the workload.
func (b Builder) WithJobs(jobs []*Job) Builder {
	b.jobs = jobs
	return b
}

// WithMaxInflight specifies how many jobs may be in flight at once.
func (b Builder) WithMaxInflight(n int) Builder {
	b.maxInflight = n
	return b
}

// WithResetFirst makes the driver pulse a reset through the control port
// and wait for the acknowledgement before issuing any job.
func (b Builder) WithResetFirst(reset bool) Builder {
	b.resetFirst = reset
	return b
}

// WithLowModule specifies the peripheral's Top port.
func (b Builder) WithLowModule(port sim.Port) Builder {
	b.lowModule = port
	return b
}

// WithCtrlModule specifies the peripheral's Ctrl port. Only needed when
// the driver resets first.
func (b Builder) WithCtrlModule(port sim.Port) Builder {
	b.ctrlModule = port
	return b
}

// Build constructs a driver component.
func (b Builder) Build(name string) *Comp {
	if b.engine == nil {
		panic("driver: engine must be specified")
	}
	if b.lowModule == nil {
		panic("driver: the peripheral's Top port must be specified")
	}
	if b.resetFirst && b.ctrlModule == nil {
		panic("driver: reset-first needs the peripheral's Ctrl port")
	}
	if b.maxInflight < 1 {
		panic("driver: max in-flight jobs must be >= 1")
	}

	table, err := regmap.Build(b.cfg)
	if err != nil {
		panic(fmt.Sprintf("driver: %s", err))
	}

	c := &Comp{
		LowModule:   b.lowModule,
		CtrlModule:  b.ctrlModule,
		table:       table,
		maxInflight: b.maxInflight,
		resetFirst:  b.resetFirst,
		jobs:        b.jobs,
		pending:     make(map[string]*activeJob),
		busyIndex:   make(map[int]bool),
	}

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	bufSize := b.maxInflight
	if bufSize < 4 {
		bufSize = 4
	}
	c.memPort = sim.NewPort(c, bufSize, bufSize, name+".Mem")
	c.AddPort("Mem", c.memPort)

	c.ctrlPort = sim.NewPort(c, 1, 1, name+".Ctrl")
	c.AddPort("Ctrl", c.ctrlPort)

	return c
}
