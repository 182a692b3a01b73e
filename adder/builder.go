package adder

import (
	"fmt"

	"github.com/sarchlab/akita/v4/mem/mem"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/addersim/regmap"
)

// Builder creates adder peripheral components.
type Builder struct {
	engine        sim.Engine
	freq          sim.Freq
	cfg           regmap.Config
	decodeLatency int
	maxInflight   int
	portBufSize   int
}

// MakeBuilder returns a Builder with the default configuration.
func MakeBuilder() Builder {
	return Builder{
		freq:          1 * sim.GHz,
		cfg:           regmap.DefaultConfig(),
		decodeLatency: 1,
		maxInflight:   8,
		portBufSize:   16,
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

// WithConfig specifies the register map configuration.
func (b Builder) WithConfig(cfg regmap.Config) Builder {
	b.cfg = cfg
	return b
}

// WithDecodeLatency specifies how many cycles the decoder spends on one
// transaction.
func (b Builder) WithDecodeLatency(cycles int) Builder {
	b.decodeLatency = cycles
	return b
}

// WithMaxInflight specifies how many accepted requests may be outstanding.
func (b Builder) WithMaxInflight(n int) Builder {
	b.maxInflight = n
	return b
}

// WithPortBufferSize specifies the depth of the port buffers.
func (b Builder) WithPortBufferSize(size int) Builder {
	b.portBufSize = size
	return b
}

// Build constructs the peripheral. It panics on an invalid configuration:
// a bad register map is a build-time error, never a runtime fault.
func (b Builder) Build(name string) *Comp {
	if b.engine == nil {
		panic("adder: engine must be specified")
	}
	if b.decodeLatency < 1 {
		panic("adder: decode latency must be >= 1")
	}
	if b.maxInflight < 1 {
		panic("adder: max in-flight requests must be >= 1")
	}

	table, err := regmap.Build(b.cfg)
	if err != nil {
		panic(fmt.Sprintf("adder: %s", err))
	}

	c := &Comp{
		table:         table,
		operands:      mem.NewStorage(table.Footprint()),
		DecodeLatency: b.decodeLatency,
		MaxInflight:   b.maxInflight,
		enabled:       true,
	}

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	c.topPort = sim.NewPort(c, b.portBufSize, b.portBufSize, name+".Top")
	c.AddPort("Top", c.topPort)

	c.ctrlPort = sim.NewPort(c, b.portBufSize, b.portBufSize, name+".Ctrl")
	c.AddPort("Ctrl", c.ctrlPort)

	c.AddMiddleware(&ctrlMiddleware{Comp: c})
	c.AddMiddleware(&busMiddleware{Comp: c})

	return c
}
