// Package adder models a memory-mapped N-adder register peripheral on a
// split-transaction bus.
//
// The peripheral owns a naturally-aligned address window and exposes three
// registers per adder index i: A_i and B_i (read-write operands) and Sum_i
// (read-only, the carry-extended sum of the operands, derived on every read
// and never stored). Requests arrive as mem.ReadReq/mem.WriteReq messages on
// the Top port; the handler keeps several requests in flight and always
// responds in arrival order. Faulty accesses are rejected with a BusErrorRsp.
// The Ctrl port accepts mem.ControlMsg words for reset and request-intake
// enabling.
package adder

import (
	"log"

	"github.com/sarchlab/akita/v4/mem/mem"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/addersim/regmap"
)

// Comp is the adder peripheral component. It ticks once per cycle: ready
// responses leave first, then the decoder resolves at most one transaction,
// then new requests are accepted from the Top port.
type Comp struct {
	*sim.TickingComponent
	sim.MiddlewareHolder

	topPort  sim.Port
	ctrlPort sim.Port

	table    *regmap.Table
	operands *mem.Storage

	// DecodeLatency is the number of cycles the decoder spends on one
	// transaction. MaxInflight bounds the accepted-but-unanswered requests.
	DecodeLatency int
	MaxInflight   int

	enabled  bool
	inflight []*transaction
	ctrlAcks []sim.Msg

	stats Stats
}

// Stats counts the transactions the peripheral has served since build.
// Counters survive resets; only register state is cleared.
type Stats struct {
	// Reads counts every served read; SumReads is the subset that hit a
	// Sum field.
	Reads         uint64
	SumReads      uint64
	Writes        uint64
	BadAddresses  uint64
	IllegalWrites uint64
	Resets        uint64
}

// Tick triggers the middleware chain of the component.
func (c *Comp) Tick() bool {
	return c.MiddlewareHolder.Tick()
}

// Table returns the register map the peripheral decodes against.
func (c *Comp) Table() *regmap.Table {
	return c.table
}

// TopPort returns the data port requests arrive on.
func (c *Comp) TopPort() sim.Port {
	return c.topPort
}

// CtrlPort returns the control port.
func (c *Comp) CtrlPort() sim.Port {
	return c.ctrlPort
}

// Stats returns a snapshot of the transaction counters.
func (c *Comp) Stats() Stats {
	return c.stats
}

// OperandA returns the stored value of A_index.
func (c *Comp) OperandA(index int) uint64 {
	return c.loadOperand(regmap.KindA, index)
}

// OperandB returns the stored value of B_index.
func (c *Comp) OperandB(index int) uint64 {
	return c.loadOperand(regmap.KindB, index)
}

// Sum returns the carry-extended sum currently visible at Sum_index. The
// value is derived from the operand cells on every call, never stored.
func (c *Comp) Sum(index int) uint64 {
	// Stored operands are pre-masked to the operand width, so the sum is
	// exact: width+1 bits always fit a uint64.
	return c.loadOperand(regmap.KindA, index) +
		c.loadOperand(regmap.KindB, index)
}

func (c *Comp) loadOperand(kind regmap.FieldKind, index int) uint64 {
	cfg := c.table.Config()

	data, err := c.operands.Read(c.table.OffsetOf(kind, index), cfg.BeatBytes)
	if err != nil {
		log.Panic(err)
	}

	return regmap.DecodeBeat(data)
}

func (c *Comp) storeOperand(field regmap.Field, value uint64) {
	cfg := c.table.Config()
	masked := value & cfg.OperandMask()

	err := c.operands.Write(field.Offset, regmap.EncodeBeat(masked, cfg.BeatBytes))
	if err != nil {
		log.Panic(err)
	}
}

// reset returns every operand cell to zero and drops in-flight work, as a
// hardware reset line would. Dropped requests never receive a response.
func (c *Comp) reset() {
	c.operands = mem.NewStorage(c.table.Footprint())
	c.inflight = nil
	c.stats.Resets++
}
