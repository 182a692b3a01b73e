package adder

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/akita/v4/sim"
)

var busErrorRspByteOverhead = 4

// FaultKind classifies the bus-level error responses the peripheral emits.
type FaultKind int

const (
	// FaultNone means the access decoded cleanly.
	FaultNone FaultKind = iota

	// FaultBadAddress is an addressing fault: the address left the window,
	// the offset does not start a field, or the access is not exactly one
	// beat wide.
	FaultBadAddress

	// FaultReadOnly is an illegal write to a read-only field.
	FaultReadOnly
)

func (k FaultKind) String() string {
	switch k {
	case FaultNone:
		return "none"
	case FaultBadAddress:
		return "bad address"
	case FaultReadOnly:
		return "read-only violation"
	}
	return fmt.Sprintf("FaultKind(%d)", int(k))
}

// BusErrorRsp rejects one bus request. Operand state is never modified by a
// request that is answered with a BusErrorRsp.
type BusErrorRsp struct {
	sim.MsgMeta

	RespondTo string
	Fault     FaultKind
}

// Meta returns the meta data of the message.
func (r *BusErrorRsp) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// Clone returns a copy of the message with a new ID.
func (r *BusErrorRsp) Clone() sim.Msg {
	cloneMsg := *r
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// GetRspTo returns the ID of the request this error rejects.
func (r *BusErrorRsp) GetRspTo() string {
	return r.RespondTo
}

// BusErrorRspBuilder can build bus error responses.
type BusErrorRspBuilder struct {
	src, dst sim.RemotePort
	rspTo    string
	fault    FaultKind
}

// WithSrc sets the source of the response to build.
func (b BusErrorRspBuilder) WithSrc(src sim.RemotePort) BusErrorRspBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the response to build.
func (b BusErrorRspBuilder) WithDst(dst sim.RemotePort) BusErrorRspBuilder {
	b.dst = dst
	return b
}

// WithRspTo sets the ID of the request being rejected.
func (b BusErrorRspBuilder) WithRspTo(id string) BusErrorRspBuilder {
	b.rspTo = id
	return b
}

// WithFault sets the fault classification of the response to build.
func (b BusErrorRspBuilder) WithFault(fault FaultKind) BusErrorRspBuilder {
	b.fault = fault
	return b
}

// Build creates a new BusErrorRsp.
func (b BusErrorRspBuilder) Build() *BusErrorRsp {
	r := &BusErrorRsp{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.TrafficClass = reflect.TypeOf(BusErrorRsp{}).String()
	r.TrafficBytes = busErrorRspByteOverhead
	r.RespondTo = b.rspTo
	r.Fault = b.fault

	return r
}
