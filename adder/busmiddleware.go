package adder

import (
	"log"

	"github.com/sarchlab/akita/v4/mem/mem"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/akita/v4/tracing"

	"github.com/sarchlab/addersim/regmap"
)

// txStage tracks one accepted request through the handler. A request still
// sitting in the port buffer is idle; once accepted it decodes, then waits
// for its response to leave.
type txStage int

const (
	stageDecoding txStage = iota
	stageResponding
)

type transaction struct {
	req        mem.AccessReq
	stage      txStage
	cyclesLeft int
	rsp        sim.Msg
}

// busMiddleware serves the data path on the Top port.
type busMiddleware struct {
	*Comp
}

func (m *busMiddleware) Tick() bool {
	madeProgress := false

	madeProgress = m.sendReadyResponses() || madeProgress
	madeProgress = m.advanceDecode() || madeProgress
	madeProgress = m.collectIncomingRequests() || madeProgress

	return madeProgress
}

// sendReadyResponses delivers responses strictly in arrival order. Only
// resolved transactions at the head of the queue may leave; a busy port is
// retried next tick, nothing is reordered or dropped.
func (m *busMiddleware) sendReadyResponses() bool {
	madeProgress := false

	for len(m.inflight) > 0 {
		head := m.inflight[0]
		if head.stage != stageResponding {
			break
		}

		if err := m.topPort.Send(head.rsp); err != nil {
			break
		}

		tracing.TraceReqComplete(head.req, m)
		m.inflight = m.inflight[1:]
		madeProgress = true
	}

	return madeProgress
}

// advanceDecode runs the single decoder: only the oldest undecoded
// transaction makes progress, so at most one request resolves per tick and
// at most one write mutates the operand store per tick.
func (m *busMiddleware) advanceDecode() bool {
	t := m.oldestDecoding()
	if t == nil {
		return false
	}

	t.cyclesLeft--
	if t.cyclesLeft > 0 {
		return true
	}

	m.resolve(t)
	t.stage = stageResponding

	return true
}

func (m *busMiddleware) oldestDecoding() *transaction {
	for _, t := range m.inflight {
		if t.stage == stageDecoding {
			return t
		}
	}

	return nil
}

// collectIncomingRequests accepts requests from the Top port up to the
// in-flight limit. A disabled peripheral leaves them in the port buffer.
func (m *busMiddleware) collectIncomingRequests() bool {
	if !m.enabled {
		return false
	}

	madeProgress := false

	for len(m.inflight) < m.MaxInflight {
		item := m.topPort.PeekIncoming()
		if item == nil {
			break
		}

		req, ok := item.(mem.AccessReq)
		if !ok {
			log.Panicf("adder: unsupported message type %T", item)
		}

		m.topPort.RetrieveIncoming()
		tracing.TraceReqReceive(req, m)

		m.inflight = append(m.inflight, &transaction{
			req:        req,
			stage:      stageDecoding,
			cyclesLeft: m.DecodeLatency,
		})

		madeProgress = true
	}

	return madeProgress
}

func (m *busMiddleware) resolve(t *transaction) {
	field, fault := m.decode(t.req)
	if fault != FaultNone {
		t.rsp = m.faultRsp(t.req, fault)
		return
	}

	switch req := t.req.(type) {
	case *mem.ReadReq:
		t.rsp = m.readField(req, field)
	case *mem.WriteReq:
		t.rsp = m.writeField(req, field)
	default:
		log.Panicf("adder: unsupported request type %T", t.req)
	}
}

// decode resolves a request to a register field. Addresses outside the
// window, offsets that do not start a field, and accesses that are not
// exactly one beat wide (including masked writes) are addressing faults.
// A write to a read-only field is an illegal write.
func (m *busMiddleware) decode(req mem.AccessReq) (regmap.Field, FaultKind) {
	cfg := m.table.Config()

	if !m.table.Contains(req.GetAddress()) {
		return regmap.Field{}, FaultBadAddress
	}
	if req.GetByteSize() != cfg.BeatBytes {
		return regmap.Field{}, FaultBadAddress
	}

	field, ok := m.table.FieldAt(req.GetAddress() - cfg.BaseAddr)
	if !ok {
		return regmap.Field{}, FaultBadAddress
	}

	if write, isWrite := req.(*mem.WriteReq); isWrite {
		if field.Access == regmap.AccessRO {
			return regmap.Field{}, FaultReadOnly
		}
		if write.DirtyMask != nil {
			return regmap.Field{}, FaultBadAddress
		}
	}

	return field, FaultNone
}

// readField serves a read. A sum is derived from the operands in the read
// path on every access; it is never latched.
func (m *busMiddleware) readField(req *mem.ReadReq, field regmap.Field) sim.Msg {
	var value uint64
	if field.Kind == regmap.KindSum {
		value = m.Comp.Sum(field.Index)
		m.stats.SumReads++
	} else {
		value = m.loadOperand(field.Kind, field.Index)
	}
	m.stats.Reads++

	return mem.DataReadyRspBuilder{}.
		WithSrc(m.topPort.AsRemote()).
		WithDst(req.Src).
		WithRspTo(req.ID).
		WithData(regmap.EncodeBeat(value, m.table.Config().BeatBytes)).
		Build()
}

// writeField replaces the whole operand cell, masked to the operand width.
func (m *busMiddleware) writeField(req *mem.WriteReq, field regmap.Field) sim.Msg {
	m.storeOperand(field, regmap.DecodeBeat(req.Data))
	m.stats.Writes++

	return mem.WriteDoneRspBuilder{}.
		WithSrc(m.topPort.AsRemote()).
		WithDst(req.Src).
		WithRspTo(req.ID).
		Build()
}

func (m *busMiddleware) faultRsp(req mem.AccessReq, fault FaultKind) sim.Msg {
	switch fault {
	case FaultBadAddress:
		m.stats.BadAddresses++
	case FaultReadOnly:
		m.stats.IllegalWrites++
	}

	return BusErrorRspBuilder{}.
		WithSrc(m.topPort.AsRemote()).
		WithDst(req.Meta().Src).
		WithRspTo(req.Meta().ID).
		WithFault(fault).
		Build()
}
