package adder

import (
	"log"

	"github.com/sarchlab/akita/v4/mem/mem"
	"github.com/sarchlab/akita/v4/sim"
)

// ctrlMiddleware serves the Ctrl port. A control message carries the full
// desired control state: the Restart bit pulses a hardware reset, the Enable
// bit levels the request intake. Every command is acknowledged with a
// sim.GeneralRsp once it has taken effect.
type ctrlMiddleware struct {
	*Comp
}

func (m *ctrlMiddleware) Tick() bool {
	madeProgress := m.sendPendingAcks()
	madeProgress = m.handleIncomingCommand() || madeProgress

	return madeProgress
}

func (m *ctrlMiddleware) sendPendingAcks() bool {
	madeProgress := false

	for len(m.ctrlAcks) > 0 {
		if err := m.ctrlPort.Send(m.ctrlAcks[0]); err != nil {
			break
		}

		m.ctrlAcks = m.ctrlAcks[1:]
		madeProgress = true
	}

	return madeProgress
}

// handleIncomingCommand applies at most one control word per tick.
func (m *ctrlMiddleware) handleIncomingCommand() bool {
	item := m.ctrlPort.PeekIncoming()
	if item == nil {
		return false
	}

	cmd, ok := item.(*mem.ControlMsg)
	if !ok {
		log.Panicf("adder: unsupported control message type %T", item)
	}

	m.ctrlPort.RetrieveIncoming()

	if cmd.Reset {
		m.reset()
	}
	m.enabled = cmd.Enable

	ack := sim.GeneralRspBuilder{}.
		WithSrc(m.ctrlPort.AsRemote()).
		WithDst(cmd.Src).
		WithOriginalReq(cmd).
		Build()

	if err := m.ctrlPort.Send(ack); err != nil {
		m.ctrlAcks = append(m.ctrlAcks, ack)
	}

	return true
}
