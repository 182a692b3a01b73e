// Package driver provides the bus master that exercises the adder
// peripheral the way a software driver would: write both operands of an
// adder, read back the sum, and check it.
package driver

import (
	"log"
	"math/rand"

	"github.com/sarchlab/akita/v4/mem/mem"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/addersim/adder"
	"github.com/sarchlab/addersim/regmap"
)

// A Job drives one adder index through the software contract: write A_i,
// write B_i, then read Sum_i and compare it against the carry-extended sum.
type Job struct {
	Index int
	A, B  uint64

	Got    uint64
	Done   bool
	Failed bool
}

// Stats summarizes the traffic a driver has generated.
type Stats struct {
	JobsCompleted int
	JobsFailed    int
	WritesIssued  uint64
	ReadsIssued   uint64
	BusErrors     uint64
	Mismatches    uint64
}

type phase int

const (
	phaseWriteA phase = iota
	phaseWriteB
	phaseReadSum
)

type activeJob struct {
	job   *Job
	phase phase
}

// Comp issues job requests to the peripheral, several jobs in flight across
// distinct adder indices and one outstanding request per job. A job aimed
// at an index that is still being worked on waits, so every job observes
// only its own operands.
type Comp struct {
	*sim.TickingComponent

	// LowModule is the peripheral's Top port; CtrlModule its Ctrl port.
	LowModule  sim.Port
	CtrlModule sim.Port

	table       *regmap.Table
	maxInflight int
	resetFirst  bool

	jobs      []*Job
	nextJob   int
	runnable  []*activeJob
	pending   map[string]*activeJob
	busyIndex map[int]bool

	resetSent string
	resetDone bool

	memPort  sim.Port
	ctrlPort sim.Port

	stats Stats
}

// Tick retires responses and issues new requests.
func (c *Comp) Tick() bool {
	madeProgress := false

	madeProgress = c.processResponses() || madeProgress
	madeProgress = c.processCtrlResponses() || madeProgress

	if c.resetFirst && !c.resetDone {
		madeProgress = c.issueReset() || madeProgress
		return madeProgress
	}

	madeProgress = c.admitJobs() || madeProgress
	madeProgress = c.issueRequests() || madeProgress

	return madeProgress
}

// Table returns the register map the driver addresses against.
func (c *Comp) Table() *regmap.Table {
	return c.table
}

// Jobs returns the driver's workload for inspection after a run.
func (c *Comp) Jobs() []*Job {
	return c.jobs
}

// Stats returns a snapshot of the traffic counters.
func (c *Comp) Stats() Stats {
	return c.stats
}

// Done reports whether every job has retired.
func (c *Comp) Done() bool {
	return c.stats.JobsCompleted+c.stats.JobsFailed == len(c.jobs)
}

func (c *Comp) processResponses() bool {
	madeProgress := false

	for {
		msg := c.memPort.RetrieveIncoming()
		if msg == nil {
			break
		}

		switch rsp := msg.(type) {
		case *mem.WriteDoneRsp:
			c.handleWriteDone(rsp)
		case *mem.DataReadyRsp:
			c.handleDataReady(rsp)
		case *adder.BusErrorRsp:
			c.handleBusError(rsp)
		default:
			log.Panicf("driver: unsupported response type %T", msg)
		}

		madeProgress = true
	}

	return madeProgress
}

func (c *Comp) handleWriteDone(rsp *mem.WriteDoneRsp) {
	step := c.takePending(rsp.RespondTo)

	switch step.phase {
	case phaseWriteA:
		step.phase = phaseWriteB
	case phaseWriteB:
		step.phase = phaseReadSum
	default:
		log.Panicf("driver: write done arrived in read phase")
	}

	c.runnable = append(c.runnable, step)
}

func (c *Comp) handleDataReady(rsp *mem.DataReadyRsp) {
	step := c.takePending(rsp.RespondTo)
	if step.phase != phaseReadSum {
		log.Panicf("driver: data ready arrived in write phase")
	}

	job := step.job
	job.Got = regmap.DecodeBeat(rsp.Data)
	job.Done = true

	if job.Got != c.expectedSum(job) {
		job.Failed = true
		c.stats.Mismatches++
	}

	c.finishJob(job)
}

func (c *Comp) handleBusError(rsp *adder.BusErrorRsp) {
	step := c.takePending(rsp.RespondTo)

	step.job.Done = true
	step.job.Failed = true
	c.stats.BusErrors++

	c.finishJob(step.job)
}

func (c *Comp) takePending(rspTo string) *activeJob {
	step, ok := c.pending[rspTo]
	if !ok {
		log.Panicf("driver: response to unknown request %s", rspTo)
	}
	delete(c.pending, rspTo)

	return step
}

func (c *Comp) finishJob(job *Job) {
	delete(c.busyIndex, job.Index)

	if job.Failed {
		c.stats.JobsFailed++
		return
	}
	c.stats.JobsCompleted++
}

func (c *Comp) expectedSum(job *Job) uint64 {
	mask := c.table.Config().OperandMask()
	return (job.A & mask) + (job.B & mask)
}

// admitJobs starts jobs in submission order. A job aimed at a busy index
// blocks admission until the job holding that index retires.
func (c *Comp) admitJobs() bool {
	madeProgress := false

	for c.nextJob < len(c.jobs) &&
		len(c.pending)+len(c.runnable) < c.maxInflight {
		job := c.jobs[c.nextJob]
		if c.busyIndex[job.Index] {
			break
		}

		c.busyIndex[job.Index] = true
		c.runnable = append(c.runnable, &activeJob{job: job})
		c.nextJob++
		madeProgress = true
	}

	return madeProgress
}

func (c *Comp) issueRequests() bool {
	madeProgress := false

	remaining := c.runnable[:0]
	for i, step := range c.runnable {
		req := c.buildRequest(step)
		if err := c.memPort.Send(req); err != nil {
			remaining = append(remaining, c.runnable[i:]...)
			break
		}

		c.pending[req.Meta().ID] = step
		if step.phase == phaseReadSum {
			c.stats.ReadsIssued++
		} else {
			c.stats.WritesIssued++
		}
		madeProgress = true
	}
	c.runnable = remaining

	return madeProgress
}

func (c *Comp) buildRequest(step *activeJob) sim.Msg {
	job := step.job

	switch step.phase {
	case phaseWriteA:
		return c.buildWrite(c.table.AddressOf(regmap.KindA, job.Index), job.A)
	case phaseWriteB:
		return c.buildWrite(c.table.AddressOf(regmap.KindB, job.Index), job.B)
	case phaseReadSum:
		return c.buildRead(c.table.AddressOf(regmap.KindSum, job.Index))
	}

	log.Panicf("driver: job in impossible phase %d", step.phase)
	return nil
}

func (c *Comp) buildWrite(addr, value uint64) *mem.WriteReq {
	return mem.WriteReqBuilder{}.
		WithSrc(c.memPort.AsRemote()).
		WithDst(c.LowModule.AsRemote()).
		WithAddress(addr).
		WithPID(1).
		WithData(regmap.EncodeBeat(value, c.table.Config().BeatBytes)).
		Build()
}

func (c *Comp) buildRead(addr uint64) *mem.ReadReq {
	return mem.ReadReqBuilder{}.
		WithSrc(c.memPort.AsRemote()).
		WithDst(c.LowModule.AsRemote()).
		WithAddress(addr).
		WithByteSize(c.table.Config().BeatBytes).
		WithPID(1).
		Build()
}

// issueReset sends one control word that pulses reset and leaves the
// peripheral enabled. Jobs start once the acknowledgement returns.
func (c *Comp) issueReset() bool {
	if c.resetSent != "" {
		return false
	}

	cmd := mem.ControlMsgBuilder{}.
		WithSrc(c.ctrlPort.AsRemote()).
		WithDst(c.CtrlModule.AsRemote()).
		WithReset(true).
		WithEnable(true).
		ToNotifyDone().
		Build()

	if err := c.ctrlPort.Send(cmd); err != nil {
		return false
	}

	c.resetSent = cmd.ID

	return true
}

func (c *Comp) processCtrlResponses() bool {
	msg := c.ctrlPort.RetrieveIncoming()
	if msg == nil {
		return false
	}

	rsp, ok := msg.(*sim.GeneralRsp)
	if !ok {
		log.Panicf("driver: unsupported control response type %T", msg)
	}

	if rsp.GetRspTo() == c.resetSent {
		c.resetDone = true
	}

	return true
}

// GenerateJobs builds a reproducible random workload of n jobs spread over
// the configured adder indices, operands within the operand width.
func GenerateJobs(n int, seed int64, cfg regmap.Config) []*Job {
	r := rand.New(rand.NewSource(seed))
	mask := cfg.OperandMask()

	jobs := make([]*Job, 0, n)
	for i := 0; i < n; i++ {
		jobs = append(jobs, &Job{
			Index: r.Intn(cfg.NumAdders),
			A:     r.Uint64() & mask,
			B:     r.Uint64() & mask,
		})
	}

	return jobs
}
