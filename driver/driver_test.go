package driver_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/akita/v4/sim/directconnection"

	"github.com/sarchlab/addersim/adder"
	"github.com/sarchlab/addersim/driver"
	"github.com/sarchlab/addersim/regmap"
)

func TestDriver(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Driver Suite")
}

var _ = Describe("Driver", func() {
	var engine sim.Engine

	buildSystem := func(
		periphCfg, driverCfg regmap.Config,
		jobs []*driver.Job,
		resetFirst bool,
	) (*adder.Comp, *driver.Comp) {
		engine = sim.NewSerialEngine()

		periph := adder.MakeBuilder().
			WithEngine(engine).
			WithConfig(periphCfg).
			Build("Adder")

		drv := driver.MakeBuilder().
			WithEngine(engine).
			WithConfig(driverCfg).
			WithJobs(jobs).
			WithLowModule(periph.TopPort()).
			WithCtrlModule(periph.CtrlPort()).
			WithResetFirst(resetFirst).
			Build("Driver")

		conn := directconnection.MakeBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			Build("Conn")

		conn.PlugIn(periph.TopPort())
		conn.PlugIn(periph.CtrlPort())
		conn.PlugIn(drv.GetPortByName("Mem"))
		conn.PlugIn(drv.GetPortByName("Ctrl"))

		return periph, drv
	}

	runSystem := func(drv *driver.Comp) {
		drv.TickLater()
		Expect(engine.Run()).To(Succeed())
	}

	It("should run each job through write A, write B, read Sum", func() {
		cfg := regmap.DefaultConfig()
		jobs := []*driver.Job{
			{Index: 0, A: 1, B: 2},
			{Index: 1, A: 0xFFFFFFFF, B: 1},
			{Index: 0, A: 400, B: 44},
		}

		periph, drv := buildSystem(cfg, cfg, jobs, false)
		runSystem(drv)

		Expect(drv.Done()).To(BeTrue())

		stats := drv.Stats()
		Expect(stats.JobsCompleted).To(Equal(3))
		Expect(stats.JobsFailed).To(Equal(0))
		Expect(stats.WritesIssued).To(Equal(uint64(6)))
		Expect(stats.ReadsIssued).To(Equal(uint64(3)))

		Expect(jobs[0].Got).To(Equal(uint64(3)))
		Expect(jobs[1].Got).To(Equal(uint64(0x100000000)))
		Expect(jobs[2].Got).To(Equal(uint64(444)))

		Expect(periph.OperandA(0)).To(Equal(uint64(400)))
		Expect(periph.OperandB(0)).To(Equal(uint64(44)))
	})

	It("should keep jobs on the same index from interleaving", func() {
		cfg := regmap.DefaultConfig()
		jobs := make([]*driver.Job, 0, 20)
		for i := 0; i < 20; i++ {
			jobs = append(jobs, &driver.Job{
				Index: 0,
				A:     uint64(i),
				B:     uint64(1000 * i),
			})
		}

		_, drv := buildSystem(cfg, cfg, jobs, false)
		runSystem(drv)

		Expect(drv.Stats().JobsCompleted).To(Equal(20))
		Expect(drv.Stats().Mismatches).To(Equal(uint64(0)))
		for _, job := range jobs {
			Expect(job.Got).To(Equal(job.A + job.B))
		}
	})

	It("should run a generated workload without mismatches", func() {
		cfg := regmap.DefaultConfig()
		cfg.NumAdders = 4
		jobs := driver.GenerateJobs(200, 42, cfg)

		periph, drv := buildSystem(cfg, cfg, jobs, false)
		runSystem(drv)

		Expect(drv.Done()).To(BeTrue())
		Expect(drv.Stats().JobsCompleted).To(Equal(200))
		Expect(drv.Stats().BusErrors).To(Equal(uint64(0)))
		Expect(drv.Stats().Mismatches).To(Equal(uint64(0)))

		Expect(periph.Stats().Writes).To(Equal(uint64(400)))
		Expect(periph.Stats().SumReads).To(Equal(uint64(200)))
	})

	It("should reset the peripheral before the first job", func() {
		cfg := regmap.DefaultConfig()
		jobs := []*driver.Job{{Index: 0, A: 7, B: 8}}

		periph, drv := buildSystem(cfg, cfg, jobs, true)
		runSystem(drv)

		Expect(periph.Stats().Resets).To(Equal(uint64(1)))
		Expect(drv.Stats().JobsCompleted).To(Equal(1))
		Expect(jobs[0].Got).To(Equal(uint64(15)))
	})

	It("should fail jobs the peripheral faults on", func() {
		periphCfg := regmap.DefaultConfig()
		driverCfg := regmap.DefaultConfig()
		driverCfg.NumAdders = 4

		jobs := []*driver.Job{
			{Index: 0, A: 1, B: 2},
			{Index: 3, A: 5, B: 6},
		}

		_, drv := buildSystem(periphCfg, driverCfg, jobs, false)
		runSystem(drv)

		Expect(drv.Stats().JobsCompleted).To(Equal(1))
		Expect(drv.Stats().JobsFailed).To(Equal(1))
		Expect(drv.Stats().BusErrors).To(Equal(uint64(1)))
		Expect(jobs[0].Failed).To(BeFalse())
		Expect(jobs[1].Failed).To(BeTrue())
	})

	It("should flag sums that disagree with the expected value", func() {
		periphCfg := regmap.DefaultConfig()
		periphCfg.OperandWidth = 8
		driverCfg := regmap.DefaultConfig()

		jobs := []*driver.Job{{Index: 0, A: 0x1FF, B: 0}}

		_, drv := buildSystem(periphCfg, driverCfg, jobs, false)
		runSystem(drv)

		Expect(drv.Stats().Mismatches).To(Equal(uint64(1)))
		Expect(jobs[0].Failed).To(BeTrue())
		Expect(jobs[0].Got).To(Equal(uint64(0xFF)))
	})
})

var _ = Describe("GenerateJobs", func() {
	It("should be reproducible for a seed", func() {
		cfg := regmap.DefaultConfig()

		first := driver.GenerateJobs(50, 7, cfg)
		second := driver.GenerateJobs(50, 7, cfg)

		Expect(second).To(HaveLen(len(first)))
		for i := range first {
			Expect(*second[i]).To(Equal(*first[i]))
		}
	})

	It("should honor the index range and operand width", func() {
		cfg := regmap.DefaultConfig()
		cfg.NumAdders = 3
		cfg.OperandWidth = 16

		for _, job := range driver.GenerateJobs(200, 13, cfg) {
			Expect(job.Index).To(BeNumerically("<", 3))
			Expect(job.A).To(BeNumerically("<=", uint64(0xFFFF)))
			Expect(job.B).To(BeNumerically("<=", uint64(0xFFFF)))
		}
	})
})
