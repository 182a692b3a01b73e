package adder_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/addersim/adder"
	"github.com/sarchlab/addersim/regmap"
)

func TestAdder(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Adder Suite")
}

var _ = Describe("Builder", func() {
	var engine sim.Engine

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
	})

	It("should build a component with the default configuration", func() {
		periph := adder.MakeBuilder().
			WithEngine(engine).
			Build("Adder")

		Expect(periph.Table().Config()).To(Equal(regmap.DefaultConfig()))
		Expect(periph.TopPort()).NotTo(BeNil())
		Expect(periph.CtrlPort()).NotTo(BeNil())
	})

	It("should panic without an engine", func() {
		Expect(func() {
			adder.MakeBuilder().Build("Adder")
		}).To(Panic())
	})

	It("should panic on an invalid register map", func() {
		cfg := regmap.DefaultConfig()
		cfg.NumAdders = 0

		Expect(func() {
			adder.MakeBuilder().
				WithEngine(engine).
				WithConfig(cfg).
				Build("Adder")
		}).To(Panic())
	})

	It("should panic on a non-positive decode latency", func() {
		Expect(func() {
			adder.MakeBuilder().
				WithEngine(engine).
				WithDecodeLatency(0).
				Build("Adder")
		}).To(Panic())
	})

	It("should panic on a non-positive in-flight limit", func() {
		Expect(func() {
			adder.MakeBuilder().
				WithEngine(engine).
				WithMaxInflight(0).
				Build("Adder")
		}).To(Panic())
	})
})

var _ = Describe("BusErrorRsp", func() {
	It("should respond to the original request", func() {
		rsp := adder.BusErrorRspBuilder{}.
			WithRspTo("req-1").
			WithFault(adder.FaultBadAddress).
			Build()

		Expect(rsp.GetRspTo()).To(Equal("req-1"))
		Expect(rsp.Fault).To(Equal(adder.FaultBadAddress))
	})

	It("should clone with a fresh ID", func() {
		rsp := adder.BusErrorRspBuilder{}.
			WithRspTo("req-1").
			WithFault(adder.FaultReadOnly).
			Build()

		cloned := rsp.Clone().(*adder.BusErrorRsp)

		Expect(cloned.Meta().ID).NotTo(Equal(rsp.Meta().ID))
		Expect(cloned.GetRspTo()).To(Equal("req-1"))
		Expect(cloned.Fault).To(Equal(adder.FaultReadOnly))
	})

	It("should name the fault kinds", func() {
		Expect(adder.FaultNone.String()).To(Equal("none"))
		Expect(adder.FaultBadAddress.String()).To(Equal("bad address"))
		Expect(adder.FaultReadOnly.String()).To(Equal("read-only violation"))
	})
})
