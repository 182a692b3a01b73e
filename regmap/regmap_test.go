package regmap_test

import (
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/addersim/regmap"
)

func TestRegmap(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Regmap Suite")
}

var _ = Describe("Config", func() {
	It("should validate the default configuration", func() {
		Expect(regmap.DefaultConfig().Validate()).To(Succeed())
	})

	It("should reject a non-positive adder count", func() {
		cfg := regmap.DefaultConfig()
		cfg.NumAdders = 0
		Expect(cfg.Validate()).To(HaveOccurred())
	})

	It("should reject a non-positive operand width", func() {
		cfg := regmap.DefaultConfig()
		cfg.OperandWidth = 0
		Expect(cfg.Validate()).To(HaveOccurred())
	})

	It("should reject a beat size that is not a power of two", func() {
		cfg := regmap.DefaultConfig()
		cfg.BeatBytes = 3
		Expect(cfg.Validate()).To(HaveOccurred())
	})

	It("should reject a beat size above eight bytes", func() {
		cfg := regmap.DefaultConfig()
		cfg.BeatBytes = 16
		Expect(cfg.Validate()).To(HaveOccurred())
	})

	It("should reject an operand width whose carry does not fit a beat", func() {
		cfg := regmap.DefaultConfig()
		cfg.OperandWidth = 32
		cfg.BeatBytes = 4
		Expect(cfg.Validate()).To(HaveOccurred())
	})

	It("should accept an operand width whose carry exactly fills a beat", func() {
		cfg := regmap.DefaultConfig()
		cfg.OperandWidth = 31
		cfg.BeatBytes = 4
		Expect(cfg.Validate()).To(Succeed())
	})

	It("should reject a window that is not a power of two", func() {
		cfg := regmap.DefaultConfig()
		cfg.WindowSize = 4095
		Expect(cfg.Validate()).To(HaveOccurred())
	})

	It("should reject a footprint larger than the window", func() {
		cfg := regmap.DefaultConfig()
		cfg.NumAdders = 171 // 171 * 3 * 8 = 4104 > 4096
		Expect(cfg.Validate()).To(HaveOccurred())
	})

	It("should accept a footprint that exactly fills the window", func() {
		cfg := regmap.DefaultConfig()
		cfg.NumAdders = 170 // 170 * 3 * 8 = 4080 <= 4096
		Expect(cfg.Validate()).To(Succeed())
	})

	It("should reject a base address not aligned to the window", func() {
		cfg := regmap.DefaultConfig()
		cfg.BaseAddr = 0x4100
		Expect(cfg.Validate()).To(HaveOccurred())
	})

	It("should report the register footprint", func() {
		cfg := regmap.DefaultConfig()
		Expect(cfg.Footprint()).To(Equal(uint64(2 * 3 * 8)))
	})

	It("should load a partial JSON file over the defaults", func() {
		path := filepath.Join(GinkgoT().TempDir(), "adder.json")
		cfg := regmap.DefaultConfig()
		cfg.NumAdders = 4
		Expect(cfg.SaveConfig(path)).To(Succeed())

		loaded, err := regmap.LoadConfig(path)
		Expect(err).ToNot(HaveOccurred())
		Expect(loaded).To(Equal(cfg))
	})

	It("should fail to load a missing config file", func() {
		_, err := regmap.LoadConfig(filepath.Join(GinkgoT().TempDir(), "nope.json"))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Table", func() {
	var table *regmap.Table

	BeforeEach(func() {
		var err error
		table, err = regmap.Build(regmap.DefaultConfig())
		Expect(err).ToNot(HaveOccurred())
	})

	It("should refuse to build from an invalid configuration", func() {
		cfg := regmap.DefaultConfig()
		cfg.NumAdders = -1
		_, err := regmap.Build(cfg)
		Expect(err).To(HaveOccurred())
	})

	It("should lay out A, B, Sum triples in index order", func() {
		fields := table.Fields()
		Expect(fields).To(HaveLen(6))

		names := make([]string, 0, len(fields))
		for _, f := range fields {
			names = append(names, f.Name)
		}
		Expect(names).To(Equal([]string{"A0", "B0", "Sum0", "A1", "B1", "Sum1"}))
	})

	It("should assign consecutive beat-aligned offsets with no gaps", func() {
		for i, f := range table.Fields() {
			Expect(f.Offset).To(Equal(uint64(i) * 8))
			Expect(f.WidthBits).To(Equal(64))
		}
	})

	It("should mark operands read-write and sums read-only", func() {
		for _, f := range table.Fields() {
			switch f.Kind {
			case regmap.KindSum:
				Expect(f.Access).To(Equal(regmap.AccessRO))
				Expect(f.ValueBits).To(Equal(33))
			default:
				Expect(f.Access).To(Equal(regmap.AccessRW))
				Expect(f.ValueBits).To(Equal(32))
				Expect(f.Reset).To(Equal(uint64(0)))
			}
		}
	})

	It("should resolve exact field offsets", func() {
		f, ok := table.FieldAt(16)
		Expect(ok).To(BeTrue())
		Expect(f.Name).To(Equal("Sum0"))
	})

	It("should not resolve a misaligned offset", func() {
		_, ok := table.FieldAt(4)
		Expect(ok).To(BeFalse())
	})

	It("should not resolve the offset one beat past the last field", func() {
		_, ok := table.FieldAt(table.Footprint())
		Expect(ok).To(BeFalse())
	})

	It("should report window membership for absolute addresses", func() {
		Expect(table.Contains(0x4000)).To(BeTrue())
		Expect(table.Contains(0x4fff)).To(BeTrue())
		Expect(table.Contains(0x3fff)).To(BeFalse())
		Expect(table.Contains(0x5000)).To(BeFalse())
	})

	It("should compute absolute field addresses", func() {
		Expect(table.AddressOf(regmap.KindA, 0)).To(Equal(uint64(0x4000)))
		Expect(table.AddressOf(regmap.KindSum, 1)).To(Equal(uint64(0x4028)))
	})

	It("should panic on an out-of-range adder index", func() {
		Expect(func() { table.AddressOf(regmap.KindA, 2) }).To(Panic())
	})

	It("should place the 8-bit single-adder scenario at the documented addresses", func() {
		cfg := regmap.Config{
			NumAdders:    1,
			OperandWidth: 8,
			BeatBytes:    4,
			BaseAddr:     0x4000,
			WindowSize:   4096,
		}
		t8, err := regmap.Build(cfg)
		Expect(err).ToNot(HaveOccurred())

		Expect(t8.AddressOf(regmap.KindA, 0)).To(Equal(uint64(0x4000)))
		Expect(t8.AddressOf(regmap.KindB, 0)).To(Equal(uint64(0x4004)))
		Expect(t8.AddressOf(regmap.KindSum, 0)).To(Equal(uint64(0x4008)))
	})
})
