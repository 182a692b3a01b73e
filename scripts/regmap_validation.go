// Package main provides decode validation for register map layouts.
// Ensures that every mapped beat decodes to exactly one field and that
// the documented triple stride holds for any configuration.
package main

import (
	"fmt"
	"os"

	"github.com/sarchlab/addersim/regmap"
)

// validationConfigs covers the layout corners: the default shape, a single
// adder, a narrow datapath behind small beats, and a wide register file.
func validationConfigs() map[string]regmap.Config {
	narrow := regmap.DefaultConfig()
	narrow.NumAdders = 1
	narrow.OperandWidth = 8
	narrow.BeatBytes = 4

	wide := regmap.DefaultConfig()
	wide.NumAdders = 32

	single := regmap.DefaultConfig()
	single.NumAdders = 1

	return map[string]regmap.Config{
		"default": regmap.DefaultConfig(),
		"single":  single,
		"narrow":  narrow,
		"wide":    wide,
	}
}

// testExactDecode validates that beat-aligned offsets inside the footprint
// decode to exactly one field and everything else in the window misses.
func testExactDecode() bool {
	fmt.Println("Testing exact beat decode...")

	for name, cfg := range validationConfigs() {
		table, err := regmap.Build(cfg)
		if err != nil {
			fmt.Printf("❌ %s: build failed: %v\n", name, err)
			return false
		}

		hits := 0
		for off := uint64(0); off < cfg.WindowSize; off += cfg.BeatBytes {
			field, ok := table.FieldAt(off)
			inFootprint := off < table.Footprint()

			if ok != inFootprint {
				fmt.Printf("❌ %s: offset 0x%X decodes=%v, want %v\n",
					name, off, ok, inFootprint)
				return false
			}
			if ok {
				hits++
				if field.Offset != off {
					fmt.Printf("❌ %s: field %s reports offset 0x%X at 0x%X\n",
						name, field.Name, field.Offset, off)
					return false
				}
			}
		}

		if want := cfg.NumAdders * 3; hits != want {
			fmt.Printf("❌ %s: decoded %d fields, want %d\n", name, hits, want)
			return false
		}

		for off := uint64(1); off < cfg.BeatBytes; off++ {
			if _, ok := table.FieldAt(off); ok {
				fmt.Printf("❌ %s: misaligned offset 0x%X decodes\n", name, off)
				return false
			}
		}

		fmt.Printf("✅ %s: %d fields decode exactly once\n", name, hits)
	}

	return true
}

// testFieldLayout validates the documented triple stride: for index i the
// fields A, B, Sum sit at base + (3i+0..2) beats with RW, RW, RO access.
func testFieldLayout() bool {
	fmt.Println("\nTesting field layout...")

	for name, cfg := range validationConfigs() {
		table, err := regmap.Build(cfg)
		if err != nil {
			fmt.Printf("❌ %s: build failed: %v\n", name, err)
			return false
		}

		for i := 0; i < cfg.NumAdders; i++ {
			base := cfg.BaseAddr + uint64(i)*3*cfg.BeatBytes

			checks := []struct {
				kind   regmap.FieldKind
				addr   uint64
				access regmap.AccessMode
			}{
				{regmap.KindA, base, regmap.AccessRW},
				{regmap.KindB, base + cfg.BeatBytes, regmap.AccessRW},
				{regmap.KindSum, base + 2*cfg.BeatBytes, regmap.AccessRO},
			}

			for _, check := range checks {
				if got := table.AddressOf(check.kind, i); got != check.addr {
					fmt.Printf("❌ %s: %s%d at 0x%X, want 0x%X\n",
						name, check.kind, i, got, check.addr)
					return false
				}

				field, ok := table.FieldAt(check.addr - cfg.BaseAddr)
				if !ok || field.Access != check.access {
					fmt.Printf("❌ %s: %s%d access mode mismatch\n",
						name, check.kind, i)
					return false
				}
			}
		}

		fmt.Printf("✅ %s: triple stride holds for %d adders\n",
			name, cfg.NumAdders)
	}

	return true
}

// testBeatCodec validates the little-endian beat codec against known bytes
// and round trips the carry-extended sum width.
func testBeatCodec() bool {
	fmt.Println("\nTesting beat codec...")

	data := regmap.EncodeBeat(0x0102030405060708, 8)
	if data[0] != 0x08 || data[7] != 0x01 {
		fmt.Printf("❌ beat encoding is not little-endian: % X\n", data)
		return false
	}
	fmt.Println("✅ beats encode little-endian")

	values := []uint64{0, 1, 0xFF, 0xFFFFFFFF, 0x100000000, 0x1FFFFFFFF}
	for _, v := range values {
		got := regmap.DecodeBeat(regmap.EncodeBeat(v, 8))
		if got != v {
			fmt.Printf("❌ value 0x%X round-trips to 0x%X\n", v, got)
			return false
		}
	}
	fmt.Printf("✅ %d values round-trip through an 8-byte beat\n", len(values))

	return true
}

func main() {
	fmt.Println("AdderSim Register Map Validation")
	fmt.Println("=======================================================")

	allPassed := true

	if !testExactDecode() {
		allPassed = false
	}

	if !testFieldLayout() {
		allPassed = false
	}

	if !testBeatCodec() {
		allPassed = false
	}

	fmt.Println("\n=======================================================")
	if allPassed {
		fmt.Println("🎉 ALL LAYOUT TESTS PASSED")
		fmt.Println("✅ Register map decode matches the documented layout")
		os.Exit(0)
	} else {
		fmt.Println("❌ LAYOUT TESTS FAILED")
		fmt.Println("🚨 Register map decode disagrees with the documented layout")
		os.Exit(1)
	}
}
