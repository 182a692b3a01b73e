// Package regmap defines the build-time configuration and register layout
// of the adder peripheral.
package regmap

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds the build-time parameters of the adder peripheral. The
// values are fixed when the peripheral is instantiated; there is no runtime
// reconfiguration.
type Config struct {
	// NumAdders is the number of independent adder register triples.
	// Default: 2.
	NumAdders int `json:"num_adders"`

	// OperandWidth is the logical width of each operand in bits. Stored
	// operands are masked to this width; a sum carries one extra bit for
	// the carry-out. Default: 32.
	OperandWidth int `json:"operand_width"`

	// BeatBytes is the bus's native transfer granularity. Every register
	// field occupies exactly one beat, and the carry-extended sum must fit
	// in one beat. Default: 8.
	BeatBytes uint64 `json:"beat_bytes"`

	// BaseAddr is the bus address of the first register. The window is
	// naturally aligned, so BaseAddr must be a multiple of WindowSize.
	// Default: 0x4000.
	BaseAddr uint64 `json:"base_addr"`

	// WindowSize is the size in bytes of the address window owned by the
	// peripheral. Must be a power of two and at least the register
	// footprint. The window never grows to fit the registers. Default: 4096.
	WindowSize uint64 `json:"window_size"`
}

// DefaultConfig returns the reference configuration: two 32-bit adders on
// an 8-byte bus, 4 KiB window at 0x4000.
func DefaultConfig() Config {
	return Config{
		NumAdders:    2,
		OperandWidth: 32,
		BeatBytes:    8,
		BaseAddr:     0x4000,
		WindowSize:   4096,
	}
}

// LoadConfig loads a Config from a JSON file. Fields absent from the file
// keep their default values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read adder config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse adder config: %w", err)
	}

	return config, nil
}

// SaveConfig writes the Config to a JSON file.
func (c Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize adder config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write adder config file: %w", err)
	}

	return nil
}

// Footprint returns the total register footprint in bytes:
// NumAdders triples of one beat each.
func (c Config) Footprint() uint64 {
	return uint64(c.NumAdders) * fieldsPerAdder * c.BeatBytes
}

// OperandMask returns the bit mask selecting the OperandWidth low bits.
func (c Config) OperandMask() uint64 {
	if c.OperandWidth >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(c.OperandWidth)) - 1
}

// Validate checks the configuration invariants. A non-nil error is fatal:
// the peripheral must not be constructed from an invalid Config.
func (c Config) Validate() error {
	if c.NumAdders < 1 {
		return fmt.Errorf("num_adders must be >= 1, got %d", c.NumAdders)
	}
	if c.OperandWidth < 1 {
		return fmt.Errorf("operand_width must be >= 1, got %d", c.OperandWidth)
	}
	if !isPowerOfTwo(c.BeatBytes) || c.BeatBytes > 8 {
		return fmt.Errorf("beat_bytes must be 1, 2, 4, or 8, got %d", c.BeatBytes)
	}
	if uint64(c.OperandWidth)+1 > c.BeatBytes*8 {
		return fmt.Errorf(
			"operand_width %d leaves no room for the carry bit in a %d-byte beat",
			c.OperandWidth, c.BeatBytes)
	}
	if !isPowerOfTwo(c.WindowSize) {
		return fmt.Errorf("window_size must be a power of two, got %d", c.WindowSize)
	}
	if c.Footprint() > c.WindowSize {
		return fmt.Errorf(
			"register footprint %d bytes exceeds the %d-byte window",
			c.Footprint(), c.WindowSize)
	}
	if c.BaseAddr%c.WindowSize != 0 {
		return fmt.Errorf(
			"base_addr 0x%x is not aligned to the 0x%x-byte window",
			c.BaseAddr, c.WindowSize)
	}
	return nil
}

func isPowerOfTwo(n uint64) bool {
	return n > 0 && n&(n-1) == 0
}
