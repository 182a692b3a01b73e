package regmap

import (
	"fmt"
	"log"
)

// FieldKind identifies which member of an adder's register triple a field is.
type FieldKind int

const (
	// KindA is the first operand register.
	KindA FieldKind = iota
	// KindB is the second operand register.
	KindB
	// KindSum is the derived, read-only sum register.
	KindSum
)

func (k FieldKind) String() string {
	switch k {
	case KindA:
		return "A"
	case KindB:
		return "B"
	case KindSum:
		return "Sum"
	}
	return fmt.Sprintf("FieldKind(%d)", int(k))
}

// AccessMode distinguishes read-write registers from read-only ones.
type AccessMode int

const (
	// AccessRW marks a register the bus may both read and write.
	AccessRW AccessMode = iota
	// AccessRO marks a register the bus may only read.
	AccessRO
)

func (m AccessMode) String() string {
	switch m {
	case AccessRW:
		return "RW"
	case AccessRO:
		return "RO"
	}
	return fmt.Sprintf("AccessMode(%d)", int(m))
}

// fieldsPerAdder is the number of registers per adder index: A, B, Sum.
const fieldsPerAdder = 3

// Field describes one addressable register.
type Field struct {
	// Name is the canonical register name, e.g. "A0" or "Sum3".
	Name string

	// Kind and Index locate the register within the map.
	Kind  FieldKind
	Index int

	// Offset is the byte offset of the field from the window base.
	Offset uint64

	// WidthBits is the addressable width of the field, always one full
	// beat regardless of the logical value width.
	WidthBits int

	// ValueBits is the logical width of the value the field carries: the
	// operand width for A and B, one more for Sum's carry bit.
	ValueBits int

	// Access is AccessRW for operands and AccessRO for sums.
	Access AccessMode

	// Reset is the stored value after reset. Sum keeps no stored state;
	// its post-reset value is derived from the zeroed operands.
	Reset uint64
}

// Table is the immutable register map of one peripheral instance. Build it
// once from a validated Config; it never changes afterwards.
type Table struct {
	cfg      Config
	fields   []Field
	byOffset map[uint64]int
}

// Build validates cfg and lays out the register map: for each adder index
// in increasing order an A, a B, and a Sum field, each exactly one beat
// wide, packed consecutively from offset zero with no gaps.
func Build(cfg Config) (*Table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid adder configuration: %w", err)
	}

	t := &Table{
		cfg:      cfg,
		fields:   make([]Field, 0, cfg.NumAdders*fieldsPerAdder),
		byOffset: make(map[uint64]int),
	}
	for i := 0; i < cfg.NumAdders; i++ {
		t.append(Field{
			Name:      fmt.Sprintf("A%d", i),
			Kind:      KindA,
			Index:     i,
			ValueBits: cfg.OperandWidth,
			Access:    AccessRW,
		})
		t.append(Field{
			Name:      fmt.Sprintf("B%d", i),
			Kind:      KindB,
			Index:     i,
			ValueBits: cfg.OperandWidth,
			Access:    AccessRW,
		})
		t.append(Field{
			Name:      fmt.Sprintf("Sum%d", i),
			Kind:      KindSum,
			Index:     i,
			ValueBits: cfg.OperandWidth + 1,
			Access:    AccessRO,
		})
	}

	return t, nil
}

func (t *Table) append(f Field) {
	f.Offset = uint64(len(t.fields)) * t.cfg.BeatBytes
	f.WidthBits = int(t.cfg.BeatBytes) * 8
	t.byOffset[f.Offset] = len(t.fields)
	t.fields = append(t.fields, f)
}

// Config returns the configuration the table was built from.
func (t *Table) Config() Config {
	return t.cfg
}

// Fields returns the ordered field list. Callers must not modify it.
func (t *Table) Fields() []Field {
	return t.fields
}

// Footprint returns the total size in bytes occupied by the registers.
func (t *Table) Footprint() uint64 {
	return t.cfg.Footprint()
}

// FieldAt resolves a window-relative byte offset to a field. Only exact
// beat-aligned field starts match; any other offset reports no field, which
// the transaction handler surfaces as an addressing fault.
func (t *Table) FieldAt(offset uint64) (Field, bool) {
	i, ok := t.byOffset[offset]
	if !ok {
		return Field{}, false
	}
	return t.fields[i], true
}

// Contains reports whether an absolute bus address falls inside the
// peripheral's window.
func (t *Table) Contains(addr uint64) bool {
	return addr >= t.cfg.BaseAddr && addr < t.cfg.BaseAddr+t.cfg.WindowSize
}

// OffsetOf returns the window-relative byte offset of a field. It panics if
// the index is outside the configured adder range.
func (t *Table) OffsetOf(kind FieldKind, index int) uint64 {
	if index < 0 || index >= t.cfg.NumAdders {
		log.Panicf("adder index %d out of range [0, %d)", index, t.cfg.NumAdders)
	}
	return (uint64(index)*fieldsPerAdder + uint64(kind)) * t.cfg.BeatBytes
}

// AddressOf returns the absolute bus address of a field. It panics if the
// index is outside the configured adder range.
func (t *Table) AddressOf(kind FieldKind, index int) uint64 {
	return t.cfg.BaseAddr + t.OffsetOf(kind, index)
}
