package vm

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Program is the initial contents of a machine's memory. Machines never
// modify a Program; they run against a private copy.
type Program []int64

// Clone returns an independent copy of p.
func (p Program) Clone() Program {
	c := make(Program, len(p))
	copy(c, p)
	return c
}

// String renders p in the comma-separated text form it is loaded from.
func (p Program) String() string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return strings.Join(parts, ",")
}

// MaxAddress is the largest address a tape may grow to.
const MaxAddress = 1<<28 - 1

// Memory is the growable tape a machine executes against.
//
// Any access at or beyond the current length first zero-fills the tape up
// to and including that address, so reads and writes outside the original
// program succeed up to MaxAddress. Memory never shrinks.
type Memory struct {
	cells []int64
}

// NewMemory returns a Memory initialised with a copy of p.
func NewMemory(p Program) *Memory {
	cells := make([]int64, len(p))
	copy(cells, p)
	return &Memory{cells: cells}
}

// Len returns the current length of the tape.
func (m *Memory) Len() int {
	return len(m.cells)
}

// Read returns the cell at addr, growing the tape if needed.
func (m *Memory) Read(addr int64) (int64, error) {
	if err := m.grow(addr); err != nil {
		return 0, err
	}
	return m.cells[addr], nil
}

// Write stores value at addr, growing the tape if needed.
func (m *Memory) Write(addr, value int64) error {
	if err := m.grow(addr); err != nil {
		return err
	}
	m.cells[addr] = value
	return nil
}

// Snapshot returns a copy of the tape.
func (m *Memory) Snapshot() []int64 {
	return slices.Clone(m.cells)
}

// grow is the only place the tape is extended.
func (m *Memory) grow(addr int64) error {
	if addr < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeAddress, addr)
	}
	if addr < int64(len(m.cells)) {
		return nil
	}
	if addr > MaxAddress {
		return fmt.Errorf("%w: %d", ErrAddressTooLarge, addr)
	}
	old := len(m.cells)
	n := int(addr) + 1
	m.cells = slices.Grow(m.cells, n-old)[:n]
	clear(m.cells[old:])
	return nil
}
