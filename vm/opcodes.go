package vm

import (
	"fmt"
	"slices"
)

// Opcode selects the operation of an instruction. It is the low two
// decimal digits of the instruction word.
type Opcode int64

const (
	OpAdd        Opcode = 1  // dest = p1 + p2
	OpMul        Opcode = 2  // dest = p1 * p2
	OpInput      Opcode = 3  // dest = read()
	OpOutput     Opcode = 4  // write(p1)
	OpJumpTrue   Opcode = 5  // if p1 != 0 jump to p2
	OpJumpFalse  Opcode = 6  // if p1 == 0 jump to p2
	OpLessThan   Opcode = 7  // dest = p1 < p2
	OpEquals     Opcode = 8  // dest = p1 == p2
	OpAdjustBase Opcode = 9  // relative base += p1
	OpHalt       Opcode = 99 // stop
)

// MaxParams is the largest number of parameters an instruction takes.
const MaxParams = 3

// OpcodeInfo provides metadata about each opcode for decoding and
// disassembly.
type OpcodeInfo struct {
	Name   string // Mnemonic
	Params int    // Number of parameters following the instruction word
	Writes bool   // Last parameter is a destination address
}

var opcodeInfoTable = map[Opcode]OpcodeInfo{
	OpAdd:        {"ADD", 3, true},
	OpMul:        {"MUL", 3, true},
	OpInput:      {"IN", 1, true},
	OpOutput:     {"OUT", 1, false},
	OpJumpTrue:   {"JNZ", 2, false},
	OpJumpFalse:  {"JZ", 2, false},
	OpLessThan:   {"LT", 3, true},
	OpEquals:     {"EQ", 3, true},
	OpAdjustBase: {"ARB", 1, false},
	OpHalt:       {"HALT", 0, false},
}

// GetOpcodeInfo returns metadata for an opcode.
// Returns an OpcodeInfo named "UNKNOWN(n)" if the opcode is not recognized.
func GetOpcodeInfo(op Opcode) OpcodeInfo {
	if info, ok := opcodeInfoTable[op]; ok {
		return info
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN(%d)", int64(op))}
}

// String returns the mnemonic of an opcode.
func (op Opcode) String() string {
	return GetOpcodeInfo(op).Name
}

// Valid reports whether op is part of the instruction set.
func (op Opcode) Valid() bool {
	_, ok := opcodeInfoTable[op]
	return ok
}

// Width returns the number of cells an instruction occupies
// (the instruction word plus its parameters).
func (op Opcode) Width() int {
	return 1 + GetOpcodeInfo(op).Params
}

// IsJump returns true if this opcode may move the program counter to an
// arbitrary address.
func (op Opcode) IsJump() bool {
	return op == OpJumpTrue || op == OpJumpFalse
}

// AllOpcodes returns every defined opcode in ascending order.
func AllOpcodes() []Opcode {
	opcodes := make([]Opcode, 0, len(opcodeInfoTable))
	for op := range opcodeInfoTable {
		opcodes = append(opcodes, op)
	}
	slices.Sort(opcodes)
	return opcodes
}

// Mode is the addressing interpretation of one parameter.
type Mode int

const (
	ModePosition  Mode = 0 // Parameter is an address
	ModeImmediate Mode = 1 // Parameter is the value
	ModeRelative  Mode = 2 // Parameter plus relative base is an address
)

func (m Mode) String() string {
	switch m {
	case ModePosition:
		return "position"
	case ModeImmediate:
		return "immediate"
	case ModeRelative:
		return "relative"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Valid reports whether m is one of the three addressing modes.
func (m Mode) Valid() bool {
	return m >= ModePosition && m <= ModeRelative
}

// Instruction is a decoded instruction word.
type Instruction struct {
	Op    Opcode
	Modes [MaxParams]Mode
}

// Decode splits an instruction word into its opcode and parameter modes.
// The opcode is word mod 100; the remaining decimal digits give one mode
// per parameter, least significant first. Missing digits are position
// mode. Decode does not validate; unknown opcodes and modes are reported
// when the instruction executes.
func Decode(word int64) Instruction {
	in := Instruction{Op: Opcode(word % 100)}
	rest := word / 100
	for i := range in.Modes {
		in.Modes[i] = Mode(rest % 10)
		rest /= 10
	}
	return in
}

// Encode is the inverse of Decode for valid instructions.
func Encode(in Instruction) int64 {
	word := int64(in.Op)
	scale := int64(100)
	for _, m := range in.Modes {
		word += int64(m) * scale
		scale *= 10
	}
	return word
}
