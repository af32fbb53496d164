package vm

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable listing of the program.
// Cells that do not decode to a complete instruction are listed as data.
func (p Program) Disassemble() string {
	return p.DisassembleWithName("")
}

// DisassembleWithName returns a listing with a name header.
func (p Program) DisassembleWithName(name string) string {
	var sb strings.Builder

	if name != "" {
		sb.WriteString(fmt.Sprintf("; === %s ===\n", name))
	}
	sb.WriteString(fmt.Sprintf("; %d cells\n", len(p)))

	addr := 0
	for addr < len(p) {
		line, width := p.disassembleInstruction(addr)
		sb.WriteString(fmt.Sprintf("%04d  %s\n", addr, line))
		addr += width
	}

	return sb.String()
}

// disassembleInstruction formats the instruction at addr.
// Returns the formatted string and the number of cells it covers.
func (p Program) disassembleInstruction(addr int) (string, int) {
	word := p[addr]
	in := Decode(word)
	info, ok := opcodeInfoTable[in.Op]
	if !ok || addr+1+info.Params > len(p) || word < 0 {
		return data(word), 1
	}

	operands := make([]string, info.Params)
	for i := range operands {
		mode := in.Modes[i]
		if !mode.Valid() || (info.Writes && i == info.Params-1 && mode == ModeImmediate) {
			return data(word), 1
		}
		operands[i] = formatOperand(p[addr+1+i], mode)
	}

	if len(operands) == 0 {
		return info.Name, 1
	}
	return fmt.Sprintf("%-4s %s", info.Name, strings.Join(operands, ", ")), 1 + info.Params
}

func formatOperand(raw int64, mode Mode) string {
	switch mode {
	case ModeImmediate:
		return fmt.Sprintf("#%d", raw)
	case ModeRelative:
		if raw < 0 {
			return fmt.Sprintf("rb%d", raw)
		}
		return fmt.Sprintf("rb+%d", raw)
	}
	return fmt.Sprintf("[%d]", raw)
}

func data(word int64) string {
	return fmt.Sprintf("DATA %d", word)
}
