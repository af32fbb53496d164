package vm

import (
	"errors"
	"fmt"
)

// Fatal conditions. A program that triggers any of them is malformed;
// the machine stops and Run returns the condition wrapped in a *Fault.
var (
	ErrUnknownOpcode   = errors.New("unknown opcode")
	ErrImmediateWrite  = errors.New("write parameter in immediate mode")
	ErrInvalidMode     = errors.New("invalid parameter mode")
	ErrNegativeAddress = errors.New("negative address")
	ErrAddressTooLarge = errors.New("address beyond memory limit")
	ErrInputExhausted  = errors.New("input exhausted")
)

// Fault describes the instruction that stopped a machine.
type Fault struct {
	PC   int64 // Address of the faulting instruction
	Word int64 // Raw instruction word at PC
	Err  error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("vm: fault at %d (word %d): %v", f.PC, f.Word, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// IsFault reports whether err carries a *Fault and returns it.
func IsFault(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
