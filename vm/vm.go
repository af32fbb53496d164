package vm

import (
	"fmt"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("intcode.vm")

// State is the execution state of a machine.
type State int

const (
	Running State = iota
	Halted
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Halted:
		return "halted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Option configures a Machine.
type Option func(*Machine)

// WithTrace logs every decoded instruction at debug level.
func WithTrace(on bool) Option {
	return func(m *Machine) {
		m.Trace = on
	}
}

// Machine executes one program against its own memory.
type Machine struct {
	mem     *Memory
	pc      int64 // Program counter
	relBase int64 // Relative base register
	io      IO
	state   State
	steps   uint64
	fault   error // Sticky once set

	// Trace logs each instruction before it executes.
	Trace bool
}

// NewMachine creates a machine that will run a copy of p, exchanging
// data through io.
func NewMachine(p Program, io IO, opts ...Option) *Machine {
	m := &Machine{
		mem: NewMemory(p),
		io:  io,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Memory returns the machine's memory.
func (m *Machine) Memory() *Memory { return m.mem }

// PC returns the program counter.
func (m *Machine) PC() int64 { return m.pc }

// RelativeBase returns the relative base register.
func (m *Machine) RelativeBase() int64 { return m.relBase }

// State returns the execution state.
func (m *Machine) State() State { return m.state }

// Steps returns the number of instructions executed.
func (m *Machine) Steps() uint64 { return m.steps }

// Run executes instructions until the machine halts or faults.
// A faulted machine keeps returning the same fault.
func (m *Machine) Run() error {
	for {
		running, err := m.Step()
		if err != nil {
			return err
		}
		if !running {
			return nil
		}
	}
}

// Step executes a single instruction and reports whether the machine is
// still running afterwards.
func (m *Machine) Step() (bool, error) {
	if m.fault != nil {
		return false, m.fault
	}
	if m.state == Halted {
		return false, nil
	}
	if m.io.ShouldHalt() {
		m.halt()
		return false, nil
	}

	pc := m.pc
	word, err := m.mem.Read(pc)
	if err != nil {
		return false, m.setFault(pc, word, err)
	}
	in := Decode(word)

	if m.Trace {
		log.Debugf("[%04d] %-12s modes=%d%d%d rb=%d", pc, in.Op, in.Modes[0], in.Modes[1], in.Modes[2], m.relBase)
	}

	if err := m.execute(in); err != nil {
		return false, m.setFault(pc, word, err)
	}
	m.steps++
	return m.state == Running, nil
}

func (m *Machine) execute(in Instruction) error {
	switch in.Op {
	case OpAdd, OpMul, OpLessThan, OpEquals:
		a, err := m.param(in, 0)
		if err != nil {
			return err
		}
		b, err := m.param(in, 1)
		if err != nil {
			return err
		}
		if err := m.store(in, 2, arith(in.Op, a, b)); err != nil {
			return err
		}
		m.pc += 4

	case OpInput:
		v, err := m.io.Read()
		if err != nil {
			return err
		}
		if err := m.store(in, 0, v); err != nil {
			return err
		}
		m.pc += 2

	case OpOutput:
		v, err := m.param(in, 0)
		if err != nil {
			return err
		}
		m.io.Write(v)
		m.pc += 2

	case OpJumpTrue, OpJumpFalse:
		cond, err := m.param(in, 0)
		if err != nil {
			return err
		}
		if (cond != 0) == (in.Op == OpJumpTrue) {
			target, err := m.param(in, 1)
			if err != nil {
				return err
			}
			m.pc = target
		} else {
			m.pc += 3
		}

	case OpAdjustBase:
		v, err := m.param(in, 0)
		if err != nil {
			return err
		}
		m.relBase += v
		m.pc += 2

	case OpHalt:
		m.halt()

	default:
		return fmt.Errorf("%w: %d", ErrUnknownOpcode, int64(in.Op))
	}
	return nil
}

// param returns the value of parameter i of the instruction at pc.
func (m *Machine) param(in Instruction, i int) (int64, error) {
	return operand(m.mem, m.pc+1+int64(i), in.Modes[i], m.relBase)
}

// store writes v to the address named by parameter i.
func (m *Machine) store(in Instruction, i int, v int64) error {
	addr, err := destination(m.mem, m.pc+1+int64(i), in.Modes[i], m.relBase)
	if err != nil {
		return err
	}
	return m.mem.Write(addr, v)
}

func (m *Machine) halt() {
	if m.state == Halted {
		return
	}
	m.state = Halted
	if m.Trace {
		log.Debugf("halted at %d after %d steps", m.pc, m.steps)
	}
	m.io.Finished()
}

func (m *Machine) setFault(pc, word int64, err error) error {
	m.fault = &Fault{PC: pc, Word: word, Err: err}
	return m.fault
}

// operand fetches the parameter stored at addr and resolves it under mode.
func operand(mem *Memory, addr int64, mode Mode, relBase int64) (int64, error) {
	raw, err := mem.Read(addr)
	if err != nil {
		return 0, err
	}
	switch mode {
	case ModePosition:
		return mem.Read(raw)
	case ModeImmediate:
		return raw, nil
	case ModeRelative:
		return mem.Read(raw + relBase)
	}
	return 0, fmt.Errorf("%w: %d", ErrInvalidMode, int(mode))
}

// destination resolves the address a write parameter refers to.
// Immediate mode has no address.
func destination(mem *Memory, addr int64, mode Mode, relBase int64) (int64, error) {
	raw, err := mem.Read(addr)
	if err != nil {
		return 0, err
	}
	switch mode {
	case ModePosition:
		return raw, nil
	case ModeRelative:
		return raw + relBase, nil
	case ModeImmediate:
		return 0, ErrImmediateWrite
	}
	return 0, fmt.Errorf("%w: %d", ErrInvalidMode, int(mode))
}

func arith(op Opcode, a, b int64) int64 {
	switch op {
	case OpAdd:
		return a + b
	case OpMul:
		return a * b
	case OpLessThan:
		return boolToInt(a < b)
	case OpEquals:
		return boolToInt(a == b)
	}
	panic("vm: arith called with " + op.String())
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// Run executes p with a buffer supplying inputs and returns every value
// the program wrote. On a fault the outputs produced so far are returned
// alongside the error.
func Run(p Program, inputs ...int64) ([]int64, error) {
	buf := NewBuffer(inputs...)
	err := NewMachine(p, buf).Run()
	return buf.Output(), err
}

// Execute runs p against io and returns the final memory.
func Execute(p Program, io IO, opts ...Option) (*Memory, error) {
	m := NewMachine(p, io, opts...)
	err := m.Run()
	return m.Memory(), err
}
