package vm

// IO is the capability a machine uses to exchange data with the outside
// world. The input and output opcodes call Read and Write; ShouldHalt is
// checked before every instruction and Finished is called once when the
// machine halts normally.
//
// Implementations that do not need the lifecycle hooks can embed NopHooks.
type IO interface {
	// Read supplies the next input value. It may block. A non-nil error
	// stops the machine.
	Read() (int64, error)
	// Write consumes one output value.
	Write(value int64)
	// ShouldHalt stops the machine before the next instruction when true.
	ShouldHalt() bool
	// Finished is called once after the machine halts.
	Finished()
}

// NopHooks provides the default ShouldHalt and Finished behaviour.
type NopHooks struct{}

func (NopHooks) ShouldHalt() bool { return false }

func (NopHooks) Finished() {}

// Controller adapts plain functions to the IO capability, for callers
// whose reads and writes consult external state (a robot position, a game
// board) rather than queues. Nil fields fall back to the defaults; a nil
// OnRead makes every input request fail with ErrInputExhausted.
type Controller struct {
	OnRead     func() (int64, error)
	OnWrite    func(value int64)
	Halt       func() bool
	OnFinished func()
}

func (c *Controller) Read() (int64, error) {
	if c.OnRead == nil {
		return 0, ErrInputExhausted
	}
	return c.OnRead()
}

func (c *Controller) Write(value int64) {
	if c.OnWrite != nil {
		c.OnWrite(value)
	}
}

func (c *Controller) ShouldHalt() bool {
	return c.Halt != nil && c.Halt()
}

func (c *Controller) Finished() {
	if c.OnFinished != nil {
		c.OnFinished()
	}
}
