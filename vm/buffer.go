package vm

import "slices"

// Buffer replays a fixed list of inputs and collects every output.
// Reading past the end of the inputs fails with ErrInputExhausted.
type Buffer struct {
	NopHooks

	input  []int64
	pos    int
	output []int64
}

// NewBuffer returns a Buffer that will supply inputs in order.
func NewBuffer(inputs ...int64) *Buffer {
	return &Buffer{input: slices.Clone(inputs)}
}

func (b *Buffer) Read() (int64, error) {
	if b.pos >= len(b.input) {
		return 0, ErrInputExhausted
	}
	v := b.input[b.pos]
	b.pos++
	return v, nil
}

func (b *Buffer) Write(value int64) {
	b.output = append(b.output, value)
}

// Push queues more input values.
func (b *Buffer) Push(values ...int64) {
	b.input = append(b.input, values...)
}

// Remaining returns how many queued inputs have not been read.
func (b *Buffer) Remaining() int {
	return len(b.input) - b.pos
}

// Output returns the values written so far.
func (b *Buffer) Output() []int64 {
	return b.output
}
