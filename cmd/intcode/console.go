package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chazu/intcode/vm"
)

// consoleIO connects a machine to a terminal.
//
// In numeric mode every input line holds one integer and every output is
// printed on its own line. In ASCII mode an input line is fed to the
// machine one character at a time followed by a newline, and outputs
// below 128 are printed as characters.
type consoleIO struct {
	vm.NopHooks

	in      *bufio.Scanner
	out     io.Writer
	prompt  bool
	ascii   bool
	pending []int64
	written int
}

func newConsoleIO(in io.Reader, out io.Writer, ascii, prompt bool) *consoleIO {
	return &consoleIO{
		in:     bufio.NewScanner(in),
		out:    out,
		ascii:  ascii,
		prompt: prompt,
	}
}

func (c *consoleIO) Read() (int64, error) {
	for len(c.pending) == 0 {
		if c.prompt && !c.ascii {
			fmt.Fprint(c.out, "> ")
		}
		if !c.in.Scan() {
			if err := c.in.Err(); err != nil {
				return 0, err
			}
			return 0, vm.ErrInputExhausted
		}
		line := c.in.Text()

		if c.ascii {
			for _, b := range []byte(line) {
				c.pending = append(c.pending, int64(b))
			}
			c.pending = append(c.pending, '\n')
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		v, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			if c.prompt {
				fmt.Fprintf(c.out, "not an integer: %q\n", line)
				continue
			}
			return 0, fmt.Errorf("invalid input %q: %w", line, err)
		}
		return v, nil
	}

	v := c.pending[0]
	c.pending = c.pending[1:]
	return v, nil
}

func (c *consoleIO) Write(value int64) {
	c.written++
	if c.ascii && value >= 0 && value < 128 {
		fmt.Fprintf(c.out, "%c", rune(value))
		return
	}
	fmt.Fprintln(c.out, value)
}
