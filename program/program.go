// Package program loads intcode program text.
//
// Program text is a list of signed decimal integers separated by commas,
// newlines or both. Surrounding whitespace is ignored, as is a trailing
// separator.
package program

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chazu/intcode/vm"
)

// ErrEmptyProgram is returned when the text contains no integers.
var ErrEmptyProgram = errors.New("empty program")

// Parse parses program text.
func Parse(src string) (vm.Program, error) {
	fields := strings.FieldsFunc(src, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})

	p := make(vm.Program, 0, len(fields))
	for i, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		p = append(p, v)
	}
	if len(p) == 0 {
		return nil, ErrEmptyProgram
	}
	return p, nil
}

// ParseReader parses program text read from r.
func ParseReader(r io.Reader) (vm.Program, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(string(data))
}

// Load parses the program stored in the file at path.
func Load(path string) (vm.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	p, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	return p, nil
}

// ParseValues parses a comma-separated list of integers such as the
// inputs or phase settings given on a command line. An empty string
// yields an empty list.
func ParseValues(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", part, err)
		}
		out = append(out, v)
	}
	return out, nil
}
