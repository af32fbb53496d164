package pipeline

import (
	"fmt"

	"github.com/chazu/intcode/vm"
)

// Chain runs one machine per phase setting in sequence, without
// feedback. Each machine receives its phase setting and the previous
// machine's first output (0 for the first machine); the last machine's
// first output is returned.
func Chain(p vm.Program, phases []int64) (int64, error) {
	if len(phases) == 0 {
		return 0, ErrNoStages
	}

	var signal int64
	for i, phase := range phases {
		out, err := vm.Run(p, phase, signal)
		if err != nil {
			return 0, fmt.Errorf("pipeline: chain stage %d: %w", i, err)
		}
		if len(out) == 0 {
			return 0, fmt.Errorf("pipeline: chain stage %d: %w", i, ErrNoOutput)
		}
		signal = out[0]
	}
	return signal, nil
}
