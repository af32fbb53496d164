package pipeline

import (
	"runtime"

	"github.com/chazu/intcode/vm"
)

// Option configures a pipeline run.
type Option func(*options)

type options struct {
	trace    bool
	workers  int
	progress func()
}

// WithTrace enables instruction tracing in every stage.
func WithTrace(on bool) Option {
	return func(o *options) {
		o.trace = on
	}
}

// WithWorkers bounds how many permutations a search evaluates at once.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithProgress registers a callback invoked after each permutation a
// search evaluates. Calls are serialised.
func WithProgress(fn func()) Option {
	return func(o *options) {
		o.progress = fn
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.workers < 1 {
		o.workers = 1
	}
	return o
}

func (o *options) machineOptions() []vm.Option {
	return []vm.Option{vm.WithTrace(o.trace)}
}
