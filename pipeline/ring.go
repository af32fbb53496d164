package pipeline

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/chazu/intcode/vm"
)

var log = commonlog.GetLogger("intcode.pipeline")

var (
	// ErrNoStages is returned when a pipeline is given no phase settings.
	ErrNoStages = errors.New("pipeline: no stages")
	// ErrNoOutput is returned when the stage whose value is the result
	// never wrote one.
	ErrNoOutput = errors.New("pipeline: no output")
)

// Ring runs one machine per phase setting, connected in a feedback loop:
// stage i writes to stage (i+1) mod N. Each stage first reads its phase
// setting; stage 0 additionally receives the initial signal 0. Ring waits
// for every stage to halt and returns the last value written by the final
// stage.
func Ring(p vm.Program, phases []int64, opts ...Option) (int64, error) {
	return RingContext(context.Background(), p, phases, opts...)
}

// RingContext is Ring bounded by ctx. If any stage faults the remaining
// stages are cancelled and the first fault is returned. Cancelling ctx
// stops every stage, including ones that never read.
func RingContext(ctx context.Context, p vm.Program, phases []int64, opts ...Option) (int64, error) {
	return runRing(ctx, p, phases, newOptions(opts))
}

func runRing(ctx context.Context, p vm.Program, phases []int64, o *options) (int64, error) {
	n := len(phases)
	if n == 0 {
		return 0, ErrNoStages
	}

	runID := uuid.New()
	log.Debugf("ring %s: %d stages, phases %v", runID, n, phases)

	links := make([]*Link, n)
	for i := range links {
		links[i] = NewLink()
		links[i].Send(phases[i])
	}
	links[0].Send(0)

	g, gctx := errgroup.WithContext(ctx)
	stages := make([]*Stage, n)
	for i := range stages {
		s := NewStage(gctx, i, links[i], links[(i+1)%n])
		stages[i] = s
		g.Go(func() error {
			return s.Run(p, o.machineOptions()...)
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		log.Errorf("ring %s failed: %s", runID, err)
		return 0, err
	}

	v, ok := stages[n-1].Last()
	if !ok {
		return 0, ErrNoOutput
	}
	log.Debugf("ring %s: result %d", runID, v)
	return v, nil
}
