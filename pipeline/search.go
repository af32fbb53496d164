package pipeline

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/chazu/intcode/vm"
)

// Result is the outcome of a search over phase permutations.
type Result struct {
	Signal int64   // Largest result found
	Phases []int64 // Permutation that produced it
}

// evaluator computes the result of one permutation.
type evaluator func(ctx context.Context, p vm.Program, phases []int64, o *options) (int64, error)

// MaxChain evaluates Chain for every permutation of values and returns the
// largest result.
func MaxChain(p vm.Program, values []int64, opts ...Option) (Result, error) {
	return search(context.Background(), p, values, evalChain, newOptions(opts))
}

// MaxRing evaluates Ring for every permutation of values and returns the
// largest result.
func MaxRing(p vm.Program, values []int64, opts ...Option) (Result, error) {
	return MaxRingContext(context.Background(), p, values, opts...)
}

// MaxRingContext is MaxRing bounded by ctx.
func MaxRingContext(ctx context.Context, p vm.Program, values []int64, opts ...Option) (Result, error) {
	return search(ctx, p, values, runRing, newOptions(opts))
}

func evalChain(_ context.Context, p vm.Program, phases []int64, _ *options) (int64, error) {
	return Chain(p, phases)
}

// search evaluates permutations concurrently, at most o.workers at a time.
// Ties go to the permutation generated first, so results are
// deterministic.
func search(ctx context.Context, p vm.Program, values []int64, eval evaluator, o *options) (Result, error) {
	perms := Permutations(values)
	if len(perms) == 0 {
		return Result{}, ErrNoStages
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	var mu sync.Mutex
	best := Result{}
	bestIdx := -1

	for idx, phases := range perms {
		idx, phases := idx, phases // per-iteration copies (go 1.21 loop semantics)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := eval(gctx, p, phases, o)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			if bestIdx < 0 || v > best.Signal || (v == best.Signal && idx < bestIdx) {
				best = Result{Signal: v, Phases: phases}
				bestIdx = idx
			}
			if o.progress != nil {
				o.progress()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	log.Debugf("search over %d permutations: best %d with %v", len(perms), best.Signal, best.Phases)
	return best, nil
}

// Permutations returns every ordering of values.
func Permutations(values []int64) [][]int64 {
	n := len(values)
	if n == 0 {
		return nil
	}

	perms := make([][]int64, 0, combin.NumPermutations(n, n))
	gen := combin.NewPermutationGenerator(n, n)
	idx := make([]int, n)
	for gen.Next() {
		gen.Permutation(idx)
		perm := make([]int64, n)
		for i, j := range idx {
			perm[i] = values[j]
		}
		perms = append(perms, perm)
	}
	return perms
}

// PermutationCount returns how many permutations a search over n values
// evaluates.
func PermutationCount(n int) int {
	if n <= 0 {
		return 0
	}
	return combin.NumPermutations(n, n)
}
