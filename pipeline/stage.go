package pipeline

import (
	"context"
	"fmt"

	"github.com/chazu/intcode/vm"
)

// Stage is the IO capability of one machine in a pipeline. Reads block on
// the inbound link and yield 0 once the predecessor has gone; writes are
// best-effort sends on the outbound link and never block. A stage whose
// context is done halts before its next instruction.
type Stage struct {
	ID int

	ctx   context.Context
	in    *Link
	out   *Link
	last  int64
	wrote bool
}

// NewStage binds a stage to its inbound and outbound links. ctx bounds
// both blocking reads and the run as a whole.
func NewStage(ctx context.Context, id int, in, out *Link) *Stage {
	return &Stage{ID: id, ctx: ctx, in: in, out: out}
}

func (s *Stage) Read() (int64, error) {
	v, ok, err := s.in.Receive(s.ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return v, nil
}

func (s *Stage) Write(value int64) {
	s.last = value
	s.wrote = true
	s.out.Send(value)
}

func (s *Stage) ShouldHalt() bool { return s.ctx.Err() != nil }

// Finished releases both links so neighbours stop waiting on this stage.
func (s *Stage) Finished() {
	s.release()
}

// Last returns the most recent value the stage wrote.
func (s *Stage) Last() (int64, bool) {
	return s.last, s.wrote
}

func (s *Stage) release() {
	s.out.Close()
	s.in.Leave()
}

// Run executes p on the stage's goroutine. The links are released however
// the run ends, and a panic is reported as an error rather than taking the
// process down.
func (s *Stage) Run(p vm.Program, opts ...vm.Option) (err error) {
	defer s.release()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pipeline: stage %d panicked: %v", s.ID, r)
		}
	}()

	log.Debugf("stage %d started", s.ID)
	m := vm.NewMachine(p, s, opts...)
	if err := m.Run(); err != nil {
		return fmt.Errorf("pipeline: stage %d: %w", s.ID, err)
	}
	log.Debugf("stage %d halted after %d steps", s.ID, m.Steps())
	return nil
}
