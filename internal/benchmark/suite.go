package benchmark

import (
	"context"
	"log/slog"
	"time"
)

// Suite runs one Runner over every combination of Sizes and Ops.
type Suite struct {
	Runner   Runner
	Sizes    []int
	Ops      []string
	Recorder *Recorder // optional
	Logger   *slog.Logger

	// now is swapped in tests.
	now func() time.Time
}

// Run measures the grid size-major. A failed measurement is recorded in its
// Result and the suite moves on; cancellation of ctx stops the suite and
// returns the results gathered so far together with ctx's error.
func (s *Suite) Run(ctx context.Context) (Run, error) {
	now := s.now
	if now == nil {
		now = time.Now
	}
	log := logger(s.Logger)

	run := Run{
		Timestamp: now(),
		Backend:   s.Runner.Name(),
		Results:   make([]Result, 0, len(s.Sizes)*len(s.Ops)),
	}

	for _, size := range s.Sizes {
		for _, op := range s.Ops {
			if err := ctx.Err(); err != nil {
				return run, err
			}

			ms, err := s.Runner.Run(ctx, size, op)
			res := Result{
				Backend:   run.Backend,
				Op:        op,
				Size:      size,
				Millis:    ms,
				Timestamp: now(),
			}
			if err != nil {
				if ctx.Err() != nil {
					return run, ctx.Err()
				}
				res.Err = err.Error()
				log.Warn("benchmark failed", "backend", run.Backend, "op", op, "size", size, "error", err)
			}
			if s.Recorder != nil {
				s.Recorder.Observe(res)
			}
			run.Results = append(run.Results, res)
		}
	}
	return run, nil
}
