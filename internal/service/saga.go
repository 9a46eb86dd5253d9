package service

import (
	"context"

	"github.com/MiNam8/PastebinClone/internal/pkg/logger"
	"go.uber.org/zap"
)

// sagaStep pairs a forward action with the compensation that undoes it.
// Compensate may be nil for steps with nothing to roll back.
type sagaStep struct {
	name       string
	run        func(ctx context.Context) error
	compensate func(ctx context.Context) error
}

// saga executes steps in order. When a step fails, the compensations of every
// previously completed step run in reverse order. Compensations are
// independent and best-effort: one failing does not stop the others, and each
// failure is logged for manual follow-up rather than re-thrown over the
// original error.
type saga struct {
	steps []sagaStep
}

func (s *saga) run(ctx context.Context) error {
	for i, step := range s.steps {
		if err := step.run(ctx); err != nil {
			s.compensateFrom(ctx, i-1)
			return err
		}
	}
	return nil
}

func (s *saga) compensateFrom(ctx context.Context, last int) {
	log := logger.FromContext(ctx)
	for i := last; i >= 0; i-- {
		step := s.steps[i]
		if step.compensate == nil {
			continue
		}
		if err := step.compensate(ctx); err != nil {
			log.Error("saga compensation failed; manual cleanup required",
				zap.String("step", step.name),
				zap.Error(err))
			continue
		}
		log.Info("saga step compensated", zap.String("step", step.name))
	}
}
