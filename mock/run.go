package mock

import (
	"context"

	"github.com/fwojciec/chatad"
)

var _ chatad.RunService = (*RunService)(nil)

// RunService is a mock implementation of chatad.RunService.
type RunService struct {
	CreateRunFn   func(ctx context.Context, run *chatad.Run) error
	FindRunByIDFn func(ctx context.Context, id string) (*chatad.Run, error)
	FindRunsFn    func(ctx context.Context, filter chatad.RunFilter) ([]*chatad.Run, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *chatad.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*chatad.Run, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) FindRuns(ctx context.Context, filter chatad.RunFilter) ([]*chatad.Run, error) {
	return s.FindRunsFn(ctx, filter)
}
