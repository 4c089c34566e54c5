package execution

import (
	"context"

	"k6x/internal/domain"
)

// Executor runs a single leaf and returns its result
type Executor interface {
	Run(ctx context.Context, leaf *domain.TestNode) (domain.RunResult, error)
}
