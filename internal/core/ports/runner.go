// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/catalyst/internal/core/domain"
)

// TaskRunner runs one worker process per call.
//
//go:generate mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type TaskRunner interface {
	// Run starts the task's program, feeds it the task input, and waits for it
	// to finish or time out.
	//
	// It always returns exactly one of success or failure, and no process it
	// started is left running when it returns.
	Run(ctx context.Context, task domain.Task) domain.TaskResult
}
