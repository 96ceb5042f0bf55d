package driven

import (
	"context"

	"github.com/vigia-labs/radar-cli/internal/core/domain"
)

// SchedulerStore persists recurring task state so schedules survive
// restarts.
type SchedulerStore interface {
	// GetTask retrieves a task by ID. Returns (nil, nil) when the task
	// does not exist yet.
	GetTask(ctx context.Context, id string) (*domain.ScheduledTask, error)

	// SaveTask creates or updates a task.
	SaveTask(ctx context.Context, task *domain.ScheduledTask) error
}
