package repositories

import (
	"context"

	"github.com/google/uuid"

	"task-manager/internal/domain/entities"
)

// TaskFilter narrows and orders an owner's task listing. All fields are
// optional; the zero value lists everything in creation order.
type TaskFilter struct {
	Completed *bool
	SortBy    string
	Desc      bool
	Limit     int
	Skip      int
}

type TaskRepository interface {
	Create(ctx context.Context, task *entities.ValidatedTask) (*entities.Task, error)
	// FindById is scoped to the owner; a task belonging to another user is
	// indistinguishable from a missing one.
	FindById(ctx context.Context, id, userID uuid.UUID) (*entities.Task, error)
	FindByUser(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]*entities.Task, error)
	Update(ctx context.Context, task *entities.ValidatedTask) (*entities.Task, error)
	Delete(ctx context.Context, id, userID uuid.UUID) (*entities.Task, error)
}
