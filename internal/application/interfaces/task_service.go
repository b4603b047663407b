package interfaces

import (
	"context"

	"github.com/google/uuid"

	"task-manager/internal/application/command"
	"task-manager/internal/application/common"
	"task-manager/internal/application/query"
)

type TaskService interface {
	Create(ctx context.Context, owner uuid.UUID, cmd *command.CreateTaskCommand) (*common.TaskResult, error)
	List(ctx context.Context, owner uuid.UUID, q query.ListTasksQuery) ([]*common.TaskResult, error)
	Get(ctx context.Context, owner, id uuid.UUID) (*common.TaskResult, error)
	Update(ctx context.Context, owner, id uuid.UUID, cmd *command.UpdateTaskCommand) (*common.TaskResult, error)
	Delete(ctx context.Context, owner, id uuid.UUID) (*common.TaskResult, error)
}
