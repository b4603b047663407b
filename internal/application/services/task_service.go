package services

import (
	"context"

	"github.com/google/uuid"

	"task-manager/internal/application/command"
	"task-manager/internal/application/common"
	"task-manager/internal/application/interfaces"
	"task-manager/internal/application/mapper"
	"task-manager/internal/application/query"
	"task-manager/internal/domain/entities"
	"task-manager/internal/domain/repositories"
)

type TaskService struct {
	taskRepo repositories.TaskRepository
}

func NewTaskService(taskRepo repositories.TaskRepository) interfaces.TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// Create forces ownership to the authenticated user no matter what the
// request body claims.
func (s *TaskService) Create(ctx context.Context, owner uuid.UUID, cmd *command.CreateTaskCommand) (*common.TaskResult, error) {
	newTask := entities.NewTask(cmd.Description, cmd.Completed, owner)
	validatedTask, err := entities.NewValidatedTask(newTask)
	if err != nil {
		return nil, err
	}

	createdTask, err := s.taskRepo.Create(ctx, validatedTask)
	if err != nil {
		return nil, err
	}

	return mapper.NewTaskResultFromEntity(createdTask), nil
}

func (s *TaskService) List(ctx context.Context, owner uuid.UUID, q query.ListTasksQuery) ([]*common.TaskResult, error) {
	tasks, err := s.taskRepo.FindByUser(ctx, owner, repositories.TaskFilter{
		Completed: q.Completed,
		SortBy:    q.SortBy,
		Desc:      q.Desc,
		Limit:     q.Limit,
		Skip:      q.Skip,
	})
	if err != nil {
		return nil, err
	}

	return mapper.NewTaskResultsFromEntities(tasks), nil
}

func (s *TaskService) Get(ctx context.Context, owner, id uuid.UUID) (*common.TaskResult, error) {
	task, err := s.taskRepo.FindById(ctx, id, owner)
	if err != nil {
		return nil, err
	}

	return mapper.NewTaskResultFromEntity(task), nil
}

func (s *TaskService) Update(ctx context.Context, owner, id uuid.UUID, cmd *command.UpdateTaskCommand) (*common.TaskResult, error) {
	task, err := s.taskRepo.FindById(ctx, id, owner)
	if err != nil {
		return nil, err
	}

	if cmd.Description != nil {
		task.SetDescription(*cmd.Description)
	}
	if cmd.Completed != nil {
		task.SetCompleted(*cmd.Completed)
	}

	validatedTask, err := entities.NewValidatedTask(task)
	if err != nil {
		return nil, err
	}

	updatedTask, err := s.taskRepo.Update(ctx, validatedTask)
	if err != nil {
		return nil, err
	}

	return mapper.NewTaskResultFromEntity(updatedTask), nil
}

func (s *TaskService) Delete(ctx context.Context, owner, id uuid.UUID) (*common.TaskResult, error) {
	task, err := s.taskRepo.Delete(ctx, id, owner)
	if err != nil {
		return nil, err
	}

	return mapper.NewTaskResultFromEntity(task), nil
}
