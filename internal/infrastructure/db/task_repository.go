package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task-manager/internal/domain/entities"
	"task-manager/internal/domain/repositories"
)

// sortColumns maps the API's sortBy names to real columns. Anything else
// falls back to creation order.
var sortColumns = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"description": "description",
	"completed":   "completed",
}

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) repositories.TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *entities.ValidatedTask) (*entities.Task, error) {
	taskModel := toTaskModel(task.GetTask())
	if err := r.db.WithContext(ctx).Create(&taskModel).Error; err != nil {
		return nil, err
	}

	return r.FindById(ctx, taskModel.Id, taskModel.UserID)
}

func (r *TaskRepository) FindById(ctx context.Context, id, userID uuid.UUID) (*entities.Task, error) {
	var taskModel TaskModel
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&taskModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}

	return r.mapToEntity(&taskModel), nil
}

func (r *TaskRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter repositories.TaskFilter) ([]*entities.Task, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if filter.Completed != nil {
		query = query.Where("completed = ?", *filter.Completed)
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "asc"
	if filter.Desc {
		direction = "desc"
	}
	query = query.Order(column + " " + direction)

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Skip > 0 {
		query = query.Offset(filter.Skip)
	}

	var taskModels []TaskModel
	if err := query.Find(&taskModels).Error; err != nil {
		return nil, err
	}

	tasks := make([]*entities.Task, 0, len(taskModels))
	for i := range taskModels {
		tasks = append(tasks, r.mapToEntity(&taskModels[i]))
	}
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *entities.ValidatedTask) (*entities.Task, error) {
	taskEntity := task.GetTask()

	taskModel := toTaskModel(taskEntity)
	if err := r.db.WithContext(ctx).Save(&taskModel).Error; err != nil {
		return nil, err
	}

	return r.FindById(ctx, taskEntity.Id, taskEntity.UserID)
}

// Delete returns the removed task so the handler can echo it back, matching
// the read path's owner scoping.
func (r *TaskRepository) Delete(ctx context.Context, id, userID uuid.UUID) (*entities.Task, error) {
	task, err := r.FindById(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&TaskModel{})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, repositories.ErrNotFound
	}
	return task, nil
}

func toTaskModel(taskEntity *entities.Task) TaskModel {
	return TaskModel{
		Id:          taskEntity.Id,
		CreatedAt:   taskEntity.CreatedAt,
		UpdatedAt:   taskEntity.UpdatedAt,
		Description: taskEntity.Description,
		Completed:   taskEntity.Completed,
		UserID:      taskEntity.UserID,
	}
}

func (r *TaskRepository) mapToEntity(taskModel *TaskModel) *entities.Task {
	return &entities.Task{
		Id:          taskModel.Id,
		CreatedAt:   taskModel.CreatedAt,
		UpdatedAt:   taskModel.UpdatedAt,
		Description: taskModel.Description,
		Completed:   taskModel.Completed,
		UserID:      taskModel.UserID,
	}
}
