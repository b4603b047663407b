package entities

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrDescriptionRequired = errors.New("description must not be empty")

// Task belongs to exactly one user; ownership is enforced by every
// repository lookup being scoped to the owner's id.
type Task struct {
	Id          uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Description string
	Completed   bool
	UserID      uuid.UUID
}

func NewTask(description string, completed bool, userID uuid.UUID) *Task {
	t := &Task{
		Id:        uuid.New(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Completed: completed,
		UserID:    userID,
	}
	t.SetDescription(description)
	return t
}

func (t *Task) SetDescription(description string) {
	t.Description = strings.TrimSpace(description)
	t.UpdatedAt = time.Now()
}

func (t *Task) SetCompleted(completed bool) {
	t.Completed = completed
	t.UpdatedAt = time.Now()
}

func (t *Task) validate() error {
	if t.Description == "" {
		return ErrDescriptionRequired
	}
	if t.UserID == uuid.Nil {
		return errors.New("task must have an owner")
	}
	return nil
}

// ValidatedTask mirrors ValidatedUser for the task side.
type ValidatedTask struct {
	*Task
}

func NewValidatedTask(task *Task) (*ValidatedTask, error) {
	if err := task.validate(); err != nil {
		return nil, err
	}

	return &ValidatedTask{Task: task}, nil
}

func (vt *ValidatedTask) GetTask() *Task {
	return vt.Task
}
