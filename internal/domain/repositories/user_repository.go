package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"task-manager/internal/domain/entities"
)

var (
	// ErrNotFound is returned when a lookup matches nothing, including
	// lookups scoped to an owner that matched a different owner's record.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when the unique email index rejects a write.
	ErrDuplicateEmail = errors.New("email is already in use")
)

type UserRepository interface {
	// Create hashes the pending plaintext password and inserts the user.
	Create(ctx context.Context, user *entities.ValidatedUser) (*entities.User, error)
	FindById(ctx context.Context, id uuid.UUID) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	// Update persists the user. If the password differs from the stored
	// value it is re-hashed exactly once at this boundary.
	Update(ctx context.Context, user *entities.ValidatedUser) (*entities.User, error)
	// Delete removes the user and every task owned by it in one transaction.
	Delete(ctx context.Context, id uuid.UUID) error
}
