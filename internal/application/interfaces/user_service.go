package interfaces

import (
	"context"

	"github.com/google/uuid"

	"task-manager/internal/application/command"
	"task-manager/internal/application/common"
	"task-manager/internal/domain/entities"
)

type UserService interface {
	Register(ctx context.Context, cmd *command.CreateUserCommand) (*command.CreateUserCommandResult, error)
	Login(ctx context.Context, cmd *command.LoginUserCommand) (*command.LoginUserCommandResult, error)
	// Logout revokes exactly the token the current request authenticated with.
	Logout(ctx context.Context, user *entities.User, token string) error
	LogoutAll(ctx context.Context, user *entities.User) error
	UpdateProfile(ctx context.Context, user *entities.User, cmd *command.UpdateUserCommand) (*common.UserResult, error)
	DeleteAccount(ctx context.Context, user *entities.User) (*common.UserResult, error)
	SetAvatar(ctx context.Context, user *entities.User, filename string, data []byte) error
	RemoveAvatar(ctx context.Context, user *entities.User) error
	// GetAvatar is the only unauthenticated read; it serves the normalized PNG.
	GetAvatar(ctx context.Context, id uuid.UUID) ([]byte, error)
}
