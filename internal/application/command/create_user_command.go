package command

import "task-manager/internal/application/common"

type CreateUserCommand struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      *int   `json:"age,omitempty"`
}

type CreateUserCommandResult struct {
	User  *common.UserResult `json:"user"`
	Token string             `json:"token"`
}
