package command

import "task-manager/internal/application/common"

type LoginUserCommand struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginUserCommandResult struct {
	User  *common.UserResult `json:"user"`
	Token string             `json:"token"`
}
