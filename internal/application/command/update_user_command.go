package command

// UpdateUserCommand carries the whitelisted mutable profile fields. A nil
// field means "leave unchanged"; the handler rejects any key outside the
// whitelist before this command is built.
type UpdateUserCommand struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Age      *int    `json:"age,omitempty"`
}
