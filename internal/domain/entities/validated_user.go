package entities

// ValidatedUser wraps a User that has passed validation. Repositories only
// accept the wrapper, so an invalid entity cannot reach the store.
type ValidatedUser struct {
	*User
}

func NewValidatedUser(user *User) (*ValidatedUser, error) {
	if err := user.validate(); err != nil {
		return nil, err
	}

	return &ValidatedUser{User: user}, nil
}

func (vu *ValidatedUser) GetUser() *User {
	return vu.User
}
