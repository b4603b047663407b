package entities

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 7

var (
	ErrNameRequired     = errors.New("name must not be empty")
	ErrEmailRequired    = errors.New("email must not be empty")
	ErrEmailInvalid     = errors.New("email is invalid")
	ErrPasswordTooShort = errors.New("password must be at least 7 characters")
	ErrPasswordTooWeak  = errors.New("password cannot contain the word password")
	ErrAgeNegative      = errors.New("age must be a positive number")
)

// User holds the account identity plus its credential state: the bcrypt
// password hash and the list of currently valid session tokens. Password,
// Tokens and Avatar never appear in API responses; handlers go through
// mapper.NewUserResultFromEntity instead of serializing the entity.
type User struct {
	Id        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string
	Email     string
	// Password is the plaintext between SetPassword and persistence, and the
	// bcrypt hash once loaded from the store. The repository hashes it at the
	// save boundary when it differs from the previously stored value.
	Password string
	Age      *int
	Tokens   []string
	Avatar   []byte
}

func NewUser(name, email, password string, age *int) *User {
	u := &User{
		Id:        uuid.New(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Tokens:    make([]string, 0),
		Age:       age,
	}
	u.SetName(name)
	u.SetEmail(email)
	u.Password = password
	return u
}

func (u *User) SetName(name string) {
	u.Name = strings.TrimSpace(name)
	u.UpdatedAt = time.Now()
}

func (u *User) SetEmail(email string) {
	u.Email = NormalizeEmail(email)
	u.UpdatedAt = time.Now()
}

// NormalizeEmail applies the same canonical form emails are stored in, so
// lookups by email match regardless of how the caller cased it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) SetPassword(password string) {
	u.Password = password
	u.UpdatedAt = time.Now()
}

func (u *User) SetAge(age int) {
	u.Age = &age
	u.UpdatedAt = time.Now()
}

func (u *User) validate() error {
	if u.Name == "" {
		return ErrNameRequired
	}
	if u.Email == "" {
		return ErrEmailRequired
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return ErrEmailInvalid
	}
	if err := ValidatePassword(u.Password); err != nil {
		return err
	}
	if u.Age != nil && *u.Age < 0 {
		return ErrAgeNegative
	}
	return nil
}

// ValidatePassword enforces the password policy on a candidate value. A
// stored bcrypt hash passes trivially, so validate() stays safe to run on
// loaded users.
func ValidatePassword(password string) error {
	if len(strings.TrimSpace(password)) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if strings.Contains(strings.ToLower(password), "password") {
		return ErrPasswordTooWeak
	}
	return nil
}

// HashPassword replaces the plaintext password with its bcrypt hash.
func (u *User) HashPassword(cost int) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), cost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a plaintext candidate against the stored hash.
// bcrypt's comparison is constant-time over the derived key.
func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}

// AddToken appends a newly issued session token to the active set.
func (u *User) AddToken(token string) {
	u.Tokens = append(u.Tokens, token)
	u.UpdatedAt = time.Now()
}

// RemoveToken revokes a single session. Removing a token that is not in the
// set is a no-op.
func (u *User) RemoveToken(token string) {
	kept := u.Tokens[:0]
	for _, t := range u.Tokens {
		if t != token {
			kept = append(kept, t)
		}
	}
	u.Tokens = kept
	u.UpdatedAt = time.Now()
}

// ClearTokens revokes every session.
func (u *User) ClearTokens() {
	u.Tokens = make([]string, 0)
	u.UpdatedAt = time.Now()
}

// HasToken reports whether the exact token string is still a valid session.
func (u *User) HasToken(token string) bool {
	for _, t := range u.Tokens {
		if t == token {
			return true
		}
	}
	return false
}
