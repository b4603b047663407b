package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TokenList stores the active session tokens as a JSON text column so the
// same model works on both sqlite and postgres.
type TokenList []string

func (t TokenList) Value() (driver.Value, error) {
	if t == nil {
		t = TokenList{}
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (t *TokenList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = TokenList{}
		return nil
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return fmt.Errorf("unsupported token list type %T", src)
	}
}

type UserModel struct {
	Id        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string `gorm:"not null"`
	Email     string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null"`
	Age       *int
	Tokens    TokenList `gorm:"type:text"`
	Avatar    []byte
}

func (UserModel) TableName() string {
	return "users"
}

type TaskModel struct {
	Id          uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Description string    `gorm:"not null"`
	Completed   bool      `gorm:"default:false"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null"`
}

func (TaskModel) TableName() string {
	return "tasks"
}
