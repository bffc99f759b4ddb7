package users

import (
	"encoding/json"
	"time"
)

type User struct {
	ID           string          `json:"_id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone,omitempty"`
	PasswordHash string          `json:"-"`
	IsBlocked    bool            `json:"isBlocked"`
	Profile      json.RawMessage `json:"profile"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}
