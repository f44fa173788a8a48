package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	Nickname  string    `json:"nickname"`
	PinCode   string    `json:"-"`
	ProfileID int       `json:"profile_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Nickname  string `json:"nickname"`
	PinCode   string `json:"pin_code"`
	ProfileID int    `json:"profile_id"`
}

type LoginRequest struct {
	Nickname string `json:"nickname"`
	PinCode  string `json:"pin_code"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
