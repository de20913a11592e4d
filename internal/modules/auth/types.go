package auth

import (
	"errors"
	"time"
)

type LoginDTO struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterDTO struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name"     binding:"required,min=2"`
}

type UpdateProfileDTO struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
}

type ChangeRoleDTO struct {
	Role string `json:"role" binding:"required"`
}

type CreateTokenDTO struct {
	Name      string     `json:"name" binding:"required"`
	ExpiredAt *time.Time `json:"expired_at"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  userProfile `json:"user"`
}

type userProfile struct {
	ID      string    `json:"id"`
	Email   string    `json:"email"`
	Name    string    `json:"name"`
	Avatar  string    `json:"avatar,omitempty"`
	Role    string    `json:"role"`
	Created time.Time `json:"created"`
}

type tokenResponse struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Token   string     `json:"token"`
	Expired *time.Time `json:"expired"`
	Created time.Time  `json:"created"`
}

var (
	errUserNotFound       = errors.New("auth user not found")
	errWrongPassword      = errors.New("auth wrong password")
	errEmailTaken         = errors.New("email already registered")
	errRegistrationClosed = errors.New("registration closed")
	errInvalidRole        = errors.New("invalid role")
)
