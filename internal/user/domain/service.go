package domain

import (
	"context"
	"errors"
)

type CreateUserRequest struct {
	Email     string
	Name      string
	DiscordID string
	StripeID  string
	GoogleID  string
}

type GetUserRequest struct {
	ID string
}

type Service interface {
	Create(context.Context, CreateUserRequest) (User, error)
	GetByID(context.Context, GetUserRequest) (User, error)
	RecordActivity(ctx context.Context, userID string) error
}

var (
	ErrInvalidEmail = errors.New("invalid_email")
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidID    = errors.New("invalid_id")
	ErrUserExists   = errors.New("user_exists")
	ErrNotFound     = errors.New("not_found")
)
