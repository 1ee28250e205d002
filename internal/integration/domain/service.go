package domain

import (
	"context"
	"errors"
)

type ConnectRequest struct {
	UserID      string
	Provider    string
	ProviderKey string
	Config      map[string]any
}

type DisconnectRequest struct {
	ID string
}

type ListRequest struct {
	UserID string
}

type Service interface {
	Connect(context.Context, ConnectRequest) (Integration, error)
	Disconnect(context.Context, DisconnectRequest) error
	ListByUser(context.Context, ListRequest) ([]Integration, error)
}

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidProvider = errors.New("invalid_provider")
	ErrNotFound        = errors.New("not_found")
)
