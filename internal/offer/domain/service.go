package domain

import (
	"context"
	"errors"
)

type GenerateOfferRequest struct {
	UserID     string
	Reason     string
	ChurnScore float64
}

type ApplyOfferRequest struct {
	Code string
}

type ListOffersRequest struct {
	UserID string
}

type Service interface {
	Generate(context.Context, GenerateOfferRequest) (RetentionOffer, error)
	Apply(context.Context, ApplyOfferRequest) (RetentionOffer, error)
	ListByUser(context.Context, ListOffersRequest) ([]RetentionOffer, error)
}

var (
	ErrInvalidID     = errors.New("invalid_id")
	ErrInvalidReason = errors.New("invalid_reason")
	ErrNotFound      = errors.New("not_found")
	ErrOfferExpired  = errors.New("offer_expired")
	ErrOfferUsed     = errors.New("offer_used")
)
