package billing

import (
	"context"
	"errors"
)

// Provider is the billing-system surface the retention pipeline needs:
// creating discount coupons that back retention offers.
type Provider interface {
	CreateCoupon(ctx context.Context, code string, percentOff int) error
}

type NoOpProvider struct{}

func (p *NoOpProvider) CreateCoupon(ctx context.Context, code string, percentOff int) error {
	return nil
}

var (
	ErrInvalidSignature = errors.New("invalid_signature")
	ErrInvalidPayload   = errors.New("invalid_payload")
	ErrEventIgnored     = errors.New("event_ignored")
)
