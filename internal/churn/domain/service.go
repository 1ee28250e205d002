package domain

import (
	"context"
	"errors"
)

type ScoreRequest struct {
	UserID string
}

type LatestRequest struct {
	UserID string
}

type ScoreResult struct {
	Prediction ChurnPrediction `json:"prediction"`
	Signals    Signals         `json:"signals"`
}

type Service interface {
	// Score gathers engagement signals, computes a fresh prediction and
	// persists it. A persistence failure is logged, not returned; the
	// computed prediction is always handed back to the caller.
	Score(context.Context, ScoreRequest) (ScoreResult, error)
	Latest(context.Context, LatestRequest) (ChurnPrediction, error)
}

var (
	ErrInvalidID    = errors.New("invalid_id")
	ErrUserNotFound = errors.New("user_not_found")
	ErrNotFound     = errors.New("not_found")
)
