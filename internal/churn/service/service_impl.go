package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/retainflow/retainflow/internal/churn/domain"
	"github.com/retainflow/retainflow/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	// ModelVersion tags every stored prediction.
	ModelVersion = "v1"

	// modelConfidence is a placeholder constant carried over from the
	// original model; it is not a computed quantity.
	modelConfidence = 0.8
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("churn.service"),
		genID: p.GenID,
		repo:  p.Repo,
		clock: p.Clock,
	}
}

func (s *Service) Score(ctx context.Context, req domain.ScoreRequest) (domain.ScoreResult, error) {
	userID, err := s.parseID(req.UserID)
	if err != nil {
		return domain.ScoreResult{}, err
	}

	now := s.clock.Now()
	signals, err := s.repo.GatherSignals(ctx, s.db, userID, now)
	if err != nil {
		return domain.ScoreResult{}, err
	}

	score, factors := ComputeScore(signals)
	prediction := domain.ChurnPrediction{
		ID:           s.genID.Generate(),
		UserID:       userID,
		Score:        score,
		Confidence:   modelConfidence,
		Factors:      datatypes.NewJSONSlice(factors),
		ModelVersion: ModelVersion,
		RiskLevel:    RiskLevelFor(score),
		PredictedAt:  now,
	}

	// Scoring never fails because of storage; the prediction is still
	// returned when the insert does not land.
	if err := s.repo.Insert(ctx, s.db, &prediction); err != nil {
		s.log.Warn("failed to persist churn prediction",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}

	return domain.ScoreResult{Prediction: prediction, Signals: signals}, nil
}

func (s *Service) Latest(ctx context.Context, req domain.LatestRequest) (domain.ChurnPrediction, error) {
	userID, err := s.parseID(req.UserID)
	if err != nil {
		return domain.ChurnPrediction{}, err
	}

	prediction, err := s.repo.LatestByUser(ctx, s.db, userID)
	if err != nil {
		return domain.ChurnPrediction{}, err
	}
	if prediction == nil {
		return domain.ChurnPrediction{}, domain.ErrNotFound
	}
	return *prediction, nil
}

// ComputeScore maps engagement signals to a churn score in [0,1] and the
// ordered list of factors that moved it. Idle days and cancel attempts push
// the score up, message volume and opened emails pull it down.
func ComputeScore(signals domain.Signals) (float64, []string) {
	score := 0.5
	factors := make([]string, 0, 4)

	idleDays := math.Min(float64(signals.DaysSinceLastActive), 30)
	score += 0.2 * idleDays / 30
	if signals.DaysSinceLastActive >= 7 {
		factors = append(factors, fmt.Sprintf("inactive_for_%d_days", signals.DaysSinceLastActive))
	}

	messages := math.Min(float64(signals.MessagesLast30Days), 50)
	score -= 0.3 * messages / 50
	if signals.MessagesLast30Days < 5 {
		factors = append(factors, "low_message_volume")
	}

	cancels := math.Min(float64(signals.CancelAttempts), 3)
	score += 0.2 * cancels / 3
	if signals.CancelAttempts > 0 {
		factors = append(factors, fmt.Sprintf("cancel_attempts_%d", signals.CancelAttempts))
	}

	score -= 0.1 * signals.EmailOpenRate
	if signals.EmailOpenRate < 0.2 {
		factors = append(factors, "low_email_open_rate")
	}

	return clamp01(score), factors
}

// RiskLevelFor maps a score to its tier. The label mapping is kept exactly
// as shipped, including the inversion between numeric score and label.
func RiskLevelFor(score float64) domain.RiskLevel {
	switch {
	case score <= 0.3:
		return domain.RiskHigh
	case score <= 0.6:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
