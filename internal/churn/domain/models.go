package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// ChurnPrediction is an append-only scoring record. The current prediction
// for a user is the most recent row by predicted_at, id.
type ChurnPrediction struct {
	ID           snowflake.ID                  `gorm:"primaryKey" json:"id"`
	UserID       snowflake.ID                  `gorm:"not null;index" json:"user_id"`
	Score        float64                       `gorm:"not null" json:"score"`
	Confidence   float64                       `gorm:"not null" json:"confidence"`
	Factors      datatypes.JSONSlice[string]   `gorm:"not null" json:"factors"`
	ModelVersion string                        `gorm:"not null" json:"model_version"`
	RiskLevel    RiskLevel                     `gorm:"not null" json:"risk_level"`
	PredictedAt  time.Time                     `gorm:"not null;index" json:"predicted_at"`
}

// Signals are the engagement inputs to the scoring formula, all read from
// stored records so repeated scoring of unchanged data is deterministic.
type Signals struct {
	DaysSinceLastActive int     `json:"days_since_last_active"`
	MessagesLast30Days  int64   `json:"messages_last_30_days"`
	CancelAttempts      int64   `json:"cancel_attempts"`
	EmailOpenRate       float64 `json:"email_open_rate"`
}
