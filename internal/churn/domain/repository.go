package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, prediction *ChurnPrediction) error
	LatestByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*ChurnPrediction, error)
	GatherSignals(ctx context.Context, db *gorm.DB, userID snowflake.ID, now time.Time) (Signals, error)
}
