package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, integration *Integration) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Integration, error)
	ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]*Integration, error)
	SetActive(ctx context.Context, db *gorm.DB, id snowflake.ID, active bool, at time.Time) (bool, error)
}
