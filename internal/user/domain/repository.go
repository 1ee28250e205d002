package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, user *User) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*User, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*User, error)
	FindByStripeID(ctx context.Context, db *gorm.DB, stripeID string) (*User, error)
	ListActive(ctx context.Context, db *gorm.DB, afterID snowflake.ID, limit int) ([]*User, error)
	TouchLastActive(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error
}
