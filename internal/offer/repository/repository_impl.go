package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/retainflow/retainflow/internal/offer/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, offer *domain.RetentionOffer) error {
	return db.WithContext(ctx).Create(offer).Error
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, code string) (*domain.RetentionOffer, error) {
	var offer domain.RetentionOffer
	err := db.WithContext(ctx).
		Model(&domain.RetentionOffer{}).
		Where("offer_code = ?", code).
		Limit(1).
		Find(&offer).Error
	if err != nil {
		return nil, err
	}
	if offer.ID == 0 {
		return nil, nil
	}
	return &offer, nil
}

func (r *repo) ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]*domain.RetentionOffer, error) {
	var offers []*domain.RetentionOffer
	err := db.WithContext(ctx).
		Model(&domain.RetentionOffer{}).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&offers).Error
	if err != nil {
		return nil, err
	}
	return offers, nil
}

func (r *repo) MarkUsed(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE retention_offers SET used = ?, used_at = ? WHERE id = ? AND used = ?`,
		true,
		at,
		id,
		false,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
