package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/retainflow/retainflow/internal/integration/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, integration *domain.Integration) error {
	return db.WithContext(ctx).Create(integration).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Integration, error) {
	var integration domain.Integration
	err := db.WithContext(ctx).
		Model(&domain.Integration{}).
		Where("id = ?", id).
		Limit(1).
		Find(&integration).Error
	if err != nil {
		return nil, err
	}
	if integration.ID == 0 {
		return nil, nil
	}
	return &integration, nil
}

func (r *repo) ListByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]*domain.Integration, error) {
	var integrations []*domain.Integration
	err := db.WithContext(ctx).
		Model(&domain.Integration{}).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&integrations).Error
	if err != nil {
		return nil, err
	}
	return integrations, nil
}

func (r *repo) SetActive(ctx context.Context, db *gorm.DB, id snowflake.ID, active bool, at time.Time) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE integrations SET active = ?, updated_at = ? WHERE id = ?`,
		active,
		at,
		id,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
