package emailqueue

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// EmailLog records one delivered email. The churn scorer derives the email
// open rate from these rows, so every successful send must land here.
type EmailLog struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID    snowflake.ID `gorm:"index" json:"user_id"`
	Recipient string       `gorm:"not null" json:"recipient"`
	Template  string       `gorm:"not null" json:"template"`
	SentAt    time.Time    `gorm:"not null;index" json:"sent_at"`
	OpenedAt  *time.Time   `json:"opened_at,omitempty"`
}

func InsertEmailLog(ctx context.Context, db *gorm.DB, entry *EmailLog) error {
	return db.WithContext(ctx).Create(entry).Error
}

// MarkEmailOpened stamps opened_at once; later opens keep the first timestamp.
func MarkEmailOpened(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE email_logs SET opened_at = ? WHERE id = ? AND opened_at IS NULL`,
		at,
		id,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
