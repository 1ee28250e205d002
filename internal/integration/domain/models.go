package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Integration is a connected external account. Disconnecting soft-disables
// the record; rows are never hard-deleted.
type Integration struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	UserID      snowflake.ID      `gorm:"not null;index" json:"user_id"`
	Provider    string            `gorm:"not null;index" json:"provider"`
	ProviderKey string            `gorm:"not null" json:"provider_key"`
	Config      datatypes.JSONMap `gorm:"not null;default:'{}'" json:"config,omitempty"`
	Active      bool              `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
