package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type User struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Email        string       `gorm:"not null;uniqueIndex" json:"email"`
	Name         string       `gorm:"not null" json:"name"`
	DiscordID    string       `gorm:"column:discord_id" json:"discord_id,omitempty"`
	StripeID     string       `gorm:"column:stripe_id" json:"stripe_id,omitempty"`
	GoogleID     string       `gorm:"column:google_id" json:"google_id,omitempty"`
	Active       bool         `gorm:"not null;default:true;index" json:"active"`
	LastActiveAt *time.Time   `json:"last_active_at,omitempty"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
