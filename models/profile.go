package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Profile is the local copy of a platform identity. Rows originate at
// sign-up in the hosted auth provider and reach this table through the
// profile sync worker; the owning user mutates their row via settings.
// FollowersCount/FollowingCount are server-maintained aggregates — always
// recomputed inside the follow/unfollow transaction, never adjusted with
// local arithmetic.
type Profile struct {
	ID             string          `gorm:"primaryKey;type:uuid" json:"id"`
	UserID         string          `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"` // auth provider's UUID
	Username       string          `gorm:"type:varchar(64);not null;uniqueIndex" json:"username"`
	DisplayName    *string         `json:"display_name,omitempty"`
	Bio            *string         `json:"bio,omitempty"`
	AvatarURL      *string         `json:"avatar_url,omitempty"`
	FollowersCount int             `gorm:"not null;default:0" json:"followers_count"`
	FollowingCount int             `gorm:"not null;default:0" json:"following_count"`
	TotalEarnings  decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"total_earnings"`
	XPPoints       int64           `gorm:"not null;default:0;index" json:"xp_points"`
	Rank           string          `gorm:"type:varchar(32);not null;default:'Rookie'" json:"rank"`
	WalletAddress  *string         `gorm:"type:varchar(128)" json:"wallet_address,omitempty"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
