package models

import (
	"time"

	"gorm.io/gorm"
)

// Roast is the platform's primary content unit: a short text post with an
// optional media attachment. LikesCount/CommentsCount are aggregates owned
// by the like/comment transactions; IsViral is flipped by the scheduler.
type Roast struct {
	ID            string   `gorm:"primaryKey;type:uuid" json:"id"`
	AuthorID      string   `gorm:"type:uuid;not null;index" json:"author_id"`
	Author        *Profile `gorm:"foreignKey:AuthorID;references:UserID" json:"profiles,omitempty"`
	TargetUserID  *string  `gorm:"type:uuid" json:"target_user_id,omitempty"`
	Content       string   `gorm:"type:varchar(280);not null" json:"content"`
	MediaURL      *string  `json:"media_url,omitempty"`
	LikesCount    int      `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount int      `gorm:"not null;default:0" json:"comments_count"`
	IsViral       bool     `gorm:"not null;default:false" json:"is_viral"`

	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
