package models

import "time"

// Comment is a text reply attached to exactly one roast or debate.
type Comment struct {
	ID         string   `gorm:"primaryKey;type:uuid" json:"id"`
	AuthorID   string   `gorm:"type:uuid;not null;index" json:"author_id"`
	Author     *Profile `gorm:"foreignKey:AuthorID;references:UserID" json:"profiles,omitempty"`
	TargetKind string   `gorm:"type:varchar(16);not null;index:idx_comments_target" json:"target_kind"`
	TargetID   string   `gorm:"type:uuid;not null;index:idx_comments_target" json:"target_id"`
	Content    string   `gorm:"type:varchar(500);not null" json:"content"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
