package models

import "time"

// Follow is a directed edge between two profiles. The composite index
// keeps the edge unique; follower/following counts live on Profile and are
// recomputed in the same transaction as the edge write.
type Follow struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	FollowerID  string    `gorm:"type:uuid;not null;uniqueIndex:idx_follows_edge" json:"follower_id"`
	FollowingID string    `gorm:"type:uuid;not null;uniqueIndex:idx_follows_edge;index" json:"following_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}
