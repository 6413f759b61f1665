package models

import "time"

// Like target kinds. A like (or comment) attaches to exactly one roast or
// one debate; the tagged pair makes the both-set and both-empty states
// unrepresentable.
const (
	TargetRoast  = "roast"
	TargetDebate = "debate"
)

// LikeTarget tags an entity a like or comment attaches to.
type LikeTarget struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

func IsValidTargetKind(kind string) bool {
	return kind == TargetRoast || kind == TargetDebate
}

// Like is a membership record: presence of the (user, target) row is the
// "liked" boolean. Uniqueness of the pair is enforced by the composite
// index, so a duplicate insert conflicts instead of double-counting.
type Like struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID     string    `gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_target" json:"user_id"`
	TargetKind string    `gorm:"type:varchar(16);not null;uniqueIndex:idx_likes_user_target" json:"target_kind"`
	TargetID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_target;index" json:"target_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}
