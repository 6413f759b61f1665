package models

import "time"

// Notification types emitted by mutation actions.
const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationFollow  = "follow"
	NotificationPayment = "payment"
	NotificationDebate  = "debate"
)

// Notification is a user-addressed message with an optional pointer at the
// entity that caused it.
type Notification struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      string    `gorm:"type:varchar(32);not null" json:"type"`
	Title     string    `gorm:"type:varchar(200);not null" json:"title"`
	Message   string    `gorm:"not null" json:"message"`
	IsRead    bool      `gorm:"not null;default:false" json:"is_read"`
	RelatedID *string   `gorm:"type:uuid" json:"related_id,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
