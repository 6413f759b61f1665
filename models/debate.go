package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Debate types.
const (
	DebateTypeFreestyle  = "freestyle"
	DebateTypeStructured = "structured"
	DebateTypeTimed      = "timed"
	DebateTypeFormal     = "formal"
)

// Debate statuses. The lifecycle (scheduled → live → completed/cancelled)
// is driven by the event coordinator, not by this service — we only ever
// read and display the current value.
const (
	DebateStatusScheduled = "scheduled"
	DebateStatusLive      = "live"
	DebateStatusCompleted = "completed"
	DebateStatusCancelled = "cancelled"
)

// Debate is a scheduled or live competitive event with optional monetary
// entry fees. Pot totals are aggregates recomputed when entry-fee payments
// settle.
type Debate struct {
	ID              string   `gorm:"primaryKey;type:uuid" json:"id"`
	OrganizerID     string   `gorm:"type:uuid;not null;index" json:"organizer_id"`
	Organizer       *Profile `gorm:"foreignKey:OrganizerID;references:UserID" json:"profiles,omitempty"`
	Title           string   `gorm:"type:varchar(200);not null" json:"title"`
	Description     *string  `json:"description,omitempty"`
	DebateType      string   `gorm:"type:varchar(32);not null" json:"debate_type"`
	Status          string   `gorm:"type:varchar(32);not null;default:'scheduled'" json:"status"`
	Rules           *string  `json:"rules,omitempty"`
	EntryFeeNGN     decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"entry_fee_ngn"`
	EntryFeeSOL     decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0" json:"entry_fee_sol"`
	MaxParticipants int             `gorm:"not null;default:2" json:"max_participants"`
	TotalPotNGN     decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"total_pot_ngn"`
	TotalPotSOL     decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0" json:"total_pot_sol"`
	RecordingURL    *string         `json:"recording_url,omitempty"`
	ScheduledAt     *time.Time      `json:"scheduled_at,omitempty"`
	StartedAt       *time.Time      `json:"started_at,omitempty"`
	EndedAt         *time.Time      `json:"ended_at,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Participant payment statuses.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// DebateParticipant links a user to a debate with a role and the state of
// their entry-fee payment.
type DebateParticipant struct {
	ID               string           `gorm:"primaryKey;type:uuid" json:"id"`
	DebateID         string           `gorm:"type:uuid;not null;uniqueIndex:idx_debate_user" json:"debate_id"`
	UserID           string           `gorm:"type:uuid;not null;uniqueIndex:idx_debate_user" json:"user_id"`
	Role             string           `gorm:"type:varchar(32);not null;default:'debater'" json:"role"`
	Team             *string          `gorm:"type:varchar(32)" json:"team,omitempty"`
	PaymentStatus    string           `gorm:"type:varchar(32);not null;default:'pending'" json:"payment_status"`
	PaymentAmountNGN *decimal.Decimal `gorm:"type:numeric(20,2)" json:"payment_amount_ngn,omitempty"`
	PaymentAmountSOL *decimal.Decimal `gorm:"type:numeric(20,8)" json:"payment_amount_sol,omitempty"`
	JoinedAt         time.Time        `gorm:"autoCreateTime" json:"joined_at"`
}

func IsValidDebateType(t string) bool {
	switch t {
	case DebateTypeFreestyle, DebateTypeStructured, DebateTypeTimed, DebateTypeFormal:
		return true
	}
	return false
}
