package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types.
const (
	TransactionDeposit    = "deposit"
	TransactionWithdrawal = "withdrawal"
	TransactionReward     = "reward"
	TransactionEntryFee   = "entry_fee"
)

// Transaction statuses. Rows are created as pending when a payment is
// initiated; the payment status worker settles them from the provider.
const (
	TransactionPending   = "pending"
	TransactionCompleted = "completed"
	TransactionFailed    = "failed"
)

// Transaction is a wallet ledger entry. Amounts are carried in both
// currencies; the one not used stays nil. ExternalRef is the payment
// provider's reference (or on-chain hash) used by the status worker to
// reconcile.
type Transaction struct {
	ID          string           `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string           `gorm:"type:uuid;not null;index" json:"user_id"`
	Type        string           `gorm:"type:varchar(32);not null" json:"type"`
	Status      string           `gorm:"type:varchar(32);not null;default:'pending';index" json:"status"`
	AmountNGN   *decimal.Decimal `gorm:"type:numeric(20,2)" json:"amount_ngn,omitempty"`
	AmountSOL   *decimal.Decimal `gorm:"type:numeric(20,8)" json:"amount_sol,omitempty"`
	Description *string          `json:"description,omitempty"`
	RelatedID   *string          `gorm:"type:uuid" json:"related_id,omitempty"` // e.g. the debate an entry fee pays for
	ExternalRef *string          `gorm:"type:varchar(128);index" json:"external_ref,omitempty"`
	CreatedAt   time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}
