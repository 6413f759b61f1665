package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SolBalanceMock is a locally-persisted placeholder for an on-chain SOL
// balance. The platform has no real RPC balance query anywhere; the first
// read of an address seeds a value and every later read returns the same
// row. Do not treat this as real balance data.
// TODO: replace with a Solana RPC getBalance call once an RPC endpoint is
// provisioned.
type SolBalanceMock struct {
	Address   string          `gorm:"primaryKey;type:varchar(128)" json:"address"`
	Balance   decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"balance"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
