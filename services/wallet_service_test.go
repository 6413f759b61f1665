package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"seefinish-platform/models"
)

func TestInitiatePaymentGates(t *testing.T) {
	svc := NewWalletService(nil, nil)
	viewer := &models.Viewer{UserID: "u1", Username: "one"}

	_, err := svc.InitiatePayment(nil, models.TransactionDeposit, decimal.NewFromInt(100), CurrencyNGN)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.InitiatePayment(viewer, models.TransactionDeposit, decimal.NewFromInt(100), "usd")
	assert.ErrorIs(t, err, ErrInvalidCurrency)

	_, err = svc.InitiatePayment(viewer, models.TransactionDeposit, decimal.Zero, CurrencyNGN)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.InitiatePayment(viewer, models.TransactionWithdrawal, decimal.NewFromInt(-5), CurrencySOL)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestIsValidCurrency(t *testing.T) {
	assert.True(t, IsValidCurrency("ngn"))
	assert.True(t, IsValidCurrency("sol"))
	assert.False(t, IsValidCurrency("NGN"))
	assert.False(t, IsValidCurrency("usd"))
	assert.False(t, IsValidCurrency(""))
}
