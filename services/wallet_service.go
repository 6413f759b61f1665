package services

import (
	"errors"
	"fmt"
	"math/rand"

	"seefinish-platform/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInvalidAmount = errors.New("amount must be positive")

type WalletService struct {
	DB       *gorm.DB
	Payments *PaymentClient
}

func NewWalletService(db *gorm.DB, payments *PaymentClient) *WalletService {
	return &WalletService{DB: db, Payments: payments}
}

// Transactions returns the viewer's ledger, newest first, capped at limit.
func (s *WalletService) Transactions(viewer *models.Viewer, limit int) ([]models.Transaction, error) {
	if viewer == nil {
		return nil, ErrUnauthenticated
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var transactions []models.Transaction
	if err := s.DB.Where("user_id = ?", viewer.UserID).
		Order("created_at DESC").
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// InitiatePayment creates a pending ledger entry and invokes the payment
// function. txType is deposit or withdrawal; the worker settles the row
// once the provider reports an outcome.
func (s *WalletService) InitiatePayment(viewer *models.Viewer, txType string, amount decimal.Decimal, currency string) (string, error) {
	if viewer == nil {
		return "", ErrUnauthenticated
	}
	if !IsValidCurrency(currency) {
		return "", ErrInvalidCurrency
	}
	if !amount.IsPositive() {
		return "", ErrInvalidAmount
	}

	txRow := models.Transaction{
		ID:     uuid.NewString(),
		UserID: viewer.UserID,
		Type:   txType,
		Status: models.TransactionPending,
	}
	if currency == CurrencyNGN {
		txRow.AmountNGN = &amount
	} else {
		txRow.AmountSOL = &amount
	}
	desc := fmt.Sprintf("%s via payment provider", txType)
	txRow.Description = &desc

	if err := s.DB.Create(&txRow).Error; err != nil {
		return "", err
	}

	resp, err := s.Payments.CreatePayment(PaymentRequest{
		Amount:    amount,
		Currency:  currency,
		Purpose:   txType,
		Reference: txRow.ID,
	})
	if err != nil {
		return "", err
	}
	return resp.URL, nil
}

// SolBalance returns the locally-persisted placeholder balance for an
// address. The first read seeds a value between 0.5 and 5.5 SOL and every
// later read returns the stored row. This is an explicit mock — there is
// no on-chain query anywhere in the platform.
func (s *WalletService) SolBalance(address string) (decimal.Decimal, error) {
	var row models.SolBalanceMock
	err := s.DB.Where("address = ?", address).First(&row).Error
	if err == nil {
		return row.Balance, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, err
	}

	seeded := decimal.NewFromFloat(rand.Float64()*5 + 0.5).Round(4)
	row = models.SolBalanceMock{Address: address, Balance: seeded}
	if err := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return decimal.Zero, err
	}
	// A concurrent seed may have won; return whatever is stored.
	if err := s.DB.Where("address = ?", address).First(&row).Error; err != nil {
		return decimal.Zero, err
	}
	return row.Balance, nil
}

// ConnectWallet stores the browser-extension address on the viewer's
// profile; an empty address disconnects.
func (s *WalletService) ConnectWallet(viewer *models.Viewer, address string) error {
	if viewer == nil {
		return ErrUnauthenticated
	}
	var value *string
	if address != "" {
		value = &address
	}
	return s.DB.Model(&models.Profile{}).
		Where("user_id = ?", viewer.UserID).
		Update("wallet_address", value).Error
}

// ===== Fiber handlers =====

func (s *WalletService) GetTransactions(c *fiber.Ctx) error {
	transactions, err := s.Transactions(viewerFromCtx(c), c.QueryInt("limit", 20))
	if err != nil {
		return preconditionError(c, err, "failed to fetch transactions")
	}
	return c.JSON(transactions)
}

func (s *WalletService) CreateDeposit(c *fiber.Ctx) error {
	return s.handlePayment(c, models.TransactionDeposit)
}

func (s *WalletService) CreateWithdrawal(c *fiber.Ctx) error {
	return s.handlePayment(c, models.TransactionWithdrawal)
}

func (s *WalletService) handlePayment(c *fiber.Ctx, txType string) error {
	var input struct {
		Amount   decimal.Decimal `json:"amount"`
		Currency string          `json:"currency"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	url, err := s.InitiatePayment(viewerFromCtx(c), txType, input.Amount, input.Currency)
	if err != nil {
		if errors.Is(err, ErrInvalidAmount) || errors.Is(err, ErrInvalidCurrency) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return preconditionError(c, err, "failed to initiate payment")
	}
	return c.JSON(fiber.Map{"url": url})
}

func (s *WalletService) GetSolBalance(c *fiber.Ctx) error {
	address := c.Params("address")
	if address == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "address is required"})
	}
	balance, err := s.SolBalance(address)
	if err != nil {
		return preconditionError(c, err, "failed to fetch balance")
	}
	return c.JSON(fiber.Map{"address": address, "balance": balance, "mock": true})
}

func (s *WalletService) UpdateWalletAddress(c *fiber.Ctx) error {
	var input struct {
		Address string `json:"address"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := s.ConnectWallet(viewerFromCtx(c), input.Address); err != nil {
		return preconditionError(c, err, "failed to update wallet address")
	}
	return c.JSON(fiber.Map{"message": "wallet address updated"})
}
