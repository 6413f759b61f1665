package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"seefinish-platform/models"
)

// PaymentStatusClient reconciles pending ledger rows against the payment
// provider. Checkout redirects tell us nothing about the outcome, so
// settlement always arrives through this poll.
type PaymentStatusClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	DB         *gorm.DB
}

func NewPaymentStatusClient(db *gorm.DB) *PaymentStatusClient {
	baseURL := os.Getenv("PAYMENT_FUNCTION_URL")
	if baseURL == "" {
		log.Fatal("PAYMENT_FUNCTION_URL environment variable is required")
	}
	token := os.Getenv("PLATFORM_SERVICE_TOKEN")
	if token == "" {
		log.Fatal("PLATFORM_SERVICE_TOKEN environment variable is required for payment sync")
	}

	return &PaymentStatusClient{
		BaseURL: baseURL,
		Token:   token,
		DB:      db,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// settlement is the provider's wire shape for a resolved payment.
type settlement struct {
	Reference   string    `json:"reference"`
	Status      string    `json:"status"`
	ExternalRef string    `json:"external_ref"`
	SettledAt   time.Time `json:"settled_at"`
}

func (c *PaymentStatusClient) GetSettledPayments(ctx context.Context, since time.Time) ([]settlement, error) {
	since = since.UTC()

	u, err := url.Parse(fmt.Sprintf("%s/payments/changes", c.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to parse payment service URL: %w", err)
	}

	q := u.Query()
	q.Set("since", since.Format(time.RFC3339))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Service-Token", c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call payment service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("payment service returned status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Payments []settlement `json:"payments"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode payment service response: %w", err)
	}

	return response.Payments, nil
}

// PollPayments drives the reconciliation loop. The cursor only advances
// after a batch applies cleanly, so a failed tick retries the same
// window instead of dropping settlements.
func PollPayments(ctx context.Context, client *PaymentStatusClient, pollInterval time.Duration) {
	log.Println("Starting payment status polling...")
	lastSyncTime := time.Now().UTC().Add(-24 * time.Hour)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Payment status polling stopped.")
			return
		case <-ticker.C:
			tickTime := time.Now().UTC()

			settlements, err := client.GetSettledPayments(ctx, lastSyncTime)
			if err != nil {
				log.Printf("❌ Error polling payments: %v", err)
				continue
			}

			count := len(settlements)
			if count == 0 {
				continue
			}
			log.Printf("📥 Received %d payment settlement(s).", count)

			failed := 0
			for _, s := range settlements {
				if err := client.applySettlement(s); err != nil {
					log.Printf("❌ Failed to apply settlement %s: %v", s.Reference, err)
					failed++
				}
			}
			if failed > 0 {
				// Retry the whole window next tick; applySettlement is
				// idempotent so re-applied rows are no-ops.
				continue
			}

			lastSyncTime = tickTime
			log.Printf("✅ Applied %d payment settlement(s).", count)
		}
	}
}

// applySettlement moves one ledger row to its terminal status and fans
// the outcome out to participants, debate pots, and notifications.
// Already-settled rows are skipped, which makes replays safe.
func (c *PaymentStatusClient) applySettlement(s settlement) error {
	if s.Status != models.TransactionCompleted && s.Status != models.TransactionFailed {
		return fmt.Errorf("unknown settlement status %q", s.Status)
	}

	return c.DB.Transaction(func(tx *gorm.DB) error {
		var txRow models.Transaction
		if err := tx.Where("id = ?", s.Reference).First(&txRow).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				log.Printf("🚫 Settlement %s has no matching transaction, skipping", s.Reference)
				return nil
			}
			return err
		}
		if txRow.Status != models.TransactionPending {
			return nil
		}

		updates := map[string]interface{}{
			"status":       s.Status,
			"external_ref": s.ExternalRef,
		}
		if err := tx.Model(&models.Transaction{}).Where("id = ?", txRow.ID).Updates(updates).Error; err != nil {
			return err
		}

		if txRow.Type == models.TransactionEntryFee && txRow.RelatedID != nil {
			if err := settleEntryFee(tx, &txRow, s.Status); err != nil {
				return err
			}
		}

		if s.Status == models.TransactionCompleted && txRow.Type == models.TransactionReward {
			amount := decimal.Zero
			if txRow.AmountNGN != nil {
				amount = *txRow.AmountNGN
			}
			if err := tx.Model(&models.Profile{}).
				Where("user_id = ?", txRow.UserID).
				Update("total_earnings", gorm.Expr("total_earnings + ?", amount)).Error; err != nil {
				return err
			}
		}

		message := fmt.Sprintf("Your %s payment completed", txRow.Type)
		if s.Status == models.TransactionFailed {
			message = fmt.Sprintf("Your %s payment failed", txRow.Type)
		}
		notif := models.Notification{
			ID:        uuid.NewString(),
			UserID:    txRow.UserID,
			Type:      models.NotificationPayment,
			Title:     "Payment update",
			Message:   message,
			RelatedID: &txRow.ID,
		}
		return tx.Create(&notif).Error
	})
}

// settleEntryFee updates the participant row for a debate entry fee and
// keeps the pot totals consistent with completed fees only.
func settleEntryFee(tx *gorm.DB, txRow *models.Transaction, status string) error {
	debateID := *txRow.RelatedID

	paymentStatus := models.PaymentStatusCompleted
	if status == models.TransactionFailed {
		paymentStatus = models.PaymentStatusFailed
	}
	if err := tx.Model(&models.DebateParticipant{}).
		Where("debate_id = ? AND user_id = ?", debateID, txRow.UserID).
		Update("payment_status", paymentStatus).Error; err != nil {
		return err
	}

	if status != models.TransactionCompleted {
		return nil
	}

	// Recompute pots from the ledger rather than incrementing, so a
	// replayed batch cannot double-count.
	var potNGN, potSOL decimal.NullDecimal
	err := tx.Model(&models.Transaction{}).
		Select("SUM(amount_ngn)").
		Where("type = ? AND status = ? AND related_id = ?",
			models.TransactionEntryFee, models.TransactionCompleted, debateID).
		Scan(&potNGN).Error
	if err != nil {
		return err
	}
	err = tx.Model(&models.Transaction{}).
		Select("SUM(amount_sol)").
		Where("type = ? AND status = ? AND related_id = ?",
			models.TransactionEntryFee, models.TransactionCompleted, debateID).
		Scan(&potSOL).Error
	if err != nil {
		return err
	}

	pots := map[string]interface{}{
		"total_pot_ngn": decimal.Zero,
		"total_pot_sol": decimal.Zero,
	}
	if potNGN.Valid {
		pots["total_pot_ngn"] = potNGN.Decimal
	}
	if potSOL.Valid {
		pots["total_pot_sol"] = potSOL.Decimal
	}
	return tx.Model(&models.Debate{}).Where("id = ?", debateID).Updates(pots).Error
}
