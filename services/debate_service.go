package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"seefinish-platform/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrDebateFull      = errors.New("debate is full")
	ErrAlreadyJoined   = errors.New("you already joined this debate")
	ErrDebateNotOpen   = errors.New("debate is not open for joining")
	ErrInvalidDebate   = errors.New("invalid debate type")
	ErrInvalidAmounts  = errors.New("entry fees must not be negative")
	ErrInvalidCurrency = errors.New("unsupported currency")
)

type DebateService struct {
	DB       *gorm.DB
	Payments *PaymentClient
}

func NewDebateService(db *gorm.DB, payments *PaymentClient) *DebateService {
	return &DebateService{DB: db, Payments: payments}
}

// DebateFeedItem joins a debate with its organizer and the derived
// aggregates. ParticipantCount/LikesCount come from the aggregator, never
// from local arithmetic; LikedByViewer only drives the icon state.
type DebateFeedItem struct {
	models.Debate
	ParticipantCount int  `json:"participant_count"`
	LikesCount       int  `json:"likes_count"`
	LikedByViewer    bool `json:"liked_by_viewer"`
}

// FetchFeed returns the newest-first window of at most limit debates with
// organizers preloaded, augmented with participant counts, like counts and
// the viewer's liked set. The three lookups are recomputed from scratch
// per call.
func (s *DebateService) FetchFeed(viewer *models.Viewer, limit int) ([]DebateFeedItem, error) {
	if limit < 0 {
		limit = 0
	}

	var debates []models.Debate
	if err := s.DB.Preload("Organizer").
		Order("created_at DESC").
		Limit(limit).
		Find(&debates).Error; err != nil {
		return nil, err
	}

	ids := make([]string, len(debates))
	for i, d := range debates {
		ids[i] = d.ID
	}

	participants, err := participantCounts(s.DB, ids)
	if err != nil {
		return nil, err
	}
	likes, err := likeCounts(s.DB, models.TargetDebate, ids)
	if err != nil {
		return nil, err
	}
	liked, err := viewerLikedSet(s.DB, viewer, models.TargetDebate, ids)
	if err != nil {
		return nil, err
	}

	items := make([]DebateFeedItem, len(debates))
	for i, d := range debates {
		items[i] = DebateFeedItem{
			Debate:           d,
			ParticipantCount: participants[d.ID],
			LikesCount:       likes[d.ID],
			LikedByViewer:    liked[d.ID],
		}
	}
	return items, nil
}

// CreateDebateInput carries the debate-creation form.
type CreateDebateInput struct {
	Title           string           `json:"title"`
	Description     *string          `json:"description"`
	DebateType      string           `json:"debate_type"`
	Rules           *string          `json:"rules"`
	EntryFeeNGN     *decimal.Decimal `json:"entry_fee_ngn"`
	EntryFeeSOL     *decimal.Decimal `json:"entry_fee_sol"`
	MaxParticipants int              `json:"max_participants"`
	ScheduledAt     *string          `json:"scheduled_at"` // RFC3339
}

// Create inserts a scheduled debate. Status starts at "scheduled" and is
// never advanced by this service — the event coordinator owns the
// lifecycle.
func (s *DebateService) Create(viewer *models.Viewer, input CreateDebateInput) (*models.Debate, error) {
	if viewer == nil {
		return nil, ErrUnauthenticated
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrEmptyContent
	}
	if !models.IsValidDebateType(input.DebateType) {
		return nil, ErrInvalidDebate
	}

	debate := &models.Debate{
		ID:          uuid.NewString(),
		OrganizerID: viewer.UserID,
		Title:       title,
		Description: input.Description,
		DebateType:  input.DebateType,
		Status:      models.DebateStatusScheduled,
		Rules:       input.Rules,
	}

	if input.EntryFeeNGN != nil {
		if input.EntryFeeNGN.IsNegative() {
			return nil, ErrInvalidAmounts
		}
		debate.EntryFeeNGN = *input.EntryFeeNGN
	}
	if input.EntryFeeSOL != nil {
		if input.EntryFeeSOL.IsNegative() {
			return nil, ErrInvalidAmounts
		}
		debate.EntryFeeSOL = *input.EntryFeeSOL
	}
	if input.MaxParticipants > 0 {
		debate.MaxParticipants = input.MaxParticipants
	} else {
		debate.MaxParticipants = 2
	}
	if input.ScheduledAt != nil && *input.ScheduledAt != "" {
		at, err := parseRFC3339(*input.ScheduledAt)
		if err != nil {
			return nil, err
		}
		debate.ScheduledAt = at
	}

	if err := s.DB.Create(debate).Error; err != nil {
		return nil, err
	}

	profileSvc := NewProfileService(s.DB)
	if _, err := profileSvc.AwardXP(viewer.UserID, DefaultXPWeights.DebateCreateXP, "debate_created"); err != nil {
		log.Printf("[DEBATES] XP award failed for %s: %v", viewer.UserID, err)
	}

	return debate, nil
}

// GetByID loads one debate with organizer and participants.
func (s *DebateService) GetByID(id string) (*models.Debate, []models.DebateParticipant, error) {
	var debate models.Debate
	if err := s.DB.Preload("Organizer").First(&debate, "id = ?", id).Error; err != nil {
		return nil, nil, err
	}
	var participants []models.DebateParticipant
	if err := s.DB.Where("debate_id = ?", id).Order("joined_at ASC").
		Find(&participants).Error; err != nil {
		return nil, nil, err
	}
	return &debate, participants, nil
}

// JoinResult is what a successful join returns: the participant row and,
// when an entry fee applies, the checkout URL the client must open.
type JoinResult struct {
	Participant *models.DebateParticipant `json:"participant"`
	PaymentURL  string                    `json:"payment_url,omitempty"`
}

// Join adds the viewer to a debate. When the debate carries an entry fee
// in the chosen currency, a pending ledger entry is created and the
// payment function invoked; the payment status worker later settles the
// participant row and the pot.
func (s *DebateService) Join(viewer *models.Viewer, debateID, currency, role string) (*JoinResult, error) {
	if viewer == nil {
		return nil, ErrUnauthenticated
	}
	if !IsValidCurrency(currency) {
		return nil, ErrInvalidCurrency
	}
	if role == "" {
		role = "debater"
	}

	var debate models.Debate
	var fee decimal.Decimal
	participant := &models.DebateParticipant{
		ID:       uuid.NewString(),
		DebateID: debateID,
		UserID:   viewer.UserID,
		Role:     role,
	}
	// The ledger row ID doubles as the provider reference the status
	// worker reconciles on.
	txRow := models.Transaction{
		ID:     uuid.NewString(),
		UserID: viewer.UserID,
		Type:   models.TransactionEntryFee,
		Status: models.TransactionPending,
	}

	// Capacity and duplicate checks run inside the write transaction
	// with the debate row locked, so two concurrent joins serialize and
	// cannot overfill the debate.
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&debate, "id = ?", debateID).Error; err != nil {
			return err
		}
		if debate.Status != models.DebateStatusScheduled && debate.Status != models.DebateStatusLive {
			return ErrDebateNotOpen
		}

		var count int64
		if err := tx.Model(&models.DebateParticipant{}).
			Where("debate_id = ?", debateID).Count(&count).Error; err != nil {
			return err
		}
		if int(count) >= debate.MaxParticipants {
			return ErrDebateFull
		}

		var existing int64
		if err := tx.Model(&models.DebateParticipant{}).
			Where("debate_id = ? AND user_id = ?", debateID, viewer.UserID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyJoined
		}

		fee = debate.EntryFeeNGN
		if currency == CurrencySOL {
			fee = debate.EntryFeeSOL
		}

		if fee.IsPositive() {
			participant.PaymentStatus = models.PaymentStatusPending
			if currency == CurrencyNGN {
				participant.PaymentAmountNGN = &fee
			} else {
				participant.PaymentAmountSOL = &fee
			}
		} else {
			// Free debates need no settlement round-trip.
			participant.PaymentStatus = models.PaymentStatusCompleted
		}

		if err := tx.Create(participant).Error; err != nil {
			return err
		}
		if !fee.IsPositive() {
			return nil
		}

		txRow.RelatedID = &debate.ID
		if currency == CurrencyNGN {
			txRow.AmountNGN = &fee
		} else {
			txRow.AmountSOL = &fee
		}
		desc := fmt.Sprintf("Entry fee for debate %q", debate.Title)
		txRow.Description = &desc
		return tx.Create(&txRow).Error
	})
	if err != nil {
		return nil, err
	}

	result := &JoinResult{Participant: participant}

	if fee.IsPositive() {
		resp, err := s.Payments.CreatePayment(PaymentRequest{
			Amount:    fee,
			Currency:  currency,
			Purpose:   "debate_entry",
			Reference: txRow.ID,
			RelatedID: &debate.ID,
		})
		if err != nil {
			// Release the seat: without a checkout URL the payment can
			// never settle, and leaving the rows would lock the user out
			// of retrying.
			if derr := s.DB.Transaction(func(tx *gorm.DB) error {
				if err := tx.Delete(&models.Transaction{}, "id = ?", txRow.ID).Error; err != nil {
					return err
				}
				return tx.Delete(&models.DebateParticipant{}, "id = ?", participant.ID).Error
			}); derr != nil {
				log.Printf("❌ [DEBATES] failed to release seat for %s after payment error: %v",
					viewer.UserID, derr)
			}
			return nil, err
		}
		result.PaymentURL = resp.URL
	}

	profileSvc := NewProfileService(s.DB)
	if _, err := profileSvc.AwardXP(viewer.UserID, DefaultXPWeights.DebateJoinXP, "debate_joined"); err != nil {
		log.Printf("[DEBATES] XP award failed for %s: %v", viewer.UserID, err)
	}

	if debate.OrganizerID != viewer.UserID {
		notifSvc := NewNotificationService(s.DB)
		notifSvc.Notify(debate.OrganizerID, models.NotificationDebate, "New participant",
			fmt.Sprintf("@%s joined %q", viewer.Username, debate.Title), &debate.ID)
	}

	return result, nil
}

// ===== Fiber handlers =====

// GetFeed returns the debate feed window with derived counts.
func (s *DebateService) GetFeed(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit > 50 {
		limit = 50
	}

	items, err := s.FetchFeed(viewerFromCtx(c), limit)
	if err != nil {
		log.Printf("❌ [DEBATES] feed fetch failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch debates"})
	}
	return c.JSON(items)
}

func (s *DebateService) CreateDebate(c *fiber.Ctx) error {
	var input CreateDebateInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	debate, err := s.Create(viewerFromCtx(c), input)
	if err != nil {
		if errors.Is(err, ErrInvalidDebate) || errors.Is(err, ErrInvalidAmounts) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return preconditionError(c, err, "failed to create debate")
	}
	return c.Status(fiber.StatusCreated).JSON(debate)
}

func (s *DebateService) GetDebateByID(c *fiber.Ctx) error {
	debate, participants, err := s.GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "debate not found"})
		}
		return preconditionError(c, err, "failed to fetch debate")
	}
	return c.JSON(fiber.Map{"debate": debate, "participants": participants})
}

func (s *DebateService) JoinDebate(c *fiber.Ctx) error {
	var input struct {
		Currency string `json:"currency"`
		Role     string `json:"role"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	result, err := s.Join(viewerFromCtx(c), c.Params("id"), input.Currency, input.Role)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "debate not found"})
		case errors.Is(err, ErrDebateFull),
			errors.Is(err, ErrAlreadyJoined),
			errors.Is(err, ErrDebateNotOpen),
			errors.Is(err, ErrInvalidCurrency):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return preconditionError(c, err, "failed to join debate")
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}
