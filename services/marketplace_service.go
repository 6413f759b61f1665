package services

import (
	"errors"
	"strings"

	"seefinish-platform/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// The marketplace is a static mockup: a fixed in-code catalog, no
// inventory table. Purchases still go through the real payment function.

var ErrItemNotFound = errors.New("item not found")

// MarketplaceItem is a catalog entry priced in both currencies.
type MarketplaceItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	PriceNGN    decimal.Decimal `json:"price_ngn"`
	PriceSOL    decimal.Decimal `json:"price_sol"`
	Category    string          `json:"category"`
	Rating      float64         `json:"rating"`
	ImageURL    string          `json:"image_url"`
	Seller      string          `json:"seller"`
	InStock     bool            `json:"in_stock"`
}

var catalog = []MarketplaceItem{
	{
		ID:          "1",
		Name:        "Premium Roast Boost",
		Description: "Boost your roast to reach 10x more users",
		PriceNGN:    decimal.NewFromInt(5000),
		PriceSOL:    decimal.NewFromFloat(0.05),
		Category:    "boosts",
		Rating:      4.8,
		Seller:      "SeeFinish",
		InStock:     true,
	},
	{
		ID:          "2",
		Name:        "Debate Champion Badge",
		Description: "Exclusive badge for debate winners",
		PriceNGN:    decimal.NewFromInt(15000),
		PriceSOL:    decimal.NewFromFloat(0.15),
		Category:    "badges",
		Rating:      4.9,
		Seller:      "SeeFinish",
		InStock:     true,
	},
	{
		ID:          "3",
		Name:        "VIP Profile Theme",
		Description: "Stand out with premium profile themes",
		PriceNGN:    decimal.NewFromInt(8000),
		PriceSOL:    decimal.NewFromFloat(0.08),
		Category:    "themes",
		Rating:      4.7,
		Seller:      "SeeFinish",
		InStock:     true,
	},
}

type MarketplaceService struct {
	Payments *PaymentClient
}

func NewMarketplaceService(payments *PaymentClient) *MarketplaceService {
	return &MarketplaceService{Payments: payments}
}

// FilterItems narrows the catalog by category and case-insensitive search
// term over name and description. Category "all" (or "") matches
// everything.
func FilterItems(items []MarketplaceItem, searchTerm, category string) []MarketplaceItem {
	filtered := make([]MarketplaceItem, 0, len(items))
	term := strings.ToLower(searchTerm)
	for _, item := range items {
		if term != "" &&
			!strings.Contains(strings.ToLower(item.Name), term) &&
			!strings.Contains(strings.ToLower(item.Description), term) {
			continue
		}
		if category != "" && category != "all" && item.Category != category {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

// Purchase invokes the payment function for a catalog item in the chosen
// currency and returns the checkout URL.
func (s *MarketplaceService) Purchase(viewer *models.Viewer, itemID, currency string) (string, error) {
	if viewer == nil {
		return "", ErrUnauthenticated
	}
	if !IsValidCurrency(currency) {
		return "", ErrInvalidCurrency
	}

	var item *MarketplaceItem
	for i := range catalog {
		if catalog[i].ID == itemID {
			item = &catalog[i]
			break
		}
	}
	if item == nil || !item.InStock {
		return "", ErrItemNotFound
	}

	amount := item.PriceNGN
	if currency == CurrencySOL {
		amount = item.PriceSOL
	}

	resp, err := s.Payments.CreatePayment(PaymentRequest{
		Amount:    amount,
		Currency:  currency,
		Purpose:   "marketplace_purchase",
		Reference: viewer.UserID + ":" + item.ID,
		RelatedID: &item.ID,
	})
	if err != nil {
		return "", err
	}
	return resp.URL, nil
}

// ===== Fiber handlers =====

func (s *MarketplaceService) GetItems(c *fiber.Ctx) error {
	items := FilterItems(catalog, c.Query("q"), c.Query("category", "all"))
	return c.JSON(items)
}

func (s *MarketplaceService) PurchaseItem(c *fiber.Ctx) error {
	var input struct {
		Currency string `json:"currency"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	url, err := s.Purchase(viewerFromCtx(c), c.Params("id"), input.Currency)
	if err != nil {
		switch {
		case errors.Is(err, ErrItemNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, ErrInvalidCurrency):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return preconditionError(c, err, "failed to start purchase")
	}
	return c.JSON(fiber.Map{"url": url})
}
