// services/payment_client.go
package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// Supported payment currencies: the fiat code and the cryptocurrency code.
const (
	CurrencyNGN = "ngn"
	CurrencySOL = "sol"
)

func IsValidCurrency(c string) bool {
	return c == CurrencyNGN || c == CurrencySOL
}

// PaymentClient talks to the hosted payment function. Payment execution is
// entirely external: we send the intent, get back a redirect URL the
// client opens, and learn the outcome later through the status worker.
type PaymentClient struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

type PaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Purpose   string          `json:"purpose"`
	Reference string          `json:"reference"`
	RelatedID *string         `json:"related_id,omitempty"`
}

type PaymentResponse struct {
	URL string `json:"url"`
}

func NewPaymentClient(baseURL, token string) *PaymentClient {
	return &PaymentClient{
		BaseURL: baseURL,
		Token:   token,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// CreatePayment invokes the create-payment function and returns the
// checkout redirect URL.
func (c *PaymentClient) CreatePayment(req PaymentRequest) (*PaymentResponse, error) {
	url := fmt.Sprintf("%s/create-payment", c.BaseURL)

	jsonData, _ := json.Marshal(req)

	httpReq, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.Client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		log.Printf("PaymentFunction /create-payment returned %d: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("payment initiation failed: %d", resp.StatusCode)
	}

	var out PaymentResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if out.URL == "" {
		return nil, fmt.Errorf("payment function returned no redirect URL")
	}
	return &out, nil
}
