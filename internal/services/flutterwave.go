package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"shoppit/internal/models"

	"github.com/shopspring/decimal"
)

// FlutterwaveConfig represents Flutterwave payment gateway configuration
type FlutterwaveConfig struct {
	SecretKey   string
	RedirectURL string
	BaseURL     string // overridden in tests; defaults to the live API
}

// FlutterwaveGateway handles payments via the Flutterwave v3 API
type FlutterwaveGateway struct {
	config  FlutterwaveConfig
	client  *http.Client
	baseURL string
}

// NewFlutterwaveGateway creates a new Flutterwave payment gateway
func NewFlutterwaveGateway(config FlutterwaveConfig) *FlutterwaveGateway {
	baseURL := "https://api.flutterwave.com"
	if config.BaseURL != "" {
		baseURL = config.BaseURL
	}

	return &FlutterwaveGateway{
		config:  config,
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
	}
}

// Name returns the gateway identifier used in routes and logs
func (g *FlutterwaveGateway) Name() string {
	return "flutterwave"
}

// flutterwaveCustomer identifies the customer in a payment request
type flutterwaveCustomer struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phonenumber"`
}

// flutterwavePaymentRequest represents a create-payment request
type flutterwavePaymentRequest struct {
	TxRef          string              `json:"tx_ref"`
	Amount         string              `json:"amount"`
	Currency       string              `json:"currency"`
	RedirectURL    string              `json:"redirect_url"`
	Customer       flutterwaveCustomer `json:"customer"`
	Customizations map[string]string   `json:"customizations"`
}

// flutterwavePaymentResponse represents a create-payment response
type flutterwavePaymentResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Link string `json:"link"`
	} `json:"data"`
}

// flutterwaveVerifyResponse represents a transaction verification response
type flutterwaveVerifyResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status   string          `json:"status"`
		Amount   decimal.Decimal `json:"amount"`
		Currency string          `json:"currency"`
		TxRef    string          `json:"tx_ref"`
	} `json:"data"`
}

// CreatePayment opens a payment with Flutterwave and returns the hosted
// payment link the client must be redirected to. Flutterwave echoes the
// reference back as tx_ref in the callback query.
func (g *FlutterwaveGateway) CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*RedirectTarget, error) {
	payload := flutterwavePaymentRequest{
		TxRef:       req.Reference,
		Amount:      req.Amount.StringFixed(2),
		Currency:    req.Currency,
		RedirectURL: g.config.RedirectURL,
		Customer: flutterwaveCustomer{
			Email:       req.Customer.Email,
			Name:        req.Customer.Name,
			PhoneNumber: req.Customer.Phone,
		},
		Customizations: map[string]string{
			"title": "Shoppit Payment",
		},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v3/payments", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create payment request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.config.SecretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, &models.UpstreamError{Gateway: g.Name(), Err: fmt.Errorf("create payment request failed: %w", err)}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.UpstreamError{Gateway: g.Name(), Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &models.UpstreamError{Gateway: g.Name(), Err: fmt.Errorf("create payment returned %d: %s", resp.StatusCode, string(bodyBytes))}
	}

	var paymentResp flutterwavePaymentResponse
	if err := json.Unmarshal(bodyBytes, &paymentResp); err != nil {
		return nil, &models.UpstreamError{Gateway: g.Name(), Err: fmt.Errorf("failed to decode payment response: %w", err)}
	}

	if paymentResp.Status != "success" || paymentResp.Data.Link == "" {
		return nil, &models.UpstreamError{Gateway: g.Name(), Err: fmt.Errorf("create payment rejected: %s", paymentResp.Message)}
	}

	return &RedirectTarget{URL: paymentResp.Data.Link}, nil
}

// VerifyPayment re-queries Flutterwave's record of a payment by its
// provider-side transaction id
func (g *FlutterwaveGateway) VerifyPayment(ctx context.Context, providerID string) (*ProviderTransaction, error) {
	url := fmt.Sprintf("%s/v3/transactions/%s/verify", g.baseURL, providerID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create verify request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.config.SecretKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, &models.UpstreamError{Gateway: g.Name(), Err: fmt.Errorf("verify request failed: %w", err)}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.UpstreamError{Gateway: g.Name(), Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &models.UpstreamError{Gateway: g.Name(), Err: fmt.Errorf("verify returned %d: %s", resp.StatusCode, string(bodyBytes))}
	}

	var verifyResp flutterwaveVerifyResponse
	if err := json.Unmarshal(bodyBytes, &verifyResp); err != nil {
		return nil, &models.UpstreamError{Gateway: g.Name(), Err: fmt.Errorf("failed to decode verify response: %w", err)}
	}

	if verifyResp.Status != "success" {
		return nil, &models.UpstreamError{Gateway: g.Name(), Err: fmt.Errorf("verify rejected: %s", verifyResp.Message)}
	}

	var status ProviderStatus
	switch verifyResp.Data.Status {
	case "successful":
		status = ProviderSuccessful
	case "pending":
		status = ProviderPending
	default:
		status = ProviderFailed
	}

	return &ProviderTransaction{
		Status:    status,
		Amount:    verifyResp.Data.Amount,
		Currency:  verifyResp.Data.Currency,
		Reference: verifyResp.Data.TxRef,
	}, nil
}
