package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shoppit/internal/models"

	"github.com/shopspring/decimal"
)

// PayPalConfig represents PayPal payment gateway configuration
type PayPalConfig struct {
	ClientID     string
	ClientSecret string
	Environment  string // "sandbox" or "live"
	ReturnURL    string
	CancelURL    string
	BaseURL      string // overridden in tests
}

// PayPalGateway handles payments via the PayPal REST API
type PayPalGateway struct {
	config  PayPalConfig
	client  *http.Client
	baseURL string
}

// NewPayPalGateway creates a new PayPal payment gateway
func NewPayPalGateway(config PayPalConfig) *PayPalGateway {
	baseURL := "https://api-m.paypal.com"
	if config.Environment == "sandbox" {
		baseURL = "https://api-m.sandbox.paypal.com"
	}
	if config.BaseURL != "" {
		baseURL = config.BaseURL
	}

	return &PayPalGateway{
		config:  config,
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
	}
}

// Name returns the gateway identifier used in routes and logs
func (g *PayPalGateway) Name() string {
	return "paypal"
}

// paypalTokenResponse represents an OAuth2 token response
type paypalTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// paypalAmount is a money value in PayPal's string form
type paypalAmount struct {
	Total    string `json:"total"`
	Currency string `json:"currency"`
}

// paypalLink is one entry in a hypermedia link list
type paypalLink struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

// paypalPaymentRequest represents a create-payment request
type paypalPaymentRequest struct {
	Intent string `json:"intent"`
	Payer  struct {
		PaymentMethod string `json:"payment_method"`
	} `json:"payer"`
	RedirectURLs struct {
		ReturnURL string `json:"return_url"`
		CancelURL string `json:"cancel_url"`
	} `json:"redirect_urls"`
	Transactions []paypalTransaction `json:"transactions"`
}

// paypalTransaction is one sale inside a payment
type paypalTransaction struct {
	Amount        paypalAmount `json:"amount"`
	Description   string       `json:"description"`
	InvoiceNumber string       `json:"invoice_number"`
}

// paypalPaymentResponse represents a created or retrieved payment
type paypalPaymentResponse struct {
	ID           string              `json:"id"`
	State        string              `json:"state"`
	Transactions []paypalTransaction `json:"transactions"`
	Links        []paypalLink        `json:"links"`
}

// authenticate obtains an OAuth2 access token using the client credentials
func (g *PayPalGateway) authenticate(ctx context.Context) (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	httpReq.SetBasicAuth(g.config.ClientID, g.config.ClientSecret)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request returned %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var tokenResp paypalTokenResponse
	if err := json.Unmarshal(bodyBytes, &tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("received empty access token")
	}

	return tokenResp.AccessToken, nil
}

// CreatePayment opens a PayPal payment and returns the approval URL
// extracted from the response link list by relation name. The reference
// travels as the invoice number and inside the return URL so the callback
// can correlate the attempt.
func (g *PayPalGateway) CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*RedirectTarget, error) {
	token, err := g.authenticate(ctx)
	if err != nil {
		return nil, &models.UpstreamError{Gateway: g.Name(), Err: fmt.Errorf("authentication failed: %w", err)}
	}

	payload := paypalPaymentRequest{Intent: "sale"}
	payload.Payer.PaymentMethod = "paypal"
	payload.RedirectURLs.ReturnURL = fmt.Sprintf("%s?paymentStatus=success&ref=%s", g.config.ReturnURL, url.QueryEscape(req.Reference))
	payload.RedirectURLs.CancelURL = g.config.CancelURL
	payload.Transactions = []paypalTransaction{{
		Amount: paypalAmount{
			Total:    req.Amount.StringFixed(2),
			Currency: req.Currency,
		},
		Description:   "Payment for cart items",
		InvoiceNumber: req.Reference,
	}}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/payments/payment", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create payment request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
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

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, &models.UpstreamError{Gateway: g.Name(), Err: fmt.Errorf("create payment returned %d: %s", resp.StatusCode, string(bodyBytes))}
	}

	var paymentResp paypalPaymentResponse
	if err := json.Unmarshal(bodyBytes, &paymentResp); err != nil {
		return nil, &models.UpstreamError{Gateway: g.Name(), Err: fmt.Errorf("failed to decode payment response: %w", err)}
	}

	approvalURL := ""
	for _, link := range paymentResp.Links {
		if link.Rel == "approval_url" {
			approvalURL = link.Href
			break
		}
	}
	if approvalURL == "" {
		return nil, &models.UpstreamError{Gateway: g.Name(), Err: fmt.Errorf("approval URL not found in payment response")}
	}

	return &RedirectTarget{URL: approvalURL, ProviderRef: paymentResp.ID}, nil
}

// VerifyPayment retrieves PayPal's authoritative record of a payment by
// its provider-side payment id
func (g *PayPalGateway) VerifyPayment(ctx context.Context, providerID string) (*ProviderTransaction, error) {
	token, err := g.authenticate(ctx)
	if err != nil {
		return nil, &models.UpstreamError{Gateway: g.Name(), Err: fmt.Errorf("authentication failed: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/v1/payments/payment/"+url.PathEscape(providerID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create verify request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)

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

	var paymentResp paypalPaymentResponse
	if err := json.Unmarshal(bodyBytes, &paymentResp); err != nil {
		return nil, &models.UpstreamError{Gateway: g.Name(), Err: fmt.Errorf("failed to decode verify response: %w", err)}
	}

	if len(paymentResp.Transactions) == 0 {
		return nil, &models.UpstreamError{Gateway: g.Name(), Err: fmt.Errorf("payment %s has no transactions", providerID)}
	}

	amount, err := decimal.NewFromString(paymentResp.Transactions[0].Amount.Total)
	if err != nil {
		return nil, &models.UpstreamError{Gateway: g.Name(), Err: fmt.Errorf("payment %s has malformed amount %q", providerID, paymentResp.Transactions[0].Amount.Total)}
	}

	var status ProviderStatus
	switch paymentResp.State {
	case "approved":
		status = ProviderSuccessful
	case "created":
		status = ProviderPending
	default:
		status = ProviderFailed
	}

	return &ProviderTransaction{
		Status:    status,
		Amount:    amount,
		Currency:  paymentResp.Transactions[0].Amount.Currency,
		Reference: paymentResp.Transactions[0].InvoiceNumber,
	}, nil
}
