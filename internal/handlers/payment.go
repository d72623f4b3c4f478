package handlers

import (
	"encoding/json"
	"net/http"

	"shoppit/internal/middleware"
	"shoppit/internal/models"
	"shoppit/internal/services"

	"github.com/go-chi/chi/v5"
)

// PaymentHandler handles payment initiation and provider callbacks
type PaymentHandler struct {
	checkoutService services.CheckoutServiceInterface
	verifierService services.VerifierServiceInterface
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(checkoutService services.CheckoutServiceInterface, verifierService services.VerifierServiceInterface) *PaymentHandler {
	return &PaymentHandler{
		checkoutService: checkoutService,
		verifierService: verifierService,
	}
}

// InitiatePayment handles POST /api/checkout/{gateway}
func (h *PaymentHandler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	gateway := chi.URLParam(r, "gateway")
	user := middleware.UserFromContext(r.Context())

	var req struct {
		CartCode string `json:"cart_code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, models.NewValidationError("invalid request body"))
		return
	}

	initiation, err := h.checkoutService.InitiatePayment(r.Context(), gateway, req.CartCode, user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, initiation)
}

// FlutterwaveCallback handles GET /api/payment/callback with
// status, tx_ref and transaction_id query parameters.
func (h *PaymentHandler) FlutterwaveCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	h.confirm(w, r, &services.CallbackParams{
		Gateway:           "flutterwave",
		StatusFlag:        query.Get("status"),
		Reference:         query.Get("tx_ref"),
		ProviderPaymentID: query.Get("transaction_id"),
	})
}

// PayPalCallback handles GET /api/payment/paypal/callback with
// paymentId, PayerID and ref query parameters. PayPal has no status word
// in the callback; presence of both identifiers is its success marker.
func (h *PaymentHandler) PayPalCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	paymentID := query.Get("paymentId")
	payerID := query.Get("PayerID")

	statusFlag := "cancelled"
	if paymentID != "" && payerID != "" {
		statusFlag = string(services.ProviderSuccessful)
	}

	h.confirm(w, r, &services.CallbackParams{
		Gateway:           "paypal",
		StatusFlag:        statusFlag,
		Reference:         query.Get("ref"),
		ProviderPaymentID: paymentID,
	})
}

// confirm runs the verifier and maps each outcome onto a response
func (h *PaymentHandler) confirm(w http.ResponseWriter, r *http.Request, params *services.CallbackParams) {
	user := middleware.UserFromContext(r.Context())

	result, err := h.verifierService.ConfirmPayment(r.Context(), params, user)
	if err != nil {
		writeError(w, err)
		return
	}

	switch result.Outcome {
	case services.VerificationCompleted, services.VerificationReplayed:
		writeJSON(w, http.StatusOK, map[string]string{
			"message":    "Payment successful!",
			"subMessage": "You have successfully made payment for the items you purchased.",
		})
	case services.VerificationMismatch:
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"message":    "Payment verification failed",
			"subMessage": "Your payment could not be verified. Please try again.",
		})
	default: // VerificationRejected
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"message": "Payment was not successful.",
		})
	}
}
