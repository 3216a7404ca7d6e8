package http

import (
	"encoding/json"
	"net/http"

	"cabanas-backend/internal/domain"
	"cabanas-backend/internal/logger"
	"cabanas-backend/internal/service"
)

// CheckoutHandler drives the online card-payment flow: checkout start plus
// the provider webhook.
type CheckoutHandler struct {
	reconciler service.ReconcilerService
}

func NewCheckoutHandler(reconciler service.ReconcilerService) *CheckoutHandler {
	return &CheckoutHandler{reconciler: reconciler}
}

// Begin handles POST /api/v1/checkout/webpay. It opens a gateway transaction
// and returns the redirect URL; no calendar entry exists until payment lands.
func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	var stay domain.Stay
	if err := json.NewDecoder(r.Body).Decode(&stay); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	checkout, err := h.reconciler.BeginGatewayCheckout(r.Context(), &stay)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, checkout)
}

type webhookRequest struct {
	Token  string               `json:"token"`
	Status domain.GatewayStatus `json:"status"`
}

// Webhook handles POST /api/v1/webhooks/webpay. Always answers 200 once the
// payload parses: the provider retries on any other status, and reconciliation
// is idempotent per token, so replays are harmless.
func (h *CheckoutHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	var req webhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Token == "" {
		writeError(w, http.StatusBadRequest, "token is required")
		return
	}

	if err := h.reconciler.HandleGatewayResult(r.Context(), req.Token, req.Status); err != nil {
		// The failure is ours to resolve, not the provider's to retry forever.
		logger.Error("Webhook reconciliation failed", "token", req.Token, "error", err)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "received"})
}
