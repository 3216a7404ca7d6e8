package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"cabanas-backend/internal/domain"
	"cabanas-backend/internal/service"
)

// ReservationHandler exposes the reservation state machine over REST.
type ReservationHandler struct {
	booking service.BookingService
}

func NewReservationHandler(booking service.BookingService) *ReservationHandler {
	return &ReservationHandler{booking: booking}
}

type createReservationResponse struct {
	Reservation      *domain.Reservation `json:"reservation"`
	DiscountRejected string              `json:"discount_rejected,omitempty"`
}

// Create handles POST /api/v1/reservations. The request body is a Stay; the
// payment method decides whether the result is a hold or a confirmed entry.
func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var stay domain.Stay
	if err := json.NewDecoder(r.Body).Decode(&stay); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, discountRejected, err := h.booking.CreateHold(r.Context(), &stay)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createReservationResponse{
		Reservation:      res,
		DiscountRejected: discountRejected,
	})
}

// Get handles GET /api/v1/reservations/{code}.
func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	res, err := h.booking.Get(r.Context(), code)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type confirmRequest struct {
	AmountCLP int32 `json:"amount_clp"`
}

// Confirm handles POST /api/v1/reservations/{code}/confirm. Staff-only: this
// is how a verified bank transfer settles a hold.
func (h *ReservationHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AmountCLP <= 0 {
		writeError(w, http.StatusBadRequest, "amount_clp must be positive")
		return
	}

	res, err := h.booking.Confirm(r.Context(), code, req.AmountCLP)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// Cancel handles DELETE /api/v1/reservations/{code}. Staff-only.
func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	var req cancelRequest
	if r.Body != nil {
		// Reason is optional; ignore a missing or empty body.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.Reason == "" {
		req.Reason = "cancelled_by_staff"
	}

	res, err := h.booking.Cancel(r.Context(), code, req.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
