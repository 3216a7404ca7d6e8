package http

import (
	"net/http"
	"strconv"

	"cabanas-backend/internal/domain"
	"cabanas-backend/internal/service"
)

// AvailabilityHandler answers calendar queries for the booking front end.
type AvailabilityHandler struct {
	booking service.BookingService
	catalog service.CatalogService
}

func NewAvailabilityHandler(booking service.BookingService, catalog service.CatalogService) *AvailabilityHandler {
	return &AvailabilityHandler{booking: booking, catalog: catalog}
}

type availabilityResponse struct {
	UnitID   int32                `json:"unit_id"`
	From     string               `json:"from"`
	To       string               `json:"to"`
	Segments []domain.DateSegment `json:"segments"`
}

// Get handles GET /api/v1/availability?unit_id=&from=&to=. The response covers
// the whole window as alternating free/occupied segments.
func (h *AvailabilityHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	unitID, err := strconv.ParseInt(q.Get("unit_id"), 10, 32)
	if err != nil || unitID <= 0 {
		writeError(w, http.StatusBadRequest, "unit_id must be a positive integer")
		return
	}
	from, to := q.Get("from"), q.Get("to")
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "from and to are required (yyyy-mm-dd)")
		return
	}

	segments, err := h.booking.Availability(r.Context(), int32(unitID), from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, availabilityResponse{
		UnitID:   int32(unitID),
		From:     from,
		To:       to,
		Segments: segments,
	})
}
