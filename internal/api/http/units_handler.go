package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"cabanas-backend/internal/domain"
	"cabanas-backend/internal/service"
)

type UnitsHandler struct {
	catalog service.CatalogService
}

func NewUnitsHandler(catalog service.CatalogService) *UnitsHandler {
	return &UnitsHandler{catalog: catalog}
}

// List handles GET /api/v1/units. An optional ?kind=CABANA|TINAJA narrows
// the listing to one pool.
func (h *UnitsHandler) List(w http.ResponseWriter, r *http.Request) {
	if kind := r.URL.Query().Get("kind"); kind != "" {
		k := domain.UnitKind(strings.ToUpper(kind))
		if k != domain.UnitKindCabin && k != domain.UnitKindHotTub {
			writeError(w, http.StatusBadRequest, "kind must be CABANA or TINAJA")
			return
		}
		units, err := h.catalog.ListUnitsByKind(r.Context(), k)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, units)
		return
	}

	units, err := h.catalog.ListUnits(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, units)
}

// Get handles GET /api/v1/units/{id}.
func (h *UnitsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 32)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "id must be a positive integer")
		return
	}

	unit, err := h.catalog.GetUnit(r.Context(), int32(id))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, unit)
}
