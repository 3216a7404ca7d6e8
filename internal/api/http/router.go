package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"cabanas-backend/internal/security"
	"cabanas-backend/internal/service"
)

// Services bundles everything the router wires up.
type Services struct {
	Booking    service.BookingService
	Catalog    service.CatalogService
	Reconciler service.ReconcilerService
	Auth       service.AuthService
}

// NewRouter builds the REST surface. Guest-facing routes are public; confirm
// and cancel mutate money state and require a staff token.
func NewRouter(svcs *Services, tokenManager security.TokenManager) *mux.Router {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware)

	reservations := NewReservationHandler(svcs.Booking)
	availability := NewAvailabilityHandler(svcs.Booking, svcs.Catalog)
	checkout := NewCheckoutHandler(svcs.Reconciler)
	units := NewUnitsHandler(svcs.Catalog)
	auth := NewAuthHandler(svcs.Auth)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/login", auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/units", units.List).Methods(http.MethodGet)
	api.HandleFunc("/units/{id:[0-9]+}", units.Get).Methods(http.MethodGet)
	api.HandleFunc("/availability", availability.Get).Methods(http.MethodGet)
	api.HandleFunc("/reservations", reservations.Create).Methods(http.MethodPost)
	api.HandleFunc("/reservations/{code}", reservations.Get).Methods(http.MethodGet)
	api.HandleFunc("/checkout/webpay", checkout.Begin).Methods(http.MethodPost)
	api.HandleFunc("/webhooks/webpay", checkout.Webhook).Methods(http.MethodPost)

	// Staff routes
	guard := NewAuthMiddleware(tokenManager)
	staff := api.NewRoute().Subrouter()
	staff.Use(guard.RequireStaff)
	staff.HandleFunc("/reservations/{code}/confirm", reservations.Confirm).Methods(http.MethodPost)
	staff.HandleFunc("/reservations/{code}", reservations.Cancel).Methods(http.MethodDelete)

	return r
}
