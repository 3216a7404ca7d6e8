package service

import (
	"context"

	"cabanas-backend/internal/domain"
)

// CatalogService serves unit lookups for quoting and availability. Backed by
// a short-lived in-process cache; the unit catalog changes rarely.
type CatalogService interface {
	GetUnit(ctx context.Context, id int32) (*domain.Unit, error)
	ListUnits(ctx context.Context) ([]domain.Unit, error)
	ListUnitsByKind(ctx context.Context, kind domain.UnitKind) ([]domain.Unit, error)
}

// DiscountService resolves discount codes. Fail-closed: any doubt about a
// code yields ErrNotApplicable, never a partial discount.
type DiscountService interface {
	Resolve(ctx context.Context, code string, unitID int32, from, to string) (*domain.DiscountRule, error)
}

// PricingService computes quotes. Pure apart from catalog/discount reads; no
// locking needed.
type PricingService interface {
	// QuoteStay prices the stay. If the discount code is rejected the quote
	// degrades to no discount and the rejection reason is returned so the
	// caller can surface it; a hard pricing error returns ErrInvalidQuote.
	QuoteStay(ctx context.Context, stay *domain.Stay) (*domain.PriceBreakdown, string, error)
}

// BookingService is the hold manager: the reservation state machine.
type BookingService interface {
	// CreateHold quotes and persists the stay. Hold methods (transferencia,
	// webpay) produce a PENDING reservation with an expiry deadline; manual
	// entries are created CONFIRMED with no deadline. All-or-nothing across
	// the cabin range and every hot-tub day.
	CreateHold(ctx context.Context, stay *domain.Stay) (*domain.Reservation, string, error)
	// Confirm settles a PENDING reservation. Confirming an already-confirmed
	// reservation with the same amount is a no-op success.
	Confirm(ctx context.Context, code string, settledAmountCLP int32) (*domain.Reservation, error)
	// Cancel is the staff path; legal from PENDING or CONFIRMED.
	Cancel(ctx context.Context, code string, reason string) (*domain.Reservation, error)
	Get(ctx context.Context, code string) (*domain.Reservation, error)
	Availability(ctx context.Context, unitID int32, from, to string) ([]domain.DateSegment, error)
}

// ReconcilerService drives the asynchronous payment-gateway flow.
type ReconcilerService interface {
	// BeginGatewayCheckout quotes the stay, opens a gateway transaction and
	// records a pending attempt keyed by the transaction token. No calendar
	// entry exists yet.
	BeginGatewayCheckout(ctx context.Context, stay *domain.Stay) (*domain.GatewayCheckout, error)
	// HandleGatewayResult consumes a webhook or poll result. Idempotent per
	// token; unknown tokens are logged and dropped.
	HandleGatewayResult(ctx context.Context, token string, status domain.GatewayStatus) error
	// Poll fetches the transaction status from the provider and reconciles.
	Poll(ctx context.Context, token string) error
}

// NotificationService tells the guest what happened. Fire-and-forget: callers
// log failures and never roll back.
type NotificationService interface {
	SendReservationConfirmed(ctx context.Context, res *domain.Reservation) error
	SendReservationCancelled(ctx context.Context, res *domain.Reservation, reason string) error
}

// AuthService authenticates back-office staff.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
}
