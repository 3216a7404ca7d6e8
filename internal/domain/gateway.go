package domain

import "time"

type GatewayAttemptStatus string

const (
	GatewayAttemptPending   GatewayAttemptStatus = "PENDING"
	GatewayAttemptConverted GatewayAttemptStatus = "CONVERTED"
	GatewayAttemptFailed    GatewayAttemptStatus = "FAILED"
	GatewayAttemptExpired   GatewayAttemptStatus = "EXPIRED"
)

// GatewayAttempt links a payment-gateway transaction token to a stay that has
// not been persisted as a reservation yet. It is created when an online
// checkout begins and consumed exactly once when the gateway reports a result.
// It expires on the same horizon as a pending reservation.
type GatewayAttempt struct {
	ID        int32                `json:"id"`
	Token     string               `json:"token"`
	Stay      Stay                 `json:"stay"`
	Breakdown PriceBreakdown       `json:"breakdown"`
	Status    GatewayAttemptStatus `json:"status"`
	ExpiresAt time.Time            `json:"expires_at"`
	CreatedOn time.Time            `json:"created_on"`
	UpdatedOn time.Time            `json:"updated_on"`
}

// GatewayCheckout is what the booking front end needs to send the guest to
// the payment provider.
type GatewayCheckout struct {
	Token            string         `json:"token"`
	RedirectURL      string         `json:"redirect_url"`
	Breakdown        PriceBreakdown `json:"breakdown"`
	DiscountRejected string         `json:"discount_rejected,omitempty"`
	ExpiresAt        time.Time      `json:"expires_at"`
}

// GatewayStatus is the transaction status reported by the payment provider.
type GatewayStatus string

const (
	GatewayStatusPaid       GatewayStatus = "paid"
	GatewayStatusAuthorized GatewayStatus = "authorized"
	GatewayStatusFailed     GatewayStatus = "failed"
	GatewayStatusVoided     GatewayStatus = "voided"
	GatewayStatusPendingPay GatewayStatus = "pending"
)

// Settled reports whether the status means money is committed.
func (s GatewayStatus) Settled() bool {
	return s == GatewayStatusPaid || s == GatewayStatusAuthorized
}

// Declined reports whether the status means the transaction will never settle.
func (s GatewayStatus) Declined() bool {
	return s == GatewayStatusFailed || s == GatewayStatusVoided
}
