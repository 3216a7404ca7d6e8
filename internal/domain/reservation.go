package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusExpired   ReservationStatus = "EXPIRED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

// IsTerminal reports whether no further state transitions are allowed.
func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationStatusConfirmed || s == ReservationStatusExpired || s == ReservationStatusCancelled
}

// PaymentMethod values match the wire/database values used by the booking
// front end (metodo_pago).
type PaymentMethod string

const (
	PaymentMethodTransfer PaymentMethod = "transferencia"
	PaymentMethodWebpay   PaymentMethod = "webpay"
	PaymentMethodManual   PaymentMethod = "manual"
)

// RequiresHold reports whether reservations paid this way start as a
// provisional hold with an expiry deadline. Manual (staff/WhatsApp) entries
// are created already confirmed.
func (m PaymentMethod) RequiresHold() bool {
	return m == PaymentMethodTransfer || m == PaymentMethodWebpay
}

// PaymentKind is tipo_pago: full payment up front or half now, half at check-in.
type PaymentKind string

const (
	PaymentKindFull PaymentKind = "total"
	PaymentKindHalf PaymentKind = "mitad"
)

// AddonDay is one hot tub reserved for one calendar day (yyyy-mm-dd).
// Add-ons always reference a single day, never a range.
type AddonDay struct {
	HotTubID int32  `json:"hot_tub_id"`
	Day      string `json:"day"`
	RateCLP  int32  `json:"rate_clp"`
}

// PriceBreakdown is the computed quote for a stay, in whole pesos.
// Invariant: TotalCLP = BaseCLP + ExtraGuestFeeCLP + AddonsCLP - DiscountCLP.
type PriceBreakdown struct {
	Nights           int32 `json:"nights"`
	NightlyRateCLP   int32 `json:"nightly_rate_clp"`
	BaseCLP          int32 `json:"base_clp"`
	ExtraGuests      int32 `json:"extra_guests"`
	ExtraGuestFeeCLP int32 `json:"extra_guest_fee_clp"`
	AddonsCLP        int32 `json:"addons_clp"`
	DiscountCLP      int32 `json:"discount_clp"`
	TotalCLP         int32 `json:"total_clp"`
	DueNowCLP        int32 `json:"due_now_clp"`
}

// Stay is a candidate booking request prior to persistence.
type Stay struct {
	UnitID        int32         `json:"unit_id"`
	CheckIn       string        `json:"check_in"`  // yyyy-mm-dd, inclusive
	CheckOut      string        `json:"check_out"` // yyyy-mm-dd, exclusive
	Guests        int32         `json:"guests"`
	Addons        []AddonDay    `json:"addons,omitempty"`
	DiscountCode  string        `json:"discount_code,omitempty"`
	GuestName     string        `json:"guest_name"`
	GuestEmail    string        `json:"guest_email"`
	GuestPhone    string        `json:"guest_phone"`
	PaymentMethod PaymentMethod `json:"metodo_pago"`
	PaymentKind   PaymentKind   `json:"tipo_pago"`
	// GatewayToken is set internally when a paid gateway attempt is converted
	// into a reservation, so late gateway events can still find the row. Never
	// accepted from clients.
	GatewayToken *string `json:"-"`
}

// Reservation is a persisted booking. A PENDING reservation with a past
// ExpiresAt no longer counts toward occupancy even before the sweeper runs.
type Reservation struct {
	ID            int32             `json:"id"`
	Code          string            `json:"code"` // public UUID, used in URLs
	UnitID        int32             `json:"unit_id"`
	CheckIn       string            `json:"check_in"`
	CheckOut      string            `json:"check_out"`
	Guests        int32             `json:"guests"`
	GuestName     string            `json:"guest_name"`
	GuestEmail    string            `json:"guest_email"`
	GuestPhone    string            `json:"guest_phone"`
	PaymentMethod PaymentMethod     `json:"metodo_pago"`
	PaymentKind   PaymentKind       `json:"tipo_pago"`
	DiscountCode  string            `json:"discount_code,omitempty"`
	Breakdown     PriceBreakdown    `json:"breakdown"`
	Status        ReservationStatus `json:"status"`
	CancelReason  string            `json:"cancel_reason,omitempty"`
	GatewayToken  *string           `json:"gateway_token,omitempty"`
	ExpiresAt     *time.Time        `json:"expires_at,omitempty"` // set only while PENDING
	PaidAt        *time.Time        `json:"paid_at,omitempty"`
	PaidAmountCLP int32             `json:"paid_amount_clp"`
	Addons        []AddonDay        `json:"addons,omitempty"`
	CreatedOn     time.Time         `json:"created_on"`
	UpdatedOn     time.Time         `json:"updated_on"`
}

// DateSegment is one stretch of an availability response.
type DateSegment struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Occupied bool   `json:"occupied"`
}
