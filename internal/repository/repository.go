package repository

import (
	"context"
	"time"

	"cabanas-backend/internal/domain"
)

type UnitRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Unit, error)
	ListByKind(ctx context.Context, kind domain.UnitKind) ([]domain.Unit, error)
	ListActive(ctx context.Context) ([]domain.Unit, error)
}

// CalendarRepository is the occupancy ledger. It is the single source of truth
// for availability; every occupancy read or write goes through it.
type CalendarRepository interface {
	// CreateReservation inserts the reservation and all of its hot-tub
	// add-on days atomically. It serializes against concurrent callers for
	// the same units, re-checks availability under lock and returns a
	// *domain.ConflictError if any date is taken. No partial insert.
	CreateReservation(ctx context.Context, res *domain.Reservation) error

	GetByID(ctx context.Context, id int32) (*domain.Reservation, error)
	GetByCode(ctx context.Context, code string) (*domain.Reservation, error)
	GetByGatewayToken(ctx context.Context, token string) (*domain.Reservation, error)

	// RangeConflict returns the blocking reservation for the half-open range
	// [from, to), or nil if the unit is free. Expired holds never block.
	RangeConflict(ctx context.Context, unitID int32, from, to string) (*domain.ConflictError, error)
	// DayConflict is the per-day equivalent for hot tubs.
	DayConflict(ctx context.Context, hotTubID int32, day string) (*domain.ConflictError, error)

	// Confirm transitions PENDING -> CONFIRMED conditionally. Returns false
	// if the reservation was not PENDING (caller decides whether that is a
	// duplicate confirm or an invalid transition).
	Confirm(ctx context.Context, id int32, amountCLP int32, paidAt time.Time) (bool, error)
	// Release transitions PENDING/CONFIRMED -> toStatus conditionally,
	// freeing the dates. Idempotent: releasing a terminal row is a no-op.
	Release(ctx context.Context, id int32, toStatus domain.ReservationStatus, reason string) (bool, error)

	// OccupiedSegments lists occupied stretches for a unit within a window.
	OccupiedSegments(ctx context.Context, unitID int32, from, to string) ([]domain.DateSegment, error)
}

type DiscountRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.DiscountRule, error)
}

type GatewayAttemptRepository interface {
	Create(ctx context.Context, attempt *domain.GatewayAttempt) error
	GetByToken(ctx context.Context, token string) (*domain.GatewayAttempt, error)
	// Consume transitions PENDING -> toStatus conditionally. Returns false
	// if the attempt was already consumed or expired, which makes gateway
	// callbacks idempotent per token.
	Consume(ctx context.Context, token string, toStatus domain.GatewayAttemptStatus) (bool, error)
	// ListExpiringTokens returns tokens of PENDING attempts whose deadline
	// falls before cutoff, oldest first. The sweeper polls these so a missed
	// webhook still settles before the attempt expires.
	ListExpiringTokens(ctx context.Context, cutoff time.Time) ([]string, error)
}

type StaffRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.StaffUser, error)
}
