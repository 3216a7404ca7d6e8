package service

import (
	"context"
	"fmt"
	"time"

	"cabanas-backend/internal/domain"
	"cabanas-backend/internal/logger"
	"cabanas-backend/internal/repository"

	"github.com/google/uuid"
)

type bookingService struct {
	calendar   repository.CalendarRepository
	catalog    CatalogService
	pricing    PricingService
	notifier   NotificationService
	holdWindow time.Duration
}

func NewBookingService(
	calendar repository.CalendarRepository,
	catalog CatalogService,
	pricing PricingService,
	notifier NotificationService,
	holdWindow time.Duration,
) BookingService {
	return &bookingService{
		calendar:   calendar,
		catalog:    catalog,
		pricing:    pricing,
		notifier:   notifier,
		holdWindow: holdWindow,
	}
}

func (s *bookingService) CreateHold(ctx context.Context, stay *domain.Stay) (*domain.Reservation, string, error) {
	switch stay.PaymentMethod {
	case domain.PaymentMethodTransfer, domain.PaymentMethodWebpay, domain.PaymentMethodManual:
	default:
		return nil, "", fmt.Errorf("unknown payment method %q: %w", stay.PaymentMethod, domain.ErrInvalidQuote)
	}
	if stay.PaymentKind != domain.PaymentKindFull && stay.PaymentKind != domain.PaymentKindHalf {
		return nil, "", fmt.Errorf("unknown payment kind %q: %w", stay.PaymentKind, domain.ErrInvalidQuote)
	}

	breakdown, discountRejected, err := s.pricing.QuoteStay(ctx, stay)
	if err != nil {
		return nil, "", err
	}

	// Cheap pre-check before taking locks; CreateReservation re-checks
	// under lock, so losing a race here is still safe.
	conflict, err := s.calendar.RangeConflict(ctx, stay.UnitID, stay.CheckIn, stay.CheckOut)
	if err != nil {
		return nil, "", err
	}
	if conflict != nil {
		return nil, "", conflict
	}
	for _, a := range stay.Addons {
		conflict, err := s.calendar.DayConflict(ctx, a.HotTubID, a.Day)
		if err != nil {
			return nil, "", err
		}
		if conflict != nil {
			return nil, "", conflict
		}
	}

	res := &domain.Reservation{
		Code:          uuid.NewString(),
		UnitID:        stay.UnitID,
		CheckIn:       stay.CheckIn,
		CheckOut:      stay.CheckOut,
		Guests:        stay.Guests,
		GuestName:     stay.GuestName,
		GuestEmail:    stay.GuestEmail,
		GuestPhone:    stay.GuestPhone,
		PaymentMethod: stay.PaymentMethod,
		PaymentKind:   stay.PaymentKind,
		DiscountCode:  stay.DiscountCode,
		Breakdown:     *breakdown,
		GatewayToken:  stay.GatewayToken,
		Addons:        stay.Addons,
	}
	if discountRejected != "" {
		res.DiscountCode = ""
	}

	if stay.PaymentMethod.RequiresHold() {
		res.Status = domain.ReservationStatusPending
		deadline := time.Now().Add(s.holdWindow)
		res.ExpiresAt = &deadline
	} else {
		// Staff-entered reservation: no asynchronous payment to wait for.
		res.Status = domain.ReservationStatusConfirmed
	}

	if err := s.calendar.CreateReservation(ctx, res); err != nil {
		return nil, "", err
	}

	logger.Info("Reservation created",
		"code", res.Code, "unit_id", res.UnitID,
		"check_in", res.CheckIn, "check_out", res.CheckOut,
		"status", res.Status, "metodo_pago", res.PaymentMethod)

	if res.Status == domain.ReservationStatusConfirmed {
		if err := s.notifier.SendReservationConfirmed(ctx, res); err != nil {
			logger.Error("Failed to send confirmation notification", "code", res.Code, "error", err)
		}
	}

	return res, discountRejected, nil
}

func (s *bookingService) Confirm(ctx context.Context, code string, settledAmountCLP int32) (*domain.Reservation, error) {
	res, err := s.calendar.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	ok, err := s.calendar.Confirm(ctx, res.ID, settledAmountCLP, time.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the conditional update: someone got there first. A duplicate
		// confirmation callback with the same amount is a no-op success.
		current, err := s.calendar.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if current.Status == domain.ReservationStatusConfirmed && current.PaidAmountCLP == settledAmountCLP {
			return current, nil
		}
		return nil, fmt.Errorf("reservation %s is %s: %w", code, current.Status, domain.ErrInvalidTransition)
	}

	confirmed, err := s.calendar.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	logger.Info("Reservation confirmed", "code", code, "amount_clp", settledAmountCLP)
	if err := s.notifier.SendReservationConfirmed(ctx, confirmed); err != nil {
		logger.Error("Failed to send confirmation notification", "code", code, "error", err)
	}
	return confirmed, nil
}

func (s *bookingService) Cancel(ctx context.Context, code string, reason string) (*domain.Reservation, error) {
	res, err := s.calendar.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	ok, err := s.calendar.Release(ctx, res.ID, domain.ReservationStatusCancelled, reason)
	if err != nil {
		return nil, err
	}
	if !ok {
		if res.Status == domain.ReservationStatusCancelled || res.Status == domain.ReservationStatusExpired {
			// Already released; nothing to free.
			return res, nil
		}
		return nil, fmt.Errorf("reservation %s is %s: %w", code, res.Status, domain.ErrInvalidTransition)
	}

	cancelled, err := s.calendar.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	logger.Info("Reservation cancelled", "code", code, "reason", reason)
	if err := s.notifier.SendReservationCancelled(ctx, cancelled, reason); err != nil {
		logger.Error("Failed to send cancellation notification", "code", code, "error", err)
	}
	return cancelled, nil
}

func (s *bookingService) Get(ctx context.Context, code string) (*domain.Reservation, error) {
	return s.calendar.GetByCode(ctx, code)
}

func (s *bookingService) Availability(ctx context.Context, unitID int32, from, to string) ([]domain.DateSegment, error) {
	if _, err := time.Parse(dateLayout, from); err != nil {
		return nil, domain.ErrInvalidQuote
	}
	if _, err := time.Parse(dateLayout, to); err != nil {
		return nil, domain.ErrInvalidQuote
	}
	if from >= to {
		return nil, domain.ErrInvalidQuote
	}
	if _, err := s.catalog.GetUnit(ctx, unitID); err != nil {
		return nil, err
	}
	return s.calendar.OccupiedSegments(ctx, unitID, from, to)
}
