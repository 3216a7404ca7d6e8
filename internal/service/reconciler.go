package service

import (
	"context"
	"errors"
	"time"

	"cabanas-backend/internal/domain"
	"cabanas-backend/internal/gateway"
	"cabanas-backend/internal/logger"
	"cabanas-backend/internal/repository"
)

type reconcilerService struct {
	attempts   repository.GatewayAttemptRepository
	calendar   repository.CalendarRepository
	booking    BookingService
	pricing    PricingService
	gateway    gateway.Client
	returnURL  string
	holdWindow time.Duration
}

func NewReconcilerService(
	attempts repository.GatewayAttemptRepository,
	calendar repository.CalendarRepository,
	booking BookingService,
	pricing PricingService,
	gatewayClient gateway.Client,
	returnURL string,
	holdWindow time.Duration,
) ReconcilerService {
	return &reconcilerService{
		attempts:   attempts,
		calendar:   calendar,
		booking:    booking,
		pricing:    pricing,
		gateway:    gatewayClient,
		returnURL:  returnURL,
		holdWindow: holdWindow,
	}
}

func (s *reconcilerService) BeginGatewayCheckout(ctx context.Context, stay *domain.Stay) (*domain.GatewayCheckout, error) {
	stay.PaymentMethod = domain.PaymentMethodWebpay

	breakdown, discountRejected, err := s.pricing.QuoteStay(ctx, stay)
	if err != nil {
		return nil, err
	}

	// Fail fast if any date is already taken, hot-tub days included, so the
	// guest is not sent off to pay for a stay that can no longer be booked.
	// The real availability check happens again when the paid attempt is
	// converted into a reservation.
	conflict, err := s.calendar.RangeConflict(ctx, stay.UnitID, stay.CheckIn, stay.CheckOut)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, conflict
	}
	for _, a := range stay.Addons {
		conflict, err := s.calendar.DayConflict(ctx, a.HotTubID, a.Day)
		if err != nil {
			return nil, err
		}
		if conflict != nil {
			return nil, conflict
		}
	}

	tx, err := s.gateway.Initiate(ctx, breakdown.DueNowCLP, s.returnURL)
	if err != nil {
		return nil, err
	}

	attempt := &domain.GatewayAttempt{
		Token:     tx.Token,
		Stay:      *stay,
		Breakdown: *breakdown,
		Status:    domain.GatewayAttemptPending,
		ExpiresAt: time.Now().Add(s.holdWindow),
	}
	if err := s.attempts.Create(ctx, attempt); err != nil {
		return nil, err
	}

	logger.Info("Gateway checkout started", "token", tx.Token, "unit_id", stay.UnitID, "due_now_clp", breakdown.DueNowCLP)
	return &domain.GatewayCheckout{
		Token:            tx.Token,
		RedirectURL:      tx.RedirectURL,
		Breakdown:        *breakdown,
		DiscountRejected: discountRejected,
		ExpiresAt:        attempt.ExpiresAt,
	}, nil
}

// HandleGatewayResult is idempotent per token: the attempt consumption and
// the reservation confirm are both conditional writes, so a replayed webhook
// finds nothing left to do.
func (s *reconcilerService) HandleGatewayResult(ctx context.Context, token string, status domain.GatewayStatus) error {
	switch {
	case status.Settled():
		return s.settle(ctx, token)
	case status.Declined():
		return s.decline(ctx, token)
	default:
		logger.Debug("Gateway result still pending", "token", token, "status", status)
		return nil
	}
}

func (s *reconcilerService) settle(ctx context.Context, token string) error {
	attempt, err := s.attempts.GetByToken(ctx, token)
	if err == nil {
		consumed, err := s.attempts.Consume(ctx, token, domain.GatewayAttemptConverted)
		if err != nil {
			return err
		}
		if !consumed {
			logger.Info("Gateway attempt already settled, dropping duplicate callback", "token", token)
			return nil
		}

		// Stamp the token onto the reservation so a replayed or late gateway
		// event can still be matched after the attempt row is consumed.
		stay := attempt.Stay
		stay.GatewayToken = &attempt.Token
		res, _, err := s.booking.CreateHold(ctx, &stay)
		if err != nil {
			// Money is committed but the dates were taken while the guest
			// paid. This needs a human: log loudly, do not touch the calendar.
			logger.Error("Paid gateway attempt could not be converted", "token", token, "error", err)
			return err
		}
		_, err = s.booking.Confirm(ctx, res.Code, attempt.Breakdown.DueNowCLP)
		return err
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	// No attempt: the token may belong to a reservation that was held first
	// and paid after.
	res, err := s.calendar.GetByGatewayToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Gateway result for unknown token, ignoring", "token", token)
			return nil
		}
		return err
	}
	_, err = s.booking.Confirm(ctx, res.Code, res.Breakdown.DueNowCLP)
	return err
}

func (s *reconcilerService) decline(ctx context.Context, token string) error {
	_, err := s.attempts.GetByToken(ctx, token)
	if err == nil {
		consumed, err := s.attempts.Consume(ctx, token, domain.GatewayAttemptFailed)
		if err != nil {
			return err
		}
		if !consumed {
			logger.Info("Gateway attempt already resolved, dropping duplicate callback", "token", token)
		}
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	res, err := s.calendar.GetByGatewayToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Gateway decline for unknown token, ignoring", "token", token)
			return nil
		}
		return err
	}
	_, err = s.booking.Cancel(ctx, res.Code, "payment_failed")
	if errors.Is(err, domain.ErrInvalidTransition) {
		// Already terminal; the decline changes nothing.
		logger.Info("Gateway decline for terminal reservation, ignoring", "token", token, "code", res.Code)
		return nil
	}
	return err
}

func (s *reconcilerService) Poll(ctx context.Context, token string) error {
	status, err := s.gateway.GetStatus(ctx, token)
	if err != nil {
		return err
	}
	return s.HandleGatewayResult(ctx, token, status)
}
