package service

import (
	"context"
	"time"

	"cabanas-backend/internal/domain"
	"cabanas-backend/internal/gateway"

	"github.com/stretchr/testify/mock"
)

// MockUnitRepo
type MockUnitRepo struct {
	mock.Mock
}

func (m *MockUnitRepo) GetByID(ctx context.Context, id int32) (*domain.Unit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Unit), args.Error(1)
}
func (m *MockUnitRepo) ListByKind(ctx context.Context, kind domain.UnitKind) ([]domain.Unit, error) {
	args := m.Called(ctx, kind)
	return args.Get(0).([]domain.Unit), args.Error(1)
}
func (m *MockUnitRepo) ListActive(ctx context.Context) ([]domain.Unit, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Unit), args.Error(1)
}

// MockCalendarRepo
type MockCalendarRepo struct {
	mock.Mock
}

func (m *MockCalendarRepo) CreateReservation(ctx context.Context, res *domain.Reservation) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}
func (m *MockCalendarRepo) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockCalendarRepo) GetByCode(ctx context.Context, code string) (*domain.Reservation, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockCalendarRepo) GetByGatewayToken(ctx context.Context, token string) (*domain.Reservation, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockCalendarRepo) RangeConflict(ctx context.Context, unitID int32, from, to string) (*domain.ConflictError, error) {
	args := m.Called(ctx, unitID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConflictError), args.Error(1)
}
func (m *MockCalendarRepo) DayConflict(ctx context.Context, hotTubID int32, day string) (*domain.ConflictError, error) {
	args := m.Called(ctx, hotTubID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConflictError), args.Error(1)
}
func (m *MockCalendarRepo) Confirm(ctx context.Context, id int32, amountCLP int32, paidAt time.Time) (bool, error) {
	args := m.Called(ctx, id, amountCLP, paidAt)
	return args.Bool(0), args.Error(1)
}
func (m *MockCalendarRepo) Release(ctx context.Context, id int32, toStatus domain.ReservationStatus, reason string) (bool, error) {
	args := m.Called(ctx, id, toStatus, reason)
	return args.Bool(0), args.Error(1)
}
func (m *MockCalendarRepo) OccupiedSegments(ctx context.Context, unitID int32, from, to string) ([]domain.DateSegment, error) {
	args := m.Called(ctx, unitID, from, to)
	return args.Get(0).([]domain.DateSegment), args.Error(1)
}

// MockDiscountRepo
type MockDiscountRepo struct {
	mock.Mock
}

func (m *MockDiscountRepo) GetByCode(ctx context.Context, code string) (*domain.DiscountRule, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DiscountRule), args.Error(1)
}

// MockGatewayAttemptRepo
type MockGatewayAttemptRepo struct {
	mock.Mock
}

func (m *MockGatewayAttemptRepo) Create(ctx context.Context, attempt *domain.GatewayAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}
func (m *MockGatewayAttemptRepo) GetByToken(ctx context.Context, token string) (*domain.GatewayAttempt, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GatewayAttempt), args.Error(1)
}
func (m *MockGatewayAttemptRepo) Consume(ctx context.Context, token string, toStatus domain.GatewayAttemptStatus) (bool, error) {
	args := m.Called(ctx, token, toStatus)
	return args.Bool(0), args.Error(1)
}
func (m *MockGatewayAttemptRepo) ListExpiringTokens(ctx context.Context, cutoff time.Time) ([]string, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]string), args.Error(1)
}

// MockNotificationService
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) SendReservationConfirmed(ctx context.Context, res *domain.Reservation) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}
func (m *MockNotificationService) SendReservationCancelled(ctx context.Context, res *domain.Reservation, reason string) error {
	args := m.Called(ctx, res, reason)
	return args.Error(0)
}

// MockGatewayClient
type MockGatewayClient struct {
	mock.Mock
}

func (m *MockGatewayClient) Initiate(ctx context.Context, amountCLP int32, returnURL string) (*gateway.Transaction, error) {
	args := m.Called(ctx, amountCLP, returnURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Transaction), args.Error(1)
}
func (m *MockGatewayClient) GetStatus(ctx context.Context, token string) (domain.GatewayStatus, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(domain.GatewayStatus), args.Error(1)
}

// MockBookingService
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) CreateHold(ctx context.Context, stay *domain.Stay) (*domain.Reservation, string, error) {
	args := m.Called(ctx, stay)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*domain.Reservation), args.String(1), args.Error(2)
}
func (m *MockBookingService) Confirm(ctx context.Context, code string, settledAmountCLP int32) (*domain.Reservation, error) {
	args := m.Called(ctx, code, settledAmountCLP)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockBookingService) Cancel(ctx context.Context, code string, reason string) (*domain.Reservation, error) {
	args := m.Called(ctx, code, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockBookingService) Get(ctx context.Context, code string) (*domain.Reservation, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockBookingService) Availability(ctx context.Context, unitID int32, from, to string) ([]domain.DateSegment, error) {
	args := m.Called(ctx, unitID, from, to)
	return args.Get(0).([]domain.DateSegment), args.Error(1)
}

// MockPricingService
type MockPricingService struct {
	mock.Mock
}

func (m *MockPricingService) QuoteStay(ctx context.Context, stay *domain.Stay) (*domain.PriceBreakdown, string, error) {
	args := m.Called(ctx, stay)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*domain.PriceBreakdown), args.String(1), args.Error(2)
}

// MockStaffRepo
type MockStaffRepo struct {
	mock.Mock
}

func (m *MockStaffRepo) GetByEmail(ctx context.Context, email string) (*domain.StaffUser, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StaffUser), args.Error(1)
}
