package service

import (
	"context"
	"testing"

	"cabanas-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestDiscountService_Resolve(t *testing.T) {
	ctx := context.Background()

	validRule := func() *domain.DiscountRule {
		return &domain.DiscountRule{
			ID: 1, Code: "MONTO10K", Kind: domain.DiscountKindFlat, AmountCLP: 10000,
			ValidFrom: "2025-03-01", ValidTo: "2025-11-30", Active: true,
		}
	}

	t.Run("Success", func(t *testing.T) {
		repo := new(MockDiscountRepo)
		repo.On("GetByCode", ctx, "MONTO10K").Return(validRule(), nil)
		svc := NewDiscountService(repo)

		rule, err := svc.Resolve(ctx, "MONTO10K", 1, "2025-07-10", "2025-07-13")
		assert.NoError(t, err)
		assert.Equal(t, int32(10000), rule.AmountCLP)
	})

	t.Run("NormalizesCase", func(t *testing.T) {
		repo := new(MockDiscountRepo)
		repo.On("GetByCode", ctx, "MONTO10K").Return(validRule(), nil)
		svc := NewDiscountService(repo)

		_, err := svc.Resolve(ctx, "  monto10k ", 1, "2025-07-10", "2025-07-13")
		assert.NoError(t, err)
	})

	t.Run("UnknownCode", func(t *testing.T) {
		repo := new(MockDiscountRepo)
		repo.On("GetByCode", ctx, "NADA").Return(nil, domain.ErrNotFound)
		svc := NewDiscountService(repo)

		_, err := svc.Resolve(ctx, "NADA", 1, "2025-07-10", "2025-07-13")
		assert.ErrorIs(t, err, domain.ErrNotApplicable)
	})

	t.Run("InactiveCode", func(t *testing.T) {
		rule := validRule()
		rule.Active = false
		repo := new(MockDiscountRepo)
		repo.On("GetByCode", ctx, "MONTO10K").Return(rule, nil)
		svc := NewDiscountService(repo)

		_, err := svc.Resolve(ctx, "MONTO10K", 1, "2025-07-10", "2025-07-13")
		assert.ErrorIs(t, err, domain.ErrNotApplicable)
	})

	t.Run("StayStartsBeforeWindow", func(t *testing.T) {
		repo := new(MockDiscountRepo)
		repo.On("GetByCode", ctx, "MONTO10K").Return(validRule(), nil)
		svc := NewDiscountService(repo)

		_, err := svc.Resolve(ctx, "MONTO10K", 1, "2025-02-27", "2025-03-04")
		assert.ErrorIs(t, err, domain.ErrNotApplicable)
	})

	t.Run("StayEndsAfterWindow", func(t *testing.T) {
		repo := new(MockDiscountRepo)
		repo.On("GetByCode", ctx, "MONTO10K").Return(validRule(), nil)
		svc := NewDiscountService(repo)

		_, err := svc.Resolve(ctx, "MONTO10K", 1, "2025-11-28", "2025-12-02")
		assert.ErrorIs(t, err, domain.ErrNotApplicable)
	})

	t.Run("CheckOutDayAfterValidToIsCovered", func(t *testing.T) {
		// Check-out is exclusive: the last night is Nov 30, inside the window.
		repo := new(MockDiscountRepo)
		repo.On("GetByCode", ctx, "MONTO10K").Return(validRule(), nil)
		svc := NewDiscountService(repo)

		_, err := svc.Resolve(ctx, "MONTO10K", 1, "2025-11-28", "2025-12-01")
		assert.NoError(t, err)
	})

	t.Run("UnitNotInAllowList", func(t *testing.T) {
		rule := validRule()
		rule.UnitIDs = []int32{2, 3}
		repo := new(MockDiscountRepo)
		repo.On("GetByCode", ctx, "MONTO10K").Return(rule, nil)
		svc := NewDiscountService(repo)

		_, err := svc.Resolve(ctx, "MONTO10K", 1, "2025-07-10", "2025-07-13")
		assert.ErrorIs(t, err, domain.ErrNotApplicable)
	})

	t.Run("UnitInAllowList", func(t *testing.T) {
		rule := validRule()
		rule.UnitIDs = []int32{1, 3}
		repo := new(MockDiscountRepo)
		repo.On("GetByCode", ctx, "MONTO10K").Return(rule, nil)
		svc := NewDiscountService(repo)

		_, err := svc.Resolve(ctx, "MONTO10K", 1, "2025-07-10", "2025-07-13")
		assert.NoError(t, err)
	})
}
