package postgres

import (
	"context"
	"database/sql"
	"errors"

	"cabanas-backend/internal/domain"
	"cabanas-backend/internal/repository"

	"github.com/lib/pq"
)

type discountRepository struct {
	db *sql.DB
}

func NewDiscountRepository(db *sql.DB) repository.DiscountRepository {
	return &discountRepository{db: db}
}

func (r *discountRepository) GetByCode(ctx context.Context, code string) (*domain.DiscountRule, error) {
	rule := &domain.DiscountRule{}
	var unitIDs pq.Int32Array
	// Scoped codes carry their allow-list; an empty array means global.
	query := `
		SELECT d.id, d.code, d.kind, d.amount_clp, d.percent, d.valid_from::text, d.valid_to::text, d.active, d.applies_to_addons,
		       COALESCE(array_agg(u.unit_id) FILTER (WHERE u.unit_id IS NOT NULL), '{}')
		FROM discount_codes d
		LEFT JOIN discount_code_units u ON u.discount_code_id = d.id
		WHERE d.code = $1
		GROUP BY d.id`
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&rule.ID, &rule.Code, &rule.Kind, &rule.AmountCLP, &rule.Percent,
		&rule.ValidFrom, &rule.ValidTo, &rule.Active, &rule.AppliesToAddons, &unitIDs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rule.UnitIDs = []int32(unitIDs)
	return rule, nil
}
