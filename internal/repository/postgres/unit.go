package postgres

import (
	"context"
	"database/sql"
	"errors"

	"cabanas-backend/internal/domain"
	"cabanas-backend/internal/repository"
)

type unitRepository struct {
	db *sql.DB
}

func NewUnitRepository(db *sql.DB) repository.UnitRepository {
	return &unitRepository{db: db}
}

const unitColumns = `id, kind, name, capacity, base_occupancy, rooms, baths, rate_low_clp, rate_high_clp, active`

func scanUnit(row interface{ Scan(...any) error }) (*domain.Unit, error) {
	u := &domain.Unit{}
	err := row.Scan(&u.ID, &u.Kind, &u.Name, &u.Capacity, &u.BaseOccupancy, &u.Rooms, &u.Baths, &u.RateLowCLP, &u.RateHighCLP, &u.Active)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *unitRepository) GetByID(ctx context.Context, id int32) (*domain.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE id = $1`
	u, err := scanUnit(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return u, err
}

func (r *unitRepository) ListByKind(ctx context.Context, kind domain.UnitKind) ([]domain.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE kind = $1 AND active ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []domain.Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, *u)
	}
	return units, rows.Err()
}

func (r *unitRepository) ListActive(ctx context.Context) ([]domain.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE active ORDER BY kind, name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []domain.Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, *u)
	}
	return units, rows.Err()
}
