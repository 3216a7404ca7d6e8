package postgres

import (
	"database/sql"

	"cabanas-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB

	Units           repository.UnitRepository
	Reservations    repository.CalendarRepository
	Discounts       repository.DiscountRepository
	GatewayAttempts repository.GatewayAttemptRepository
	Staff           repository.StaffRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:              db,
		Units:           NewUnitRepository(db),
		Reservations:    NewCalendarRepository(db),
		Discounts:       NewDiscountRepository(db),
		GatewayAttempts: NewGatewayAttemptRepository(db),
		Staff:           NewStaffRepository(db),
	}
}
