package postgres

import (
	"context"
	"testing"
	"time"

	"cabanas-backend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func reservationRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "code", "unit_id", "check_in", "check_out", "guests", "guest_name", "guest_email", "guest_phone",
		"metodo_pago", "tipo_pago", "discount_code", "nights", "nightly_rate_clp", "base_clp", "extra_guests",
		"extra_guest_fee_clp", "addons_clp", "discount_clp", "total_clp", "due_now_clp", "status", "cancel_reason",
		"gateway_token", "expires_at", "paid_at", "paid_amount_clp", "created_on", "updated_on",
	}).AddRow(
		7, "abc-code", 1, "2025-07-10", "2025-07-13", 4, "Ana", "ana@test.cl", "",
		"transferencia", "total", "", 3, 50000, 150000, 0,
		0, 0, 0, 150000, 150000, "PENDING", "",
		nil, now.Add(20*time.Minute), nil, 0, now, now,
	)
}

func TestCalendarRepository_GetByCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewCalendarRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM reservations WHERE code = \\$1").
			WithArgs("abc-code").
			WillReturnRows(reservationRows())
		mock.ExpectQuery("SELECT hot_tub_id, day::text, rate_clp FROM reservation_addon_days").
			WithArgs(int32(7)).
			WillReturnRows(sqlmock.NewRows([]string{"hot_tub_id", "day", "rate_clp"}).
				AddRow(4, "2025-07-11", 25000))

		res, err := repo.GetByCode(ctx, "abc-code")
		assert.NoError(t, err)
		assert.Equal(t, int32(7), res.ID)
		assert.Equal(t, "2025-07-10", res.CheckIn)
		assert.Equal(t, domain.ReservationStatusPending, res.Status)
		assert.Len(t, res.Addons, 1)
		assert.Equal(t, int32(25000), res.Addons[0].RateCLP)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM reservations WHERE code = \\$1").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetByCode(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCalendarRepository_RangeConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewCalendarRepository(db)
	ctx := context.Background()

	t.Run("Occupied", func(t *testing.T) {
		mock.ExpectQuery("SELECT code, check_in::text, check_out::text FROM reservations").
			WithArgs(int32(1), "2025-07-10", "2025-07-13").
			WillReturnRows(sqlmock.NewRows([]string{"code", "check_in", "check_out"}).
				AddRow("other-code", "2025-07-11", "2025-07-14"))

		conflict, err := repo.RangeConflict(ctx, 1, "2025-07-10", "2025-07-13")
		assert.NoError(t, err)
		if assert.NotNil(t, conflict) {
			assert.Equal(t, int32(1), conflict.UnitID)
			assert.Equal(t, "2025-07-11", conflict.From)
			assert.Equal(t, "other-code", conflict.Blocking)
		}
	})

	t.Run("Free", func(t *testing.T) {
		mock.ExpectQuery("SELECT code, check_in::text, check_out::text FROM reservations").
			WithArgs(int32(1), "2025-09-01", "2025-09-05").
			WillReturnRows(sqlmock.NewRows([]string{"code", "check_in", "check_out"}))

		conflict, err := repo.RangeConflict(ctx, 1, "2025-09-01", "2025-09-05")
		assert.NoError(t, err)
		assert.Nil(t, conflict)
	})
}

func TestCalendarRepository_Confirm(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewCalendarRepository(db)
	ctx := context.Background()
	paidAt := time.Now()

	t.Run("PendingConfirms", func(t *testing.T) {
		mock.ExpectExec("UPDATE reservations").
			WithArgs(int32(7), paidAt, int32(150000)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.Confirm(ctx, 7, 150000, paidAt)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("NonPendingLosesConditionalWrite", func(t *testing.T) {
		mock.ExpectExec("UPDATE reservations").
			WithArgs(int32(7), paidAt, int32(150000)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.Confirm(ctx, 7, 150000, paidAt)
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestCalendarRepository_Release(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewCalendarRepository(db)
	ctx := context.Background()

	t.Run("LiveReservationReleases", func(t *testing.T) {
		mock.ExpectExec("UPDATE reservations").
			WithArgs(int32(7), domain.ReservationStatusCancelled, "guest request").
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.Release(ctx, 7, domain.ReservationStatusCancelled, "guest request")
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("TerminalReservationIsUntouched", func(t *testing.T) {
		mock.ExpectExec("UPDATE reservations").
			WithArgs(int32(7), domain.ReservationStatusCancelled, "again").
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.Release(ctx, 7, domain.ReservationStatusCancelled, "again")
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestCalendarRepository_CreateReservation(t *testing.T) {
	ctx := context.Background()

	pending := func() *domain.Reservation {
		expires := time.Now().Add(30 * time.Minute)
		return &domain.Reservation{
			Code: "new-code", UnitID: 1, CheckIn: "2025-07-10", CheckOut: "2025-07-13",
			Guests: 4, GuestName: "Ana", GuestEmail: "ana@test.cl",
			PaymentMethod: domain.PaymentMethodTransfer, PaymentKind: domain.PaymentKindFull,
			Breakdown: domain.PriceBreakdown{Nights: 3, NightlyRateCLP: 50000, BaseCLP: 150000, TotalCLP: 150000, DueNowCLP: 150000},
			Status:    domain.ReservationStatusPending,
			ExpiresAt: &expires,
			Addons:    []domain.AddonDay{{HotTubID: 4, Day: "2025-07-11", RateCLP: 25000}},
		}
	}

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := NewCalendarRepository(db)
		res := pending()

		mock.ExpectBegin()
		// Unit rows locked in ascending id order.
		mock.ExpectQuery("SELECT id FROM units WHERE id = \\$1 FOR UPDATE").
			WithArgs(1).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectQuery("SELECT id FROM units WHERE id = \\$1 FOR UPDATE").
			WithArgs(4).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
		mock.ExpectExec("UPDATE reservations SET status = 'EXPIRED'").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT code, check_in::text, check_out::text FROM reservations").
			WithArgs(int32(1), "2025-07-10", "2025-07-13").
			WillReturnRows(sqlmock.NewRows([]string{"code", "check_in", "check_out"}))
		mock.ExpectQuery("SELECT r.code FROM reservation_addon_days d").
			WithArgs(int32(4), "2025-07-11").
			WillReturnRows(sqlmock.NewRows([]string{"code"}))
		mock.ExpectQuery("INSERT INTO reservations").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
		mock.ExpectExec("INSERT INTO reservation_addon_days").
			WithArgs(int32(42), int32(4), "2025-07-11", int32(25000)).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		err = repo.CreateReservation(ctx, res)
		assert.NoError(t, err)
		assert.Equal(t, int32(42), res.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ConflictUnderLockRollsBack", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := NewCalendarRepository(db)
		res := pending()
		res.Addons = nil

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM units WHERE id = \\$1 FOR UPDATE").
			WithArgs(1).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectExec("UPDATE reservations SET status = 'EXPIRED'").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT code, check_in::text, check_out::text FROM reservations").
			WithArgs(int32(1), "2025-07-10", "2025-07-13").
			WillReturnRows(sqlmock.NewRows([]string{"code", "check_in", "check_out"}).
				AddRow("winner", "2025-07-09", "2025-07-12"))
		mock.ExpectRollback()

		err = repo.CreateReservation(ctx, res)
		conflict, ok := domain.IsConflict(err)
		assert.True(t, ok)
		assert.Equal(t, "winner", conflict.Blocking)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("MissingUnit", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()
		repo := NewCalendarRepository(db)
		res := pending()
		res.Addons = nil

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM units WHERE id = \\$1 FOR UPDATE").
			WithArgs(1).WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		err = repo.CreateReservation(ctx, res)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCalendarRepository_OccupiedSegments(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewCalendarRepository(db)
	ctx := context.Background()

	t.Run("MergesAndClips", func(t *testing.T) {
		mock.ExpectQuery("SELECT check_in::text, check_out::text FROM reservations").
			WithArgs(int32(1), "2025-07-01", "2025-08-01").
			WillReturnRows(sqlmock.NewRows([]string{"from", "to"}).
				AddRow("2025-06-28", "2025-07-03"). // overlaps window start
				AddRow("2025-07-02", "2025-07-05"). // overlaps previous span
				AddRow("2025-07-10", "2025-07-13"))

		segments, err := repo.OccupiedSegments(ctx, 1, "2025-07-01", "2025-08-01")
		assert.NoError(t, err)
		assert.Equal(t, []domain.DateSegment{
			{From: "2025-07-01", To: "2025-07-05", Occupied: true},
			{From: "2025-07-05", To: "2025-07-10", Occupied: false},
			{From: "2025-07-10", To: "2025-07-13", Occupied: true},
			{From: "2025-07-13", To: "2025-08-01", Occupied: false},
		}, segments)
	})

	t.Run("EmptyCalendarIsOneFreeSegment", func(t *testing.T) {
		mock.ExpectQuery("SELECT check_in::text, check_out::text FROM reservations").
			WithArgs(int32(1), "2025-07-01", "2025-08-01").
			WillReturnRows(sqlmock.NewRows([]string{"from", "to"}))

		segments, err := repo.OccupiedSegments(ctx, 1, "2025-07-01", "2025-08-01")
		assert.NoError(t, err)
		assert.Equal(t, []domain.DateSegment{
			{From: "2025-07-01", To: "2025-08-01", Occupied: false},
		}, segments)
	})
}
