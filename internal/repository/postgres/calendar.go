package postgres

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"cabanas-backend/internal/domain"
	"cabanas-backend/internal/repository"

	"github.com/lib/pq"
)

type calendarRepository struct {
	db *sql.DB
}

func NewCalendarRepository(db *sql.DB) repository.CalendarRepository {
	return &calendarRepository{db: db}
}

// activeOccupancy is the read-time occupancy predicate: confirmed rows always
// count, pending rows only until their deadline. An expired hold stops
// blocking immediately, even before the sweeper flips its status.
const activeOccupancy = `(status = 'CONFIRMED' OR (status = 'PENDING' AND (expires_at IS NULL OR expires_at > now())))`

const reservationColumns = `id, code, unit_id, check_in::text, check_out::text, guests, guest_name, guest_email, guest_phone,
	metodo_pago, tipo_pago, discount_code, nights, nightly_rate_clp, base_clp, extra_guests, extra_guest_fee_clp,
	addons_clp, discount_clp, total_clp, due_now_clp, status, cancel_reason, gateway_token, expires_at, paid_at,
	paid_amount_clp, created_on, updated_on`

func scanReservation(row interface{ Scan(...any) error }) (*domain.Reservation, error) {
	res := &domain.Reservation{}
	err := row.Scan(
		&res.ID, &res.Code, &res.UnitID, &res.CheckIn, &res.CheckOut, &res.Guests,
		&res.GuestName, &res.GuestEmail, &res.GuestPhone,
		&res.PaymentMethod, &res.PaymentKind, &res.DiscountCode,
		&res.Breakdown.Nights, &res.Breakdown.NightlyRateCLP, &res.Breakdown.BaseCLP,
		&res.Breakdown.ExtraGuests, &res.Breakdown.ExtraGuestFeeCLP,
		&res.Breakdown.AddonsCLP, &res.Breakdown.DiscountCLP, &res.Breakdown.TotalCLP, &res.Breakdown.DueNowCLP,
		&res.Status, &res.CancelReason, &res.GatewayToken, &res.ExpiresAt, &res.PaidAt,
		&res.PaidAmountCLP, &res.CreatedOn, &res.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *calendarRepository) CreateReservation(ctx context.Context, res *domain.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Lock the touched unit rows in ascending id order so two overlapping
	// requests for the same units serialize instead of deadlocking. Unrelated
	// units are never locked.
	unitIDs := map[int32]bool{res.UnitID: true}
	for _, a := range res.Addons {
		unitIDs[a.HotTubID] = true
	}
	ids := make([]int, 0, len(unitIDs))
	for id := range unitIDs {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	for _, id := range ids {
		var locked int32
		if err := tx.QueryRowContext(ctx, `SELECT id FROM units WHERE id = $1 FOR UPDATE`, id).Scan(&locked); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrNotFound
			}
			return err
		}
	}

	// Reclaim expired holds on these units so they cannot trip the exclusion
	// constraint below. This is the same conditional write the sweeper does.
	_, err = tx.ExecContext(ctx, `
		UPDATE reservations SET status = 'EXPIRED', updated_on = now()
		WHERE unit_id = ANY($1) AND status = 'PENDING' AND expires_at IS NOT NULL AND expires_at < now()`,
		pq.Array(ids))
	if err != nil {
		return err
	}

	// Re-check the cabin range under lock. Half-open: back-to-back checkout
	// and checkin on the same day do not conflict.
	var blocking domain.ConflictError
	err = tx.QueryRowContext(ctx, `
		SELECT code, check_in::text, check_out::text FROM reservations
		WHERE unit_id = $1 AND check_in < $3 AND check_out > $2 AND `+activeOccupancy+`
		ORDER BY check_in LIMIT 1`,
		res.UnitID, res.CheckIn, res.CheckOut).Scan(&blocking.Blocking, &blocking.From, &blocking.To)
	if err == nil {
		blocking.UnitID = res.UnitID
		return &blocking
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	// Re-check every hot-tub day. All-or-nothing: one taken day fails the
	// whole reservation.
	for _, a := range res.Addons {
		err = tx.QueryRowContext(ctx, `
			SELECT r.code FROM reservation_addon_days d
			JOIN reservations r ON r.id = d.reservation_id
			WHERE d.hot_tub_id = $1 AND d.day = $2
			  AND (r.status = 'CONFIRMED' OR (r.status = 'PENDING' AND (r.expires_at IS NULL OR r.expires_at > now())))
			LIMIT 1`,
			a.HotTubID, a.Day).Scan(&blocking.Blocking)
		if err == nil {
			blocking.UnitID = a.HotTubID
			blocking.From = a.Day
			blocking.To = a.Day
			return &blocking
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO reservations (code, unit_id, check_in, check_out, guests, guest_name, guest_email, guest_phone,
			metodo_pago, tipo_pago, discount_code, nights, nightly_rate_clp, base_clp, extra_guests, extra_guest_fee_clp,
			addons_clp, discount_clp, total_clp, due_now_clp, status, gateway_token, expires_at, created_on, updated_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, now(), now())
		RETURNING id`,
		res.Code, res.UnitID, res.CheckIn, res.CheckOut, res.Guests, res.GuestName, res.GuestEmail, res.GuestPhone,
		res.PaymentMethod, res.PaymentKind, res.DiscountCode, res.Breakdown.Nights, res.Breakdown.NightlyRateCLP,
		res.Breakdown.BaseCLP, res.Breakdown.ExtraGuests, res.Breakdown.ExtraGuestFeeCLP, res.Breakdown.AddonsCLP,
		res.Breakdown.DiscountCLP, res.Breakdown.TotalCLP, res.Breakdown.DueNowCLP, res.Status, res.GatewayToken,
		res.ExpiresAt).Scan(&res.ID)
	if err != nil {
		return mapConstraintViolation(err, res)
	}

	for _, a := range res.Addons {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO reservation_addon_days (reservation_id, hot_tub_id, day, rate_clp) VALUES ($1, $2, $3, $4)`,
			res.ID, a.HotTubID, a.Day, a.RateCLP)
		if err != nil {
			return mapConstraintViolation(err, res)
		}
	}

	return tx.Commit()
}

// mapConstraintViolation converts the database's overlap defenses (exclusion
// constraint 23P01, unique violation 23505) into the Conflict the caller
// expects. The locked re-check above should catch conflicts first; this is
// the backstop for anything it misses.
func mapConstraintViolation(err error, res *domain.Reservation) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && (pqErr.Code == "23P01" || pqErr.Code == "23505") {
		return &domain.ConflictError{UnitID: res.UnitID, From: res.CheckIn, To: res.CheckOut}
	}
	return err
}

func (r *calendarRepository) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	res, err := scanReservation(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadAddons(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *calendarRepository) GetByCode(ctx context.Context, code string) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE code = $1`
	res, err := scanReservation(r.db.QueryRowContext(ctx, query, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadAddons(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *calendarRepository) GetByGatewayToken(ctx context.Context, token string) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE gateway_token = $1`
	res, err := scanReservation(r.db.QueryRowContext(ctx, query, token))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadAddons(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *calendarRepository) loadAddons(ctx context.Context, res *domain.Reservation) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT hot_tub_id, day::text, rate_clp FROM reservation_addon_days WHERE reservation_id = $1 ORDER BY day`,
		res.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var a domain.AddonDay
		if err := rows.Scan(&a.HotTubID, &a.Day, &a.RateCLP); err != nil {
			return err
		}
		res.Addons = append(res.Addons, a)
	}
	return rows.Err()
}

func (r *calendarRepository) RangeConflict(ctx context.Context, unitID int32, from, to string) (*domain.ConflictError, error) {
	var blocking domain.ConflictError
	err := r.db.QueryRowContext(ctx, `
		SELECT code, check_in::text, check_out::text FROM reservations
		WHERE unit_id = $1 AND check_in < $3 AND check_out > $2 AND `+activeOccupancy+`
		ORDER BY check_in LIMIT 1`,
		unitID, from, to).Scan(&blocking.Blocking, &blocking.From, &blocking.To)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	blocking.UnitID = unitID
	return &blocking, nil
}

func (r *calendarRepository) DayConflict(ctx context.Context, hotTubID int32, day string) (*domain.ConflictError, error) {
	var code string
	err := r.db.QueryRowContext(ctx, `
		SELECT r.code FROM reservation_addon_days d
		JOIN reservations r ON r.id = d.reservation_id
		WHERE d.hot_tub_id = $1 AND d.day = $2
		  AND (r.status = 'CONFIRMED' OR (r.status = 'PENDING' AND (r.expires_at IS NULL OR r.expires_at > now())))
		LIMIT 1`,
		hotTubID, day).Scan(&code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.ConflictError{UnitID: hotTubID, From: day, To: day, Blocking: code}, nil
}

func (r *calendarRepository) Confirm(ctx context.Context, id int32, amountCLP int32, paidAt time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE reservations
		SET status = 'CONFIRMED', paid_at = $2, paid_amount_clp = $3, expires_at = NULL, updated_on = now()
		WHERE id = $1 AND status = 'PENDING'`,
		id, paidAt, amountCLP)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *calendarRepository) Release(ctx context.Context, id int32, toStatus domain.ReservationStatus, reason string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE reservations
		SET status = $2, cancel_reason = $3, expires_at = NULL, updated_on = now()
		WHERE id = $1 AND status IN ('PENDING', 'CONFIRMED')`,
		id, toStatus, reason)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *calendarRepository) OccupiedSegments(ctx context.Context, unitID int32, from, to string) ([]domain.DateSegment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT check_in::text, check_out::text FROM reservations
		WHERE unit_id = $1 AND check_in < $3 AND check_out > $2 AND `+activeOccupancy+`
		UNION ALL
		SELECT d.day::text, (d.day + 1)::text FROM reservation_addon_days d
		JOIN reservations r ON r.id = d.reservation_id
		WHERE d.hot_tub_id = $1 AND d.day >= $2 AND d.day < $3
		  AND (r.status = 'CONFIRMED' OR (r.status = 'PENDING' AND (r.expires_at IS NULL OR r.expires_at > now())))
		ORDER BY 1`,
		unitID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type span struct{ from, to string }
	var occupied []span
	for rows.Next() {
		var s span
		if err := rows.Scan(&s.from, &s.to); err != nil {
			return nil, err
		}
		// Clip to the requested window. ISO dates compare lexicographically.
		if s.from < from {
			s.from = from
		}
		if s.to > to {
			s.to = to
		}
		if len(occupied) > 0 && s.from <= occupied[len(occupied)-1].to {
			if s.to > occupied[len(occupied)-1].to {
				occupied[len(occupied)-1].to = s.to
			}
			continue
		}
		occupied = append(occupied, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var segments []domain.DateSegment
	cursor := from
	for _, s := range occupied {
		if cursor < s.from {
			segments = append(segments, domain.DateSegment{From: cursor, To: s.from, Occupied: false})
		}
		segments = append(segments, domain.DateSegment{From: s.from, To: s.to, Occupied: true})
		cursor = s.to
	}
	if cursor < to {
		segments = append(segments, domain.DateSegment{From: cursor, To: to, Occupied: false})
	}
	return segments, nil
}
