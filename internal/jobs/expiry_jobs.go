package jobs

import (
	"context"
	"time"

	"cabanas-backend/internal/logger"
)

// ExpireHolds moves PENDING reservations past their deadline to EXPIRED and
// frees their dates. Manual reservations never carry a deadline and are left
// alone. The calendar reads apply the same predicate at query time, so a hold
// that the sweeper has not reached yet is already invisible to availability;
// this job is what durably releases the rows.
func (jr *JobRunner) ExpireHolds() {
	jr.runWithRecovery("ExpireHolds", func() {
		ctx := context.Background()

		query := `
			UPDATE reservations
			SET status = 'EXPIRED',
			    cancel_reason = 'hold_expired',
			    updated_on = NOW()
			WHERE status = 'PENDING'
			  AND expires_at IS NOT NULL
			  AND expires_at < NOW()
			  AND metodo_pago IN ('transferencia', 'webpay')
			RETURNING id, code, unit_id, check_in::text, check_out::text
		`

		rows, err := jr.db.QueryContext(ctx, query)
		if err != nil {
			logger.Error("Failed to expire holds", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		var expiredCodes []string
		for rows.Next() {
			var (
				id       int
				code     string
				unitID   int
				checkIn  string
				checkOut string
			)
			if err := rows.Scan(&id, &code, &unitID, &checkIn, &checkOut); err != nil {
				logger.Error("Failed to scan expired hold", "error", err)
				continue
			}
			count++
			expiredCodes = append(expiredCodes, code)
			logger.Debug("Expired hold",
				"reservation_id", id,
				"code", code,
				"unit_id", unitID,
				"check_in", checkIn,
				"check_out", checkOut)
		}

		if err := rows.Err(); err != nil {
			logger.Error("Error iterating expired holds", "error", err)
			return
		}

		logger.Info("Expired pending holds", "count", count)

		// Tell guests their hold lapsed. A failed email never rolls back the
		// expiry; the dates are free either way.
		for _, code := range expiredCodes {
			res, err := jr.store.Reservations.GetByCode(ctx, code)
			if err != nil {
				logger.Error("Failed to load expired reservation for notification", "code", code, "error", err)
				continue
			}
			if err := jr.services.Notification.SendReservationCancelled(ctx, res, "El plazo de pago venció y la reserva fue liberada."); err != nil {
				logger.Error("Failed to send hold expiry email", "code", code, "error", err)
			}
		}
	})
}

// pollHorizon is how far ahead of an attempt's deadline the sweeper starts
// asking the gateway directly. Wide enough that every attempt is polled at
// least once before ExpireGatewayAttempts reaps it.
const pollHorizon = 10 * time.Minute

// PollGatewayAttempts asks the gateway for the status of PENDING attempts
// nearing their deadline. Webhooks are the normal path; this is the safety
// net for a webhook that never arrived, so a paid guest still gets their
// reservation instead of an expired attempt.
func (jr *JobRunner) PollGatewayAttempts() {
	jr.runWithRecovery("PollGatewayAttempts", func() {
		ctx := context.Background()

		tokens, err := jr.store.GatewayAttempts.ListExpiringTokens(ctx, time.Now().Add(pollHorizon))
		if err != nil {
			logger.Error("Failed to list gateway attempts to poll", "error", err)
			return
		}

		polled := 0
		for _, token := range tokens {
			if err := jr.services.Reconciler.Poll(ctx, token); err != nil {
				logger.Error("Failed to poll gateway attempt", "token", token, "error", err)
				continue
			}
			polled++
		}
		logger.Info("Polled pending gateway attempts", "count", polled, "total", len(tokens))
	})
}

// ExpireGatewayAttempts marks stale gateway checkout attempts as EXPIRED so a
// late webhook for one of them is dropped instead of booking dates the guest
// stopped paying for.
func (jr *JobRunner) ExpireGatewayAttempts() {
	jr.runWithRecovery("ExpireGatewayAttempts", func() {
		ctx := context.Background()

		query := `
			UPDATE gateway_attempts
			SET status = 'EXPIRED',
			    updated_on = NOW()
			WHERE status = 'PENDING'
			  AND expires_at < NOW()
			RETURNING token
		`

		rows, err := jr.db.QueryContext(ctx, query)
		if err != nil {
			logger.Error("Failed to expire gateway attempts", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var token string
			if err := rows.Scan(&token); err != nil {
				logger.Error("Failed to scan expired gateway attempt", "error", err)
				continue
			}
			count++
			logger.Debug("Expired gateway attempt", "token", token)
		}

		if err := rows.Err(); err != nil {
			logger.Error("Error iterating expired gateway attempts", "error", err)
			return
		}

		logger.Info("Expired gateway attempts", "count", count)
	})
}
