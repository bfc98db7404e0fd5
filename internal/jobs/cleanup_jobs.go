package jobs

import (
	"context"
	"time"

	"closetshare-backend/internal/logger"
)

// ExpireOTPs deletes unverified codes past their expiry (TTL sweep).
func (jr *JobRunner) ExpireOTPs() {
	jr.runWithRecovery("ExpireOTPs", func() {
		ctx := context.Background()

		deleted, err := jr.store.OTPRepository.DeleteExpired(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to delete expired codes", "error", err)
			return
		}
		logger.Info("Deleted expired codes", "count", deleted)
	})
}

// MarkOverdueRentals finds active rentals past their end date and sends
// overdue reminders. The rental stays ACTIVE: lateness is settled at
// return time, not here.
func (jr *JobRunner) MarkOverdueRentals() {
	jr.runWithRecovery("MarkOverdueRentals", func() {
		ctx := context.Background()

		query := `
			SELECT r.id, r.end_date, u.email, u.name, p.title
			FROM rentals r
			JOIN users u ON u.id = r.renter_id
			JOIN products p ON p.id = r.product_id
			WHERE r.status = 'ACTIVE'
			  AND r.end_date < $1
		`
		rows, err := jr.db.QueryContext(ctx, query, time.Now())
		if err != nil {
			logger.Error("Failed to find overdue rentals", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var (
				rentalID            int32
				endDate             time.Time
				email, name, title  string
			)
			if err := rows.Scan(&rentalID, &endDate, &email, &name, &title); err != nil {
				logger.Error("Failed to scan overdue rental", "error", err)
				continue
			}

			daysLate := int32(time.Since(endDate).Hours()/24) + 1
			if err := jr.services.Email.SendOverdueReminder(ctx, email, name, title, daysLate); err != nil {
				logger.Error("Failed to send overdue reminder", "rental_id", rentalID, "error", err)
				continue
			}
			logger.Debug("Sent overdue reminder", "rental_id", rentalID, "days_late", daysLate)
			count++
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating overdue rentals", "error", err)
			return
		}

		logger.Info("Processed overdue rentals", "count", count)
	})
}

// ExpireWaitlistNotifications lapses booking windows that were offered but
// not taken, then offers the slot to the next candidate.
func (jr *JobRunner) ExpireWaitlistNotifications() {
	jr.runWithRecovery("ExpireWaitlistNotifications", func() {
		ctx := context.Background()

		expired, err := jr.store.WaitlistRepository.ExpireNotified(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to expire waitlist notifications", "error", err)
			return
		}
		logger.Info("Expired waitlist notifications", "count", expired)

		if expired == 0 {
			return
		}

		// Re-offer products whose notification just lapsed.
		rows, err := jr.db.QueryContext(ctx, `
			SELECT DISTINCT product_id FROM waitlist_entries
			WHERE status = 'EXPIRED' AND expires_at > $1
		`, time.Now().Add(-24*time.Hour))
		if err != nil {
			logger.Error("Failed to list products with lapsed offers", "error", err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			var productID int32
			if err := rows.Scan(&productID); err != nil {
				logger.Error("Failed to scan product id", "error", err)
				continue
			}
			if err := jr.services.Waitlist.NotifyNext(ctx, productID); err != nil {
				logger.Error("Failed to re-offer waitlist slot", "product_id", productID, "error", err)
			}
		}
	})
}

// SyncCalendarWindows repairs windows whose parent rental was cancelled
// but whose status update was lost mid-flight.
func (jr *JobRunner) SyncCalendarWindows() {
	jr.runWithRecovery("SyncCalendarWindows", func() {
		ctx := context.Background()

		res, err := jr.db.ExecContext(ctx, `
			UPDATE availability_windows w
			SET status = 'CANCELLED'
			FROM rentals r
			WHERE w.rental_id = r.id
			  AND r.status = 'CANCELLED'
			  AND w.status IN ('BOOKED', 'ACTIVE')
		`)
		if err != nil {
			logger.Error("Failed to sync calendar windows", "error", err)
			return
		}
		repaired, _ := res.RowsAffected()
		if repaired > 0 {
			logger.Warn("Repaired dangling calendar windows", "count", repaired)
		} else {
			logger.Info("Calendar windows in sync")
		}
	})
}
