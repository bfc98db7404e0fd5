package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"closetshare-backend/internal/domain"
	"closetshare-backend/internal/repository"
)

type calendarRepository struct {
	db *sql.DB
}

func NewCalendarRepository(db *sql.DB) repository.CalendarRepository {
	return &calendarRepository{db: db}
}

const windowColumns = `id, product_id, rental_id, renter_id, start_date, end_date, status, created_on`

// exclusionViolation is the Postgres error code raised by the btree_gist
// exclusion constraint on availability_windows when two transactions race
// past the in-transaction overlap check.
const exclusionViolation = "23P01"

func (r *calendarRepository) CreateWindow(ctx context.Context, w *domain.AvailabilityWindow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Lock the product's blocking windows, then re-check the overlap.
	// The exclusion constraint catches anything this check races with.
	rows, err := tx.QueryContext(ctx, `SELECT `+windowColumns+` FROM availability_windows
	                                   WHERE product_id = $1 AND status IN ('BOOKED', 'ACTIVE')
	                                     AND start_date < $3 AND end_date > $2
	                                   FOR UPDATE`, w.ProductID, w.StartDate, w.EndDate)
	if err != nil {
		return err
	}
	conflicts, err := collectWindows(rows)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return domain.ErrConflict(conflicts, "product %d is already booked for the requested dates", w.ProductID)
	}

	err = tx.QueryRowContext(ctx, `INSERT INTO availability_windows (product_id, rental_id, renter_id, start_date, end_date, status, created_on)
	                               VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_on`,
		w.ProductID, w.RentalID, w.RenterID, w.StartDate, w.EndDate, w.Status, time.Now(),
	).Scan(&w.ID, &w.CreatedOn)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == exclusionViolation {
			conflicts, ferr := r.FindOverlapping(ctx, w.ProductID, w.StartDate, w.EndDate, nil)
			if ferr != nil {
				conflicts = nil
			}
			return domain.ErrConflict(conflicts, "product %d is already booked for the requested dates", w.ProductID)
		}
		return err
	}
	return tx.Commit()
}

func (r *calendarRepository) FindOverlapping(ctx context.Context, productID int32, start, end time.Time, excludeRentalID *int32) ([]domain.AvailabilityWindow, error) {
	query := `SELECT ` + windowColumns + ` FROM availability_windows
	          WHERE product_id = $1 AND status IN ('BOOKED', 'ACTIVE')
	            AND start_date < $3 AND end_date > $2`
	args := []interface{}{productID, start, end}
	if excludeRentalID != nil {
		query += ` AND rental_id <> $4`
		args = append(args, *excludeRentalID)
	}
	query += ` ORDER BY start_date`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectWindows(rows)
}

func (r *calendarRepository) UpdateStatusByRental(ctx context.Context, rentalID int32, status domain.WindowStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE availability_windows SET status = $1 WHERE rental_id = $2`, status, rentalID)
	return err
}

func (r *calendarRepository) CurrentActive(ctx context.Context, productID int32, now time.Time) (*domain.AvailabilityWindow, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+windowColumns+` FROM availability_windows
	                                  WHERE product_id = $1 AND status IN ('BOOKED', 'ACTIVE')
	                                    AND start_date <= $2 AND end_date > $2
	                                  ORDER BY start_date LIMIT 1`, productID, now)
	w, err := scanWindow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return w, err
}

func (r *calendarRepository) Upcoming(ctx context.Context, productID int32, from time.Time, limit int32) ([]domain.AvailabilityWindow, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+windowColumns+` FROM availability_windows
	                                     WHERE product_id = $1 AND status IN ('BOOKED', 'ACTIVE') AND start_date > $2
	                                     ORDER BY start_date LIMIT $3`, productID, from, limit)
	if err != nil {
		return nil, err
	}
	return collectWindows(rows)
}

func (r *calendarRepository) MaxEndDate(ctx context.Context, productID int32) (*time.Time, error) {
	var max sql.NullTime
	err := r.db.QueryRowContext(ctx, `SELECT max(end_date) FROM availability_windows
	                                  WHERE product_id = $1 AND status IN ('BOOKED', 'ACTIVE')`, productID).Scan(&max)
	if err != nil {
		return nil, err
	}
	if !max.Valid {
		return nil, nil
	}
	return &max.Time, nil
}

func (r *calendarRepository) ListRange(ctx context.Context, productID int32, from, to time.Time) ([]domain.AvailabilityWindow, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+windowColumns+` FROM availability_windows
	                                     WHERE product_id = $1 AND status IN ('BOOKED', 'ACTIVE')
	                                       AND start_date < $3 AND end_date > $2
	                                     ORDER BY start_date`, productID, from, to)
	if err != nil {
		return nil, err
	}
	return collectWindows(rows)
}

func scanWindow(row rowScanner) (*domain.AvailabilityWindow, error) {
	w := &domain.AvailabilityWindow{}
	err := row.Scan(&w.ID, &w.ProductID, &w.RentalID, &w.RenterID, &w.StartDate, &w.EndDate, &w.Status, &w.CreatedOn)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func collectWindows(rows *sql.Rows) ([]domain.AvailabilityWindow, error) {
	defer rows.Close()
	var windows []domain.AvailabilityWindow
	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, err
		}
		windows = append(windows, *w)
	}
	return windows, rows.Err()
}
