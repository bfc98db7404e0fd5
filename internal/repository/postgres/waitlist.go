package postgres

import (
	"context"
	"database/sql"
	"time"

	"closetshare-backend/internal/domain"
	"closetshare-backend/internal/repository"
)

type waitlistRepository struct {
	db *sql.DB
}

func NewWaitlistRepository(db *sql.DB) repository.WaitlistRepository {
	return &waitlistRepository{db: db}
}

const waitlistColumns = `id, product_id, user_id, desired_start_date, desired_end_date, status, priority,
	COALESCE(notes, ''), notified_at, expires_at, cancelled_at, created_on`

func (r *waitlistRepository) Create(ctx context.Context, e *domain.WaitlistEntry) error {
	query := `INSERT INTO waitlist_entries (product_id, user_id, desired_start_date, desired_end_date, status, priority, notes, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_on`
	return r.db.QueryRowContext(ctx, query,
		e.ProductID, e.UserID, e.DesiredStartDate, e.DesiredEndDate, e.Status, e.Priority, e.Notes, time.Now(),
	).Scan(&e.ID, &e.CreatedOn)
}

func (r *waitlistRepository) GetByID(ctx context.Context, id int32) (*domain.WaitlistEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+waitlistColumns+` FROM waitlist_entries WHERE id = $1`, id)
	e, err := scanWaitlistEntry(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound("waitlist entry %d not found", id)
	}
	return e, err
}

func (r *waitlistRepository) GetWaiting(ctx context.Context, productID, userID int32) (*domain.WaitlistEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+waitlistColumns+` FROM waitlist_entries
	                                  WHERE product_id = $1 AND user_id = $2 AND status IN ('WAITING', 'NOTIFIED')
	                                  ORDER BY created_on DESC LIMIT 1`, productID, userID)
	e, err := scanWaitlistEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return e, err
}

func (r *waitlistRepository) Update(ctx context.Context, e *domain.WaitlistEntry) error {
	query := `UPDATE waitlist_entries SET status=$1, priority=$2, notified_at=$3, expires_at=$4, cancelled_at=$5 WHERE id=$6`
	_, err := r.db.ExecContext(ctx, query, e.Status, e.Priority, e.NotifiedAt, e.ExpiresAt, e.CancelledAt, e.ID)
	return err
}

func (r *waitlistRepository) ListByProduct(ctx context.Context, productID int32) ([]domain.WaitlistEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+waitlistColumns+` FROM waitlist_entries
	                                     WHERE product_id = $1 AND status IN ('WAITING', 'NOTIFIED')
	                                     ORDER BY priority DESC, created_on ASC`, productID)
	if err != nil {
		return nil, err
	}
	return collectWaitlistEntries(rows)
}

func (r *waitlistRepository) ListByUser(ctx context.Context, userID int32) ([]domain.WaitlistEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+waitlistColumns+` FROM waitlist_entries
	                                     WHERE user_id = $1 ORDER BY created_on DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collectWaitlistEntries(rows)
}

func (r *waitlistRepository) CountWaiting(ctx context.Context, productID int32) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM waitlist_entries
	                                  WHERE product_id = $1 AND status IN ('WAITING', 'NOTIFIED')`, productID).Scan(&count)
	return count, err
}

// Position counts the waiting entries ahead of this one in notify order.
func (r *waitlistRepository) Position(ctx context.Context, e *domain.WaitlistEntry) (int32, error) {
	var ahead int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM waitlist_entries
	                                  WHERE product_id = $1 AND status IN ('WAITING', 'NOTIFIED')
	                                    AND (priority > $2 OR (priority = $2 AND created_on < $3))`,
		e.ProductID, e.Priority, e.CreatedOn).Scan(&ahead)
	return ahead + 1, err
}

func (r *waitlistRepository) Candidates(ctx context.Context, productID int32, startBefore time.Time, limit int32) ([]domain.WaitlistEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+waitlistColumns+` FROM waitlist_entries
	                                     WHERE product_id = $1 AND status = 'WAITING' AND desired_start_date <= $2
	                                     ORDER BY priority DESC, created_on ASC LIMIT $3`, productID, startBefore, limit)
	if err != nil {
		return nil, err
	}
	return collectWaitlistEntries(rows)
}

func (r *waitlistRepository) ExpireNotified(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE waitlist_entries SET status = 'EXPIRED'
	                                   WHERE status = 'NOTIFIED' AND expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanWaitlistEntry(row rowScanner) (*domain.WaitlistEntry, error) {
	e := &domain.WaitlistEntry{}
	var notifiedAt, expiresAt, cancelledAt sql.NullTime
	err := row.Scan(&e.ID, &e.ProductID, &e.UserID, &e.DesiredStartDate, &e.DesiredEndDate, &e.Status,
		&e.Priority, &e.Notes, &notifiedAt, &expiresAt, &cancelledAt, &e.CreatedOn)
	if err != nil {
		return nil, err
	}
	if notifiedAt.Valid {
		e.NotifiedAt = &notifiedAt.Time
	}
	if expiresAt.Valid {
		e.ExpiresAt = &expiresAt.Time
	}
	if cancelledAt.Valid {
		e.CancelledAt = &cancelledAt.Time
	}
	return e, nil
}

func collectWaitlistEntries(rows *sql.Rows) ([]domain.WaitlistEntry, error) {
	defer rows.Close()
	var entries []domain.WaitlistEntry
	for rows.Next() {
		e, err := scanWaitlistEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}
