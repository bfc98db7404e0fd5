package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"closetshare-backend/internal/domain"
	"closetshare-backend/internal/repository"
)

type disputeRepository struct {
	db *sql.DB
}

func NewDisputeRepository(db *sql.DB) repository.DisputeRepository {
	return &disputeRepository{db: db}
}

const disputeColumns = `id, rental_id, raised_by, against_user, type, status, priority, description,
	evidence, resolution, created_on, updated_on`

func (r *disputeRepository) Create(ctx context.Context, d *domain.Dispute) error {
	query := `INSERT INTO disputes (rental_id, raised_by, against_user, type, status, priority, description, evidence, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9) RETURNING id, created_on, updated_on`
	return r.db.QueryRowContext(ctx, query,
		d.RentalID, d.RaisedBy, d.AgainstUser, d.Type, d.Status, d.Priority, d.Description,
		mustJSON(d.Evidence), time.Now(),
	).Scan(&d.ID, &d.CreatedOn, &d.UpdatedOn)
}

func (r *disputeRepository) GetByID(ctx context.Context, id int32) (*domain.Dispute, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+disputeColumns+` FROM disputes WHERE id = $1`, id)
	d, err := scanDispute(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound("dispute %d not found", id)
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id, dispute_id, user_id, text, created_on
	                                     FROM dispute_comments WHERE dispute_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var c domain.DisputeComment
		if err := rows.Scan(&c.ID, &c.DisputeID, &c.UserID, &c.Text, &c.CreatedOn); err != nil {
			return nil, err
		}
		d.Comments = append(d.Comments, c)
	}
	return d, rows.Err()
}

func (r *disputeRepository) Update(ctx context.Context, d *domain.Dispute) error {
	query := `UPDATE disputes SET status=$1, priority=$2, evidence=$3, resolution=$4, updated_on=$5 WHERE id=$6`
	var resolution interface{}
	if d.Resolution != nil {
		resolution = mustJSON(d.Resolution)
	}
	_, err := r.db.ExecContext(ctx, query, d.Status, d.Priority, mustJSON(d.Evidence), resolution, time.Now(), d.ID)
	return err
}

func (r *disputeRepository) ListByUser(ctx context.Context, userID int32) ([]domain.Dispute, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+disputeColumns+` FROM disputes
	                                     WHERE raised_by = $1 OR against_user = $1
	                                     ORDER BY created_on DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var disputes []domain.Dispute
	for rows.Next() {
		d, err := scanDispute(rows)
		if err != nil {
			return nil, err
		}
		disputes = append(disputes, *d)
	}
	return disputes, rows.Err()
}

func (r *disputeRepository) AddComment(ctx context.Context, c *domain.DisputeComment) error {
	query := `INSERT INTO dispute_comments (dispute_id, user_id, text, created_on) VALUES ($1, $2, $3, $4) RETURNING id, created_on`
	return r.db.QueryRowContext(ctx, query, c.DisputeID, c.UserID, c.Text, time.Now()).Scan(&c.ID, &c.CreatedOn)
}

func (r *disputeRepository) HasOpenDispute(ctx context.Context, rentalID int32) (bool, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM disputes
	                                  WHERE rental_id = $1 AND status IN ('OPEN', 'UNDER_REVIEW')`, rentalID).Scan(&count)
	return count > 0, err
}

func scanDispute(row rowScanner) (*domain.Dispute, error) {
	d := &domain.Dispute{}
	var evidence, resolution []byte
	err := row.Scan(&d.ID, &d.RentalID, &d.RaisedBy, &d.AgainstUser, &d.Type, &d.Status, &d.Priority,
		&d.Description, &evidence, &resolution, &d.CreatedOn, &d.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if err := fromJSON(evidence, &d.Evidence); err != nil {
		return nil, err
	}
	if len(resolution) > 0 {
		d.Resolution = &domain.Resolution{}
		if err := json.Unmarshal(resolution, d.Resolution); err != nil {
			return nil, err
		}
	}
	return d, nil
}
