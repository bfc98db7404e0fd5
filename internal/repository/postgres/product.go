package postgres

import (
	"context"
	"database/sql"

	"closetshare-backend/internal/domain"
	"closetshare-backend/internal/repository"
)

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetByID(ctx context.Context, id int32) (*domain.Product, error) {
	p := &domain.Product{}
	query := `SELECT id, owner_id, title, price_per_day_cents, security_deposit_cents, available, waitlist_count, created_on
	          FROM products WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.OwnerID, &p.Title,
		&p.PricePerDayCents, &p.SecurityDepositCents, &p.Available, &p.WaitlistCount, &p.CreatedOn)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound("product %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *productRepository) SetAvailability(ctx context.Context, id int32, available bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE products SET available = $1 WHERE id = $2`, available, id)
	return err
}

func (r *productRepository) AdjustWaitlistCount(ctx context.Context, id int32, delta int32) error {
	_, err := r.db.ExecContext(ctx, `UPDATE products SET waitlist_count = greatest(waitlist_count + $1, 0) WHERE id = $2`, delta, id)
	return err
}
