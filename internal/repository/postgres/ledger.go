package postgres

import (
	"context"
	"database/sql"
	"time"

	"closetshare-backend/internal/domain"
	"closetshare-backend/internal/repository"
)

type ledgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

const transactionColumns = `id, rental_id, product_id, renter_id, owner_id, amount_cents, type, status,
	payment_method, COALESCE(gateway_ref, ''), refund_id, COALESCE(description, ''), created_on`

func (r *ledgerRepository) CreateTransaction(ctx context.Context, t *domain.Transaction) error {
	return insertTransaction(ctx, r.db, t)
}

func (r *ledgerRepository) CreatePair(ctx context.Context, payment, deposit *domain.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertTransaction(ctx, tx, payment); err != nil {
		return err
	}
	if err := insertTransaction(ctx, tx, deposit); err != nil {
		return err
	}
	return tx.Commit()
}

type execer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func insertTransaction(ctx context.Context, db execer, t *domain.Transaction) error {
	query := `INSERT INTO transactions (rental_id, product_id, renter_id, owner_id, amount_cents, type, status,
	            payment_method, gateway_ref, refund_id, description, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id, created_on`
	return db.QueryRowContext(ctx, query,
		t.RentalID, t.ProductID, t.RenterID, t.OwnerID, t.AmountCents, t.Type, t.Status,
		t.PaymentMethod, t.GatewayRef, t.RefundID, t.Description, time.Now(),
	).Scan(&t.ID, &t.CreatedOn)
}

func (r *ledgerRepository) GetHeldDeposit(ctx context.Context, rentalID int32) (*domain.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions
	                                  WHERE rental_id = $1 AND type = 'SECURITY_DEPOSIT' AND status = 'HELD'
	                                  ORDER BY id LIMIT 1`, rentalID)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound("no held deposit for rental %d", rentalID)
	}
	return t, err
}

func (r *ledgerRepository) RefundHeldDeposit(ctx context.Context, depositID int32, refund *domain.Transaction) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	// Compare-and-set first: losing the race means nothing gets written.
	res, err := tx.ExecContext(ctx, `UPDATE transactions SET status = 'REFUNDED'
	                                 WHERE id = $1 AND status = 'HELD'`, depositID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	if err := insertTransaction(ctx, tx, refund); err != nil {
		return false, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE transactions SET refund_id = $1 WHERE id = $2`,
		refund.ID, depositID); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

func (r *ledgerRepository) ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Transaction, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM transactions WHERE renter_id = $1 OR owner_id = $1`, userID).Scan(&count)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+transactionColumns+` FROM transactions
	                                     WHERE renter_id = $1 OR owner_id = $1
	                                     ORDER BY created_on DESC LIMIT $2 OFFSET $3`, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	txs, err := collectTransactions(rows)
	return txs, count, err
}

func (r *ledgerRepository) ListByRental(ctx context.Context, rentalID int32) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+transactionColumns+` FROM transactions
	                                     WHERE rental_id = $1 ORDER BY id`, rentalID)
	if err != nil {
		return nil, err
	}
	return collectTransactions(rows)
}

func (r *ledgerRepository) WalletBalance(ctx context.Context, ownerID int32) (int64, error) {
	var balance int64
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(sum(amount_cents), 0) FROM transactions
	                                  WHERE owner_id = $1 AND type = 'RENTAL_PAYMENT' AND status = 'COMPLETED'`, ownerID).Scan(&balance)
	return balance, err
}

func (r *ledgerRepository) GetSummary(ctx context.Context, userID int32) (*domain.LedgerSummary, error) {
	summary := &domain.LedgerSummary{}

	balance, err := r.WalletBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary.WalletBalanceCents = balance

	err = r.db.QueryRowContext(ctx, `SELECT COALESCE(sum(amount_cents), 0) FROM transactions
	                                 WHERE renter_id = $1 AND type = 'SECURITY_DEPOSIT' AND status = 'HELD'`, userID).Scan(&summary.HeldDepositsCents)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowContext(ctx, `SELECT count(*) FROM rentals WHERE (renter_id = $1 OR owner_id = $1) AND status = 'ACTIVE'`, userID).Scan(&summary.ActiveRentalsCount)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRowContext(ctx, `SELECT count(*) FROM rentals WHERE (renter_id = $1 OR owner_id = $1) AND status = 'PENDING'`, userID).Scan(&summary.PendingCount)
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	err := row.Scan(&t.ID, &t.RentalID, &t.ProductID, &t.RenterID, &t.OwnerID, &t.AmountCents, &t.Type, &t.Status,
		&t.PaymentMethod, &t.GatewayRef, &t.RefundID, &t.Description, &t.CreatedOn)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func collectTransactions(rows *sql.Rows) ([]domain.Transaction, error) {
	defer rows.Close()
	var txs []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, *t)
	}
	return txs, rows.Err()
}
