package postgres

import (
	"context"
	"database/sql"
	"time"

	"closetshare-backend/internal/domain"
	"closetshare-backend/internal/repository"
)

type otpRepository struct {
	db *sql.DB
}

func NewOTPRepository(db *sql.DB) repository.OTPRepository {
	return &otpRepository{db: db}
}

const otpColumns = `id, user_id, rental_id, purpose, code_hash, COALESCE(email, ''), COALESCE(phone, ''),
	verified, verified_at, expires_at, attempts, max_attempts, created_on`

func (r *otpRepository) Replace(ctx context.Context, code *domain.OneTimeCode) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// One live code per (user, purpose, rental): drop the prior one first.
	delQuery := `DELETE FROM otps WHERE user_id = $1 AND purpose = $2 AND verified = false`
	delArgs := []interface{}{code.UserID, code.Purpose}
	if code.RentalID != nil {
		delQuery += ` AND rental_id = $3`
		delArgs = append(delArgs, *code.RentalID)
	} else {
		delQuery += ` AND rental_id IS NULL`
	}
	if _, err := tx.ExecContext(ctx, delQuery, delArgs...); err != nil {
		return err
	}

	err = tx.QueryRowContext(ctx, `INSERT INTO otps (user_id, rental_id, purpose, code_hash, email, phone, expires_at, max_attempts, created_on)
	                               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id, created_on`,
		code.UserID, code.RentalID, code.Purpose, code.CodeHash, code.Email, code.Phone,
		code.ExpiresAt, code.MaxAttempts, time.Now(),
	).Scan(&code.ID, &code.CreatedOn)
	if err != nil {
		return err
	}

	// The issuance audit row outlives the code itself so the resend rate
	// limit cannot be reset by burning codes.
	_, err = tx.ExecContext(ctx, `INSERT INTO otp_issuances (user_id, purpose, issued_at) VALUES ($1, $2, $3)`,
		code.UserID, code.Purpose, time.Now())
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (r *otpRepository) GetLive(ctx context.Context, userID int32, purpose domain.OTPPurpose, rentalID *int32) (*domain.OneTimeCode, error) {
	query := `SELECT ` + otpColumns + ` FROM otps WHERE user_id = $1 AND purpose = $2 AND verified = false`
	args := []interface{}{userID, purpose}
	if rentalID != nil {
		query += ` AND rental_id = $3`
		args = append(args, *rentalID)
	} else {
		query += ` AND rental_id IS NULL`
	}
	query += ` ORDER BY created_on DESC LIMIT 1`

	row := r.db.QueryRowContext(ctx, query, args...)
	code, err := scanOTP(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound("no active verification code")
	}
	return code, err
}

func (r *otpRepository) IncrementAttempts(ctx context.Context, id int32) (int32, error) {
	var attempts int32
	err := r.db.QueryRowContext(ctx, `UPDATE otps SET attempts = attempts + 1 WHERE id = $1 RETURNING attempts`, id).Scan(&attempts)
	return attempts, err
}

func (r *otpRepository) MarkVerified(ctx context.Context, id int32, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE otps SET verified = true, verified_at = $1 WHERE id = $2`, at, id)
	return err
}

func (r *otpRepository) Delete(ctx context.Context, id int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM otps WHERE id = $1`, id)
	return err
}

func (r *otpRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM otps WHERE verified = false AND expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *otpRepository) CountIssuedSince(ctx context.Context, userID int32, purpose domain.OTPPurpose, since time.Time) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM otp_issuances WHERE user_id = $1 AND purpose = $2 AND issued_at > $3`,
		userID, purpose, since).Scan(&count)
	return count, err
}

func scanOTP(row rowScanner) (*domain.OneTimeCode, error) {
	c := &domain.OneTimeCode{}
	var verifiedAt sql.NullTime
	err := row.Scan(&c.ID, &c.UserID, &c.RentalID, &c.Purpose, &c.CodeHash, &c.Email, &c.Phone,
		&c.Verified, &verifiedAt, &c.ExpiresAt, &c.Attempts, &c.MaxAttempts, &c.CreatedOn)
	if err != nil {
		return nil, err
	}
	if verifiedAt.Valid {
		c.VerifiedAt = &verifiedAt.Time
	}
	return c, nil
}
