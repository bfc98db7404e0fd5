package postgres

import (
	"context"
	"database/sql"

	"closetshare-backend/internal/domain"
	"closetshare-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, name, email, COALESCE(phone, ''), role, email_verified, phone_verified, kyc_verified, created_on
	          FROM users WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role,
		&u.EmailVerified, &u.PhoneVerified, &u.KYCVerified, &u.CreatedOn)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound("user %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// SetVerified flips the verification flag corresponding to the OTP purpose.
// Rental-bound purposes have no user flag and are rejected by the service
// layer before reaching here.
func (r *userRepository) SetVerified(ctx context.Context, id int32, field domain.OTPPurpose) error {
	var column string
	switch field {
	case domain.OTPPurposeEmailVerification:
		column = "email_verified"
	case domain.OTPPurposePhoneVerification:
		column = "phone_verified"
	case domain.OTPPurposeKYC:
		column = "kyc_verified"
	default:
		return domain.ErrInvalid("purpose %s has no user verification flag", field)
	}
	_, err := r.db.ExecContext(ctx, `UPDATE users SET `+column+` = true WHERE id = $1`, id)
	return err
}
