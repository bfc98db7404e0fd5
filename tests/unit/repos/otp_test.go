package repos

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"closetshare-backend/internal/domain"
	"closetshare-backend/internal/repository/postgres"
)

func otpRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "rental_id", "purpose", "code_hash", "email", "phone",
		"verified", "verified_at", "expires_at", "attempts", "max_attempts", "created_on",
	})
}

func TestOTPRepository_Replace(t *testing.T) {
	ctx := context.Background()
	rentalID := int32(5)

	t.Run("Drops Prior Code And Records Issuance", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		repo := postgres.NewOTPRepository(db)

		code := &domain.OneTimeCode{
			UserID:      1,
			RentalID:    &rentalID,
			Purpose:     domain.OTPPurposeHandover,
			CodeHash:    "$2a$10$hash",
			Email:       "renter@test.com",
			ExpiresAt:   time.Now().Add(24 * time.Hour),
			MaxAttempts: 5,
		}

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM otps").
			WithArgs(int32(1), domain.OTPPurposeHandover, rentalID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO otps").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_on"}).AddRow(50, time.Now()))
		mock.ExpectExec("INSERT INTO otp_issuances").
			WithArgs(int32(1), domain.OTPPurposeHandover, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		err = repo.Replace(ctx, code)
		assert.NoError(t, err)
		assert.Equal(t, int32(50), code.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Account Purpose Scopes Delete To Null Rental", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		repo := postgres.NewOTPRepository(db)

		code := &domain.OneTimeCode{
			UserID:      1,
			Purpose:     domain.OTPPurposeEmailVerification,
			CodeHash:    "$2a$10$hash",
			ExpiresAt:   time.Now().Add(10 * time.Minute),
			MaxAttempts: 5,
		}

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM otps WHERE user_id = (.+) AND rental_id IS NULL").
			WithArgs(int32(1), domain.OTPPurposeEmailVerification).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("INSERT INTO otps").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_on"}).AddRow(51, time.Now()))
		mock.ExpectExec("INSERT INTO otp_issuances").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		err = repo.Replace(ctx, code)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOTPRepository_GetLive(t *testing.T) {
	ctx := context.Background()
	rentalID := int32(5)

	t.Run("Found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		repo := postgres.NewOTPRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM otps").
			WithArgs(int32(1), domain.OTPPurposeHandover, rentalID).
			WillReturnRows(otpRows().
				AddRow(50, 1, 5, "RENTAL_HANDOVER", "$2a$10$hash", "renter@test.com", "",
					false, nil, time.Now().Add(time.Hour), 0, 5, time.Now()))

		code, err := repo.GetLive(ctx, 1, domain.OTPPurposeHandover, &rentalID)
		assert.NoError(t, err)
		assert.Equal(t, int32(50), code.ID)
		assert.Equal(t, int32(5), code.MaxAttempts)
		assert.False(t, code.Verified)
	})

	t.Run("No Live Code", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		repo := postgres.NewOTPRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM otps").
			WithArgs(int32(1), domain.OTPPurposeHandover, rentalID).
			WillReturnRows(otpRows())

		_, err = repo.GetLive(ctx, 1, domain.OTPPurposeHandover, &rentalID)
		assert.Error(t, err)
		assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	})
}

func TestOTPRepository_IncrementAttempts(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	repo := postgres.NewOTPRepository(db)

	mock.ExpectQuery("UPDATE otps SET attempts = attempts").
		WithArgs(int32(50)).
		WillReturnRows(sqlmock.NewRows([]string{"attempts"}).AddRow(3))

	attempts, err := repo.IncrementAttempts(ctx, 50)
	assert.NoError(t, err)
	assert.Equal(t, int32(3), attempts)
}

func TestOTPRepository_DeleteExpired(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	repo := postgres.NewOTPRepository(db)

	now := time.Now()
	mock.ExpectExec("DELETE FROM otps WHERE verified = false").
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 4))

	deleted, err := repo.DeleteExpired(ctx, now)
	assert.NoError(t, err)
	assert.Equal(t, int64(4), deleted)
}
