package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"closetshare-backend/internal/config"
	"closetshare-backend/internal/domain"
	"closetshare-backend/internal/logger"
	"closetshare-backend/internal/repository"
)

type otpService struct {
	otpRepo  repository.OTPRepository
	userRepo repository.UserRepository
	emailSvc EmailService
	cfg      config.OTPConfig
}

func NewOTPService(otpRepo repository.OTPRepository, userRepo repository.UserRepository, emailSvc EmailService, cfg config.OTPConfig) OTPService {
	return &otpService{
		otpRepo:  otpRepo,
		userRepo: userRepo,
		emailSvc: emailSvc,
		cfg:      cfg,
	}
}

// generateCode produces a 6-digit code from crypto/rand, zero-padded.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func (s *otpService) Issue(ctx context.Context, userID int32, purpose domain.OTPPurpose, rentalID *int32, expiresAt time.Time) (string, error) {
	if purpose.RentalBound() && rentalID == nil {
		return "", domain.ErrInvalid("purpose %s requires a rental", purpose)
	}

	window := time.Duration(s.cfg.ResendWindowMinutes) * time.Minute
	issued, err := s.otpRepo.CountIssuedSince(ctx, userID, purpose, time.Now().Add(-window))
	if err != nil {
		return "", err
	}
	if issued >= s.cfg.ResendLimit {
		return "", domain.ErrRateLimited("too many codes requested, try again in %d minutes", s.cfg.ResendWindowMinutes)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	code, err := generateCode()
	if err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash code: %w", err)
	}

	otp := &domain.OneTimeCode{
		UserID:      userID,
		RentalID:    rentalID,
		Purpose:     purpose,
		CodeHash:    string(hash),
		Email:       user.Email,
		Phone:       user.Phone,
		ExpiresAt:   expiresAt,
		MaxAttempts: s.cfg.MaxAttempts,
	}
	if err := s.otpRepo.Replace(ctx, otp); err != nil {
		return "", err
	}

	if err := s.emailSvc.SendOTP(ctx, user.Email, user.Name, code, purpose, expiresAt); err != nil {
		logger.Error("failed to deliver code", "user_id", userID, "purpose", purpose, "error", err)
	}

	logger.Info("code issued", "user_id", userID, "purpose", purpose, "expires_at", expiresAt)
	return code, nil
}

func (s *otpService) Verify(ctx context.Context, userID int32, purpose domain.OTPPurpose, rentalID *int32, code string) error {
	otp, err := s.otpRepo.GetLive(ctx, userID, purpose, rentalID)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			// A consumed or never-issued code looks the same as a wrong one
			// to the caller.
			return &domain.Error{Kind: domain.KindInvalidCode, Message: "invalid verification code"}
		}
		return err
	}

	now := time.Now()
	if otp.Expired(now) {
		// Expired codes are single-shot garbage; remove on sight.
		_ = s.otpRepo.Delete(ctx, otp.ID)
		return domain.ErrCodeExpired()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(otp.CodeHash), []byte(code)); err != nil {
		attempts, ierr := s.otpRepo.IncrementAttempts(ctx, otp.ID)
		if ierr != nil {
			return ierr
		}
		if attempts >= otp.MaxAttempts {
			_ = s.otpRepo.Delete(ctx, otp.ID)
			return domain.ErrAttemptsExceeded()
		}
		return domain.ErrInvalidCode(otp.MaxAttempts - attempts)
	}

	if err := s.otpRepo.MarkVerified(ctx, otp.ID, now); err != nil {
		return err
	}

	// Account-level purposes flip the matching user flag.
	if !purpose.RentalBound() {
		if err := s.userRepo.SetVerified(ctx, userID, purpose); err != nil {
			return err
		}
	}

	logger.Info("code verified", "user_id", userID, "purpose", purpose)
	return nil
}

func (s *otpService) Resend(ctx context.Context, userID int32, purpose domain.OTPPurpose, rentalID *int32) (string, error) {
	// The replacement inherits the live code's expiry so resending cannot
	// extend a code's life.
	live, err := s.otpRepo.GetLive(ctx, userID, purpose, rentalID)
	if err != nil {
		return "", err
	}
	if live.Expired(time.Now()) {
		_ = s.otpRepo.Delete(ctx, live.ID)
		return "", domain.ErrCodeExpired()
	}
	return s.Issue(ctx, userID, purpose, rentalID, live.ExpiresAt)
}

// expiryFor returns the purpose-specific expiry instant. Handover codes
// live long enough to survive a delayed meetup; return codes stay valid
// through the grace period after the agreed end date.
func expiryFor(cfg config.OTPConfig, purpose domain.OTPPurpose, rentalEnd time.Time, now time.Time) time.Time {
	switch purpose {
	case domain.OTPPurposeHandover:
		return now.Add(time.Duration(cfg.HandoverExpiryHours) * time.Hour)
	case domain.OTPPurposeReturn:
		return rentalEnd.Add(time.Duration(cfg.ReturnGraceHours) * time.Hour)
	default:
		return now.Add(time.Duration(cfg.ExpiryMinutes) * time.Minute)
	}
}
