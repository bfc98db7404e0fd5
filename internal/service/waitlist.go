package service

import (
	"context"
	"fmt"
	"time"

	"closetshare-backend/internal/config"
	"closetshare-backend/internal/domain"
	"closetshare-backend/internal/logger"
	"closetshare-backend/internal/repository"
)

type waitlistService struct {
	waitlistRepo repository.WaitlistRepository
	productRepo  repository.ProductRepository
	userRepo     repository.UserRepository
	calendarRepo repository.CalendarRepository
	noteRepo     repository.NotificationRepository
	emailSvc     EmailService
	cfg          config.RentalConfig
}

func NewWaitlistService(
	waitlistRepo repository.WaitlistRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	calendarRepo repository.CalendarRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
	cfg config.RentalConfig,
) WaitlistService {
	return &waitlistService{
		waitlistRepo: waitlistRepo,
		productRepo:  productRepo,
		userRepo:     userRepo,
		calendarRepo: calendarRepo,
		noteRepo:     noteRepo,
		emailSvc:     emailSvc,
		cfg:          cfg,
	}
}

func (s *waitlistService) Join(ctx context.Context, userID, productID int32, desiredStart, desiredEnd time.Time, notes string) (*domain.WaitlistEntry, error) {
	if !desiredEnd.After(desiredStart) {
		return nil, domain.ErrInvalid("desired end date must be after start date")
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.OwnerID == userID {
		return nil, domain.ErrPreconditionFailed("cannot join the waitlist for your own item")
	}

	existing, err := s.waitlistRepo.GetWaiting(ctx, productID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrConflict(nil, "already on the waitlist for product %d", productID)
	}

	entry := &domain.WaitlistEntry{
		ProductID:        productID,
		UserID:           userID,
		DesiredStartDate: desiredStart,
		DesiredEndDate:   desiredEnd,
		Status:           domain.WaitlistStatusWaiting,
		Notes:            notes,
	}
	if err := s.waitlistRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	if err := s.productRepo.AdjustWaitlistCount(ctx, productID, 1); err != nil {
		logger.Error("failed to bump waitlist count", "product_id", productID, "error", err)
	}

	position, err := s.waitlistRepo.Position(ctx, entry)
	if err == nil {
		entry.Position = position
	}

	logger.Info("waitlist joined", "product_id", productID, "user_id", userID, "position", entry.Position)
	return entry, nil
}

func (s *waitlistService) Leave(ctx context.Context, userID, entryID int32) error {
	entry, err := s.waitlistRepo.GetByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.UserID != userID {
		return domain.ErrUnauthorized("waitlist entry %d belongs to another user", entryID)
	}
	if entry.Status != domain.WaitlistStatusWaiting && entry.Status != domain.WaitlistStatusNotified {
		return domain.ErrPreconditionFailed("waitlist entry %d is already %s", entryID, entry.Status)
	}

	now := time.Now()
	entry.Status = domain.WaitlistStatusCancelled
	entry.CancelledAt = &now
	if err := s.waitlistRepo.Update(ctx, entry); err != nil {
		return err
	}
	if err := s.productRepo.AdjustWaitlistCount(ctx, entry.ProductID, -1); err != nil {
		logger.Error("failed to drop waitlist count", "product_id", entry.ProductID, "error", err)
	}
	return nil
}

func (s *waitlistService) ListForProduct(ctx context.Context, productID int32) ([]domain.WaitlistEntry, error) {
	entries, err := s.waitlistRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Position = int32(i + 1)
	}
	return entries, nil
}

func (s *waitlistService) ListForUser(ctx context.Context, userID int32) ([]domain.WaitlistEntry, error) {
	entries, err := s.waitlistRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].Status == domain.WaitlistStatusWaiting || entries[i].Status == domain.WaitlistStatusNotified {
			if pos, err := s.waitlistRepo.Position(ctx, &entries[i]); err == nil {
				entries[i].Position = pos
			}
		}
	}
	return entries, nil
}

// NotifyNext offers the freed-up product to the head of the queue whose
// desired dates are actually bookable now, and starts their booking window.
func (s *waitlistService) NotifyNext(ctx context.Context, productID int32) error {
	// Only offer to entries whose desired start is within a booking's reach.
	horizon := time.Now().AddDate(0, 0, int(s.cfg.MaxDurationDays))
	candidates, err := s.waitlistRepo.Candidates(ctx, productID, horizon, 10)
	if err != nil {
		return err
	}

	for i := range candidates {
		entry := &candidates[i]
		conflicts, err := s.calendarRepo.FindOverlapping(ctx, productID, entry.DesiredStartDate, entry.DesiredEndDate, nil)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			continue
		}

		now := time.Now()
		expires := now.Add(time.Duration(s.cfg.WaitlistNotifyHours) * time.Hour)
		entry.Status = domain.WaitlistStatusNotified
		entry.NotifiedAt = &now
		entry.ExpiresAt = &expires
		if err := s.waitlistRepo.Update(ctx, entry); err != nil {
			return err
		}

		product, perr := s.productRepo.GetByID(ctx, productID)
		user, uerr := s.userRepo.GetByID(ctx, entry.UserID)
		if perr == nil && uerr == nil {
			note := &domain.Notification{
				UserID:  entry.UserID,
				Title:   "Waitlist slot open",
				Message: fmt.Sprintf("%s is available. Book before %s.", product.Title, expires.Format(time.RFC1123)),
				Attributes: map[string]string{
					"product_id": fmt.Sprintf("%d", productID),
				},
			}
			if err := s.noteRepo.Create(ctx, note); err != nil {
				logger.Error("failed to create notification", "user_id", entry.UserID, "error", err)
			}
			_ = s.emailSvc.SendWaitlistSlotOpen(ctx, user.Email, user.Name, product.Title, expires)
		}

		logger.Info("waitlist notified", "product_id", productID, "user_id", entry.UserID, "expires_at", expires)
		return nil
	}
	return nil
}
