package service

import (
	"context"
	"time"

	"closetshare-backend/internal/domain"
	"closetshare-backend/internal/repository"
)

type availabilityService struct {
	calendarRepo repository.CalendarRepository
	productRepo  repository.ProductRepository
	waitlistRepo repository.WaitlistRepository
}

func NewAvailabilityService(calendarRepo repository.CalendarRepository, productRepo repository.ProductRepository, waitlistRepo repository.WaitlistRepository) AvailabilityService {
	return &availabilityService{
		calendarRepo: calendarRepo,
		productRepo:  productRepo,
		waitlistRepo: waitlistRepo,
	}
}

func (s *availabilityService) IsFree(ctx context.Context, productID int32, start, end time.Time, excludeRentalID *int32) (bool, []domain.AvailabilityWindow, error) {
	if !end.After(start) {
		return false, nil, domain.ErrInvalid("end date must be after start date")
	}
	conflicts, err := s.calendarRepo.FindOverlapping(ctx, productID, start, end, excludeRentalID)
	if err != nil {
		return false, nil, err
	}
	return len(conflicts) == 0, conflicts, nil
}

func (s *availabilityService) NextAvailableDate(ctx context.Context, productID int32) (*time.Time, error) {
	return s.calendarRepo.MaxEndDate(ctx, productID)
}

func (s *availabilityService) Status(ctx context.Context, productID int32) (*domain.ProductRentalStatus, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	now := time.Now()
	status := &domain.ProductRentalStatus{}

	current, err := s.calendarRepo.CurrentActive(ctx, productID, now)
	if err != nil {
		return nil, err
	}
	status.IsRented = current != nil
	status.Current = current

	upcoming, err := s.calendarRepo.Upcoming(ctx, productID, now, 5)
	if err != nil {
		return nil, err
	}
	status.Upcoming = upcoming

	availableFrom, err := s.calendarRepo.MaxEndDate(ctx, productID)
	if err != nil {
		return nil, err
	}
	if availableFrom != nil && availableFrom.After(now) {
		status.AvailableFrom = availableFrom
		status.DaysUntilAvailable = int32(availableFrom.Sub(now).Hours()/24) + 1
	}

	count, err := s.waitlistRepo.CountWaiting(ctx, productID)
	if err != nil {
		return nil, err
	}
	status.WaitlistCount = count

	return status, nil
}

// Calendar renders the day-by-day view. Each day is marked unavailable if
// any blocking window covers it.
func (s *availabilityService) Calendar(ctx context.Context, productID int32, from, to time.Time) ([]domain.CalendarDay, error) {
	if to.IsZero() {
		to = from.AddDate(0, 0, 90)
	}
	if !to.After(from) {
		return nil, domain.ErrInvalid("calendar range end must be after start")
	}

	windows, err := s.calendarRepo.ListRange(ctx, productID, from, to)
	if err != nil {
		return nil, err
	}

	var days []domain.CalendarDay
	for d := from.Truncate(24 * time.Hour); d.Before(to); d = d.AddDate(0, 0, 1) {
		day := domain.CalendarDay{Date: d, Available: true}
		dayEnd := d.AddDate(0, 0, 1)
		for i := range windows {
			if windows[i].Overlaps(d, dayEnd) {
				day.Available = false
				day.Window = &windows[i]
				break
			}
		}
		days = append(days, day)
	}
	return days, nil
}
