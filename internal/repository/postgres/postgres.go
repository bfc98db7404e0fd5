package postgres

import (
	"database/sql"

	"closetshare-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.RentalRepository
	repository.CalendarRepository
	repository.OTPRepository
	repository.LedgerRepository
	repository.DisputeRepository
	repository.ProductRepository
	repository.UserRepository
	repository.NotificationRepository
	repository.WaitlistRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		RentalRepository:       NewRentalRepository(db),
		CalendarRepository:     NewCalendarRepository(db),
		OTPRepository:          NewOTPRepository(db),
		LedgerRepository:       NewLedgerRepository(db),
		DisputeRepository:      NewDisputeRepository(db),
		ProductRepository:      NewProductRepository(db),
		UserRepository:         NewUserRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		WaitlistRepository:     NewWaitlistRepository(db),
	}
}
