package repository

import (
	"context"
	"time"

	"closetshare-backend/internal/domain"
)

// RentalRole filters rental listings by the caller's side of the deal.
type RentalRole string

const (
	RentalRoleRenter RentalRole = "renter"
	RentalRoleOwner  RentalRole = "owner"
	RentalRoleAny    RentalRole = "any"
)

type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	// GetByID loads the rental with its additional charges.
	GetByID(ctx context.Context, id int32) (*domain.Rental, error)
	Update(ctx context.Context, rental *domain.Rental) error
	ListByParticipant(ctx context.Context, userID int32, role RentalRole, status domain.RentalStatus, page, pageSize int32) ([]domain.Rental, int32, error)
	AddCharge(ctx context.Context, charge *domain.AdditionalCharge) error
}

type CalendarRepository interface {
	// CreateWindow atomically re-checks the overlap inside a transaction
	// and inserts the window; the schema-level exclusion constraint is the
	// backstop under concurrent requests. Overlap surfaces as a CONFLICT
	// error carrying the conflicting windows.
	CreateWindow(ctx context.Context, window *domain.AvailabilityWindow) error
	FindOverlapping(ctx context.Context, productID int32, start, end time.Time, excludeRentalID *int32) ([]domain.AvailabilityWindow, error)
	UpdateStatusByRental(ctx context.Context, rentalID int32, status domain.WindowStatus) error
	CurrentActive(ctx context.Context, productID int32, now time.Time) (*domain.AvailabilityWindow, error)
	Upcoming(ctx context.Context, productID int32, from time.Time, limit int32) ([]domain.AvailabilityWindow, error)
	// MaxEndDate returns the latest end date among blocking windows, or
	// nil when the product has none.
	MaxEndDate(ctx context.Context, productID int32) (*time.Time, error)
	ListRange(ctx context.Context, productID int32, from, to time.Time) ([]domain.AvailabilityWindow, error)
}

type OTPRepository interface {
	// Replace deletes any live code for the same (user, purpose, rental)
	// tuple, inserts the new one, and records the issuance for rate
	// limiting, all in one transaction.
	Replace(ctx context.Context, code *domain.OneTimeCode) error
	GetLive(ctx context.Context, userID int32, purpose domain.OTPPurpose, rentalID *int32) (*domain.OneTimeCode, error)
	IncrementAttempts(ctx context.Context, id int32) (int32, error)
	MarkVerified(ctx context.Context, id int32, at time.Time) error
	Delete(ctx context.Context, id int32) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	CountIssuedSince(ctx context.Context, userID int32, purpose domain.OTPPurpose, since time.Time) (int32, error)
}

type LedgerRepository interface {
	CreateTransaction(ctx context.Context, tx *domain.Transaction) error
	// CreatePair posts the rental payment and the deposit hold in one
	// transaction so a crash cannot split them.
	CreatePair(ctx context.Context, payment, deposit *domain.Transaction) error
	GetHeldDeposit(ctx context.Context, rentalID int32) (*domain.Transaction, error)
	// RefundHeldDeposit flips the held deposit entry HELD -> REFUNDED with
	// a compare-and-set and records the refund entry in the same database
	// transaction. It reports false, with nothing written, when the entry
	// was not in HELD state.
	RefundHeldDeposit(ctx context.Context, depositID int32, refund *domain.Transaction) (bool, error)
	ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Transaction, int32, error)
	ListByRental(ctx context.Context, rentalID int32) ([]domain.Transaction, error)
	// WalletBalance aggregates completed RENTAL_PAYMENT entries for an
	// owner. Always computed, never stored.
	WalletBalance(ctx context.Context, ownerID int32) (int64, error)
	GetSummary(ctx context.Context, userID int32) (*domain.LedgerSummary, error)
}

type DisputeRepository interface {
	Create(ctx context.Context, dispute *domain.Dispute) error
	GetByID(ctx context.Context, id int32) (*domain.Dispute, error)
	Update(ctx context.Context, dispute *domain.Dispute) error
	ListByUser(ctx context.Context, userID int32) ([]domain.Dispute, error)
	AddComment(ctx context.Context, comment *domain.DisputeComment) error
	HasOpenDispute(ctx context.Context, rentalID int32) (bool, error)
}

type ProductRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Product, error)
	SetAvailability(ctx context.Context, id int32, available bool) error
	AdjustWaitlistCount(ctx context.Context, id int32, delta int32) error
}

type UserRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	SetVerified(ctx context.Context, id int32, field domain.OTPPurpose) error
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}

type WaitlistRepository interface {
	Create(ctx context.Context, entry *domain.WaitlistEntry) error
	GetByID(ctx context.Context, id int32) (*domain.WaitlistEntry, error)
	GetWaiting(ctx context.Context, productID, userID int32) (*domain.WaitlistEntry, error)
	Update(ctx context.Context, entry *domain.WaitlistEntry) error
	ListByProduct(ctx context.Context, productID int32) ([]domain.WaitlistEntry, error)
	ListByUser(ctx context.Context, userID int32) ([]domain.WaitlistEntry, error)
	CountWaiting(ctx context.Context, productID int32) (int32, error)
	Position(ctx context.Context, entry *domain.WaitlistEntry) (int32, error)
	// Candidates returns waiting entries whose desired start falls within
	// the notify horizon, in priority order.
	Candidates(ctx context.Context, productID int32, startBefore time.Time, limit int32) ([]domain.WaitlistEntry, error)
	ExpireNotified(ctx context.Context, now time.Time) (int64, error)
}
