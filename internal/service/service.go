package service

import (
	"context"
	"time"

	"closetshare-backend/internal/domain"
)

// CreateRentalInput carries everything needed to open a rental request.
type CreateRentalInput struct {
	RenterID  int32
	ProductID int32
	StartDate time.Time
	EndDate   time.Time
	OptInsurance bool
	Notes     string
}

// RentalService drives the rental lifecycle from request to settlement.
type RentalService interface {
	CreateRental(ctx context.Context, in CreateRentalInput) (*domain.Rental, error)
	// ConfirmRental is the owner accepting the request: it books the
	// calendar window and issues the handover code to the renter. Money
	// does not move here; the renter pays via ProcessPayment. devCode is
	// non-empty outside production.
	ConfirmRental(ctx context.Context, ownerID, rentalID int32) (rental *domain.Rental, devCode string, err error)
	// ProcessPayment is the renter's explicit payment call on a confirmed
	// rental: captures the rental amount (plus premium), holds the
	// deposit, and posts both to the ledger.
	ProcessPayment(ctx context.Context, renterID, rentalID int32) (payment, deposit *domain.Transaction, err error)
	// VerifyHandover is performed by the owner with the renter's code. On
	// success it also issues the return code, valid until the end date
	// plus the grace window; returnDevCode echoes it outside production.
	VerifyHandover(ctx context.Context, ownerID, rentalID int32, code string, condition domain.ConditionReport) (rental *domain.Rental, returnDevCode string, err error)
	// IssueReturnCode reissues the return code on the renter's request,
	// for example after the original expired.
	IssueReturnCode(ctx context.Context, renterID, rentalID int32) (devCode string, err error)
	// VerifyReturn is performed by the owner; it runs settlement.
	// actualReturn backdates the return when the item came back earlier
	// than the verification call; nil means now.
	VerifyReturn(ctx context.Context, ownerID, rentalID int32, code string, condition domain.ConditionReport, actualReturn *time.Time) (*domain.Rental, error)
	CancelRental(ctx context.Context, userID, rentalID int32, reason string) (*domain.Rental, error)
	GetRental(ctx context.Context, userID, rentalID int32) (*domain.Rental, error)
	ListRentals(ctx context.Context, userID int32, role string, status domain.RentalStatus, page, pageSize int32) ([]domain.Rental, int32, error)
}

// AvailabilityService answers calendar questions for a product.
type AvailabilityService interface {
	IsFree(ctx context.Context, productID int32, start, end time.Time, excludeRentalID *int32) (bool, []domain.AvailabilityWindow, error)
	NextAvailableDate(ctx context.Context, productID int32) (*time.Time, error)
	Status(ctx context.Context, productID int32) (*domain.ProductRentalStatus, error)
	Calendar(ctx context.Context, productID int32, from, to time.Time) ([]domain.CalendarDay, error)
}

// OTPService issues and verifies one-time codes. Rental-bound purposes
// carry a rental id; account purposes do not.
type OTPService interface {
	// Issue generates, stores, and delivers a code; it returns the
	// plaintext only for the caller to echo in development mode.
	Issue(ctx context.Context, userID int32, purpose domain.OTPPurpose, rentalID *int32, expiresAt time.Time) (string, error)
	Verify(ctx context.Context, userID int32, purpose domain.OTPPurpose, rentalID *int32, code string) error
	Resend(ctx context.Context, userID int32, purpose domain.OTPPurpose, rentalID *int32) (string, error)
}

// LedgerService owns the append-only money trail.
type LedgerService interface {
	// PostPayment records the completed rental payment and the held
	// deposit as one atomic pair.
	PostPayment(ctx context.Context, rental *domain.Rental, paymentRef, depositRef string) (payment, deposit *domain.Transaction, err error)
	// RefundDeposit releases the held deposit, partially or in full. The
	// gateway hold is released alongside the ledger entry.
	RefundDeposit(ctx context.Context, rentalID int32, amountCents int64) (*domain.Transaction, error)
	// DepositHeld reports whether a deposit entry is still in HELD state
	// for the rental, i.e. whether payment has been made and not settled.
	DepositHeld(ctx context.Context, rentalID int32) (bool, error)
	PostCharge(ctx context.Context, rental *domain.Rental, txType domain.TransactionType, amountCents int64, description string) (*domain.Transaction, error)
	WalletBalance(ctx context.Context, ownerID int32) (int64, error)
	ListTransactions(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Transaction, int32, error)
	ListRentalTransactions(ctx context.Context, userID, rentalID int32) ([]domain.Transaction, error)
	GetSummary(ctx context.Context, userID int32) (*domain.LedgerSummary, error)
}

// RaiseDisputeInput opens a dispute on a rental.
type RaiseDisputeInput struct {
	RentalID    int32
	RaisedBy    int32
	Type        domain.DisputeType
	Description string
	Evidence    []domain.Evidence
	Priority    domain.DisputePriority
}

// ResolveDisputeInput records an operator decision.
type ResolveDisputeInput struct {
	DisputeID               int32
	ResolvedBy              int32
	Decision                string
	CompensationAmountCents int64
	Notes                   string
}

type DisputeService interface {
	Raise(ctx context.Context, in RaiseDisputeInput) (*domain.Dispute, error)
	Resolve(ctx context.Context, in ResolveDisputeInput) (*domain.Dispute, error)
	AddComment(ctx context.Context, userID, disputeID int32, text string) (*domain.DisputeComment, error)
	AddEvidence(ctx context.Context, userID, disputeID int32, evidence domain.Evidence) (*domain.Dispute, error)
	GetDispute(ctx context.Context, userID, disputeID int32) (*domain.Dispute, error)
	ListDisputes(ctx context.Context, userID int32) ([]domain.Dispute, error)
}

type WaitlistService interface {
	Join(ctx context.Context, userID, productID int32, desiredStart, desiredEnd time.Time, notes string) (*domain.WaitlistEntry, error)
	Leave(ctx context.Context, userID, entryID int32) error
	ListForProduct(ctx context.Context, productID int32) ([]domain.WaitlistEntry, error)
	ListForUser(ctx context.Context, userID int32) ([]domain.WaitlistEntry, error)
	// NotifyNext moves the head of the queue to NOTIFIED and starts its
	// booking window. Called when a product frees up.
	NotifyNext(ctx context.Context, productID int32) error
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

// EmailService delivers lifecycle emails. Implementations must be safe for
// fire-and-forget use; callers log failures and move on.
type EmailService interface {
	SendOTP(ctx context.Context, toEmail, toName, code string, purpose domain.OTPPurpose, expiresAt time.Time) error
	SendRentalConfirmed(ctx context.Context, toEmail, toName, productTitle string, start, end time.Time) error
	SendHandoverVerified(ctx context.Context, toEmail, toName, productTitle string) error
	SendReturnVerified(ctx context.Context, toEmail, toName, productTitle string, refundCents, lateFeeCents, damageCents int64) error
	SendDisputeRaised(ctx context.Context, toEmail, toName, productTitle, disputeType string) error
	SendWaitlistSlotOpen(ctx context.Context, toEmail, toName, productTitle string, expiresAt time.Time) error
	SendOverdueReminder(ctx context.Context, toEmail, toName, productTitle string, daysLate int32) error
}
