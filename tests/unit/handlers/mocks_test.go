package handlers

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"closetshare-backend/internal/domain"
	"closetshare-backend/internal/service"
)

// MockRentalService
type MockRentalService struct {
	mock.Mock
}

func (m *MockRentalService) CreateRental(ctx context.Context, in service.CreateRentalInput) (*domain.Rental, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalService) ConfirmRental(ctx context.Context, ownerID, rentalID int32) (*domain.Rental, string, error) {
	args := m.Called(ctx, ownerID, rentalID)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*domain.Rental), args.String(1), args.Error(2)
}
func (m *MockRentalService) ProcessPayment(ctx context.Context, renterID, rentalID int32) (*domain.Transaction, *domain.Transaction, error) {
	args := m.Called(ctx, renterID, rentalID)
	var p, d *domain.Transaction
	if args.Get(0) != nil {
		p = args.Get(0).(*domain.Transaction)
	}
	if args.Get(1) != nil {
		d = args.Get(1).(*domain.Transaction)
	}
	return p, d, args.Error(2)
}
func (m *MockRentalService) VerifyHandover(ctx context.Context, ownerID, rentalID int32, code string, condition domain.ConditionReport) (*domain.Rental, string, error) {
	args := m.Called(ctx, ownerID, rentalID, code, condition)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*domain.Rental), args.String(1), args.Error(2)
}
func (m *MockRentalService) IssueReturnCode(ctx context.Context, renterID, rentalID int32) (string, error) {
	args := m.Called(ctx, renterID, rentalID)
	return args.String(0), args.Error(1)
}
func (m *MockRentalService) VerifyReturn(ctx context.Context, ownerID, rentalID int32, code string, condition domain.ConditionReport, actualReturn *time.Time) (*domain.Rental, error) {
	args := m.Called(ctx, ownerID, rentalID, code, condition, actualReturn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalService) CancelRental(ctx context.Context, userID, rentalID int32, reason string) (*domain.Rental, error) {
	args := m.Called(ctx, userID, rentalID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalService) GetRental(ctx context.Context, userID, rentalID int32) (*domain.Rental, error) {
	args := m.Called(ctx, userID, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalService) ListRentals(ctx context.Context, userID int32, role string, status domain.RentalStatus, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, userID, role, status, page, pageSize)
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}

// MockLedgerService
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) PostPayment(ctx context.Context, rental *domain.Rental, paymentRef, depositRef string) (*domain.Transaction, *domain.Transaction, error) {
	args := m.Called(ctx, rental, paymentRef, depositRef)
	var p, d *domain.Transaction
	if args.Get(0) != nil {
		p = args.Get(0).(*domain.Transaction)
	}
	if args.Get(1) != nil {
		d = args.Get(1).(*domain.Transaction)
	}
	return p, d, args.Error(2)
}
func (m *MockLedgerService) DepositHeld(ctx context.Context, rentalID int32) (bool, error) {
	args := m.Called(ctx, rentalID)
	return args.Bool(0), args.Error(1)
}
func (m *MockLedgerService) RefundDeposit(ctx context.Context, rentalID int32, amountCents int64) (*domain.Transaction, error) {
	args := m.Called(ctx, rentalID, amountCents)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) PostCharge(ctx context.Context, rental *domain.Rental, txType domain.TransactionType, amountCents int64, description string) (*domain.Transaction, error) {
	args := m.Called(ctx, rental, txType, amountCents, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) WalletBalance(ctx context.Context, ownerID int32) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockLedgerService) ListTransactions(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Transaction, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Transaction), args.Get(1).(int32), args.Error(2)
}
func (m *MockLedgerService) ListRentalTransactions(ctx context.Context, userID, rentalID int32) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID, rentalID)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) GetSummary(ctx context.Context, userID int32) (*domain.LedgerSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerSummary), args.Error(1)
}

// MockOTPService
type MockOTPService struct {
	mock.Mock
}

func (m *MockOTPService) Issue(ctx context.Context, userID int32, purpose domain.OTPPurpose, rentalID *int32, expiresAt time.Time) (string, error) {
	args := m.Called(ctx, userID, purpose, rentalID, expiresAt)
	return args.String(0), args.Error(1)
}
func (m *MockOTPService) Verify(ctx context.Context, userID int32, purpose domain.OTPPurpose, rentalID *int32, code string) error {
	args := m.Called(ctx, userID, purpose, rentalID, code)
	return args.Error(0)
}
func (m *MockOTPService) Resend(ctx context.Context, userID int32, purpose domain.OTPPurpose, rentalID *int32) (string, error) {
	args := m.Called(ctx, userID, purpose, rentalID)
	return args.String(0), args.Error(1)
}

// MockDisputeService
type MockDisputeService struct {
	mock.Mock
}

func (m *MockDisputeService) Raise(ctx context.Context, in service.RaiseDisputeInput) (*domain.Dispute, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dispute), args.Error(1)
}
func (m *MockDisputeService) Resolve(ctx context.Context, in service.ResolveDisputeInput) (*domain.Dispute, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dispute), args.Error(1)
}
func (m *MockDisputeService) AddComment(ctx context.Context, userID, disputeID int32, text string) (*domain.DisputeComment, error) {
	args := m.Called(ctx, userID, disputeID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DisputeComment), args.Error(1)
}
func (m *MockDisputeService) AddEvidence(ctx context.Context, userID, disputeID int32, evidence domain.Evidence) (*domain.Dispute, error) {
	args := m.Called(ctx, userID, disputeID, evidence)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dispute), args.Error(1)
}
func (m *MockDisputeService) GetDispute(ctx context.Context, userID, disputeID int32) (*domain.Dispute, error) {
	args := m.Called(ctx, userID, disputeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dispute), args.Error(1)
}
func (m *MockDisputeService) ListDisputes(ctx context.Context, userID int32) ([]domain.Dispute, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Dispute), args.Error(1)
}

// MockAvailabilityService
type MockAvailabilityService struct {
	mock.Mock
}

func (m *MockAvailabilityService) IsFree(ctx context.Context, productID int32, start, end time.Time, excludeRentalID *int32) (bool, []domain.AvailabilityWindow, error) {
	args := m.Called(ctx, productID, start, end, excludeRentalID)
	return args.Bool(0), args.Get(1).([]domain.AvailabilityWindow), args.Error(2)
}
func (m *MockAvailabilityService) NextAvailableDate(ctx context.Context, productID int32) (*time.Time, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}
func (m *MockAvailabilityService) Status(ctx context.Context, productID int32) (*domain.ProductRentalStatus, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductRentalStatus), args.Error(1)
}
func (m *MockAvailabilityService) Calendar(ctx context.Context, productID int32, from, to time.Time) ([]domain.CalendarDay, error) {
	args := m.Called(ctx, productID, from, to)
	return args.Get(0).([]domain.CalendarDay), args.Error(1)
}

// MockWaitlistService
type MockWaitlistService struct {
	mock.Mock
}

func (m *MockWaitlistService) Join(ctx context.Context, userID, productID int32, desiredStart, desiredEnd time.Time, notes string) (*domain.WaitlistEntry, error) {
	args := m.Called(ctx, userID, productID, desiredStart, desiredEnd, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WaitlistEntry), args.Error(1)
}
func (m *MockWaitlistService) Leave(ctx context.Context, userID, entryID int32) error {
	args := m.Called(ctx, userID, entryID)
	return args.Error(0)
}
func (m *MockWaitlistService) ListForProduct(ctx context.Context, productID int32) ([]domain.WaitlistEntry, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]domain.WaitlistEntry), args.Error(1)
}
func (m *MockWaitlistService) ListForUser(ctx context.Context, userID int32) ([]domain.WaitlistEntry, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.WaitlistEntry), args.Error(1)
}
func (m *MockWaitlistService) NotifyNext(ctx context.Context, productID int32) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

// MockNotificationService
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationService) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}
