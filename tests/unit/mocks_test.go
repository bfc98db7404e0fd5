package unit

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"closetshare-backend/internal/domain"
	"closetshare-backend/internal/payment"
	"closetshare-backend/internal/repository"
)

// MockRentalRepo
type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) Create(ctx context.Context, rental *domain.Rental) error {
	args := m.Called(ctx, rental)
	return args.Error(0)
}
func (m *MockRentalRepo) GetByID(ctx context.Context, id int32) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) Update(ctx context.Context, rental *domain.Rental) error {
	args := m.Called(ctx, rental)
	return args.Error(0)
}
func (m *MockRentalRepo) ListByParticipant(ctx context.Context, userID int32, role repository.RentalRole, status domain.RentalStatus, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, userID, role, status, page, pageSize)
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalRepo) AddCharge(ctx context.Context, charge *domain.AdditionalCharge) error {
	args := m.Called(ctx, charge)
	return args.Error(0)
}

// MockCalendarRepo
type MockCalendarRepo struct {
	mock.Mock
}

func (m *MockCalendarRepo) CreateWindow(ctx context.Context, window *domain.AvailabilityWindow) error {
	args := m.Called(ctx, window)
	return args.Error(0)
}
func (m *MockCalendarRepo) FindOverlapping(ctx context.Context, productID int32, start, end time.Time, excludeRentalID *int32) ([]domain.AvailabilityWindow, error) {
	args := m.Called(ctx, productID, start, end, excludeRentalID)
	return args.Get(0).([]domain.AvailabilityWindow), args.Error(1)
}
func (m *MockCalendarRepo) UpdateStatusByRental(ctx context.Context, rentalID int32, status domain.WindowStatus) error {
	args := m.Called(ctx, rentalID, status)
	return args.Error(0)
}
func (m *MockCalendarRepo) CurrentActive(ctx context.Context, productID int32, now time.Time) (*domain.AvailabilityWindow, error) {
	args := m.Called(ctx, productID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AvailabilityWindow), args.Error(1)
}
func (m *MockCalendarRepo) Upcoming(ctx context.Context, productID int32, from time.Time, limit int32) ([]domain.AvailabilityWindow, error) {
	args := m.Called(ctx, productID, from, limit)
	return args.Get(0).([]domain.AvailabilityWindow), args.Error(1)
}
func (m *MockCalendarRepo) MaxEndDate(ctx context.Context, productID int32) (*time.Time, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}
func (m *MockCalendarRepo) ListRange(ctx context.Context, productID int32, from, to time.Time) ([]domain.AvailabilityWindow, error) {
	args := m.Called(ctx, productID, from, to)
	return args.Get(0).([]domain.AvailabilityWindow), args.Error(1)
}

// MockOTPRepo
type MockOTPRepo struct {
	mock.Mock
}

func (m *MockOTPRepo) Replace(ctx context.Context, code *domain.OneTimeCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}
func (m *MockOTPRepo) GetLive(ctx context.Context, userID int32, purpose domain.OTPPurpose, rentalID *int32) (*domain.OneTimeCode, error) {
	args := m.Called(ctx, userID, purpose, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OneTimeCode), args.Error(1)
}
func (m *MockOTPRepo) IncrementAttempts(ctx context.Context, id int32) (int32, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockOTPRepo) MarkVerified(ctx context.Context, id int32, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}
func (m *MockOTPRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockOTPRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockOTPRepo) CountIssuedSince(ctx context.Context, userID int32, purpose domain.OTPPurpose, since time.Time) (int32, error) {
	args := m.Called(ctx, userID, purpose, since)
	return args.Get(0).(int32), args.Error(1)
}

// MockLedgerRepo
type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) CreateTransaction(ctx context.Context, tx *domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
func (m *MockLedgerRepo) CreatePair(ctx context.Context, paymentTx, deposit *domain.Transaction) error {
	args := m.Called(ctx, paymentTx, deposit)
	return args.Error(0)
}
func (m *MockLedgerRepo) GetHeldDeposit(ctx context.Context, rentalID int32) (*domain.Transaction, error) {
	args := m.Called(ctx, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerRepo) RefundHeldDeposit(ctx context.Context, depositID int32, refund *domain.Transaction) (bool, error) {
	args := m.Called(ctx, depositID, refund)
	if args.Bool(0) {
		refund.ID = 999
	}
	return args.Bool(0), args.Error(1)
}
func (m *MockLedgerRepo) ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Transaction, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Transaction), args.Get(1).(int32), args.Error(2)
}
func (m *MockLedgerRepo) ListByRental(ctx context.Context, rentalID int32) ([]domain.Transaction, error) {
	args := m.Called(ctx, rentalID)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockLedgerRepo) WalletBalance(ctx context.Context, ownerID int32) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockLedgerRepo) GetSummary(ctx context.Context, userID int32) (*domain.LedgerSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerSummary), args.Error(1)
}

// MockDisputeRepo
type MockDisputeRepo struct {
	mock.Mock
}

func (m *MockDisputeRepo) Create(ctx context.Context, dispute *domain.Dispute) error {
	args := m.Called(ctx, dispute)
	return args.Error(0)
}
func (m *MockDisputeRepo) GetByID(ctx context.Context, id int32) (*domain.Dispute, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dispute), args.Error(1)
}
func (m *MockDisputeRepo) Update(ctx context.Context, dispute *domain.Dispute) error {
	args := m.Called(ctx, dispute)
	return args.Error(0)
}
func (m *MockDisputeRepo) ListByUser(ctx context.Context, userID int32) ([]domain.Dispute, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Dispute), args.Error(1)
}
func (m *MockDisputeRepo) AddComment(ctx context.Context, comment *domain.DisputeComment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}
func (m *MockDisputeRepo) HasOpenDispute(ctx context.Context, rentalID int32) (bool, error) {
	args := m.Called(ctx, rentalID)
	return args.Bool(0), args.Error(1)
}

// MockProductRepo
type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) GetByID(ctx context.Context, id int32) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockProductRepo) SetAvailability(ctx context.Context, id int32, available bool) error {
	args := m.Called(ctx, id, available)
	return args.Error(0)
}
func (m *MockProductRepo) AdjustWaitlistCount(ctx context.Context, id int32, delta int32) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) SetVerified(ctx context.Context, id int32, field domain.OTPPurpose) error {
	args := m.Called(ctx, id, field)
	return args.Error(0)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockWaitlistRepo
type MockWaitlistRepo struct {
	mock.Mock
}

func (m *MockWaitlistRepo) Create(ctx context.Context, entry *domain.WaitlistEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
func (m *MockWaitlistRepo) GetByID(ctx context.Context, id int32) (*domain.WaitlistEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WaitlistEntry), args.Error(1)
}
func (m *MockWaitlistRepo) GetWaiting(ctx context.Context, productID, userID int32) (*domain.WaitlistEntry, error) {
	args := m.Called(ctx, productID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WaitlistEntry), args.Error(1)
}
func (m *MockWaitlistRepo) Update(ctx context.Context, entry *domain.WaitlistEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
func (m *MockWaitlistRepo) ListByProduct(ctx context.Context, productID int32) ([]domain.WaitlistEntry, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]domain.WaitlistEntry), args.Error(1)
}
func (m *MockWaitlistRepo) ListByUser(ctx context.Context, userID int32) ([]domain.WaitlistEntry, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.WaitlistEntry), args.Error(1)
}
func (m *MockWaitlistRepo) CountWaiting(ctx context.Context, productID int32) (int32, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockWaitlistRepo) Position(ctx context.Context, entry *domain.WaitlistEntry) (int32, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockWaitlistRepo) Candidates(ctx context.Context, productID int32, startBefore time.Time, limit int32) ([]domain.WaitlistEntry, error) {
	args := m.Called(ctx, productID, startBefore, limit)
	return args.Get(0).([]domain.WaitlistEntry), args.Error(1)
}
func (m *MockWaitlistRepo) ExpireNotified(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendOTP(ctx context.Context, toEmail, toName, code string, purpose domain.OTPPurpose, expiresAt time.Time) error {
	args := m.Called(ctx, toEmail, toName, code, purpose, expiresAt)
	return args.Error(0)
}
func (m *MockEmailService) SendRentalConfirmed(ctx context.Context, toEmail, toName, productTitle string, start, end time.Time) error {
	args := m.Called(ctx, toEmail, toName, productTitle, start, end)
	return args.Error(0)
}
func (m *MockEmailService) SendHandoverVerified(ctx context.Context, toEmail, toName, productTitle string) error {
	args := m.Called(ctx, toEmail, toName, productTitle)
	return args.Error(0)
}
func (m *MockEmailService) SendReturnVerified(ctx context.Context, toEmail, toName, productTitle string, refundCents, lateFeeCents, damageCents int64) error {
	args := m.Called(ctx, toEmail, toName, productTitle, refundCents, lateFeeCents, damageCents)
	return args.Error(0)
}
func (m *MockEmailService) SendDisputeRaised(ctx context.Context, toEmail, toName, productTitle, disputeType string) error {
	args := m.Called(ctx, toEmail, toName, productTitle, disputeType)
	return args.Error(0)
}
func (m *MockEmailService) SendWaitlistSlotOpen(ctx context.Context, toEmail, toName, productTitle string, expiresAt time.Time) error {
	args := m.Called(ctx, toEmail, toName, productTitle, expiresAt)
	return args.Error(0)
}
func (m *MockEmailService) SendOverdueReminder(ctx context.Context, toEmail, toName, productTitle string, daysLate int32) error {
	args := m.Called(ctx, toEmail, toName, productTitle, daysLate)
	return args.Error(0)
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

// MockGateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Capture(ctx context.Context, userID int32, amountCents int64, description string) (*payment.Charge, error) {
	args := m.Called(ctx, userID, amountCents, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Charge), args.Error(1)
}
func (m *MockGateway) Hold(ctx context.Context, userID int32, amountCents int64, description string) (*payment.Charge, error) {
	args := m.Called(ctx, userID, amountCents, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Charge), args.Error(1)
}
func (m *MockGateway) Refund(ctx context.Context, reference string, amountCents int64) (*payment.Charge, error) {
	args := m.Called(ctx, reference, amountCents)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Charge), args.Error(1)
}
