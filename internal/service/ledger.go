package service

import (
	"context"
	"fmt"

	"closetshare-backend/internal/domain"
	"closetshare-backend/internal/logger"
	"closetshare-backend/internal/payment"
	"closetshare-backend/internal/repository"
)

type ledgerService struct {
	ledgerRepo repository.LedgerRepository
	rentalRepo repository.RentalRepository
	gateway    payment.Gateway
}

func NewLedgerService(ledgerRepo repository.LedgerRepository, rentalRepo repository.RentalRepository, gateway payment.Gateway) LedgerService {
	return &ledgerService{
		ledgerRepo: ledgerRepo,
		rentalRepo: rentalRepo,
		gateway:    gateway,
	}
}

func (s *ledgerService) PostPayment(ctx context.Context, rental *domain.Rental, paymentRef, depositRef string) (*domain.Transaction, *domain.Transaction, error) {
	payment := &domain.Transaction{
		RentalID:      rental.ID,
		ProductID:     rental.ProductID,
		RenterID:      rental.RenterID,
		OwnerID:       rental.OwnerID,
		AmountCents:   rental.RentalAmountCents,
		Type:          domain.TransactionTypeRentalPayment,
		Status:        domain.TransactionStatusCompleted,
		PaymentMethod: domain.PaymentMethodCard,
		GatewayRef:    paymentRef,
		Description:   fmt.Sprintf("Rental payment for rental %d", rental.ID),
	}
	deposit := &domain.Transaction{
		RentalID:      rental.ID,
		ProductID:     rental.ProductID,
		RenterID:      rental.RenterID,
		OwnerID:       rental.OwnerID,
		AmountCents:   rental.SecurityDepositCents,
		Type:          domain.TransactionTypeSecurityDeposit,
		Status:        domain.TransactionStatusHeld,
		PaymentMethod: domain.PaymentMethodCard,
		GatewayRef:    depositRef,
		Description:   fmt.Sprintf("Security deposit hold for rental %d", rental.ID),
	}

	if err := s.ledgerRepo.CreatePair(ctx, payment, deposit); err != nil {
		return nil, nil, err
	}
	logger.Info("payment posted", "rental_id", rental.ID,
		"payment_cents", payment.AmountCents, "deposit_cents", deposit.AmountCents)
	return payment, deposit, nil
}

func (s *ledgerService) DepositHeld(ctx context.Context, rentalID int32) (bool, error) {
	if _, err := s.ledgerRepo.GetHeldDeposit(ctx, rentalID); err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *ledgerService) RefundDeposit(ctx context.Context, rentalID int32, amountCents int64) (*domain.Transaction, error) {
	held, err := s.ledgerRepo.GetHeldDeposit(ctx, rentalID)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			// Refund without a hold means the books are wrong.
			ierr := domain.ErrIntegrity("no held deposit to refund for rental %d", rentalID)
			logger.Error("ledger integrity violation", "rental_id", rentalID, "error", ierr)
			return nil, ierr
		}
		return nil, err
	}
	if amountCents < 0 || amountCents > held.AmountCents {
		return nil, domain.ErrInvalid("refund amount %d outside held deposit %d", amountCents, held.AmountCents)
	}

	// Release through the gateway before touching the books. A gateway
	// failure here leaves both sides untouched and the refund retryable.
	charge, err := s.gateway.Refund(ctx, held.GatewayRef, amountCents)
	if err != nil {
		return nil, domain.ErrUnavailable("payment gateway refund failed").Wrap(err)
	}

	refund := &domain.Transaction{
		RentalID:      held.RentalID,
		ProductID:     held.ProductID,
		RenterID:      held.RenterID,
		OwnerID:       held.OwnerID,
		AmountCents:   amountCents,
		Type:          domain.TransactionTypeDepositRefund,
		Status:        domain.TransactionStatusCompleted,
		PaymentMethod: held.PaymentMethod,
		GatewayRef:    charge.Reference,
		Description:   fmt.Sprintf("Deposit refund for rental %d", rentalID),
	}

	// Release and refund commit together; a lost release race rolls the
	// refund row back instead of stranding it.
	released, err := s.ledgerRepo.RefundHeldDeposit(ctx, held.ID, refund)
	if err != nil {
		return nil, err
	}
	if !released {
		// Lost the race with a concurrent refund; the gateway side needs
		// reconciliation, so flag it loudly rather than double-pay.
		ierr := domain.ErrIntegrity("deposit for rental %d already released", rentalID)
		logger.Error("ledger integrity violation", "rental_id", rentalID, "deposit_id", held.ID, "error", ierr)
		return nil, ierr
	}

	logger.Info("deposit refunded", "rental_id", rentalID, "amount_cents", amountCents)
	return refund, nil
}

func (s *ledgerService) PostCharge(ctx context.Context, rental *domain.Rental, txType domain.TransactionType, amountCents int64, description string) (*domain.Transaction, error) {
	if txType != domain.TransactionTypeDamageCharge && txType != domain.TransactionTypeLateFee {
		return nil, domain.ErrInvalid("charge type %s not allowed", txType)
	}
	if amountCents <= 0 {
		return nil, domain.ErrInvalid("charge amount must be positive")
	}

	charge := &domain.Transaction{
		RentalID:      rental.ID,
		ProductID:     rental.ProductID,
		RenterID:      rental.RenterID,
		OwnerID:       rental.OwnerID,
		AmountCents:   amountCents,
		Type:          txType,
		Status:        domain.TransactionStatusCompleted,
		PaymentMethod: domain.PaymentMethodDeductedFromDeposit,
		Description:   description,
	}
	if err := s.ledgerRepo.CreateTransaction(ctx, charge); err != nil {
		return nil, err
	}
	logger.Info("charge posted", "rental_id", rental.ID, "type", txType, "amount_cents", amountCents)
	return charge, nil
}

func (s *ledgerService) WalletBalance(ctx context.Context, ownerID int32) (int64, error) {
	return s.ledgerRepo.WalletBalance(ctx, ownerID)
}

func (s *ledgerService) ListTransactions(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Transaction, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.ledgerRepo.ListByUser(ctx, userID, page, pageSize)
}

func (s *ledgerService) ListRentalTransactions(ctx context.Context, userID, rentalID int32) ([]domain.Transaction, error) {
	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if !rental.IsParticipant(userID) {
		return nil, domain.ErrUnauthorized("not a participant in rental %d", rentalID)
	}
	return s.ledgerRepo.ListByRental(ctx, rentalID)
}

func (s *ledgerService) GetSummary(ctx context.Context, userID int32) (*domain.LedgerSummary, error) {
	return s.ledgerRepo.GetSummary(ctx, userID)
}
