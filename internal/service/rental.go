package service

import (
	"context"
	"fmt"
	"time"

	"closetshare-backend/internal/config"
	"closetshare-backend/internal/domain"
	"closetshare-backend/internal/logger"
	"closetshare-backend/internal/payment"
	"closetshare-backend/internal/repository"
	"closetshare-backend/internal/utils"
)

type rentalService struct {
	rentalRepo   repository.RentalRepository
	calendarRepo repository.CalendarRepository
	productRepo  repository.ProductRepository
	userRepo     repository.UserRepository
	disputeRepo  repository.DisputeRepository
	noteRepo     repository.NotificationRepository

	ledgerSvc   LedgerService
	otpSvc      OTPService
	waitlistSvc WaitlistService
	emailSvc    EmailService
	gateway     payment.Gateway

	cfg        *config.Config
	production bool
}

func NewRentalService(
	rentalRepo repository.RentalRepository,
	calendarRepo repository.CalendarRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	disputeRepo repository.DisputeRepository,
	noteRepo repository.NotificationRepository,
	ledgerSvc LedgerService,
	otpSvc OTPService,
	waitlistSvc WaitlistService,
	emailSvc EmailService,
	gateway payment.Gateway,
	cfg *config.Config,
) RentalService {
	return &rentalService{
		rentalRepo:   rentalRepo,
		calendarRepo: calendarRepo,
		productRepo:  productRepo,
		userRepo:     userRepo,
		disputeRepo:  disputeRepo,
		noteRepo:     noteRepo,
		ledgerSvc:    ledgerSvc,
		otpSvc:       otpSvc,
		waitlistSvc:  waitlistSvc,
		emailSvc:     emailSvc,
		gateway:      gateway,
		cfg:          cfg,
		production:   cfg.IsProduction(),
	}
}

func (s *rentalService) CreateRental(ctx context.Context, in CreateRentalInput) (*domain.Rental, error) {
	now := time.Now()
	if !in.EndDate.After(in.StartDate) {
		return nil, domain.ErrInvalid("end date must be after start date")
	}
	if in.StartDate.Before(now.Add(time.Duration(s.cfg.Rental.MinAdvanceHours) * time.Hour)) {
		return nil, domain.ErrInvalid("start date must be at least %d hours from now", s.cfg.Rental.MinAdvanceHours)
	}

	days := utils.RentalDays(in.StartDate, in.EndDate)
	if days > s.cfg.Rental.MaxDurationDays {
		return nil, domain.ErrInvalid("rental duration %d days exceeds the %d day maximum", days, s.cfg.Rental.MaxDurationDays)
	}

	product, err := s.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product.OwnerID == in.RenterID {
		return nil, domain.ErrPreconditionFailed("cannot rent your own item")
	}

	renter, err := s.userRepo.GetByID(ctx, in.RenterID)
	if err != nil {
		return nil, err
	}
	if s.cfg.Rental.RequireKYC && !renter.KYCVerified {
		return nil, domain.ErrPreconditionFailed("identity verification is required before renting")
	}

	conflicts, err := s.calendarRepo.FindOverlapping(ctx, in.ProductID, in.StartDate, in.EndDate, nil)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, domain.ErrConflict(conflicts, "product %d is already booked for the requested dates", in.ProductID)
	}

	rentalAmount := product.PricePerDayCents * int64(days)
	deposit := product.SecurityDepositCents
	if deposit == 0 {
		deposit = utils.DefaultDeposit(rentalAmount)
	}
	var premium int64
	if in.OptInsurance {
		premium = utils.InsurancePremium(rentalAmount, s.cfg.Payment.InsurancePremiumPct)
	}

	rental := &domain.Rental{
		ProductID:            in.ProductID,
		RenterID:             in.RenterID,
		OwnerID:              product.OwnerID,
		StartDate:            in.StartDate,
		EndDate:              in.EndDate,
		Status:               domain.RentalStatusPending,
		RentalAmountCents:    rentalAmount,
		SecurityDepositCents: deposit,
		// totalPaid is an amount snapshot fixed at creation, not a record
		// of money movement.
		TotalPaidCents: rentalAmount + deposit + premium,
		Damage:         domain.DamageAssessment{Status: domain.DamageStatusNone},
		Notes:          in.Notes,
	}
	if in.OptInsurance {
		rental.Insurance = domain.Insurance{
			Opted:         true,
			PremiumPct:    s.cfg.Payment.InsurancePremiumPct,
			PremiumCents:  premium,
			CoverageCents: deposit,
		}
	}

	if err := s.rentalRepo.Create(ctx, rental); err != nil {
		return nil, err
	}

	logger.Info("rental created", "rental_id", rental.ID, "product_id", in.ProductID,
		"renter_id", in.RenterID, "amount_cents", rentalAmount, "deposit_cents", deposit)
	return rental, nil
}

func (s *rentalService) ConfirmRental(ctx context.Context, ownerID, rentalID int32) (*domain.Rental, string, error) {
	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, "", err
	}
	if rental.OwnerID != ownerID {
		return nil, "", domain.ErrUnauthorized("only the owner can confirm the rental")
	}
	if rental.Status != domain.RentalStatusPending {
		return nil, "", domain.ErrPreconditionFailed("rental %d is %s, expected PENDING", rentalID, rental.Status)
	}

	// Book the calendar first: the window insert is the atomic gate
	// against double booking, and failing here costs nothing.
	window := &domain.AvailabilityWindow{
		ProductID: rental.ProductID,
		RentalID:  rental.ID,
		RenterID:  rental.RenterID,
		StartDate: rental.StartDate,
		EndDate:   rental.EndDate,
		Status:    domain.WindowStatusBooked,
	}
	if err := s.calendarRepo.CreateWindow(ctx, window); err != nil {
		return nil, "", err
	}

	expiresAt := expiryFor(s.cfg.OTP, domain.OTPPurposeHandover, rental.EndDate, time.Now())
	code, err := s.otpSvc.Issue(ctx, rental.RenterID, domain.OTPPurposeHandover, &rental.ID, expiresAt)
	if err != nil {
		return nil, "", err
	}

	rental.Status = domain.RentalStatusConfirmed
	rental.HandoverCode = domain.CodeState{Issued: true, ExpiresAt: &expiresAt}
	if err := s.rentalRepo.Update(ctx, rental); err != nil {
		return nil, "", err
	}

	s.notifyParticipants(ctx, rental, "Rental confirmed",
		fmt.Sprintf("Rental %d is confirmed for %s to %s", rental.ID,
			rental.StartDate.Format("Jan 2"), rental.EndDate.Format("Jan 2")))
	s.emailConfirmed(ctx, rental)

	logger.Info("rental confirmed", "rental_id", rental.ID, "owner_id", ownerID)

	devCode := ""
	if !s.production {
		devCode = code
	}
	return rental, devCode, nil
}

func (s *rentalService) ProcessPayment(ctx context.Context, renterID, rentalID int32) (*domain.Transaction, *domain.Transaction, error) {
	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, nil, err
	}
	if rental.RenterID != renterID {
		return nil, nil, domain.ErrUnauthorized("only the renter can pay for the rental")
	}
	if rental.Status != domain.RentalStatusConfirmed {
		return nil, nil, domain.ErrPreconditionFailed("rental %d is %s, expected CONFIRMED", rentalID, rental.Status)
	}

	held, err := s.ledgerSvc.DepositHeld(ctx, rental.ID)
	if err != nil {
		return nil, nil, err
	}
	if held {
		return nil, nil, domain.ErrConflict(nil, "rental %d is already paid", rentalID)
	}

	chargeCents := rental.RentalAmountCents + rental.Insurance.PremiumCents
	charge, err := s.gateway.Capture(ctx, renterID, chargeCents, fmt.Sprintf("Rental %d", rental.ID))
	if err != nil {
		return nil, nil, domain.ErrUnavailable("payment failed").Wrap(err)
	}
	hold, err := s.gateway.Hold(ctx, renterID, rental.SecurityDepositCents, fmt.Sprintf("Deposit for rental %d", rental.ID))
	if err != nil {
		return nil, nil, domain.ErrUnavailable("deposit hold failed").Wrap(err)
	}

	payment, deposit, err := s.ledgerSvc.PostPayment(ctx, rental, charge.Reference, hold.Reference)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("rental paid", "rental_id", rental.ID,
		"payment_cents", payment.AmountCents, "deposit_cents", deposit.AmountCents)
	return payment, deposit, nil
}

func (s *rentalService) VerifyHandover(ctx context.Context, ownerID, rentalID int32, code string, condition domain.ConditionReport) (*domain.Rental, string, error) {
	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, "", err
	}
	if rental.OwnerID != ownerID {
		return nil, "", domain.ErrUnauthorized("only the owner can verify the handover")
	}
	if rental.Status != domain.RentalStatusConfirmed {
		return nil, "", domain.ErrPreconditionFailed("rental %d is %s, expected CONFIRMED", rentalID, rental.Status)
	}
	if condition.Rating < 1 || condition.Rating > 5 {
		return nil, "", domain.ErrInvalid("condition rating must be between 1 and 5")
	}

	if err := s.otpSvc.Verify(ctx, rental.RenterID, domain.OTPPurposeHandover, &rental.ID, code); err != nil {
		return nil, "", err
	}

	now := time.Now()
	condition.VerifiedBy = ownerID
	condition.VerifiedAt = &now

	// The return code is part of the handover transition: it lives until
	// the end date plus the grace window.
	returnExpiry := expiryFor(s.cfg.OTP, domain.OTPPurposeReturn, rental.EndDate, now)
	returnCode, err := s.otpSvc.Issue(ctx, rental.RenterID, domain.OTPPurposeReturn, &rental.ID, returnExpiry)
	if err != nil {
		return nil, "", err
	}

	rental.Status = domain.RentalStatusActive
	rental.ConditionAtHandover = &condition
	rental.HandoverCode.Verified = true
	rental.HandoverCode.VerifiedAt = &now
	rental.ReturnCode = domain.CodeState{Issued: true, ExpiresAt: &returnExpiry}
	if err := s.rentalRepo.Update(ctx, rental); err != nil {
		return nil, "", err
	}

	if err := s.calendarRepo.UpdateStatusByRental(ctx, rental.ID, domain.WindowStatusActive); err != nil {
		return nil, "", err
	}
	if err := s.productRepo.SetAvailability(ctx, rental.ProductID, false); err != nil {
		logger.Error("failed to flag product unavailable", "product_id", rental.ProductID, "error", err)
	}

	s.notifyParticipants(ctx, rental, "Handover verified",
		fmt.Sprintf("Rental %d is now active", rental.ID))
	s.emailHandover(ctx, rental)

	logger.Info("handover verified", "rental_id", rental.ID, "condition", condition.Rating)

	devCode := ""
	if !s.production {
		devCode = returnCode
	}
	return rental, devCode, nil
}

func (s *rentalService) IssueReturnCode(ctx context.Context, renterID, rentalID int32) (string, error) {
	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return "", err
	}
	if rental.RenterID != renterID {
		return "", domain.ErrUnauthorized("only the renter can start the return")
	}
	if rental.Status != domain.RentalStatusActive {
		return "", domain.ErrPreconditionFailed("rental %d is %s, expected ACTIVE", rentalID, rental.Status)
	}

	now := time.Now()
	expiresAt := expiryFor(s.cfg.OTP, domain.OTPPurposeReturn, rental.EndDate, now)
	if expiresAt.Before(now) {
		// Returns past the grace window still need a usable code.
		expiresAt = now.Add(time.Duration(s.cfg.OTP.ReturnGraceHours) * time.Hour)
	}

	code, err := s.otpSvc.Issue(ctx, rental.RenterID, domain.OTPPurposeReturn, &rental.ID, expiresAt)
	if err != nil {
		return "", err
	}

	rental.ReturnCode = domain.CodeState{Issued: true, ExpiresAt: &expiresAt}
	if err := s.rentalRepo.Update(ctx, rental); err != nil {
		return "", err
	}

	logger.Info("return code issued", "rental_id", rental.ID, "expires_at", expiresAt)
	if s.production {
		return "", nil
	}
	return code, nil
}

func (s *rentalService) VerifyReturn(ctx context.Context, ownerID, rentalID int32, code string, condition domain.ConditionReport, actualReturn *time.Time) (*domain.Rental, error) {
	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.OwnerID != ownerID {
		return nil, domain.ErrUnauthorized("only the owner can verify the return")
	}
	if rental.Status != domain.RentalStatusActive {
		return nil, domain.ErrPreconditionFailed("rental %d is %s, expected ACTIVE", rentalID, rental.Status)
	}
	if rental.ConditionAtHandover == nil {
		return nil, domain.ErrPreconditionFailed("rental %d has no handover condition on record", rentalID)
	}
	if condition.Rating < 1 || condition.Rating > 5 {
		return nil, domain.ErrInvalid("condition rating must be between 1 and 5")
	}

	if err := s.otpSvc.Verify(ctx, rental.RenterID, domain.OTPPurposeReturn, &rental.ID, code); err != nil {
		return nil, err
	}

	now := time.Now()
	condition.VerifiedBy = ownerID
	condition.VerifiedAt = &now

	// The caller may backdate the return to when the item actually came
	// back; late fees are computed against that date, not the call time.
	returnedAt := now
	if actualReturn != nil {
		if actualReturn.Before(rental.StartDate) {
			return nil, domain.ErrInvalid("actual return date cannot precede the rental start")
		}
		returnedAt = *actualReturn
	}

	settlement := utils.ComputeSettlement(utils.SettlementInput{
		HandoverRating:          rental.ConditionAtHandover.Rating,
		ReturnRating:            condition.Rating,
		RentalAmountCents:       rental.RentalAmountCents,
		SecurityDepositCents:    rental.SecurityDepositCents,
		StartDate:               rental.StartDate,
		EndDate:                 rental.EndDate,
		ActualReturnDate:        returnedAt,
		OtherUnpaidChargesCents: rental.UnpaidChargesCents(),
	})

	// A charge counts as paid only when the deposit actually absorbs it.
	deductionTaken := rental.SecurityDepositCents >=
		settlement.DamageEstimateCents+settlement.LateFeeCents+rental.UnpaidChargesCents()

	rental.Status = domain.RentalStatusCompleted
	rental.ActualReturnDate = &returnedAt
	rental.ConditionAtReturn = &condition
	rental.ReturnCode.Verified = true
	rental.ReturnCode.VerifiedAt = &now

	if settlement.HasDamage {
		rental.Damage = domain.DamageAssessment{
			HasDamage:          true,
			Description:        condition.Notes,
			Photos:             condition.Photos,
			EstimatedCostCents: settlement.DamageEstimateCents,
			Status:             domain.DamageStatusReported,
		}
		charge := &domain.AdditionalCharge{
			RentalID:    rental.ID,
			Type:        domain.ChargeTypeDamage,
			AmountCents: settlement.DamageEstimateCents,
			Description: fmt.Sprintf("Condition dropped %d points on return", settlement.ConditionDrop),
			Paid:        deductionTaken,
		}
		if err := s.rentalRepo.AddCharge(ctx, charge); err != nil {
			return nil, err
		}
		if _, err := s.ledgerSvc.PostCharge(ctx, rental, domain.TransactionTypeDamageCharge,
			settlement.DamageEstimateCents, charge.Description); err != nil {
			return nil, err
		}
	}

	if settlement.LateFeeCents > 0 {
		charge := &domain.AdditionalCharge{
			RentalID:    rental.ID,
			Type:        domain.ChargeTypeLateFee,
			AmountCents: settlement.LateFeeCents,
			Description: fmt.Sprintf("Returned %d day(s) late", settlement.DaysLate),
			Paid:        deductionTaken,
		}
		if err := s.rentalRepo.AddCharge(ctx, charge); err != nil {
			return nil, err
		}
		if _, err := s.ledgerSvc.PostCharge(ctx, rental, domain.TransactionTypeLateFee,
			settlement.LateFeeCents, charge.Description); err != nil {
			return nil, err
		}
	}

	disputeOpen, err := s.disputeRepo.HasOpenDispute(ctx, rental.ID)
	if err != nil {
		return nil, err
	}
	if disputeOpen {
		// Charges still post, but the deposit stays held until the
		// dispute is resolved by an operator.
		rental.DepositRefunded = false
		rental.DepositRefundAmountCents = 0
		logger.Info("deposit refund suspended by open dispute", "rental_id", rental.ID)
	} else if settlement.DepositRefundAmountCents > 0 {
		if _, err := s.ledgerSvc.RefundDeposit(ctx, rental.ID, settlement.DepositRefundAmountCents); err != nil {
			return nil, err
		}
		rental.DepositRefunded = true
		rental.DepositRefundAmountCents = settlement.DepositRefundAmountCents
	} else {
		// Deposit fully consumed by charges: release the hold for zero.
		if _, err := s.ledgerSvc.RefundDeposit(ctx, rental.ID, 0); err != nil {
			return nil, err
		}
		rental.DepositRefunded = false
		rental.DepositRefundAmountCents = 0
	}

	if err := s.rentalRepo.Update(ctx, rental); err != nil {
		return nil, err
	}

	if err := s.calendarRepo.UpdateStatusByRental(ctx, rental.ID, domain.WindowStatusCompleted); err != nil {
		return nil, err
	}
	if err := s.productRepo.SetAvailability(ctx, rental.ProductID, true); err != nil {
		logger.Error("failed to flag product available", "product_id", rental.ProductID, "error", err)
	}
	if err := s.waitlistSvc.NotifyNext(ctx, rental.ProductID); err != nil {
		logger.Error("failed to notify waitlist", "product_id", rental.ProductID, "error", err)
	}

	s.notifyParticipants(ctx, rental, "Return verified",
		fmt.Sprintf("Rental %d is complete. Deposit refund: %d cents", rental.ID, rental.DepositRefundAmountCents))
	s.emailReturn(ctx, rental, settlement)

	logger.Info("return verified", "rental_id", rental.ID,
		"condition_drop", settlement.ConditionDrop, "late_fee_cents", settlement.LateFeeCents,
		"damage_cents", settlement.DamageEstimateCents, "refund_cents", rental.DepositRefundAmountCents)
	return rental, nil
}

func (s *rentalService) CancelRental(ctx context.Context, userID, rentalID int32, reason string) (*domain.Rental, error) {
	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if !rental.IsParticipant(userID) {
		return nil, domain.ErrUnauthorized("not a participant in rental %d", rentalID)
	}
	if !rental.Status.CanTransitionTo(domain.RentalStatusCancelled) {
		return nil, domain.ErrPreconditionFailed("rental %d is %s and can no longer be cancelled", rentalID, rental.Status)
	}

	wasConfirmed := rental.Status == domain.RentalStatusConfirmed

	paid, err := s.ledgerSvc.DepositHeld(ctx, rental.ID)
	if err != nil {
		return nil, err
	}

	rental.Status = domain.RentalStatusCancelled
	rental.CancellationReason = reason
	if err := s.rentalRepo.Update(ctx, rental); err != nil {
		return nil, err
	}

	if err := s.calendarRepo.UpdateStatusByRental(ctx, rental.ID, domain.WindowStatusCancelled); err != nil {
		return nil, err
	}

	if paid {
		// The renter already paid after confirmation; give the deposit
		// back in full.
		if _, err := s.ledgerSvc.RefundDeposit(ctx, rental.ID, rental.SecurityDepositCents); err != nil {
			return nil, err
		}
		rental.DepositRefunded = true
		rental.DepositRefundAmountCents = rental.SecurityDepositCents
		if err := s.rentalRepo.Update(ctx, rental); err != nil {
			return nil, err
		}
	}
	if wasConfirmed {
		if err := s.waitlistSvc.NotifyNext(ctx, rental.ProductID); err != nil {
			logger.Error("failed to notify waitlist", "product_id", rental.ProductID, "error", err)
		}
	}

	s.notifyParticipants(ctx, rental, "Rental cancelled",
		fmt.Sprintf("Rental %d was cancelled: %s", rental.ID, reason))

	logger.Info("rental cancelled", "rental_id", rental.ID, "by_user", userID, "reason", reason)
	return rental, nil
}

func (s *rentalService) GetRental(ctx context.Context, userID, rentalID int32) (*domain.Rental, error) {
	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if !rental.IsParticipant(userID) {
		return nil, domain.ErrUnauthorized("not a participant in rental %d", rentalID)
	}
	return rental, nil
}

func (s *rentalService) ListRentals(ctx context.Context, userID int32, role string, status domain.RentalStatus, page, pageSize int32) ([]domain.Rental, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	var r repository.RentalRole
	switch role {
	case "renter":
		r = repository.RentalRoleRenter
	case "owner":
		r = repository.RentalRoleOwner
	default:
		r = repository.RentalRoleAny
	}
	return s.rentalRepo.ListByParticipant(ctx, userID, r, status, page, pageSize)
}

// notifyParticipants writes an in-app notification for both sides.
func (s *rentalService) notifyParticipants(ctx context.Context, rental *domain.Rental, title, message string) {
	for _, uid := range []int32{rental.RenterID, rental.OwnerID} {
		note := &domain.Notification{
			UserID:  uid,
			Title:   title,
			Message: message,
			Attributes: map[string]string{
				"rental_id": fmt.Sprintf("%d", rental.ID),
			},
		}
		if err := s.noteRepo.Create(ctx, note); err != nil {
			logger.Error("failed to create notification", "user_id", uid, "error", err)
		}
	}
}

func (s *rentalService) emailConfirmed(ctx context.Context, rental *domain.Rental) {
	product, renter, owner := s.loadParties(ctx, rental)
	if product == nil {
		return
	}
	if renter != nil {
		_ = s.emailSvc.SendRentalConfirmed(ctx, renter.Email, renter.Name, product.Title, rental.StartDate, rental.EndDate)
	}
	if owner != nil {
		_ = s.emailSvc.SendRentalConfirmed(ctx, owner.Email, owner.Name, product.Title, rental.StartDate, rental.EndDate)
	}
}

func (s *rentalService) emailHandover(ctx context.Context, rental *domain.Rental) {
	product, renter, owner := s.loadParties(ctx, rental)
	if product == nil {
		return
	}
	if renter != nil {
		_ = s.emailSvc.SendHandoverVerified(ctx, renter.Email, renter.Name, product.Title)
	}
	if owner != nil {
		_ = s.emailSvc.SendHandoverVerified(ctx, owner.Email, owner.Name, product.Title)
	}
}

func (s *rentalService) emailReturn(ctx context.Context, rental *domain.Rental, settlement utils.Settlement) {
	product, renter, owner := s.loadParties(ctx, rental)
	if product == nil {
		return
	}
	if renter != nil {
		_ = s.emailSvc.SendReturnVerified(ctx, renter.Email, renter.Name, product.Title,
			rental.DepositRefundAmountCents, settlement.LateFeeCents, settlement.DamageEstimateCents)
	}
	if owner != nil {
		_ = s.emailSvc.SendReturnVerified(ctx, owner.Email, owner.Name, product.Title,
			rental.DepositRefundAmountCents, settlement.LateFeeCents, settlement.DamageEstimateCents)
	}
}

func (s *rentalService) loadParties(ctx context.Context, rental *domain.Rental) (*domain.Product, *domain.User, *domain.User) {
	product, err := s.productRepo.GetByID(ctx, rental.ProductID)
	if err != nil {
		logger.Error("failed to load product for email", "product_id", rental.ProductID, "error", err)
		return nil, nil, nil
	}
	renter, _ := s.userRepo.GetByID(ctx, rental.RenterID)
	owner, _ := s.userRepo.GetByID(ctx, rental.OwnerID)
	return product, renter, owner
}
