package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"closetshare-backend/internal/domain"
	"closetshare-backend/internal/logger"
	"closetshare-backend/internal/repository"
)

type disputeService struct {
	disputeRepo repository.DisputeRepository
	rentalRepo  repository.RentalRepository
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	noteRepo    repository.NotificationRepository
	emailSvc    EmailService
}

func NewDisputeService(
	disputeRepo repository.DisputeRepository,
	rentalRepo repository.RentalRepository,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
) DisputeService {
	return &disputeService{
		disputeRepo: disputeRepo,
		rentalRepo:  rentalRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
		noteRepo:    noteRepo,
		emailSvc:    emailSvc,
	}
}

func (s *disputeService) Raise(ctx context.Context, in RaiseDisputeInput) (*domain.Dispute, error) {
	rental, err := s.rentalRepo.GetByID(ctx, in.RentalID)
	if err != nil {
		return nil, err
	}
	if !rental.IsParticipant(in.RaisedBy) {
		return nil, domain.ErrUnauthorized("not a participant in rental %d", in.RentalID)
	}
	// Disputes only make sense once the item has changed hands.
	if rental.Status != domain.RentalStatusActive && rental.Status != domain.RentalStatusCompleted {
		return nil, domain.ErrPreconditionFailed("rental %d must be active or completed to dispute", in.RentalID)
	}
	if in.Description == "" {
		return nil, domain.ErrInvalid("dispute description is required")
	}

	open, err := s.disputeRepo.HasOpenDispute(ctx, in.RentalID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, domain.ErrPreconditionFailed("rental %d already has an open dispute", in.RentalID)
	}

	priority := in.Priority
	if priority == "" {
		priority = domain.DisputePriorityMedium
	}
	now := time.Now()
	for i := range in.Evidence {
		if in.Evidence[i].ID == "" {
			in.Evidence[i].ID = uuid.NewString()
		}
		if in.Evidence[i].UploadedAt.IsZero() {
			in.Evidence[i].UploadedAt = now
		}
	}

	dispute := &domain.Dispute{
		RentalID:    in.RentalID,
		RaisedBy:    in.RaisedBy,
		AgainstUser: rental.Counterparty(in.RaisedBy),
		Type:        in.Type,
		Status:      domain.DisputeStatusOpen,
		Priority:    priority,
		Description: in.Description,
		Evidence:    in.Evidence,
	}
	if err := s.disputeRepo.Create(ctx, dispute); err != nil {
		return nil, err
	}

	// Flag the rental so settlement knows to hold the deposit.
	rental.DisputeRaised = true
	if err := s.rentalRepo.Update(ctx, rental); err != nil {
		return nil, err
	}

	s.notifyCounterparty(ctx, rental, dispute)

	logger.Info("dispute raised", "dispute_id", dispute.ID, "rental_id", in.RentalID,
		"type", in.Type, "raised_by", in.RaisedBy)
	return dispute, nil
}

func (s *disputeService) Resolve(ctx context.Context, in ResolveDisputeInput) (*domain.Dispute, error) {
	resolver, err := s.userRepo.GetByID(ctx, in.ResolvedBy)
	if err != nil {
		return nil, err
	}
	if !resolver.IsAdmin() {
		return nil, domain.ErrUnauthorized("only staff can resolve disputes")
	}

	dispute, err := s.disputeRepo.GetByID(ctx, in.DisputeID)
	if err != nil {
		return nil, err
	}
	if !dispute.Status.Open() {
		return nil, domain.ErrPreconditionFailed("dispute %d is already %s", in.DisputeID, dispute.Status)
	}

	dispute.Status = domain.DisputeStatusResolved
	dispute.Resolution = &domain.Resolution{
		Decision:                in.Decision,
		CompensationAmountCents: in.CompensationAmountCents,
		ResolvedBy:              in.ResolvedBy,
		ResolvedAt:              time.Now(),
		Notes:                   in.Notes,
	}
	if err := s.disputeRepo.Update(ctx, dispute); err != nil {
		return nil, err
	}

	for _, uid := range []int32{dispute.RaisedBy, dispute.AgainstUser} {
		note := &domain.Notification{
			UserID:  uid,
			Title:   "Dispute resolved",
			Message: fmt.Sprintf("Dispute %d was resolved: %s", dispute.ID, in.Decision),
			Attributes: map[string]string{
				"dispute_id": fmt.Sprintf("%d", dispute.ID),
				"rental_id":  fmt.Sprintf("%d", dispute.RentalID),
			},
		}
		if err := s.noteRepo.Create(ctx, note); err != nil {
			logger.Error("failed to create notification", "user_id", uid, "error", err)
		}
	}

	logger.Info("dispute resolved", "dispute_id", dispute.ID, "by", in.ResolvedBy, "decision", in.Decision)
	return dispute, nil
}

func (s *disputeService) AddComment(ctx context.Context, userID, disputeID int32, text string) (*domain.DisputeComment, error) {
	if text == "" {
		return nil, domain.ErrInvalid("comment text is required")
	}
	dispute, err := s.disputeRepo.GetByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if err := s.requireParticipantOrAdmin(ctx, userID, dispute); err != nil {
		return nil, err
	}

	comment := &domain.DisputeComment{
		DisputeID: disputeID,
		UserID:    userID,
		Text:      text,
	}
	if err := s.disputeRepo.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *disputeService) AddEvidence(ctx context.Context, userID, disputeID int32, evidence domain.Evidence) (*domain.Dispute, error) {
	dispute, err := s.disputeRepo.GetByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if dispute.RaisedBy != userID && dispute.AgainstUser != userID {
		return nil, domain.ErrUnauthorized("not a party to dispute %d", disputeID)
	}
	if !dispute.Status.Open() {
		return nil, domain.ErrPreconditionFailed("dispute %d is closed to new evidence", disputeID)
	}

	evidence.ID = uuid.NewString()
	evidence.UploadedAt = time.Now()
	dispute.Evidence = append(dispute.Evidence, evidence)
	if err := s.disputeRepo.Update(ctx, dispute); err != nil {
		return nil, err
	}
	return dispute, nil
}

func (s *disputeService) GetDispute(ctx context.Context, userID, disputeID int32) (*domain.Dispute, error) {
	dispute, err := s.disputeRepo.GetByID(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if err := s.requireParticipantOrAdmin(ctx, userID, dispute); err != nil {
		return nil, err
	}
	return dispute, nil
}

func (s *disputeService) ListDisputes(ctx context.Context, userID int32) ([]domain.Dispute, error) {
	return s.disputeRepo.ListByUser(ctx, userID)
}

func (s *disputeService) requireParticipantOrAdmin(ctx context.Context, userID int32, dispute *domain.Dispute) error {
	if dispute.RaisedBy == userID || dispute.AgainstUser == userID {
		return nil
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.IsAdmin() {
		return domain.ErrUnauthorized("not a party to dispute %d", dispute.ID)
	}
	return nil
}

func (s *disputeService) notifyCounterparty(ctx context.Context, rental *domain.Rental, dispute *domain.Dispute) {
	note := &domain.Notification{
		UserID:  dispute.AgainstUser,
		Title:   "Dispute opened",
		Message: fmt.Sprintf("A %s dispute was opened on rental %d", dispute.Type, rental.ID),
		Attributes: map[string]string{
			"dispute_id": fmt.Sprintf("%d", dispute.ID),
			"rental_id":  fmt.Sprintf("%d", rental.ID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Error("failed to create notification", "user_id", dispute.AgainstUser, "error", err)
	}

	product, err := s.productRepo.GetByID(ctx, rental.ProductID)
	if err != nil {
		return
	}
	against, err := s.userRepo.GetByID(ctx, dispute.AgainstUser)
	if err != nil {
		return
	}
	_ = s.emailSvc.SendDisputeRaised(ctx, against.Email, against.Name, product.Title, string(dispute.Type))
}
