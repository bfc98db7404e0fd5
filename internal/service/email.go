package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"closetshare-backend/internal/domain"
	"closetshare-backend/internal/logger"
)

// sendGridEmailService delivers lifecycle emails through SendGrid.
type sendGridEmailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewSendGridEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &sendGridEmailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *sendGridEmailService) send(to, toName, subject, plainText, htmlContent string) error {
	if s.apiKey == "" {
		// No key configured (development): log instead of sending.
		logger.Debug("email suppressed, no sendgrid key", "to", to, "subject", subject)
		return nil
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *sendGridEmailService) SendOTP(ctx context.Context, toEmail, toName, code string, purpose domain.OTPPurpose, expiresAt time.Time) error {
	var subject, action string
	switch purpose {
	case domain.OTPPurposeHandover:
		subject = "Your handover code"
		action = "hand the item over"
	case domain.OTPPurposeReturn:
		subject = "Your return code"
		action = "return the item"
	default:
		subject = "Your verification code"
		action = "verify your account"
	}
	plain := fmt.Sprintf("Your code to %s is %s. It expires at %s.", action, code, expiresAt.Format(time.RFC1123))
	html := fmt.Sprintf(`<p>Your code to %s is:</p><h2>%s</h2><p>It expires at %s.</p>`,
		action, code, expiresAt.Format(time.RFC1123))
	return s.send(toEmail, toName, subject, plain, html)
}

func (s *sendGridEmailService) SendRentalConfirmed(ctx context.Context, toEmail, toName, productTitle string, start, end time.Time) error {
	subject := fmt.Sprintf("Rental confirmed: %s", productTitle)
	plain := fmt.Sprintf("Your rental of %s from %s to %s is confirmed.",
		productTitle, start.Format("Jan 2"), end.Format("Jan 2"))
	return s.send(toEmail, toName, subject, plain, "<p>"+plain+"</p>")
}

func (s *sendGridEmailService) SendHandoverVerified(ctx context.Context, toEmail, toName, productTitle string) error {
	subject := fmt.Sprintf("Handover complete: %s", productTitle)
	plain := fmt.Sprintf("The handover of %s has been verified. The rental is now active.", productTitle)
	return s.send(toEmail, toName, subject, plain, "<p>"+plain+"</p>")
}

func (s *sendGridEmailService) SendReturnVerified(ctx context.Context, toEmail, toName, productTitle string, refundCents, lateFeeCents, damageCents int64) error {
	subject := fmt.Sprintf("Return complete: %s", productTitle)
	plain := fmt.Sprintf("The return of %s has been verified. Deposit refund: $%.2f.", productTitle, float64(refundCents)/100)
	if lateFeeCents > 0 {
		plain += fmt.Sprintf(" Late fee charged: $%.2f.", float64(lateFeeCents)/100)
	}
	if damageCents > 0 {
		plain += fmt.Sprintf(" Damage charge: $%.2f.", float64(damageCents)/100)
	}
	return s.send(toEmail, toName, subject, plain, "<p>"+plain+"</p>")
}

func (s *sendGridEmailService) SendDisputeRaised(ctx context.Context, toEmail, toName, productTitle, disputeType string) error {
	subject := fmt.Sprintf("Dispute opened: %s", productTitle)
	plain := fmt.Sprintf("A %s dispute has been opened on your rental of %s. Automatic settlement is paused until it is resolved.",
		disputeType, productTitle)
	return s.send(toEmail, toName, subject, plain, "<p>"+plain+"</p>")
}

func (s *sendGridEmailService) SendWaitlistSlotOpen(ctx context.Context, toEmail, toName, productTitle string, expiresAt time.Time) error {
	subject := fmt.Sprintf("%s is available", productTitle)
	plain := fmt.Sprintf("%s is available again. Your booking window closes at %s.",
		productTitle, expiresAt.Format(time.RFC1123))
	return s.send(toEmail, toName, subject, plain, "<p>"+plain+"</p>")
}

func (s *sendGridEmailService) SendOverdueReminder(ctx context.Context, toEmail, toName, productTitle string, daysLate int32) error {
	subject := fmt.Sprintf("Overdue: %s", productTitle)
	plain := fmt.Sprintf("Your rental of %s is %d day(s) past its end date. Late fees are accruing.", productTitle, daysLate)
	return s.send(toEmail, toName, subject, plain, "<p>"+plain+"</p>")
}
