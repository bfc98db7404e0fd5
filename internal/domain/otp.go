package domain

import "time"

type OTPPurpose string

const (
	OTPPurposeEmailVerification OTPPurpose = "EMAIL_VERIFICATION"
	OTPPurposePhoneVerification OTPPurpose = "PHONE_VERIFICATION"
	OTPPurposeHandover          OTPPurpose = "RENTAL_HANDOVER"
	OTPPurposeReturn            OTPPurpose = "RENTAL_RETURN"
	OTPPurposeKYC               OTPPurpose = "KYC_VERIFICATION"
)

// RentalBound reports whether codes of this purpose are tied to a rental.
func (p OTPPurpose) RentalBound() bool {
	return p == OTPPurposeHandover || p == OTPPurposeReturn
}

// OneTimeCode is a short-lived 6-digit code bound to a (user, purpose,
// optional rental) tuple. At most one live (unverified, unexpired) code
// exists per tuple; issuing a new one deletes the prior. The plaintext code
// is never stored, only its bcrypt hash.
type OneTimeCode struct {
	ID       int32      `json:"id"`
	UserID   int32      `json:"user_id"`
	RentalID *int32     `json:"rental_id,omitempty"`
	Purpose  OTPPurpose `json:"purpose"`
	CodeHash string     `json:"-"`

	// Destination the code was delivered to (email or phone).
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`

	Verified   bool       `json:"verified"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	ExpiresAt  time.Time  `json:"expires_at"`

	Attempts    int32 `json:"attempts"`
	MaxAttempts int32 `json:"max_attempts"`

	CreatedOn time.Time `json:"created_on"`
}

// Expired reports whether the code is past its expiry at the given instant.
// Expiry is data evaluated at verification time, not an execution deadline.
func (c *OneTimeCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Exhausted reports whether the attempt budget is used up.
func (c *OneTimeCode) Exhausted() bool {
	return c.Attempts >= c.MaxAttempts
}
