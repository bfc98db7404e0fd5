package domain

import "time"

type UserRole string

const (
	UserRoleMember UserRole = "MEMBER"
	UserRoleAdmin  UserRole = "ADMIN"
)

// User is the engine's view of the identity service. Authentication and
// KYC document capture happen elsewhere; only the resulting booleans are
// consumed here.
type User struct {
	ID            int32     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	Role          UserRole  `json:"role"`
	EmailVerified bool      `json:"email_verified"`
	PhoneVerified bool      `json:"phone_verified"`
	KYCVerified   bool      `json:"kyc_verified"`
	CreatedOn     time.Time `json:"created_on"`
}

func (u *User) IsAdmin() bool { return u.Role == UserRoleAdmin }
