package domain

import "time"

type WaitlistStatus string

const (
	WaitlistStatusWaiting   WaitlistStatus = "WAITING"
	WaitlistStatusNotified  WaitlistStatus = "NOTIFIED"
	WaitlistStatusBooked    WaitlistStatus = "BOOKED"
	WaitlistStatusExpired   WaitlistStatus = "EXPIRED"
	WaitlistStatusCancelled WaitlistStatus = "CANCELLED"
)

// WaitlistEntry queues a user for a currently-booked product. Entries are
// notified in (priority desc, created_on asc) order when the product frees
// up; a notification lapses 24 hours after it is sent.
type WaitlistEntry struct {
	ID               int32          `json:"id"`
	ProductID        int32          `json:"product_id"`
	UserID           int32          `json:"user_id"`
	DesiredStartDate time.Time      `json:"desired_start_date"`
	DesiredEndDate   time.Time      `json:"desired_end_date"`
	Status           WaitlistStatus `json:"status"`
	Priority         int32          `json:"priority"`
	Notes            string         `json:"notes,omitempty"`
	NotifiedAt       *time.Time     `json:"notified_at,omitempty"`
	ExpiresAt        *time.Time     `json:"expires_at,omitempty"`
	CancelledAt      *time.Time     `json:"cancelled_at,omitempty"`
	Position         int32          `json:"position,omitempty"`
	CreatedOn        time.Time      `json:"created_on"`
}
