package domain

import "time"

type WindowStatus string

const (
	WindowStatusBooked    WindowStatus = "BOOKED"
	WindowStatusActive    WindowStatus = "ACTIVE"
	WindowStatusCompleted WindowStatus = "COMPLETED"
	WindowStatusCancelled WindowStatus = "CANCELLED"
)

// Blocking reports whether a window in this status occupies the calendar.
// Only BOOKED and ACTIVE windows can conflict with a new booking.
func (s WindowStatus) Blocking() bool {
	return s == WindowStatusBooked || s == WindowStatusActive
}

// AvailabilityWindow is one calendar entry per confirmed/active rental.
// Its status mirrors the parent rental's.
type AvailabilityWindow struct {
	ID        int32        `json:"id"`
	ProductID int32        `json:"product_id"`
	RentalID  int32        `json:"rental_id"`
	RenterID  int32        `json:"renter_id"`
	StartDate time.Time    `json:"start_date"`
	EndDate   time.Time    `json:"end_date"`
	Status    WindowStatus `json:"status"`
	CreatedOn time.Time    `json:"created_on"`
}

// Overlaps applies the three-way interval test over [start, end):
// the new range starts inside the window, ends inside it, or contains it.
func (w *AvailabilityWindow) Overlaps(start, end time.Time) bool {
	if !w.StartDate.After(start) && w.EndDate.After(start) {
		return true
	}
	if w.StartDate.Before(end) && !w.EndDate.Before(end) {
		return true
	}
	return !w.StartDate.Before(start) && !w.EndDate.After(end)
}

// ProductRentalStatus is the calendar's answer to "is this on rent now?",
// rendered to product pages by the rest of the system.
type ProductRentalStatus struct {
	IsRented           bool                `json:"is_rented"`
	Current            *AvailabilityWindow `json:"current,omitempty"`
	Upcoming           []AvailabilityWindow `json:"upcoming,omitempty"`
	AvailableFrom      *time.Time          `json:"available_from,omitempty"`
	DaysUntilAvailable int32               `json:"days_until_available,omitempty"`
	WaitlistCount      int32               `json:"waitlist_count"`
}

// CalendarDay is one cell of the day-by-day availability view.
type CalendarDay struct {
	Date      time.Time           `json:"date"`
	Available bool                `json:"available"`
	Window    *AvailabilityWindow `json:"window,omitempty"`
}
