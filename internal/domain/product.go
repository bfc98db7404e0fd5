package domain

import "time"

// Product is the engine's view of the external product catalog: pricing,
// deposit, and the availability flag this engine flips around handover and
// return. Catalog CRUD lives elsewhere.
type Product struct {
	ID                   int32     `json:"id"`
	OwnerID              int32     `json:"owner_id"`
	Title                string    `json:"title"`
	PricePerDayCents     int64     `json:"price_per_day_cents"`
	SecurityDepositCents int64     `json:"security_deposit_cents"` // 0 means derive from rental amount
	Available            bool      `json:"available"`
	WaitlistCount        int32     `json:"waitlist_count"`
	CreatedOn            time.Time `json:"created_on"`
}
