package domain

import "time"

type RentalStatus string

const (
	RentalStatusPending   RentalStatus = "PENDING"
	RentalStatusConfirmed RentalStatus = "CONFIRMED"
	RentalStatusActive    RentalStatus = "ACTIVE"
	RentalStatusCompleted RentalStatus = "COMPLETED"
	RentalStatusCancelled RentalStatus = "CANCELLED"
)

// CanTransitionTo encodes the rental state machine:
// PENDING -> CONFIRMED -> ACTIVE -> COMPLETED, with CANCELLED reachable
// only from PENDING and CONFIRMED. Everything else is a caller error.
func (s RentalStatus) CanTransitionTo(next RentalStatus) bool {
	switch next {
	case RentalStatusConfirmed:
		return s == RentalStatusPending
	case RentalStatusActive:
		return s == RentalStatusConfirmed
	case RentalStatusCompleted:
		return s == RentalStatusActive
	case RentalStatusCancelled:
		return s == RentalStatusPending || s == RentalStatusConfirmed
	default:
		return false
	}
}

type ChargeType string

const (
	ChargeTypeLateFee  ChargeType = "LATE_FEE"
	ChargeTypeDamage   ChargeType = "DAMAGE"
	ChargeTypeCleaning ChargeType = "CLEANING"
	ChargeTypeOther    ChargeType = "OTHER"
)

type DamageStatus string

const (
	DamageStatusNone        DamageStatus = "NONE"
	DamageStatusReported    DamageStatus = "REPORTED"
	DamageStatusUnderReview DamageStatus = "UNDER_REVIEW"
	DamageStatusAgreed      DamageStatus = "AGREED"
	DamageStatusDisputed    DamageStatus = "DISPUTED"
	DamageStatusResolved    DamageStatus = "RESOLVED"
)

// ConditionReport is the 1-5 condition score recorded at handover and at
// return, with supporting photos. The delta between the two drives the
// damage assessment.
type ConditionReport struct {
	Rating     int32      `json:"rating"`
	Photos     []string   `json:"photos,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	VerifiedBy int32      `json:"verified_by"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
}

// CodeState is the rental's view of its handover/return one-time code. The
// code itself lives in the otps table and is never stored here.
type CodeState struct {
	Issued     bool       `json:"issued"`
	Verified   bool       `json:"verified"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

type DamageAssessment struct {
	HasDamage          bool         `json:"has_damage"`
	Description        string       `json:"description,omitempty"`
	Photos             []string     `json:"photos,omitempty"`
	EstimatedCostCents int64        `json:"estimated_cost_cents"`
	AgreedCostCents    *int64       `json:"agreed_cost_cents,omitempty"`
	Status             DamageStatus `json:"status"`
}

type Insurance struct {
	Opted         bool    `json:"opted"`
	Provider      string  `json:"provider,omitempty"`
	PolicyNumber  string  `json:"policy_number,omitempty"`
	PremiumCents  int64   `json:"premium_cents"`
	CoverageCents int64   `json:"coverage_cents"`
	PremiumPct    float64 `json:"premium_pct,omitempty"`
}

type AdditionalCharge struct {
	ID          int32      `json:"id"`
	RentalID    int32      `json:"rental_id"`
	Type        ChargeType `json:"type"`
	AmountCents int64      `json:"amount_cents"`
	Description string     `json:"description"`
	Paid        bool       `json:"paid"`
	CreatedOn   time.Time  `json:"created_on"`
}

// Rental is the transaction root. Amounts are snapshots taken at creation;
// settlement math always works on these, never on live product pricing.
type Rental struct {
	ID        int32 `json:"id"`
	ProductID int32 `json:"product_id"`
	RenterID  int32 `json:"renter_id"`
	OwnerID   int32 `json:"owner_id"`

	StartDate        time.Time  `json:"start_date"`
	EndDate          time.Time  `json:"end_date"`
	ActualReturnDate *time.Time `json:"actual_return_date,omitempty"`

	Status RentalStatus `json:"status"`

	RentalAmountCents    int64 `json:"rental_amount_cents"`
	SecurityDepositCents int64 `json:"security_deposit_cents"`
	TotalPaidCents       int64 `json:"total_paid_cents"`

	HandoverCode CodeState `json:"handover_code"`
	ReturnCode   CodeState `json:"return_code"`

	ConditionAtHandover *ConditionReport `json:"condition_at_handover,omitempty"`
	ConditionAtReturn   *ConditionReport `json:"condition_at_return,omitempty"`

	Damage            DamageAssessment   `json:"damage"`
	Insurance         Insurance          `json:"insurance"`
	AdditionalCharges []AdditionalCharge `json:"additional_charges,omitempty"`

	DepositRefunded          bool   `json:"deposit_refunded"`
	DepositRefundAmountCents int64  `json:"deposit_refund_amount_cents"`
	DisputeRaised            bool   `json:"dispute_raised"`
	CancellationReason       string `json:"cancellation_reason,omitempty"`
	Notes                    string `json:"notes,omitempty"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// IsParticipant reports whether userID is the renter or the owner.
func (r *Rental) IsParticipant(userID int32) bool {
	return r.RenterID == userID || r.OwnerID == userID
}

// Counterparty returns the other side of the rental for userID.
func (r *Rental) Counterparty(userID int32) int32 {
	if r.RenterID == userID {
		return r.OwnerID
	}
	return r.RenterID
}

// UnpaidChargesCents sums the additional charges not yet settled. These are
// deducted from the deposit before any refund is computed.
func (r *Rental) UnpaidChargesCents() int64 {
	var total int64
	for _, c := range r.AdditionalCharges {
		if !c.Paid {
			total += c.AmountCents
		}
	}
	return total
}
