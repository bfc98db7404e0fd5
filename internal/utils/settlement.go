package utils

import (
	"math"
	"time"
)

// Business constants inherited from the marketplace's pricing policy. The
// 1.5x late penalty and the /5 damage scaling are policy choices, not
// derived values; tune them here, never inline.
const (
	// LateFeeMultiplier is applied on top of the pro-rated daily rate for
	// every day past the agreed end date.
	LateFeeMultiplier = 1.5

	// DamageScaleSteps spreads the deposit across the 1-5 condition scale:
	// each point of condition drop forfeits deposit/DamageScaleSteps.
	DamageScaleSteps = 5

	// DefaultDepositPct derives a security deposit when the product does
	// not declare one.
	DefaultDepositPct = 0.20

	// DamageThreshold is the condition drop above which a damage
	// assessment is opened. A one-point drop is considered normal wear.
	DamageThreshold = 1
)

// RentalDays returns ceil((end-start)/24h), the billable duration.
func RentalDays(start, end time.Time) int32 {
	hours := end.Sub(start).Hours()
	days := int32(math.Ceil(hours / 24))
	if days < 1 {
		days = 1
	}
	return days
}

// DefaultDeposit computes the security deposit for products without a
// declared one.
func DefaultDeposit(rentalAmountCents int64) int64 {
	return int64(math.Round(float64(rentalAmountCents) * DefaultDepositPct))
}

// InsurancePremium computes the opt-in premium from the percentage agreed
// with the insurance provider.
func InsurancePremium(rentalAmountCents int64, premiumPct float64) int64 {
	return int64(math.Round(float64(rentalAmountCents) * premiumPct / 100))
}

// SettlementInput is everything the return-time computation reads. All
// amounts are the snapshots taken when the rental was created.
type SettlementInput struct {
	HandoverRating       int32
	ReturnRating         int32
	RentalAmountCents    int64
	SecurityDepositCents int64
	StartDate            time.Time
	EndDate              time.Time
	ActualReturnDate     time.Time

	// OtherUnpaidChargesCents covers unresolved charges that already
	// existed before return (cleaning fees etc.), excluding the late fee
	// computed here.
	OtherUnpaidChargesCents int64
}

// Settlement is the deterministic outcome of a verified return.
type Settlement struct {
	ConditionDrop            int32
	HasDamage                bool
	DamageEstimateCents      int64
	DaysLate                 int32
	LateFeeCents             int64
	DepositRefundAmountCents int64
	DepositRefunded          bool
}

// ComputeSettlement reproduces the marketplace settlement policy:
//
//  1. conditionDrop = handover rating - return rating
//  2. drop > DamageThreshold opens a damage assessment estimated at
//     deposit * drop / DamageScaleSteps
//  3. late returns pay daysLate * dailyRate * LateFeeMultiplier
//  4. refund = max(0, deposit - damage - unpaid charges - late fee)
func ComputeSettlement(in SettlementInput) Settlement {
	out := Settlement{
		ConditionDrop: in.HandoverRating - in.ReturnRating,
	}

	if out.ConditionDrop > DamageThreshold {
		out.HasDamage = true
		out.DamageEstimateCents = in.SecurityDepositCents * int64(out.ConditionDrop) / DamageScaleSteps
	}

	if in.ActualReturnDate.After(in.EndDate) {
		out.DaysLate = int32(math.Ceil(in.ActualReturnDate.Sub(in.EndDate).Hours() / 24))
		dailyRate := in.RentalAmountCents / int64(RentalDays(in.StartDate, in.EndDate))
		out.LateFeeCents = int64(math.Round(float64(out.DaysLate) * float64(dailyRate) * LateFeeMultiplier))
	}

	refund := in.SecurityDepositCents - out.DamageEstimateCents - in.OtherUnpaidChargesCents - out.LateFeeCents
	if refund < 0 {
		refund = 0
	}
	out.DepositRefundAmountCents = refund
	out.DepositRefunded = refund > 0
	return out
}
