package domain

import "time"

type TransactionType string

const (
	TransactionTypeRentalPayment   TransactionType = "RENTAL_PAYMENT"
	TransactionTypeSecurityDeposit TransactionType = "SECURITY_DEPOSIT"
	TransactionTypeDepositRefund   TransactionType = "DEPOSIT_REFUND"
	TransactionTypeDamageCharge    TransactionType = "DAMAGE_CHARGE"
	TransactionTypeLateFee         TransactionType = "LATE_FEE"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
	TransactionStatusRefunded  TransactionStatus = "REFUNDED"
	TransactionStatusHeld      TransactionStatus = "HELD"
)

type PaymentMethod string

const (
	PaymentMethodCard                PaymentMethod = "CARD"
	PaymentMethodWallet              PaymentMethod = "WALLET"
	PaymentMethodDeductedFromDeposit PaymentMethod = "DEDUCTED_FROM_DEPOSIT"
)

// Transaction is one ledger entry. The ledger is append-only: a posted
// entry is never mutated, a correction is a new entry referencing the
// original. The single exception is the deposit hold, whose status moves
// HELD -> REFUNDED exactly once under a compare-and-set guard.
type Transaction struct {
	ID        int32 `json:"id"`
	RentalID  int32 `json:"rental_id"`
	ProductID int32 `json:"product_id"`
	RenterID  int32 `json:"renter_id"`
	OwnerID   int32 `json:"owner_id"`

	AmountCents int64             `json:"amount_cents"`
	Type        TransactionType   `json:"type"`
	Status      TransactionStatus `json:"status"`

	PaymentMethod PaymentMethod `json:"payment_method"`

	// GatewayRef is this system's handle on the abstract payment gateway
	// (authorization or refund reference).
	GatewayRef string `json:"gateway_ref,omitempty"`

	// RefundID links a HELD deposit entry to the DEPOSIT_REFUND entry that
	// released it.
	RefundID *int32 `json:"refund_id,omitempty"`

	Description string    `json:"description,omitempty"`
	CreatedOn   time.Time `json:"created_on"`
}

// LedgerSummary aggregates a user's position. The wallet balance is always
// derived from completed RENTAL_PAYMENT entries, never stored, so it cannot
// drift from the ledger.
type LedgerSummary struct {
	WalletBalanceCents int64 `json:"wallet_balance_cents"`
	HeldDepositsCents  int64 `json:"held_deposits_cents"`
	ActiveRentalsCount int32 `json:"active_rentals_count"`
	PendingCount       int32 `json:"pending_count"`
}
