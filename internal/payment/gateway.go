// Package payment abstracts the marketplace's payment processor. The
// engine only needs three primitives: capture a charge, hold a deposit,
// and refund a held amount. Real processor integrations implement Gateway;
// development and tests use the mock.
package payment

import "context"

// Charge is the gateway's receipt for a captured or held amount.
type Charge struct {
	Reference   string
	AmountCents int64
}

type Gateway interface {
	// Capture charges the renter for the rental amount (plus premium).
	Capture(ctx context.Context, userID int32, amountCents int64, description string) (*Charge, error)

	// Hold places the security deposit on hold without capturing it.
	Hold(ctx context.Context, userID int32, amountCents int64, description string) (*Charge, error)

	// Refund releases part or all of a held amount back to the payer.
	Refund(ctx context.Context, reference string, amountCents int64) (*Charge, error)
}
