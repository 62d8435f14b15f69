package payout

import (
	"context"
)

// Request describes one payout of earnings to an external wallet
type Request struct {
	WithdrawalID uint64 // Internal withdrawal this payout settles
	Address      string // Destination wallet address
	AmountCents  int64  // Amount in cents
	RemarkID     string // Idempotency reference passed to the provider
}

// Provider sends funds to external wallets through a payout service
type Provider interface {
	// Withdraw submits the payout and returns the provider's payout ID.
	//
	// Possible errors:
	// - PayoutError (ErrPayoutFailed): If the provider rejected the payout;
	//   the message is safe to persist for operator review
	Withdraw(ctx context.Context, req Request) (string, error)
}
