package entity

import (
	"time"

	errs "github.com/alirazaSuccess/FAG-Project/internal/domain/error"
	coreport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/core"
)

// Payment records a confirmed on-chain deposit. The TxID is globally unique:
// one observed transfer credits exactly one user exactly once.
type Payment struct {
	ID            uint64    // Unique identifier for the payment
	UserID        uint64    // User the deposit was credited to
	TxID          string    // On-chain transaction hash, globally unique
	FromAddress   string    // Sender address of the transfer
	AmountInCents int64     // Credited amount in cents
	BlockNumber   uint64    // Block the transfer was observed in
	CreatedAt     time.Time // When the deposit was confirmed
}

// NewPayment creates a confirmed payment record
func NewPayment(userID uint64, txID, fromAddress string, amountInCents int64, blockNumber uint64, timeProvider coreport.TimeProvider) (*Payment, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}
	if txID == "" {
		return nil, errs.ErrInvalidRequest
	}
	if amountInCents <= 0 {
		return nil, errs.ErrNegativeAmount
	}

	return &Payment{
		UserID:        userID,
		TxID:          txID,
		FromAddress:   fromAddress,
		AmountInCents: amountInCents,
		BlockNumber:   blockNumber,
		CreatedAt:     timeProvider.Now(),
	}, nil
}
