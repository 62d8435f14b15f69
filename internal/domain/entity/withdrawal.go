package entity

import (
	"fmt"
	"regexp"
	"time"

	errs "github.com/alirazaSuccess/FAG-Project/internal/domain/error"
	coreport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/core"
)

// WithdrawalStatus represents the settlement state of a withdrawal
type WithdrawalStatus string

// Withdrawal lifecycle: pending -> approved -> paid | failed, or pending -> rejected
const (
	WithdrawalPending  WithdrawalStatus = "pending"
	WithdrawalApproved WithdrawalStatus = "approved"
	WithdrawalPaid     WithdrawalStatus = "paid"
	WithdrawalRejected WithdrawalStatus = "rejected"
	WithdrawalFailed   WithdrawalStatus = "failed"
)

var evmAddressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// IsValidEVMAddress reports whether the address is a well-formed EVM address
func IsValidEVMAddress(address string) bool {
	return evmAddressPattern.MatchString(address)
}

// Withdrawal represents a user's request to pay earnings out to a wallet
type Withdrawal struct {
	ID            uint64           // Unique identifier for the withdrawal
	UserID        uint64           // Owner of the request
	AmountInCents int64            // Requested amount in cents
	Address       string           // Destination wallet address
	Status        WithdrawalStatus // Current settlement state
	Note          string           // Failure or rejection reason, empty otherwise
	PayoutID      string           // External payout identifier once paid
	RequestedAt   time.Time        // When the request was created
	ProcessedAt   *time.Time       // When settlement finished (nullable)
}

// NewWithdrawal creates a pending withdrawal request with format validation.
// Availability against the user's earnings is the usecase's concern.
func NewWithdrawal(userID uint64, amountInCents, minimumInCents int64, address string, timeProvider coreport.TimeProvider) (*Withdrawal, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}
	if amountInCents < minimumInCents {
		return nil, fmt.Errorf("%w: minimum is %s", errs.ErrBelowMinimumWithdrawal, AmountInCentsToString(minimumInCents))
	}
	if !IsValidEVMAddress(address) {
		return nil, errs.ErrInvalidAddress
	}

	return &Withdrawal{
		UserID:        userID,
		AmountInCents: amountInCents,
		Address:       address,
		Status:        WithdrawalPending,
		RequestedAt:   timeProvider.Now(),
	}, nil
}

// IsOnHold reports whether this withdrawal still reserves part of the user's earnings
func (w *Withdrawal) IsOnHold() bool {
	return w.Status == WithdrawalPending || w.Status == WithdrawalApproved
}

// Approve moves a pending withdrawal to approved
func (w *Withdrawal) Approve() error {
	if w.Status != WithdrawalPending {
		return errs.ErrWithdrawalNotPending
	}
	w.Status = WithdrawalApproved
	return nil
}

// Reject moves a pending withdrawal to rejected, releasing its hold. The
// reason is kept in Note for the requester; a blank reason gets a default.
func (w *Withdrawal) Reject(reason string, timeProvider coreport.TimeProvider) error {
	if w.Status != WithdrawalPending {
		return errs.ErrWithdrawalNotPending
	}
	if reason == "" {
		reason = "Rejected by admin"
	}
	now := timeProvider.Now()
	w.Status = WithdrawalRejected
	w.Note = reason
	w.ProcessedAt = &now
	return nil
}

// MarkPaid finalizes an approved withdrawal after a successful payout
func (w *Withdrawal) MarkPaid(payoutID string, timeProvider coreport.TimeProvider) error {
	if w.Status != WithdrawalApproved {
		return errs.ErrWithdrawalNotPending
	}
	now := timeProvider.Now()
	w.Status = WithdrawalPaid
	w.PayoutID = payoutID
	w.ProcessedAt = &now
	return nil
}

// MarkFailed records a payout failure. The user's earnings are untouched and
// the provider message is kept for operator review.
func (w *Withdrawal) MarkFailed(note string, timeProvider coreport.TimeProvider) error {
	if w.Status != WithdrawalApproved {
		return errs.ErrWithdrawalNotPending
	}
	now := timeProvider.Now()
	w.Status = WithdrawalFailed
	w.Note = note
	w.ProcessedAt = &now
	return nil
}
