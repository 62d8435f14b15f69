package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/alirazaSuccess/FAG-Project/internal/domain/error"
)

const testAddress = "0x1234567890abcdef1234567890ABCDEF12345678"

func TestIsValidEVMAddress(t *testing.T) {
	testCases := []struct {
		name    string
		address string
		valid   bool
	}{
		{"Valid mixed case", testAddress, true},
		{"Valid lower case", "0x1234567890abcdef1234567890abcdef12345678", true},
		{"Missing prefix", "1234567890abcdef1234567890abcdef12345678", false},
		{"Too short", "0x1234", false},
		{"Too long", testAddress + "ab", false},
		{"Non-hex characters", "0x1234567890abcdef1234567890abcdef1234567g", false},
		{"Empty", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, IsValidEVMAddress(tc.address))
		})
	}
}

func TestNewWithdrawal(t *testing.T) {
	clock := newStubClock()

	t.Run("Valid request", func(t *testing.T) {
		w, err := NewWithdrawal(1, 5000, 1000, testAddress, clock)
		require.NoError(t, err)

		assert.Equal(t, WithdrawalPending, w.Status)
		assert.Equal(t, int64(5000), w.AmountInCents)
		assert.Equal(t, testAddress, w.Address)
		assert.Equal(t, clock.now, w.RequestedAt)
		assert.Nil(t, w.ProcessedAt)
		assert.True(t, w.IsOnHold())
	})

	t.Run("Below minimum", func(t *testing.T) {
		_, err := NewWithdrawal(1, 999, 1000, testAddress, clock)
		assert.ErrorIs(t, err, errs.ErrBelowMinimumWithdrawal)
	})

	t.Run("Invalid address", func(t *testing.T) {
		_, err := NewWithdrawal(1, 5000, 1000, "0xdead", clock)
		assert.ErrorIs(t, err, errs.ErrInvalidAddress)
	})

	t.Run("Zero user", func(t *testing.T) {
		_, err := NewWithdrawal(0, 5000, 1000, testAddress, clock)
		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
	})
}

func TestWithdrawalLifecycle(t *testing.T) {
	clock := newStubClock()

	newPending := func(t *testing.T) *Withdrawal {
		w, err := NewWithdrawal(1, 5000, 1000, testAddress, clock)
		require.NoError(t, err)
		return w
	}

	t.Run("Approve then pay", func(t *testing.T) {
		w := newPending(t)

		require.NoError(t, w.Approve())
		assert.Equal(t, WithdrawalApproved, w.Status)
		assert.True(t, w.IsOnHold())

		require.NoError(t, w.MarkPaid("payout-123", clock))
		assert.Equal(t, WithdrawalPaid, w.Status)
		assert.Equal(t, "payout-123", w.PayoutID)
		require.NotNil(t, w.ProcessedAt)
		assert.False(t, w.IsOnHold())
	})

	t.Run("Approve then fail", func(t *testing.T) {
		w := newPending(t)

		require.NoError(t, w.Approve())
		require.NoError(t, w.MarkFailed("provider rejected the address", clock))

		assert.Equal(t, WithdrawalFailed, w.Status)
		assert.Equal(t, "provider rejected the address", w.Note)
		require.NotNil(t, w.ProcessedAt)
		assert.False(t, w.IsOnHold())
	})

	t.Run("Reject releases the hold and keeps the reason", func(t *testing.T) {
		w := newPending(t)

		require.NoError(t, w.Reject("address flagged", clock))
		assert.Equal(t, WithdrawalRejected, w.Status)
		assert.Equal(t, "address flagged", w.Note)
		assert.False(t, w.IsOnHold())
	})

	t.Run("Reject without a reason gets the default note", func(t *testing.T) {
		w := newPending(t)

		require.NoError(t, w.Reject("", clock))
		assert.Equal(t, "Rejected by admin", w.Note)
	})

	t.Run("Only pending can be approved", func(t *testing.T) {
		w := newPending(t)
		require.NoError(t, w.Approve())

		assert.ErrorIs(t, w.Approve(), errs.ErrWithdrawalNotPending)
	})

	t.Run("Only pending can be rejected", func(t *testing.T) {
		w := newPending(t)
		require.NoError(t, w.Approve())

		assert.ErrorIs(t, w.Reject("late", clock), errs.ErrWithdrawalNotPending)
	})

	t.Run("Only approved can settle", func(t *testing.T) {
		w := newPending(t)

		assert.ErrorIs(t, w.MarkPaid("p", clock), errs.ErrWithdrawalNotPending)
		assert.ErrorIs(t, w.MarkFailed("n", clock), errs.ErrWithdrawalNotPending)
	})
}
