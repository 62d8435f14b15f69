package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/alirazaSuccess/FAG-Project/internal/domain/error"
)

func TestCommissionForLevel(t *testing.T) {
	expected := []int64{1000, 500, 300, 300, 200, 200, 150, 150, 100, 100}

	for depth := 1; depth <= MaxCommissionLevels; depth++ {
		amount, ok := CommissionForLevel(depth)
		assert.True(t, ok)
		assert.Equal(t, expected[depth-1], amount, "depth %d", depth)
	}

	_, ok := CommissionForLevel(0)
	assert.False(t, ok)
	_, ok = CommissionForLevel(11)
	assert.False(t, ok)
}

func TestTotalCommissionCents(t *testing.T) {
	// The whole table pays 30.00 per qualifying deposit
	assert.Equal(t, int64(3000), TotalCommissionCents())
}

func TestRankForLevel(t *testing.T) {
	testCases := []struct {
		level    int
		expected string
	}{
		{0, "Starter"},
		{1, "Bronze"},
		{2, "Silver"},
		{3, "Gold"},
		{4, "Platinum"},
		{5, "Sapphire"},
		{6, "Ruby"},
		{7, "Emerald"},
		{8, "Diamond"},
		{9, "Crown"},
		{10, "Legender"},
		{-1, "Starter"},
		{99, "Legender"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, RankForLevel(tc.level), "level %d", tc.level)
	}
}

func TestNewCommissionEvent(t *testing.T) {
	clock := newStubClock()

	t.Run("Valid", func(t *testing.T) {
		e, err := NewCommissionEvent(2, 1, 3, 300, EventPaid, clock)
		require.NoError(t, err)

		assert.Equal(t, uint64(2), e.UserID)
		require.NotNil(t, e.FromUserID)
		assert.Equal(t, uint64(1), *e.FromUserID)
		assert.Equal(t, 3, e.Depth)
		assert.Equal(t, int64(300), e.AmountInCents)
		assert.Equal(t, EventPaid, e.Status)
		assert.Equal(t, ReasonCommission, e.Reason)
		assert.Equal(t, clock.now, e.CreatedAt)
	})

	t.Run("Invalid depth", func(t *testing.T) {
		_, err := NewCommissionEvent(2, 1, 11, 100, EventPaid, clock)
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	})

	t.Run("Zero user", func(t *testing.T) {
		_, err := NewCommissionEvent(0, 1, 1, 1000, EventPaid, clock)
		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
	})
}

func TestNewDailyBonusEvent(t *testing.T) {
	clock := newStubClock()

	e, err := NewDailyBonusEvent(5, 50, clock)
	require.NoError(t, err)

	assert.Equal(t, uint64(5), e.UserID)
	assert.Nil(t, e.FromUserID)
	assert.Zero(t, e.Depth)
	assert.Equal(t, int64(50), e.AmountInCents)
	assert.Equal(t, EventPaid, e.Status)
	assert.Equal(t, ReasonDailyBonus, e.Reason)
}
