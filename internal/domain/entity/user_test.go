package entity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/alirazaSuccess/FAG-Project/internal/domain/error"
	coreport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/core"
)

// stubClock pins Now so entity timestamps are deterministic
type stubClock struct {
	now time.Time
}

func (c *stubClock) Now() time.Time { return c.now }
func (c *stubClock) Since(t time.Time) coreport.Duration { return coreport.Duration(c.now.Sub(t)) }
func (c *stubClock) Until(t time.Time) coreport.Duration { return coreport.Duration(t.Sub(c.now)) }
func (c *stubClock) Sleep(d coreport.Duration) { c.now = c.now.Add(d.Std()) }
func (c *stubClock) WithTimeout(ctx context.Context, timeout coreport.Duration) (context.Context, context.CancelFunc) {
	return context.WithCancel(ctx)
}
func (c *stubClock) ParseDuration(s string) (coreport.Duration, error) {
	d, err := time.ParseDuration(s)
	return coreport.Duration(d), err
}

func newStubClock() *stubClock {
	return &stubClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func TestNewUser(t *testing.T) {
	clock := newStubClock()

	t.Run("Valid user", func(t *testing.T) {
		parentID := uint64(9)
		u, err := NewUser("  Alice@Example.COM ", " alice ", &parentID, clock)
		require.NoError(t, err)

		assert.Equal(t, "alice@example.com", u.Email)
		assert.Equal(t, "alice", u.Username)
		assert.Equal(t, &parentID, u.ParentID)
		assert.Regexp(t, `^REF\d{6}$`, u.RefCode)
		assert.Equal(t, 0, u.Level)
		assert.Equal(t, RankForLevel(0), u.Rank)
		assert.False(t, u.DailyEligible)
		assert.Equal(t, clock.now, u.CreatedAt)
	})

	t.Run("Missing email", func(t *testing.T) {
		_, err := NewUser("  ", "alice", nil, clock)
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	})

	t.Run("Missing username", func(t *testing.T) {
		_, err := NewUser("alice@example.com", "  ", nil, clock)
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	})
}

func TestUserCreditDeposit(t *testing.T) {
	const (
		threshold = int64(2500)
		dailyUnit = int64(50)
	)

	t.Run("First crossing unlocks eligibility and grants one unit", func(t *testing.T) {
		clock := newStubClock()
		u, err := NewUser("a@b.c", "a", nil, clock)
		require.NoError(t, err)

		became := u.CreditDeposit(2500, threshold, dailyUnit, clock)

		assert.True(t, became)
		assert.True(t, u.DailyEligible)
		assert.Equal(t, int64(2500), u.Balance())
		assert.Equal(t, dailyUnit, u.DailyProfit())
		require.NotNil(t, u.EligibleSince)
		assert.Equal(t, clock.now, *u.EligibleSince)
		require.NotNil(t, u.LastDailyBonusAt)
	})

	t.Run("Below threshold stays ineligible", func(t *testing.T) {
		clock := newStubClock()
		u, err := NewUser("a@b.c", "a", nil, clock)
		require.NoError(t, err)

		became := u.CreditDeposit(2000, threshold, dailyUnit, clock)

		assert.False(t, became)
		assert.False(t, u.DailyEligible)
		assert.Equal(t, int64(2000), u.Balance())
		assert.Zero(t, u.DailyProfit())
	})

	t.Run("Crossing happens once across deposits", func(t *testing.T) {
		clock := newStubClock()
		u, err := NewUser("a@b.c", "a", nil, clock)
		require.NoError(t, err)

		assert.False(t, u.CreditDeposit(2000, threshold, dailyUnit, clock))
		assert.True(t, u.CreditDeposit(1000, threshold, dailyUnit, clock))
		assert.False(t, u.CreditDeposit(5000, threshold, dailyUnit, clock))

		assert.Equal(t, int64(8000), u.Balance())
		assert.Equal(t, dailyUnit, u.DailyProfit())
	})
}

func TestUserIsActive(t *testing.T) {
	clock := newStubClock()
	u, err := NewUser("a@b.c", "a", nil, clock)
	require.NoError(t, err)

	assert.False(t, u.IsActive(2500))
	u.CreditDeposit(2500, 2500, 50, clock)
	assert.True(t, u.IsActive(2500))
}

func TestUserDeductEarnings(t *testing.T) {
	t.Run("Bonus drains before daily profit", func(t *testing.T) {
		clock := newStubClock()
		u, err := NewUser("a@b.c", "a", nil, clock)
		require.NoError(t, err)
		u.SetBalances(10000, 5000, 4000)

		u.DeductEarnings(8000, clock)

		assert.Equal(t, int64(0), u.BonusEarned())
		assert.Equal(t, int64(1000), u.DailyProfit())
		assert.Equal(t, int64(10000), u.Balance(), "principal is never touched")
	})

	t.Run("Pools floor at zero", func(t *testing.T) {
		clock := newStubClock()
		u, err := NewUser("a@b.c", "a", nil, clock)
		require.NoError(t, err)
		u.SetBalances(0, 100, 100)

		u.DeductEarnings(1000, clock)

		assert.Zero(t, u.BonusEarned())
		assert.Zero(t, u.DailyProfit())
	})
}

func TestUserLastBonusReference(t *testing.T) {
	clock := newStubClock()
	u, err := NewUser("a@b.c", "a", nil, clock)
	require.NoError(t, err)

	assert.Nil(t, u.LastBonusReference())

	u.CreditDeposit(2500, 2500, 50, clock)
	firstRef := u.LastBonusReference()
	require.NotNil(t, firstRef)

	clock.now = clock.now.Add(25 * time.Hour)
	u.CreditDailyProfit(50, clock)
	require.NotNil(t, u.LastBonusReference())
	assert.True(t, u.LastBonusReference().After(*firstRef))
	assert.Equal(t, int64(100), u.DailyProfit())
}

func TestUserSetRankAndReferralCount(t *testing.T) {
	clock := newStubClock()
	u, err := NewUser("a@b.c", "a", nil, clock)
	require.NoError(t, err)

	u.SetRank(3, clock)
	assert.Equal(t, 3, u.Level)
	assert.Equal(t, RankForLevel(3), u.Rank)

	u.IncrementReferralCount(clock)
	u.IncrementReferralCount(clock)
	assert.Equal(t, uint64(2), u.ReferralCount)
}
