package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alirazaSuccess/FAG-Project/internal/domain/entity"
	errs "github.com/alirazaSuccess/FAG-Project/internal/domain/error"
	"github.com/alirazaSuccess/FAG-Project/internal/infrastructure/adapter/logger"
	"github.com/alirazaSuccess/FAG-Project/internal/testsupport"
)

func newDailyProfitService(store *testsupport.MemoryStore, clock *testsupport.FixedClock) *DailyProfitService {
	return NewDailyProfitService(store, logger.NewNoopLogger(), clock, DailyProfitConfig{
		ActivityThresholdCents: activityThreshold,
		DailyUnitCents:         50,
		WindowHours:            24,
	})
}

// seedEligible stores an active user who crossed the threshold at the clock's
// current instant
func seedEligible(t *testing.T, store *testsupport.MemoryStore, clock *testsupport.FixedClock) *entity.User {
	t.Helper()
	u := seedMember(t, store, clock, "eligible@example.com", 0)
	u.CreditDeposit(activityThreshold, activityThreshold, 50, clock)
	require.NoError(t, store.Users.Update(context.Background(), u))
	return u
}

func TestClaim(t *testing.T) {
	t.Run("Credits one unit after the window", func(t *testing.T) {
		store, clock := newStoreAndClock()
		svc := newDailyProfitService(store, clock)
		u := seedEligible(t, store, clock)

		clock.Advance(25 * time.Hour)

		total, err := svc.Claim(context.Background(), u.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(100), total)

		stored, err := store.Users.GetByID(context.Background(), u.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(100), stored.DailyProfit())
		require.NotNil(t, stored.LastDailyBonusAt)
		assert.Equal(t, clock.Now(), *stored.LastDailyBonusAt)

		events := store.Events.All()
		require.Len(t, events, 1)
		assert.Equal(t, entity.ReasonDailyBonus, events[0].Reason)
		assert.Equal(t, int64(50), events[0].AmountInCents)
	})

	t.Run("The claim restarts the window", func(t *testing.T) {
		store, clock := newStoreAndClock()
		svc := newDailyProfitService(store, clock)
		u := seedEligible(t, store, clock)

		clock.Advance(25 * time.Hour)
		_, err := svc.Claim(context.Background(), u.ID)
		require.NoError(t, err)

		clock.Advance(2 * time.Hour)
		_, err = svc.Claim(context.Background(), u.ID)
		require.ErrorIs(t, err, errs.ErrDailyBonusNotDue)

		var notDue *errs.DailyBonusNotDueError
		require.ErrorAs(t, err, &notDue)
		assert.Equal(t, 22, notDue.RemainingHours)
	})

	t.Run("Too early after the eligibility grant", func(t *testing.T) {
		store, clock := newStoreAndClock()
		svc := newDailyProfitService(store, clock)
		u := seedEligible(t, store, clock)

		clock.Advance(30 * time.Minute)
		_, err := svc.Claim(context.Background(), u.ID)
		require.ErrorIs(t, err, errs.ErrDailyBonusNotDue)

		var notDue *errs.DailyBonusNotDueError
		require.ErrorAs(t, err, &notDue)
		assert.Equal(t, 24, notDue.RemainingHours)
	})

	t.Run("Never-eligible user cannot claim", func(t *testing.T) {
		store, clock := newStoreAndClock()
		svc := newDailyProfitService(store, clock)
		u := seedMember(t, store, clock, "idle@example.com", activityThreshold-1)

		_, err := svc.Claim(context.Background(), u.ID)
		assert.ErrorIs(t, err, errs.ErrNotEligible)
	})

	t.Run("Eligibility lapses with the principal", func(t *testing.T) {
		store, clock := newStoreAndClock()
		svc := newDailyProfitService(store, clock)
		u := seedEligible(t, store, clock)

		drained, err := store.Users.GetByID(context.Background(), u.ID)
		require.NoError(t, err)
		drained.SetBalances(activityThreshold-1, drained.BonusEarned(), drained.DailyProfit())
		require.NoError(t, store.Users.Update(context.Background(), drained))

		clock.Advance(25 * time.Hour)
		_, err = svc.Claim(context.Background(), u.ID)
		assert.ErrorIs(t, err, errs.ErrNotEligible)
	})

	t.Run("Unknown user", func(t *testing.T) {
		store, clock := newStoreAndClock()
		svc := newDailyProfitService(store, clock)

		_, err := svc.Claim(context.Background(), 77)
		assert.ErrorIs(t, err, errs.ErrUserNotFound)
	})
}
