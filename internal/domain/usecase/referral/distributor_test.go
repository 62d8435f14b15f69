package referral

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alirazaSuccess/FAG-Project/internal/domain/entity"
	"github.com/alirazaSuccess/FAG-Project/internal/infrastructure/adapter/logger"
	"github.com/alirazaSuccess/FAG-Project/internal/testsupport"
)

func newDistributorFixture(t *testing.T) (*Distributor, *testsupport.MemoryStore, *testsupport.FixedClock) {
	t.Helper()
	store := testsupport.NewMemoryStore()
	clock := testsupport.NewFixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	log := logger.NewNoopLogger()
	calc := NewRankCalculator(store.Users, log, clock, activityThreshold)
	dist := NewDistributor(store, store.Users, calc, log, clock, activityThreshold)
	return dist, store, clock
}

// seedChain builds parent -> child chains of the given length, all active,
// returning IDs from the top ancestor down to the depositor (last element)
func seedChain(t *testing.T, store *testsupport.MemoryStore, clock *testsupport.FixedClock, length int) []uint64 {
	t.Helper()
	ids := make([]uint64, 0, length)
	var parentID *uint64
	for i := 0; i < length; i++ {
		u := seedUser(t, store, clock, activityThreshold, parentID)
		ids = append(ids, u.ID)
		id := u.ID
		parentID = &id
	}
	return ids
}

func TestDistribute(t *testing.T) {
	t.Run("Pays the full table up an active chain", func(t *testing.T) {
		dist, store, clock := newDistributorFixture(t)

		// 12 ancestors above the depositor; only 10 levels pay
		ids := seedChain(t, store, clock, 13)
		depositorID := ids[len(ids)-1]

		require.NoError(t, dist.Distribute(context.Background(), depositorID))

		events := store.Events.All()
		require.Len(t, events, entity.MaxCommissionLevels)

		for i, event := range events {
			depth := i + 1
			want, ok := entity.CommissionForLevel(depth)
			require.True(t, ok)

			// Events walk nearest ancestor first
			assert.Equal(t, ids[len(ids)-1-depth], event.UserID)
			assert.Equal(t, depositorID, *event.FromUserID)
			assert.Equal(t, depth, event.Depth)
			assert.Equal(t, want, event.AmountInCents)
			assert.Equal(t, entity.EventPaid, event.Status)
			assert.Equal(t, entity.ReasonCommission, event.Reason)
		}

		// Direct sponsor got the depth-1 commission credited
		sponsor, err := store.Users.GetByID(context.Background(), ids[len(ids)-2])
		require.NoError(t, err)
		assert.Equal(t, int64(1000), sponsor.BonusEarned())

		// Ancestors beyond the table got nothing
		top, err := store.Users.GetByID(context.Background(), ids[0])
		require.NoError(t, err)
		assert.Zero(t, top.BonusEarned())

		paid, err := store.Events.SumPaidCommission(context.Background())
		require.NoError(t, err)
		assert.Equal(t, entity.TotalCommissionCents(), paid)
	})

	t.Run("Inactive ancestor gets a pending entry without credit", func(t *testing.T) {
		dist, store, clock := newDistributorFixture(t)

		sponsor := seedUser(t, store, clock, activityThreshold-1, nil)
		depositor := seedUser(t, store, clock, activityThreshold, &sponsor.ID)

		require.NoError(t, dist.Distribute(context.Background(), depositor.ID))

		events := store.Events.All()
		require.Len(t, events, 1)
		assert.Equal(t, entity.EventPending, events[0].Status)
		assert.Equal(t, int64(1000), events[0].AmountInCents)

		stored, err := store.Users.GetByID(context.Background(), sponsor.ID)
		require.NoError(t, err)
		assert.Zero(t, stored.BonusEarned())
	})

	t.Run("Corrupted parent cycle stops the walk", func(t *testing.T) {
		dist, store, clock := newDistributorFixture(t)

		a := seedUser(t, store, clock, activityThreshold, nil)
		b := seedUser(t, store, clock, activityThreshold, &a.ID)
		depositor := seedUser(t, store, clock, activityThreshold, &b.ID)

		aCopy, err := store.Users.GetByID(context.Background(), a.ID)
		require.NoError(t, err)
		aCopy.ParentID = &b.ID
		require.NoError(t, store.Users.Update(context.Background(), aCopy))

		require.NoError(t, dist.Distribute(context.Background(), depositor.ID))

		// b at depth 1 and a at depth 2, then the walk halts at the cycle
		events := store.Events.All()
		require.Len(t, events, 2)
		assert.Equal(t, b.ID, events[0].UserID)
		assert.Equal(t, a.ID, events[1].UserID)
	})

	t.Run("Dangling parent still pays the ancestors below it", func(t *testing.T) {
		dist, store, clock := newDistributorFixture(t)

		sponsor := seedUser(t, store, clock, activityThreshold, nil)
		depositor := seedUser(t, store, clock, activityThreshold, &sponsor.ID)

		missing := uint64(999)
		stored, err := store.Users.GetByID(context.Background(), sponsor.ID)
		require.NoError(t, err)
		stored.ParentID = &missing
		require.NoError(t, store.Users.Update(context.Background(), stored))

		require.NoError(t, dist.Distribute(context.Background(), depositor.ID))

		events := store.Events.All()
		require.Len(t, events, 1)
		assert.Equal(t, sponsor.ID, events[0].UserID)
		assert.Equal(t, entity.EventPaid, events[0].Status)

		paid, err := store.Users.GetByID(context.Background(), sponsor.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), paid.BonusEarned())
	})

	t.Run("Settlement failures are skipped, not fatal", func(t *testing.T) {
		dist, store, clock := newDistributorFixture(t)

		sponsor := seedUser(t, store, clock, activityThreshold, nil)
		depositor := seedUser(t, store, clock, activityThreshold, &sponsor.ID)

		store.BeginErr = errors.New("connection refused")
		require.NoError(t, dist.Distribute(context.Background(), depositor.ID))

		assert.Empty(t, store.Events.All())
		stored, err := store.Users.GetByID(context.Background(), sponsor.ID)
		require.NoError(t, err)
		assert.Zero(t, stored.BonusEarned())
	})

	t.Run("Depositor without sponsors pays nothing", func(t *testing.T) {
		dist, store, clock := newDistributorFixture(t)
		depositor := seedUser(t, store, clock, activityThreshold, nil)

		require.NoError(t, dist.Distribute(context.Background(), depositor.ID))
		assert.Empty(t, store.Events.All())
	})

	t.Run("Unknown depositor is an error", func(t *testing.T) {
		dist, _, _ := newDistributorFixture(t)
		err := dist.Distribute(context.Background(), 999)
		assert.Error(t, err)
	})
}
