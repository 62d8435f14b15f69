package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alirazaSuccess/FAG-Project/internal/domain/entity"
	errs "github.com/alirazaSuccess/FAG-Project/internal/domain/error"
	"github.com/alirazaSuccess/FAG-Project/internal/domain/usecase/referral"
	"github.com/alirazaSuccess/FAG-Project/internal/infrastructure/adapter/logger"
	"github.com/alirazaSuccess/FAG-Project/internal/testsupport"
)

const activityThreshold = int64(2500)

func newStoreAndClock() (*testsupport.MemoryStore, *testsupport.FixedClock) {
	store := testsupport.NewMemoryStore()
	clock := testsupport.NewFixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	return store, clock
}

func newRegisterService(store *testsupport.MemoryStore, clock *testsupport.FixedClock) *RegisterService {
	log := logger.NewNoopLogger()
	calc := referral.NewRankCalculator(store.Users, log, clock, activityThreshold)
	return NewRegisterService(store, store.Users, calc, log, clock)
}

func seedMember(t *testing.T, store *testsupport.MemoryStore, clock *testsupport.FixedClock, email string, balanceCents int64) *entity.User {
	t.Helper()
	u, err := entity.NewUser(email, "member", nil, clock)
	require.NoError(t, err)
	u.SetBalances(balanceCents, 0, 0)
	return store.Users.Seed(u)
}

func TestRegister(t *testing.T) {
	t.Run("Creates a root user without a code", func(t *testing.T) {
		store, clock := newStoreAndClock()
		svc := newRegisterService(store, clock)

		u, err := svc.Register(context.Background(), "New@Example.com", "newbie", "")
		require.NoError(t, err)

		assert.NotZero(t, u.ID)
		assert.Equal(t, "new@example.com", u.Email)
		assert.Nil(t, u.ParentID)
		assert.Regexp(t, `^REF\d{6}$`, u.RefCode)
		assert.Equal(t, "Starter", u.Rank)
	})

	t.Run("Links the user under the code's owner", func(t *testing.T) {
		store, clock := newStoreAndClock()
		svc := newRegisterService(store, clock)
		sponsor := seedMember(t, store, clock, "sponsor@example.com", activityThreshold)

		u, err := svc.Register(context.Background(), "child@example.com", "child", sponsor.RefCode)
		require.NoError(t, err)

		require.NotNil(t, u.ParentID)
		assert.Equal(t, sponsor.ID, *u.ParentID)

		stored, err := store.Users.GetByID(context.Background(), sponsor.ID)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), stored.ReferralCount)
	})

	t.Run("A surrounding-whitespace code still resolves", func(t *testing.T) {
		store, clock := newStoreAndClock()
		svc := newRegisterService(store, clock)
		sponsor := seedMember(t, store, clock, "sponsor@example.com", 0)

		u, err := svc.Register(context.Background(), "child@example.com", "child", "  "+sponsor.RefCode+"  ")
		require.NoError(t, err)
		require.NotNil(t, u.ParentID)
		assert.Equal(t, sponsor.ID, *u.ParentID)
	})

	t.Run("Unknown referral code", func(t *testing.T) {
		store, clock := newStoreAndClock()
		svc := newRegisterService(store, clock)

		_, err := svc.Register(context.Background(), "child@example.com", "child", "REF000000")
		assert.ErrorIs(t, err, errs.ErrInvalidReferralCode)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		store, clock := newStoreAndClock()
		svc := newRegisterService(store, clock)
		seedMember(t, store, clock, "taken@example.com", 0)

		_, err := svc.Register(context.Background(), "Taken@Example.com", "other", "")
		assert.ErrorIs(t, err, errs.ErrDuplicateUser)
	})

	t.Run("Missing email", func(t *testing.T) {
		store, clock := newStoreAndClock()
		svc := newRegisterService(store, clock)

		_, err := svc.Register(context.Background(), "   ", "nobody", "")
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	})

	t.Run("Signup recomputes the sponsor's rank", func(t *testing.T) {
		store, clock := newStoreAndClock()
		svc := newRegisterService(store, clock)
		sponsor := seedMember(t, store, clock, "sponsor@example.com", activityThreshold)

		// Three active directs lift the sponsor to level 1. Signups start
		// inactive, so the recompute only sees the pre-funded directs.
		for i, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
			u, err := svc.Register(context.Background(), email, "direct", sponsor.RefCode)
			require.NoError(t, err)

			funded, err := store.Users.GetByID(context.Background(), u.ID)
			require.NoError(t, err)
			funded.SetBalances(activityThreshold, 0, 0)
			require.NoError(t, store.Users.Update(context.Background(), funded))

			if i == 2 {
				// The last signup ran its recompute before this direct was
				// funded; one more signup observes all three.
				_, err := svc.Register(context.Background(), "d@example.com", "direct", sponsor.RefCode)
				require.NoError(t, err)
			}
		}

		stored, err := store.Users.GetByID(context.Background(), sponsor.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, stored.Level)
		assert.Equal(t, "Bronze", stored.Rank)
	})
}
