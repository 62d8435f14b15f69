package deposit

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alirazaSuccess/FAG-Project/internal/domain/entity"
	errs "github.com/alirazaSuccess/FAG-Project/internal/domain/error"
	chainport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/chain"
	"github.com/alirazaSuccess/FAG-Project/internal/domain/usecase/referral"
	"github.com/alirazaSuccess/FAG-Project/internal/infrastructure/adapter/logger"
	"github.com/alirazaSuccess/FAG-Project/internal/testsupport"
)

const (
	adminWallet = "0x1234567890abcdef1234567890ABCDEF12345678"
	senderAddr  = "0xAbCdEf1234567890abcdef1234567890aBcDeF12"
	txHash      = "0xdeadbeef"
)

// stubScanner returns a scripted match or error and records the query
type stubScanner struct {
	match *chainport.TransferMatch
	err   error

	recipient string
	minAmount *big.Int
	lookback  uint64
}

func (s *stubScanner) FindTransfer(ctx context.Context, recipient string, minAmount *big.Int, lookbackBlocks uint64) (*chainport.TransferMatch, error) {
	s.recipient = recipient
	s.minAmount = minAmount
	s.lookback = lookbackBlocks
	if s.err != nil {
		return nil, s.err
	}
	return s.match, nil
}

func defaultConfig() Config {
	return Config{
		MinDepositCents:        2500,
		ActivityThresholdCents: 2500,
		DailyUnitCents:         50,
		AdminWallet:            adminWallet,
		TokenDecimals:          18,
		LookbackBlocks:         60000,
	}
}

// matchFor builds a transfer of the given cents in 18-decimal token units
func matchFor(cents int64) *chainport.TransferMatch {
	return &chainport.TransferMatch{
		TxHash:      txHash,
		From:        senderAddr,
		Value:       entity.CentsToTokenUnits(cents, 18),
		BlockNumber: 999500,
	}
}

func newFixture(t *testing.T, scanner *stubScanner, cfg Config) (*Service, *testsupport.MemoryStore, *testsupport.FixedClock) {
	t.Helper()
	store := testsupport.NewMemoryStore()
	clock := testsupport.NewFixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	log := logger.NewNoopLogger()
	calc := referral.NewRankCalculator(store.Users, log, clock, cfg.ActivityThresholdCents)
	dist := referral.NewDistributor(store, store.Users, calc, log, clock, cfg.ActivityThresholdCents)
	svc := NewService(store, scanner, dist, log, clock, cfg)
	return svc, store, clock
}

func seedAccount(t *testing.T, store *testsupport.MemoryStore, clock *testsupport.FixedClock, parentID *uint64, balanceCents int64) *entity.User {
	t.Helper()
	u, err := entity.NewUser("member@example.com", "member", parentID, clock)
	require.NoError(t, err)
	u.SetBalances(balanceCents, 0, 0)
	return store.Users.Seed(u)
}

func TestConfirmDeposit(t *testing.T) {
	t.Run("Credits the matched transfer", func(t *testing.T) {
		scanner := &stubScanner{match: matchFor(3000)}
		svc, store, clock := newFixture(t, scanner, defaultConfig())
		user := seedAccount(t, store, clock, nil, 0)

		result, err := svc.ConfirmDeposit(context.Background(), user.ID, "25.00")
		require.NoError(t, err)

		assert.Equal(t, txHash, result.TxID)
		assert.Equal(t, senderAddr, result.FromAddress)
		assert.Equal(t, int64(3000), result.AmountInCents)
		assert.Equal(t, int64(3000), result.NewBalanceCents)
		assert.True(t, result.BecameEligible)
		assert.False(t, result.AlreadyCredited)

		// The scan used the claim as a lower bound
		assert.Equal(t, adminWallet, scanner.recipient)
		assert.Equal(t, entity.CentsToTokenUnits(2500, 18), scanner.minAmount)
		assert.Equal(t, uint64(60000), scanner.lookback)

		stored, err := store.Users.GetByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3000), stored.Balance())
		assert.True(t, stored.DailyEligible)
		assert.Equal(t, int64(50), stored.DailyProfit())

		payment, err := store.Payments.GetByTxID(context.Background(), txHash)
		require.NoError(t, err)
		assert.Equal(t, user.ID, payment.UserID)
		assert.Equal(t, int64(3000), payment.AmountInCents)
		assert.Equal(t, uint64(999500), payment.BlockNumber)

		// Crossing the threshold granted one daily bonus event
		events := store.Events.All()
		require.Len(t, events, 1)
		assert.Equal(t, entity.ReasonDailyBonus, events[0].Reason)
		assert.Equal(t, int64(50), events[0].AmountInCents)
	})

	t.Run("Pays the sponsor commission after crediting", func(t *testing.T) {
		scanner := &stubScanner{match: matchFor(2500)}
		svc, store, clock := newFixture(t, scanner, defaultConfig())
		sponsor := seedAccount(t, store, clock, nil, 2500)
		depositor := seedAccount(t, store, clock, &sponsor.ID, 0)

		_, err := svc.ConfirmDeposit(context.Background(), depositor.ID, "25.00")
		require.NoError(t, err)

		stored, err := store.Users.GetByID(context.Background(), sponsor.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), stored.BonusEarned())
	})

	t.Run("Re-confirming the same transfer is idempotent", func(t *testing.T) {
		scanner := &stubScanner{match: matchFor(3000)}
		svc, store, clock := newFixture(t, scanner, defaultConfig())
		sponsor := seedAccount(t, store, clock, nil, 2500)
		user := seedAccount(t, store, clock, &sponsor.ID, 0)

		first, err := svc.ConfirmDeposit(context.Background(), user.ID, "25.00")
		require.NoError(t, err)
		require.False(t, first.AlreadyCredited)

		second, err := svc.ConfirmDeposit(context.Background(), user.ID, "25.00")
		require.NoError(t, err)
		assert.True(t, second.AlreadyCredited)
		assert.Equal(t, first.TxID, second.TxID)
		assert.Equal(t, first.AmountInCents, second.AmountInCents)
		assert.Equal(t, int64(3000), second.NewBalanceCents)
		assert.False(t, second.BecameEligible)

		// No second credit, no second commission
		stored, err := store.Users.GetByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3000), stored.Balance())

		sponsorStored, err := store.Users.GetByID(context.Background(), sponsor.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), sponsorStored.BonusEarned())
	})

	t.Run("A transfer claimed by another user is rejected", func(t *testing.T) {
		scanner := &stubScanner{match: matchFor(3000)}
		svc, store, clock := newFixture(t, scanner, defaultConfig())
		first := seedAccount(t, store, clock, nil, 0)
		second := seedAccount(t, store, clock, nil, 0)

		_, err := svc.ConfirmDeposit(context.Background(), first.ID, "25.00")
		require.NoError(t, err)

		_, err = svc.ConfirmDeposit(context.Background(), second.ID, "25.00")
		require.ErrorIs(t, err, errs.ErrDuplicateTransaction)

		var dup *errs.DuplicateTransactionError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, txHash, dup.TxID)
		assert.Equal(t, second.ID, dup.UserID)

		stored, err := store.Users.GetByID(context.Background(), second.ID)
		require.NoError(t, err)
		assert.Zero(t, stored.Balance())
	})

	t.Run("Below-threshold deposit does not unlock daily profit", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.MinDepositCents = 1000
		scanner := &stubScanner{match: matchFor(1500)}
		svc, store, clock := newFixture(t, scanner, cfg)
		user := seedAccount(t, store, clock, nil, 0)

		result, err := svc.ConfirmDeposit(context.Background(), user.ID, "10.00")
		require.NoError(t, err)
		assert.False(t, result.BecameEligible)

		stored, err := store.Users.GetByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.False(t, stored.DailyEligible)
		assert.Zero(t, stored.DailyProfit())
		assert.Empty(t, store.Events.All())
	})

	t.Run("Claim below the minimum is rejected before scanning", func(t *testing.T) {
		scanner := &stubScanner{match: matchFor(3000)}
		svc, store, clock := newFixture(t, scanner, defaultConfig())
		user := seedAccount(t, store, clock, nil, 0)

		_, err := svc.ConfirmDeposit(context.Background(), user.ID, "24.99")
		require.ErrorIs(t, err, errs.ErrBelowMinimumDeposit)
		assert.Empty(t, scanner.recipient)
	})

	t.Run("Malformed claim amount is rejected", func(t *testing.T) {
		scanner := &stubScanner{}
		svc, store, clock := newFixture(t, scanner, defaultConfig())
		user := seedAccount(t, store, clock, nil, 0)

		_, err := svc.ConfirmDeposit(context.Background(), user.ID, "25.123")
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})

	t.Run("Misconfigured receiving wallet is rejected", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.AdminWallet = "not-an-address"
		scanner := &stubScanner{match: matchFor(3000)}
		svc, store, clock := newFixture(t, scanner, cfg)
		user := seedAccount(t, store, clock, nil, 0)

		_, err := svc.ConfirmDeposit(context.Background(), user.ID, "25.00")
		assert.ErrorIs(t, err, errs.ErrInvalidAdminWallet)
	})

	t.Run("No qualifying transfer surfaces as payment not found", func(t *testing.T) {
		scanner := &stubScanner{err: errs.ErrPaymentNotFound}
		svc, store, clock := newFixture(t, scanner, defaultConfig())
		user := seedAccount(t, store, clock, nil, 0)

		_, err := svc.ConfirmDeposit(context.Background(), user.ID, "25.00")
		assert.ErrorIs(t, err, errs.ErrPaymentNotFound)
	})

	t.Run("Unknown user fails inside the credit transaction", func(t *testing.T) {
		scanner := &stubScanner{match: matchFor(3000)}
		svc, store, _ := newFixture(t, scanner, defaultConfig())

		_, err := svc.ConfirmDeposit(context.Background(), 42, "25.00")
		require.ErrorIs(t, err, errs.ErrUserNotFound)
		assert.Equal(t, 1, store.Rollbacks)
	})
}
