package withdrawal

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/alirazaSuccess/FAG-Project/internal/domain/entity"
	errs "github.com/alirazaSuccess/FAG-Project/internal/domain/error"
	coreport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/core"
	payoutport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/payout"
	"github.com/alirazaSuccess/FAG-Project/internal/domain/port/persistence"
)

// Config carries the withdrawal parameters
type Config struct {
	MinWithdrawalCents int64 // Smallest withdrawable amount
}

// Service handles the withdrawal lifecycle: request, approve with payout,
// reject. Earnings are only deducted once a payout actually succeeded.
type Service struct {
	uow            persistence.UnitOfWork
	userRepo       persistence.UserRepository
	withdrawalRepo persistence.WithdrawalRepository
	provider       payoutport.Provider
	logger         coreport.Logger
	timeProvider   coreport.TimeProvider
	cfg            Config
}

// NewService creates a new withdrawal service
func NewService(
	uow persistence.UnitOfWork,
	userRepo persistence.UserRepository,
	withdrawalRepo persistence.WithdrawalRepository,
	provider payoutport.Provider,
	logger coreport.Logger,
	timeProvider coreport.TimeProvider,
	cfg Config,
) *Service {
	return &Service{
		uow:            uow,
		userRepo:       userRepo,
		withdrawalRepo: withdrawalRepo,
		provider:       provider,
		logger:         logger,
		timeProvider:   timeProvider,
		cfg:            cfg,
	}
}

// Available returns the user's withdrawable amount in cents: total earnings
// minus the sum of their pending and approved withdrawals, floored at zero.
func (s *Service) Available(ctx context.Context, userID uint64) (int64, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	onHold, err := s.withdrawalRepo.SumOnHoldByUser(ctx, userID, 0)
	if err != nil {
		return 0, err
	}
	available := user.TotalEarnings() - onHold
	if available < 0 {
		available = 0
	}
	return available, nil
}

// Request creates a pending withdrawal after validating the amount, the
// destination address, and the user's availability. The availability check
// runs under a user row lock so concurrent requests cannot jointly exceed the
// earnings pool.
func (s *Service) Request(ctx context.Context, userID uint64, amount, address string) (*entity.Withdrawal, error) {
	amountInCents, err := entity.ValidateAndConvertAmount(amount)
	if err != nil {
		return nil, err
	}

	wd, err := entity.NewWithdrawal(userID, amountInCents, s.cfg.MinWithdrawalCents, address, s.timeProvider)
	if err != nil {
		return nil, err
	}

	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			if rbErr := s.uow.Rollback(txCtx); rbErr != nil {
				s.logger.Error("Rollback failed", map[string]any{"error": rbErr.Error()})
			}
		}
	}()

	userRepo := s.uow.GetUserRepository(txCtx)
	wdRepo := s.uow.GetWithdrawalRepository(txCtx)

	user, err := userRepo.GetByIDForUpdate(txCtx, userID)
	if err != nil {
		return nil, err
	}
	onHold, err := wdRepo.SumOnHoldByUser(txCtx, userID, 0)
	if err != nil {
		return nil, err
	}
	available := user.TotalEarnings() - onHold
	if available < 0 {
		available = 0
	}
	if amountInCents > available {
		return nil, errs.NewInsufficientBalanceError(userID,
			entity.AmountInCentsToString(amountInCents),
			entity.AmountInCentsToString(available))
	}

	if err := wdRepo.Create(txCtx, wd); err != nil {
		return nil, err
	}
	if err := s.uow.Commit(txCtx); err != nil {
		return nil, err
	}
	committed = true

	s.logger.Info("Withdrawal requested", map[string]any{
		"user_id":       userID,
		"withdrawal_id": wd.ID,
		"amount":        entity.AmountInCentsToString(amountInCents),
	})
	return wd, nil
}

// Approve settles a pending withdrawal in three phases. First the withdrawal
// moves to approved under row locks, with an availability re-check that
// excludes the withdrawal's own hold. Then the payout provider is called
// outside any transaction. Finally the outcome is recorded: paid with the
// earnings deducted, or failed with the provider's message and no deduction.
func (s *Service) Approve(ctx context.Context, withdrawalID uint64) (*entity.Withdrawal, error) {
	wd, err := s.approvePhase(ctx, withdrawalID)
	if err != nil {
		return nil, err
	}

	remarkID := uuid.NewString()
	payoutID, payoutErr := s.provider.Withdraw(ctx, payoutport.Request{
		WithdrawalID: wd.ID,
		Address:      wd.Address,
		AmountCents:  wd.AmountInCents,
		RemarkID:     remarkID,
	})

	wd, err = s.settlePhase(ctx, withdrawalID, payoutID, payoutErr)
	if err != nil {
		return nil, err
	}
	if payoutErr != nil {
		return wd, payoutErr
	}
	return wd, nil
}

// approvePhase atomically moves pending -> approved with the availability
// re-check. The re-check excludes this withdrawal from the hold sum so a
// request that was valid when created always clears it.
func (s *Service) approvePhase(ctx context.Context, withdrawalID uint64) (*entity.Withdrawal, error) {
	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			if rbErr := s.uow.Rollback(txCtx); rbErr != nil {
				s.logger.Error("Rollback failed", map[string]any{"error": rbErr.Error()})
			}
		}
	}()

	wdRepo := s.uow.GetWithdrawalRepository(txCtx)
	userRepo := s.uow.GetUserRepository(txCtx)

	wd, err := wdRepo.GetByIDForUpdate(txCtx, withdrawalID)
	if err != nil {
		return nil, err
	}
	user, err := userRepo.GetByIDForUpdate(txCtx, wd.UserID)
	if err != nil {
		return nil, err
	}

	onHold, err := wdRepo.SumOnHoldByUser(txCtx, wd.UserID, wd.ID)
	if err != nil {
		return nil, err
	}
	available := user.TotalEarnings() - onHold
	if available < 0 {
		available = 0
	}
	if wd.AmountInCents > available {
		return nil, errs.NewInsufficientBalanceError(wd.UserID,
			entity.AmountInCentsToString(wd.AmountInCents),
			entity.AmountInCentsToString(available))
	}

	if err := wd.Approve(); err != nil {
		return nil, err
	}
	if err := wdRepo.Update(txCtx, wd); err != nil {
		return nil, err
	}
	if err := s.uow.Commit(txCtx); err != nil {
		return nil, err
	}
	committed = true
	return wd, nil
}

// settlePhase records the payout outcome. On success the withdrawal is marked
// paid and the amount is deducted from bonus earnings first, then daily
// profit. On failure the withdrawal is marked failed and nothing is deducted.
func (s *Service) settlePhase(ctx context.Context, withdrawalID uint64, payoutID string, payoutErr error) (*entity.Withdrawal, error) {
	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("settle withdrawal %d: %w", withdrawalID, err)
	}
	committed := false
	defer func() {
		if !committed {
			if rbErr := s.uow.Rollback(txCtx); rbErr != nil {
				s.logger.Error("Rollback failed", map[string]any{"error": rbErr.Error()})
			}
		}
	}()

	wdRepo := s.uow.GetWithdrawalRepository(txCtx)
	userRepo := s.uow.GetUserRepository(txCtx)

	wd, err := wdRepo.GetByIDForUpdate(txCtx, withdrawalID)
	if err != nil {
		return nil, err
	}

	if payoutErr != nil {
		if err := wd.MarkFailed(payoutErr.Error(), s.timeProvider); err != nil {
			return nil, err
		}
		if err := wdRepo.Update(txCtx, wd); err != nil {
			return nil, err
		}
		if err := s.uow.Commit(txCtx); err != nil {
			return nil, err
		}
		committed = true

		s.logger.Warn("Withdrawal payout failed", map[string]any{
			"withdrawal_id": wd.ID,
			"user_id":       wd.UserID,
			"error":         payoutErr.Error(),
		})
		return wd, nil
	}

	user, err := userRepo.GetByIDForUpdate(txCtx, wd.UserID)
	if err != nil {
		return nil, err
	}

	if err := wd.MarkPaid(payoutID, s.timeProvider); err != nil {
		return nil, err
	}
	user.DeductEarnings(wd.AmountInCents, s.timeProvider)

	if err := wdRepo.Update(txCtx, wd); err != nil {
		return nil, err
	}
	if err := userRepo.Update(txCtx, user); err != nil {
		return nil, err
	}
	if err := s.uow.Commit(txCtx); err != nil {
		return nil, err
	}
	committed = true

	s.logger.Info("Withdrawal paid", map[string]any{
		"withdrawal_id": wd.ID,
		"user_id":       wd.UserID,
		"payout_id":     payoutID,
		"amount":        entity.AmountInCentsToString(wd.AmountInCents),
	})
	return wd, nil
}

// Reject moves a pending withdrawal to rejected, releasing its hold and
// recording the operator's reason in the note
func (s *Service) Reject(ctx context.Context, withdrawalID uint64, reason string) (*entity.Withdrawal, error) {
	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			if rbErr := s.uow.Rollback(txCtx); rbErr != nil {
				s.logger.Error("Rollback failed", map[string]any{"error": rbErr.Error()})
			}
		}
	}()

	wdRepo := s.uow.GetWithdrawalRepository(txCtx)
	wd, err := wdRepo.GetByIDForUpdate(txCtx, withdrawalID)
	if err != nil {
		return nil, err
	}
	if err := wd.Reject(reason, s.timeProvider); err != nil {
		return nil, err
	}
	if err := wdRepo.Update(txCtx, wd); err != nil {
		return nil, err
	}
	if err := s.uow.Commit(txCtx); err != nil {
		return nil, err
	}
	committed = true

	s.logger.Info("Withdrawal rejected", map[string]any{
		"withdrawal_id": wd.ID,
		"user_id":       wd.UserID,
		"reason":        wd.Note,
	})
	return wd, nil
}

// ListByUser returns a user's withdrawals, most recent first
func (s *Service) ListByUser(ctx context.Context, userID uint64) ([]*entity.Withdrawal, error) {
	return s.withdrawalRepo.ListByUser(ctx, userID)
}

// ListByStatus returns withdrawals in the given status for the admin view
func (s *Service) ListByStatus(ctx context.Context, status entity.WithdrawalStatus) ([]*entity.Withdrawal, error) {
	return s.withdrawalRepo.ListByStatus(ctx, status)
}
