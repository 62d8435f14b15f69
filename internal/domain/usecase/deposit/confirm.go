package deposit

import (
	"context"
	"errors"
	"fmt"

	"github.com/alirazaSuccess/FAG-Project/internal/domain/entity"
	errs "github.com/alirazaSuccess/FAG-Project/internal/domain/error"
	chainport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/chain"
	coreport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/core"
	"github.com/alirazaSuccess/FAG-Project/internal/domain/port/persistence"
	"github.com/alirazaSuccess/FAG-Project/internal/domain/usecase/referral"
)

// Config carries the deposit confirmation parameters
type Config struct {
	MinDepositCents        int64  // Smallest claimable deposit
	ActivityThresholdCents int64  // Principal required for daily profit eligibility
	DailyUnitCents         int64  // Size of one daily profit credit
	AdminWallet            string // Receiving wallet transfers must target
	TokenDecimals          int32  // Decimals of the deposit token contract
	LookbackBlocks         uint64 // How far back a confirmation scan reaches
}

// Result reports a confirmed deposit back to the caller
type Result struct {
	TxID            string // Proof: the matched transaction hash
	FromAddress     string // Proof: the sender of the transfer
	AmountInCents   int64  // Credited amount (the matched value, not the claim)
	NewBalanceCents int64  // Principal after crediting
	BecameEligible  bool   // Whether this deposit unlocked daily profit
	AlreadyCredited bool   // True when the transfer was credited by an earlier call
}

// Service confirms claimed deposits against on-chain history and credits them
// exactly once.
type Service struct {
	uow          persistence.UnitOfWork
	scanner      chainport.DepositScanner
	distributor  *referral.Distributor
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
	cfg          Config
}

// NewService creates a new deposit confirmation service
func NewService(
	uow persistence.UnitOfWork,
	scanner chainport.DepositScanner,
	distributor *referral.Distributor,
	logger coreport.Logger,
	timeProvider coreport.TimeProvider,
	cfg Config,
) *Service {
	return &Service{
		uow:          uow,
		scanner:      scanner,
		distributor:  distributor,
		logger:       logger,
		timeProvider: timeProvider,
		cfg:          cfg,
	}
}

// ConfirmDeposit verifies that a transfer of at least the claimed amount
// reached the receiving wallet and credits the matched amount to the user.
// The claim is a lower-bound hint only. A transfer hash credits exactly one
// user exactly once; re-confirming the same transfer for the same user is an
// idempotent success.
func (s *Service) ConfirmDeposit(ctx context.Context, userID uint64, claimedAmount string) (*Result, error) {
	claimedCents, err := entity.ValidateAndConvertAmount(claimedAmount)
	if err != nil {
		return nil, err
	}
	if claimedCents < s.cfg.MinDepositCents {
		return nil, fmt.Errorf("%w: minimum is %s", errs.ErrBelowMinimumDeposit,
			entity.AmountInCentsToString(s.cfg.MinDepositCents))
	}
	if !entity.IsValidEVMAddress(s.cfg.AdminWallet) {
		return nil, errs.ErrInvalidAdminWallet
	}

	minUnits := entity.CentsToTokenUnits(claimedCents, s.cfg.TokenDecimals)
	match, err := s.scanner.FindTransfer(ctx, s.cfg.AdminWallet, minUnits, s.cfg.LookbackBlocks)
	if err != nil {
		if errs.IsPaymentNotFound(err) {
			s.logger.Info("No qualifying transfer observed yet", map[string]any{
				"user_id":        userID,
				"claimed_amount": claimedAmount,
			})
		}
		return nil, err
	}

	creditedCents, err := entity.TokenUnitsToCents(match.Value, s.cfg.TokenDecimals)
	if err != nil {
		return nil, err
	}

	result, err := s.credit(ctx, userID, creditedCents, match)
	if err != nil {
		return nil, err
	}

	if !result.AlreadyCredited {
		// Commission distribution failures never surface to the depositor;
		// the deposit itself is already committed.
		if err := s.distributor.Distribute(ctx, userID); err != nil {
			s.logger.Error("Commission distribution failed", map[string]any{
				"user_id": userID,
				"tx_id":   match.TxHash,
				"error":   err.Error(),
			})
		}
	}

	return result, nil
}

// credit applies the matched transfer atomically: lock the user, claim the
// transaction hash, move the balance, record the payment.
func (s *Service) credit(ctx context.Context, userID uint64, amountInCents int64, match *chainport.TransferMatch) (*Result, error) {
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
	paymentRepo := s.uow.GetPaymentRepository(txCtx)
	eventRepo := s.uow.GetReferralEventRepository(txCtx)

	user, err := userRepo.GetByIDForUpdate(txCtx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := paymentRepo.GetByTxID(txCtx, match.TxHash)
	switch {
	case err == nil:
		if existing.UserID == userID {
			// Same user re-confirming the same transfer: report success
			// without moving any balance.
			if err := s.uow.Commit(txCtx); err != nil {
				return nil, err
			}
			committed = true
			return &Result{
				TxID:            existing.TxID,
				FromAddress:     existing.FromAddress,
				AmountInCents:   existing.AmountInCents,
				NewBalanceCents: user.Balance(),
				AlreadyCredited: true,
			}, nil
		}
		return nil, errs.NewDuplicateTransactionError(match.TxHash, userID)
	case errors.Is(err, errs.ErrNotFound):
		// First claim of this transfer
	default:
		return nil, err
	}

	becameEligible := user.CreditDeposit(amountInCents, s.cfg.ActivityThresholdCents, s.cfg.DailyUnitCents, s.timeProvider)

	payment, err := entity.NewPayment(userID, match.TxHash, match.From, amountInCents, match.BlockNumber, s.timeProvider)
	if err != nil {
		return nil, err
	}
	if err := paymentRepo.Create(txCtx, payment); err != nil {
		return nil, err
	}

	if becameEligible {
		event, err := entity.NewDailyBonusEvent(userID, s.cfg.DailyUnitCents, s.timeProvider)
		if err != nil {
			return nil, err
		}
		if err := eventRepo.Create(txCtx, event); err != nil {
			return nil, err
		}
	}

	if err := userRepo.Update(txCtx, user); err != nil {
		return nil, err
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return nil, err
	}
	committed = true

	s.logger.Info("Deposit credited", map[string]any{
		"user_id":         userID,
		"tx_id":           match.TxHash,
		"from":            match.From,
		"amount":          entity.AmountInCentsToString(amountInCents),
		"became_eligible": becameEligible,
	})

	return &Result{
		TxID:            match.TxHash,
		FromAddress:     match.From,
		AmountInCents:   amountInCents,
		NewBalanceCents: user.Balance(),
		BecameEligible:  becameEligible,
	}, nil
}
