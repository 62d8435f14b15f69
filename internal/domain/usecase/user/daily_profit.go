package user

import (
	"context"
	"math"

	"github.com/alirazaSuccess/FAG-Project/internal/domain/entity"
	errs "github.com/alirazaSuccess/FAG-Project/internal/domain/error"
	coreport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/core"
	"github.com/alirazaSuccess/FAG-Project/internal/domain/port/persistence"
)

// DailyProfitConfig carries the daily profit parameters
type DailyProfitConfig struct {
	ActivityThresholdCents int64 // Principal required to stay eligible
	DailyUnitCents         int64 // Size of one daily credit
	WindowHours            int   // Hours between claims
}

// DailyProfitService lets eligible users claim their recurring daily credit
type DailyProfitService struct {
	uow          persistence.UnitOfWork
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
	cfg          DailyProfitConfig
}

// NewDailyProfitService creates a new daily profit service
func NewDailyProfitService(
	uow persistence.UnitOfWork,
	logger coreport.Logger,
	timeProvider coreport.TimeProvider,
	cfg DailyProfitConfig,
) *DailyProfitService {
	if cfg.WindowHours <= 0 {
		cfg.WindowHours = 24
	}
	return &DailyProfitService{
		uow:          uow,
		logger:       logger,
		timeProvider: timeProvider,
		cfg:          cfg,
	}
}

// Claim credits one daily unit when the user is eligible and the claim window
// has elapsed since the last credit. Eligibility requires the principal to
// still be at the activity threshold.
func (s *DailyProfitService) Claim(ctx context.Context, userID uint64) (int64, error) {
	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return 0, err
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
	eventRepo := s.uow.GetReferralEventRepository(txCtx)

	user, err := userRepo.GetByIDForUpdate(txCtx, userID)
	if err != nil {
		return 0, err
	}

	if !user.DailyEligible || !user.IsActive(s.cfg.ActivityThresholdCents) {
		return 0, errs.ErrNotEligible
	}

	if ref := user.LastBonusReference(); ref != nil {
		elapsed := s.timeProvider.Since(*ref).Std()
		window := coreport.Duration(s.cfg.WindowHours) * coreport.Hour
		if elapsed < window.Std() {
			remaining := window.Std() - elapsed
			return 0, &errs.DailyBonusNotDueError{
				RemainingHours: int(math.Ceil(remaining.Hours())),
			}
		}
	}

	user.CreditDailyProfit(s.cfg.DailyUnitCents, s.timeProvider)

	event, err := entity.NewDailyBonusEvent(userID, s.cfg.DailyUnitCents, s.timeProvider)
	if err != nil {
		return 0, err
	}
	if err := eventRepo.Create(txCtx, event); err != nil {
		return 0, err
	}
	if err := userRepo.Update(txCtx, user); err != nil {
		return 0, err
	}
	if err := s.uow.Commit(txCtx); err != nil {
		return 0, err
	}
	committed = true

	s.logger.Info("Daily profit claimed", map[string]any{
		"user_id": userID,
		"amount":  entity.AmountInCentsToString(s.cfg.DailyUnitCents),
	})
	return user.DailyProfit(), nil
}
