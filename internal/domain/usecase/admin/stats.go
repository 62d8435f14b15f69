package admin

import (
	"context"

	"github.com/alirazaSuccess/FAG-Project/internal/domain/entity"
	"github.com/alirazaSuccess/FAG-Project/internal/domain/port/persistence"
)

// Stats aggregates platform-wide totals for the operator dashboard
type Stats struct {
	UserCount             int64
	TotalDailyProfitCents int64
	TotalBonusCents       int64
	TotalCommissionCents  int64 // Paid commission events, daily bonuses excluded
	TotalPaidOutCents     int64 // Sum of paid withdrawals
}

// StatsService computes operator dashboard aggregates
type StatsService struct {
	userRepo       persistence.UserRepository
	eventRepo      persistence.ReferralEventRepository
	withdrawalRepo persistence.WithdrawalRepository
}

// NewStatsService creates a new stats service
func NewStatsService(
	userRepo persistence.UserRepository,
	eventRepo persistence.ReferralEventRepository,
	withdrawalRepo persistence.WithdrawalRepository,
) *StatsService {
	return &StatsService{
		userRepo:       userRepo,
		eventRepo:      eventRepo,
		withdrawalRepo: withdrawalRepo,
	}
}

// Stats returns the current platform totals
func (s *StatsService) Stats(ctx context.Context) (*Stats, error) {
	totals, err := s.userRepo.Totals(ctx)
	if err != nil {
		return nil, err
	}
	commission, err := s.eventRepo.SumPaidCommission(ctx)
	if err != nil {
		return nil, err
	}
	paidOut, err := s.withdrawalRepo.SumByStatus(ctx, entity.WithdrawalPaid)
	if err != nil {
		return nil, err
	}

	return &Stats{
		UserCount:             totals.UserCount,
		TotalDailyProfitCents: totals.DailyProfitCents,
		TotalBonusCents:       totals.BonusEarnedCents,
		TotalCommissionCents:  commission,
		TotalPaidOutCents:     paidOut,
	}, nil
}
