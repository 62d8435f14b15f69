package referral

import (
	"context"
	"fmt"

	"github.com/alirazaSuccess/FAG-Project/internal/domain/entity"
	coreport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/core"
	"github.com/alirazaSuccess/FAG-Project/internal/domain/port/persistence"
)

// Distributor pays referral commissions up the sponsor chain after a
// confirmed deposit. Each ancestor is settled in its own transaction so one
// failing ancestor never blocks the rest of the chain.
type Distributor struct {
	uow                    persistence.UnitOfWork
	userRepo               persistence.UserRepository
	rankCalculator         *RankCalculator
	logger                 coreport.Logger
	timeProvider           coreport.TimeProvider
	activityThresholdCents int64
}

// NewDistributor creates a new commission distributor
func NewDistributor(
	uow persistence.UnitOfWork,
	userRepo persistence.UserRepository,
	rankCalculator *RankCalculator,
	logger coreport.Logger,
	timeProvider coreport.TimeProvider,
	activityThresholdCents int64,
) *Distributor {
	return &Distributor{
		uow:                    uow,
		userRepo:               userRepo,
		rankCalculator:         rankCalculator,
		logger:                 logger,
		timeProvider:           timeProvider,
		activityThresholdCents: activityThresholdCents,
	}
}

// Distribute walks the depositor's ancestor chain and credits each level's
// commission. Active ancestors are paid immediately; inactive ones get a
// pending history entry only. Per-ancestor failures are logged and the walk
// continues.
func (d *Distributor) Distribute(ctx context.Context, depositorID uint64) error {
	ancestors, err := d.resolveAncestors(ctx, depositorID)
	if err != nil {
		return fmt.Errorf("resolve ancestors: %w", err)
	}

	for i, ancestorID := range ancestors {
		depth := i + 1
		amount, ok := entity.CommissionForLevel(depth)
		if !ok {
			break
		}

		paid, err := d.settleAncestor(ctx, ancestorID, depositorID, depth, amount)
		if err != nil {
			d.logger.Error("Commission settlement failed, continuing chain", map[string]any{
				"ancestor_id":  ancestorID,
				"depositor_id": depositorID,
				"depth":        depth,
				"error":        err.Error(),
			})
			continue
		}

		if paid {
			if _, err := d.rankCalculator.Recompute(ctx, ancestorID); err != nil {
				d.logger.Error("Rank recompute after commission failed", map[string]any{
					"ancestor_id": ancestorID,
					"error":       err.Error(),
				})
			}
		}
	}

	return nil
}

// resolveAncestors collects up to MaxCommissionLevels ancestor IDs, nearest
// first. A visited set guards against corrupted parent cycles. A parent that
// cannot be loaded ends the walk; the ancestors gathered so far still settle,
// so a short or broken chain pays fewer levels rather than none.
func (d *Distributor) resolveAncestors(ctx context.Context, depositorID uint64) ([]uint64, error) {
	visited := map[uint64]bool{depositorID: true}
	ancestors := make([]uint64, 0, entity.MaxCommissionLevels)

	current, err := d.userRepo.GetByID(ctx, depositorID)
	if err != nil {
		return nil, err
	}

	for current.ParentID != nil && len(ancestors) < entity.MaxCommissionLevels {
		parentID := *current.ParentID
		if visited[parentID] {
			d.logger.Warn("Referral cycle detected, stopping ancestor walk", map[string]any{
				"depositor_id": depositorID,
				"cycle_at":     parentID,
			})
			break
		}
		visited[parentID] = true

		parent, err := d.userRepo.GetByID(ctx, parentID)
		if err != nil {
			d.logger.Warn("Ancestor lookup failed, ending chain walk early", map[string]any{
				"depositor_id": depositorID,
				"parent_id":    parentID,
				"error":        err.Error(),
			})
			break
		}
		ancestors = append(ancestors, parentID)
		current = parent
	}

	return ancestors, nil
}

// settleAncestor credits one ancestor inside its own transaction. Returns
// whether the commission was paid (as opposed to recorded pending).
func (d *Distributor) settleAncestor(ctx context.Context, ancestorID, depositorID uint64, depth int, amountInCents int64) (paid bool, err error) {
	txCtx, err := d.uow.Begin(ctx)
	if err != nil {
		return false, err
	}
	committed := false
	defer func() {
		if !committed {
			if rbErr := d.uow.Rollback(txCtx); rbErr != nil {
				d.logger.Error("Rollback failed", map[string]any{"error": rbErr.Error()})
			}
		}
	}()

	userRepo := d.uow.GetUserRepository(txCtx)
	eventRepo := d.uow.GetReferralEventRepository(txCtx)

	ancestor, err := userRepo.GetByIDForUpdate(txCtx, ancestorID)
	if err != nil {
		return false, err
	}

	status := entity.EventPending
	if ancestor.IsActive(d.activityThresholdCents) {
		status = entity.EventPaid
	}

	event, err := entity.NewCommissionEvent(ancestorID, depositorID, depth, amountInCents, status, d.timeProvider)
	if err != nil {
		return false, err
	}
	if err := eventRepo.Create(txCtx, event); err != nil {
		return false, err
	}

	if status == entity.EventPaid {
		ancestor.CreditBonus(amountInCents, d.timeProvider)
		if err := userRepo.Update(txCtx, ancestor); err != nil {
			return false, err
		}
	}

	if err := d.uow.Commit(txCtx); err != nil {
		return false, err
	}
	committed = true

	d.logger.Info("Commission settled", map[string]any{
		"ancestor_id":  ancestorID,
		"depositor_id": depositorID,
		"depth":        depth,
		"amount":       entity.AmountInCentsToString(amountInCents),
		"status":       string(status),
	})
	return status == entity.EventPaid, nil
}
