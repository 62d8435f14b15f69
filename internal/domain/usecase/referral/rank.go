package referral

import (
	"context"
	"fmt"

	"github.com/alirazaSuccess/FAG-Project/internal/domain/entity"
	coreport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/core"
	"github.com/alirazaSuccess/FAG-Project/internal/domain/port/persistence"
)

// RankCalculator derives a user's referral level from the shape of their
// downline. A user holds a level above 0 only while their own principal is at
// the activity threshold and at least MinActiveDirects direct referrals are
// active; the level is then one above the weakest of those directs, capped at
// MaxLevel.
type RankCalculator struct {
	userRepo               persistence.UserRepository
	logger                 coreport.Logger
	timeProvider           coreport.TimeProvider
	activityThresholdCents int64
}

// NewRankCalculator creates a new rank calculator
func NewRankCalculator(
	userRepo persistence.UserRepository,
	logger coreport.Logger,
	timeProvider coreport.TimeProvider,
	activityThresholdCents int64,
) *RankCalculator {
	return &RankCalculator{
		userRepo:               userRepo,
		logger:                 logger,
		timeProvider:           timeProvider,
		activityThresholdCents: activityThresholdCents,
	}
}

// Recompute recalculates the user's level and persists it when it changed.
// Returns the (possibly unchanged) level.
func (c *RankCalculator) Recompute(ctx context.Context, userID uint64) (int, error) {
	user, err := c.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("rank recompute: %w", err)
	}

	level := 0
	if user.IsActive(c.activityThresholdCents) {
		level, err = c.LevelOf(ctx, userID)
		if err != nil {
			return 0, fmt.Errorf("rank recompute: %w", err)
		}
	}

	if level == user.Level && user.Rank == entity.RankForLevel(level) {
		return level, nil
	}

	c.logger.Info("User rank changed", map[string]any{
		"user_id":   userID,
		"old_level": user.Level,
		"new_level": level,
		"new_rank":  entity.RankForLevel(level),
	})

	user.SetRank(level, c.timeProvider)
	if err := c.userRepo.Update(ctx, user); err != nil {
		return level, fmt.Errorf("rank recompute: %w", err)
	}
	return level, nil
}

// levelFrame tracks one user on the evaluation stack
type levelFrame struct {
	id      uint64
	directs []uint64 // IDs of active direct referrals
	loaded  bool
	next    int
	minSub  int
}

// LevelOf evaluates the level of a user without persisting anything. The walk
// is iterative with a per-call memo so shared subtrees are evaluated once, and
// a visited set so a corrupted parent cycle cannot recurse forever: a back
// edge contributes the floor level instead.
func (c *RankCalculator) LevelOf(ctx context.Context, userID uint64) (int, error) {
	memo := make(map[uint64]int)
	inStack := map[uint64]bool{userID: true}
	stack := []*levelFrame{{id: userID}}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		f := stack[len(stack)-1]

		if !f.loaded {
			user, err := c.userRepo.GetByID(ctx, f.id)
			if err != nil {
				return 0, err
			}
			if !user.IsActive(c.activityThresholdCents) {
				memo[f.id] = 0
				delete(inStack, f.id)
				stack = stack[:len(stack)-1]
				continue
			}

			directs, err := c.userRepo.GetDirectReferrals(ctx, f.id)
			if err != nil {
				return 0, err
			}
			for _, d := range directs {
				if d.IsActive(c.activityThresholdCents) {
					f.directs = append(f.directs, d.ID)
				}
			}
			if len(f.directs) < entity.MinActiveDirects {
				memo[f.id] = 0
				delete(inStack, f.id)
				stack = stack[:len(stack)-1]
				continue
			}

			f.loaded = true
			f.minSub = entity.MaxLevel
		}

		if f.next < len(f.directs) {
			child := f.directs[f.next]
			f.next++

			if lv, ok := memo[child]; ok {
				if lv < f.minSub {
					f.minSub = lv
				}
				continue
			}
			if inStack[child] {
				f.minSub = 0
				continue
			}

			inStack[child] = true
			stack = append(stack, &levelFrame{id: child})
			continue
		}

		level := f.minSub + 1
		if level > entity.MaxLevel {
			level = entity.MaxLevel
		}
		memo[f.id] = level
		delete(inStack, f.id)
		stack = stack[:len(stack)-1]
	}

	return memo[userID], nil
}
