package user

import (
	"context"
	"errors"
	"strings"

	"github.com/alirazaSuccess/FAG-Project/internal/domain/entity"
	errs "github.com/alirazaSuccess/FAG-Project/internal/domain/error"
	coreport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/core"
	"github.com/alirazaSuccess/FAG-Project/internal/domain/port/persistence"
	"github.com/alirazaSuccess/FAG-Project/internal/domain/usecase/referral"
)

// RegisterService creates new users and links them into the referral tree
type RegisterService struct {
	uow            persistence.UnitOfWork
	userRepo       persistence.UserRepository
	rankCalculator *referral.RankCalculator
	logger         coreport.Logger
	timeProvider   coreport.TimeProvider
}

// NewRegisterService creates a new registration service
func NewRegisterService(
	uow persistence.UnitOfWork,
	userRepo persistence.UserRepository,
	rankCalculator *referral.RankCalculator,
	logger coreport.Logger,
	timeProvider coreport.TimeProvider,
) *RegisterService {
	return &RegisterService{
		uow:            uow,
		userRepo:       userRepo,
		rankCalculator: rankCalculator,
		logger:         logger,
		timeProvider:   timeProvider,
	}
}

// Register creates a user. A non-empty referral code must resolve to an
// existing user, who becomes the parent; the parent's referral count is
// incremented in the same transaction. Self-reference is impossible since the
// new user's own code does not exist yet.
func (s *RegisterService) Register(ctx context.Context, email, username, refCode string) (*entity.User, error) {
	var parentID *uint64
	refCode = strings.TrimSpace(refCode)
	if refCode != "" {
		parent, err := s.userRepo.GetByRefCode(ctx, refCode)
		if err != nil {
			if errs.IsUserNotFoundError(err) {
				return nil, errs.ErrInvalidReferralCode
			}
			return nil, err
		}
		id := parent.ID
		parentID = &id
	}

	newUser, err := entity.NewUser(email, username, parentID, s.timeProvider)
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

	if _, err := userRepo.GetByEmail(txCtx, newUser.Email); err == nil {
		return nil, errs.ErrDuplicateUser
	} else if !errors.Is(err, errs.ErrUserNotFound) {
		return nil, err
	}

	if err := userRepo.Create(txCtx, newUser); err != nil {
		return nil, err
	}

	if parentID != nil {
		parent, err := userRepo.GetByIDForUpdate(txCtx, *parentID)
		if err != nil {
			return nil, err
		}
		parent.IncrementReferralCount(s.timeProvider)
		if err := userRepo.Update(txCtx, parent); err != nil {
			return nil, err
		}
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return nil, err
	}
	committed = true

	s.logger.Info("User registered", map[string]any{
		"user_id":  newUser.ID,
		"ref_code": newUser.RefCode,
		"referred": parentID != nil,
	})

	if parentID != nil {
		if _, err := s.rankCalculator.Recompute(ctx, *parentID); err != nil {
			s.logger.Error("Rank recompute after signup failed", map[string]any{
				"parent_id": *parentID,
				"error":     err.Error(),
			})
		}
	}

	return newUser, nil
}
