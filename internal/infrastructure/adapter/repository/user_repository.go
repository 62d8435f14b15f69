package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/alirazaSuccess/FAG-Project/internal/domain/entity"
	errs "github.com/alirazaSuccess/FAG-Project/internal/domain/error"
	coreport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/core"
	"github.com/alirazaSuccess/FAG-Project/internal/domain/port/persistence"
	"github.com/alirazaSuccess/FAG-Project/internal/infrastructure/adapter/model"
)

// UserRepository implements persistence.UserRepository using GORM
type UserRepository struct {
	db           *gorm.DB
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *UserRepository {
	return &UserRepository{
		db:           db,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// userModelToEntity hydrates a user entity from its database model
func userModelToEntity(m *model.User) *entity.User {
	u := &entity.User{
		ID:               m.ID,
		Email:            m.Email,
		Username:         m.Username,
		RefCode:          m.RefCode,
		ParentID:         m.ParentID,
		Level:            m.Level,
		Rank:             m.Rank,
		ReferralCount:    m.ReferralCount,
		DailyEligible:    m.DailyEligible,
		EligibleSince:    m.EligibleSince,
		LastDailyBonusAt: m.LastDailyBonusAt,
		IsAdmin:          m.IsAdmin,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
	u.SetBalances(m.Balance, m.BonusEarned, m.DailyProfit)
	return u
}

// userEntityToModel maps a user entity onto its database model
func userEntityToModel(u *entity.User) *model.User {
	return &model.User{
		ID:               u.ID,
		Email:            u.Email,
		Username:         u.Username,
		RefCode:          u.RefCode,
		ParentID:         u.ParentID,
		Balance:          u.Balance(),
		BonusEarned:      u.BonusEarned(),
		DailyProfit:      u.DailyProfit(),
		Level:            u.Level,
		Rank:             u.Rank,
		ReferralCount:    u.ReferralCount,
		DailyEligible:    u.DailyEligible,
		EligibleSince:    u.EligibleSince,
		LastDailyBonusAt: u.LastDailyBonusAt,
		IsAdmin:          u.IsAdmin,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

// handleDatabaseError standardizes database error handling
func (r *UserRepository) handleDatabaseError(operation string, err error, userID uint64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		r.logger.Warn("User not found", map[string]any{
			"user_id":   userID,
			"operation": operation,
		})
		return errs.ErrUserNotFound
	}

	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"user_id": userID,
		"error":   err.Error(),
	})

	if isDuplicateKeyError(err) {
		return errs.ErrDuplicateUser
	}
	if isLockError(err) {
		return errs.ErrUserLocked
	}
	if isConstraintError(err) {
		return errs.ErrConstraintViolation
	}
	return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*entity.User, error) {
	var userModel model.User
	result := r.db.WithContext(ctx).First(&userModel, id)
	if result.Error != nil {
		return nil, r.handleDatabaseError("getting user", result.Error, id)
	}
	return userModelToEntity(&userModel), nil
}

// GetByIDForUpdate retrieves a user by ID holding a FOR UPDATE row lock
func (r *UserRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*entity.User, error) {
	var userModel model.User
	result := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&userModel, id)
	if result.Error != nil {
		return nil, r.handleDatabaseError("locking user", result.Error, id)
	}
	return userModelToEntity(&userModel), nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userModel model.User
	result := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&userModel)
	if result.Error != nil {
		return nil, r.handleDatabaseError("getting user by email", result.Error, 0)
	}
	return userModelToEntity(&userModel), nil
}

// GetByRefCode retrieves a user by referral code
func (r *UserRepository) GetByRefCode(ctx context.Context, refCode string) (*entity.User, error) {
	var userModel model.User
	result := r.db.WithContext(ctx).
		Where("ref_code = ?", strings.TrimSpace(refCode)).
		First(&userModel)
	if result.Error != nil {
		return nil, r.handleDatabaseError("getting user by referral code", result.Error, 0)
	}
	return userModelToEntity(&userModel), nil
}

// Create creates a new user and backfills the generated ID
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	userModel := userEntityToModel(user)
	result := r.db.WithContext(ctx).Create(userModel)
	if result.Error != nil {
		return r.handleDatabaseError("creating user", result.Error, user.ID)
	}
	user.ID = userModel.ID

	r.logger.Info("User created", map[string]any{
		"user_id":  user.ID,
		"ref_code": user.RefCode,
	})
	return nil
}

// Update persists changes to an existing user
func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"balance":             user.Balance(),
			"bonus_earned":        user.BonusEarned(),
			"daily_profit":        user.DailyProfit(),
			"level":               user.Level,
			"rank":                user.Rank,
			"referral_count":      user.ReferralCount,
			"daily_eligible":      user.DailyEligible,
			"eligible_since":      user.EligibleSince,
			"last_daily_bonus_at": user.LastDailyBonusAt,
			"updated_at":          user.UpdatedAt,
		})
	if result.Error != nil {
		return r.handleDatabaseError("updating user", result.Error, user.ID)
	}
	if result.RowsAffected == 0 {
		r.logger.Warn("User not found during update", map[string]any{
			"user_id": user.ID,
		})
		return errs.ErrUserNotFound
	}
	return nil
}

// GetDirectReferrals returns the users directly sponsored by the given user
func (r *UserRepository) GetDirectReferrals(ctx context.Context, parentID uint64) ([]*entity.User, error) {
	var models []model.User
	result := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("created_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, r.handleDatabaseError("listing direct referrals", result.Error, parentID)
	}

	users := make([]*entity.User, 0, len(models))
	for i := range models {
		users = append(users, userModelToEntity(&models[i]))
	}
	return users, nil
}

// Totals returns platform-wide user aggregates
func (r *UserRepository) Totals(ctx context.Context) (*persistence.UserTotals, error) {
	var row struct {
		UserCount        int64
		DailyProfitCents int64
		BonusEarnedCents int64
	}
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Select("COUNT(*) AS user_count, COALESCE(SUM(daily_profit), 0) AS daily_profit_cents, COALESCE(SUM(bonus_earned), 0) AS bonus_earned_cents").
		Scan(&row)
	if result.Error != nil {
		return nil, r.handleDatabaseError("aggregating users", result.Error, 0)
	}

	return &persistence.UserTotals{
		UserCount:        row.UserCount,
		DailyProfitCents: row.DailyProfitCents,
		BonusEarnedCents: row.BonusEarnedCents,
	}, nil
}
