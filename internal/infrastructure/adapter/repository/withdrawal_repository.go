package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/alirazaSuccess/FAG-Project/internal/domain/entity"
	errs "github.com/alirazaSuccess/FAG-Project/internal/domain/error"
	coreport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/core"
	"github.com/alirazaSuccess/FAG-Project/internal/infrastructure/adapter/model"
)

// WithdrawalRepository implements persistence.WithdrawalRepository using GORM
type WithdrawalRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewWithdrawalRepository creates a new WithdrawalRepository instance
func NewWithdrawalRepository(db *gorm.DB, logger coreport.Logger) *WithdrawalRepository {
	return &WithdrawalRepository{
		db:     db,
		logger: logger,
	}
}

func withdrawalModelToEntity(m *model.Withdrawal) *entity.Withdrawal {
	return &entity.Withdrawal{
		ID:            m.ID,
		UserID:        m.UserID,
		AmountInCents: m.AmountInCents,
		Address:       m.Address,
		Status:        entity.WithdrawalStatus(m.Status),
		Note:          m.Note,
		PayoutID:      m.PayoutID,
		RequestedAt:   m.RequestedAt,
		ProcessedAt:   m.ProcessedAt,
	}
}

func (r *WithdrawalRepository) handleDatabaseError(operation string, err error, id uint64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.ErrWithdrawalNotFound
	}
	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"withdrawal_id": id,
		"error":         err.Error(),
	})
	if isLockError(err) {
		return errs.ErrUserLocked
	}
	return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
}

// Create saves a new withdrawal request
func (r *WithdrawalRepository) Create(ctx context.Context, withdrawal *entity.Withdrawal) error {
	wdModel := model.Withdrawal{
		UserID:        withdrawal.UserID,
		AmountInCents: withdrawal.AmountInCents,
		Address:       withdrawal.Address,
		Status:        string(withdrawal.Status),
		Note:          withdrawal.Note,
		PayoutID:      withdrawal.PayoutID,
		RequestedAt:   withdrawal.RequestedAt,
		ProcessedAt:   withdrawal.ProcessedAt,
	}

	result := r.db.WithContext(ctx).Create(&wdModel)
	if result.Error != nil {
		return r.handleDatabaseError("creating withdrawal", result.Error, 0)
	}

	withdrawal.ID = wdModel.ID
	return nil
}

// GetByID retrieves a withdrawal by ID
func (r *WithdrawalRepository) GetByID(ctx context.Context, id uint64) (*entity.Withdrawal, error) {
	var wdModel model.Withdrawal
	result := r.db.WithContext(ctx).First(&wdModel, id)
	if result.Error != nil {
		return nil, r.handleDatabaseError("getting withdrawal", result.Error, id)
	}
	return withdrawalModelToEntity(&wdModel), nil
}

// GetByIDForUpdate retrieves a withdrawal by ID holding a FOR UPDATE row lock
func (r *WithdrawalRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*entity.Withdrawal, error) {
	var wdModel model.Withdrawal
	result := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&wdModel, id)
	if result.Error != nil {
		return nil, r.handleDatabaseError("locking withdrawal", result.Error, id)
	}
	return withdrawalModelToEntity(&wdModel), nil
}

// Update persists changes to an existing withdrawal
func (r *WithdrawalRepository) Update(ctx context.Context, withdrawal *entity.Withdrawal) error {
	result := r.db.WithContext(ctx).Model(&model.Withdrawal{}).
		Where("id = ?", withdrawal.ID).
		Updates(map[string]any{
			"status":       string(withdrawal.Status),
			"note":         withdrawal.Note,
			"payout_id":    withdrawal.PayoutID,
			"processed_at": withdrawal.ProcessedAt,
		})
	if result.Error != nil {
		return r.handleDatabaseError("updating withdrawal", result.Error, withdrawal.ID)
	}
	if result.RowsAffected == 0 {
		return errs.ErrWithdrawalNotFound
	}
	return nil
}

// ListByUser returns a user's withdrawals, most recent first
func (r *WithdrawalRepository) ListByUser(ctx context.Context, userID uint64) ([]*entity.Withdrawal, error) {
	var models []model.Withdrawal
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("requested_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, r.handleDatabaseError("listing withdrawals", result.Error, userID)
	}
	return withdrawalModelsToEntities(models), nil
}

// ListByStatus returns withdrawals in the given status, most recent first.
// An empty status returns everything.
func (r *WithdrawalRepository) ListByStatus(ctx context.Context, status entity.WithdrawalStatus) ([]*entity.Withdrawal, error) {
	query := r.db.WithContext(ctx).Order("requested_at DESC")
	if status != "" {
		query = query.Where("status = ?", string(status))
	}

	var models []model.Withdrawal
	result := query.Find(&models)
	if result.Error != nil {
		return nil, r.handleDatabaseError("listing withdrawals by status", result.Error, 0)
	}
	return withdrawalModelsToEntities(models), nil
}

// SumOnHoldByUser sums the user's pending and approved withdrawals in cents,
// excluding the given withdrawal ID (0 excludes nothing)
func (r *WithdrawalRepository) SumOnHoldByUser(ctx context.Context, userID uint64, excludeID uint64) (int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Withdrawal{}).
		Where("user_id = ? AND status IN ?", userID,
			[]string{string(entity.WithdrawalPending), string(entity.WithdrawalApproved)})
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var total int64
	result := query.Select("COALESCE(SUM(amount_in_cents), 0)").Scan(&total)
	if result.Error != nil {
		return 0, r.handleDatabaseError("summing held withdrawals", result.Error, userID)
	}
	return total, nil
}

// SumByStatus returns the platform-wide sum in cents of withdrawals in the given status
func (r *WithdrawalRepository) SumByStatus(ctx context.Context, status entity.WithdrawalStatus) (int64, error) {
	var total int64
	result := r.db.WithContext(ctx).Model(&model.Withdrawal{}).
		Where("status = ?", string(status)).
		Select("COALESCE(SUM(amount_in_cents), 0)").
		Scan(&total)
	if result.Error != nil {
		return 0, r.handleDatabaseError("summing withdrawals by status", result.Error, 0)
	}
	return total, nil
}

func withdrawalModelsToEntities(models []model.Withdrawal) []*entity.Withdrawal {
	out := make([]*entity.Withdrawal, 0, len(models))
	for i := range models {
		out = append(out, withdrawalModelToEntity(&models[i]))
	}
	return out
}
