package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/alirazaSuccess/FAG-Project/internal/domain/entity"
	errs "github.com/alirazaSuccess/FAG-Project/internal/domain/error"
	coreport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/core"
	"github.com/alirazaSuccess/FAG-Project/internal/infrastructure/adapter/model"
)

// ReferralEventRepository implements persistence.ReferralEventRepository using GORM
type ReferralEventRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewReferralEventRepository creates a new ReferralEventRepository instance
func NewReferralEventRepository(db *gorm.DB, logger coreport.Logger) *ReferralEventRepository {
	return &ReferralEventRepository{db: db, logger: logger}
}

func eventModelToEntity(m *model.ReferralEvent) *entity.ReferralEvent {
	return &entity.ReferralEvent{
		ID:            m.ID,
		UserID:        m.UserID,
		FromUserID:    m.FromUserID,
		Depth:         m.Depth,
		AmountInCents: m.AmountInCents,
		Status:        entity.ReferralEventStatus(m.Status),
		Reason:        m.Reason,
		CreatedAt:     m.CreatedAt,
	}
}

// Create appends an earnings history entry
func (r *ReferralEventRepository) Create(ctx context.Context, event *entity.ReferralEvent) error {
	eventModel := model.ReferralEvent{
		UserID:        event.UserID,
		FromUserID:    event.FromUserID,
		Depth:         event.Depth,
		AmountInCents: event.AmountInCents,
		Status:        string(event.Status),
		Reason:        event.Reason,
		CreatedAt:     event.CreatedAt,
	}

	result := r.db.WithContext(ctx).Create(&eventModel)
	if result.Error != nil {
		r.logger.Error("Database error when creating referral event", map[string]any{
			"user_id": event.UserID,
			"error":   result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	event.ID = eventModel.ID
	return nil
}

// ListByUser returns a user's earnings history, most recent first
func (r *ReferralEventRepository) ListByUser(ctx context.Context, userID uint64) ([]*entity.ReferralEvent, error) {
	var models []model.ReferralEvent
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models)
	if result.Error != nil {
		r.logger.Error("Database error when listing referral events", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	events := make([]*entity.ReferralEvent, 0, len(models))
	for i := range models {
		events = append(events, eventModelToEntity(&models[i]))
	}
	return events, nil
}

// SumPaidByUser returns the sum in cents of a user's paid events
func (r *ReferralEventRepository) SumPaidByUser(ctx context.Context, userID uint64) (int64, error) {
	return r.sum(ctx, r.db.WithContext(ctx).Model(&model.ReferralEvent{}).
		Where("user_id = ? AND status = ?", userID, string(entity.EventPaid)))
}

// SumPaidCommission returns the platform-wide paid commission total,
// excluding daily bonuses
func (r *ReferralEventRepository) SumPaidCommission(ctx context.Context) (int64, error) {
	return r.sum(ctx, r.db.WithContext(ctx).Model(&model.ReferralEvent{}).
		Where("status = ? AND reason <> ?", string(entity.EventPaid), entity.ReasonDailyBonus))
}

func (r *ReferralEventRepository) sum(_ context.Context, query *gorm.DB) (int64, error) {
	var total int64
	result := query.Select("COALESCE(SUM(amount_in_cents), 0)").Scan(&total)
	if result.Error != nil {
		r.logger.Error("Database error when summing referral events", map[string]any{
			"error": result.Error.Error(),
		})
		return 0, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return total, nil
}
