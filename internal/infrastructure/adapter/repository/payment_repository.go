package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/alirazaSuccess/FAG-Project/internal/domain/entity"
	errs "github.com/alirazaSuccess/FAG-Project/internal/domain/error"
	coreport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/core"
	"github.com/alirazaSuccess/FAG-Project/internal/infrastructure/adapter/model"
)

// PaymentRepository implements persistence.PaymentRepository using GORM
type PaymentRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewPaymentRepository creates a new PaymentRepository instance
func NewPaymentRepository(db *gorm.DB, logger coreport.Logger) *PaymentRepository {
	return &PaymentRepository{
		db:     db,
		logger: logger,
	}
}

func paymentModelToEntity(m *model.Payment) *entity.Payment {
	return &entity.Payment{
		ID:            m.ID,
		UserID:        m.UserID,
		TxID:          m.TxID,
		FromAddress:   m.FromAddress,
		AmountInCents: m.AmountInCents,
		BlockNumber:   m.BlockNumber,
		CreatedAt:     m.CreatedAt,
	}
}

// Create saves a confirmed payment. The unique index on the transaction hash
// turns a concurrent double-credit into ErrDuplicateTransaction.
func (r *PaymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	paymentModel := model.Payment{
		UserID:        payment.UserID,
		TxID:          payment.TxID,
		FromAddress:   payment.FromAddress,
		AmountInCents: payment.AmountInCents,
		BlockNumber:   payment.BlockNumber,
		CreatedAt:     payment.CreatedAt,
	}

	result := r.db.WithContext(ctx).Create(&paymentModel)
	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			r.logger.Warn("Transaction hash already credited", map[string]any{
				"tx_id":   payment.TxID,
				"user_id": payment.UserID,
			})
			return errs.NewDuplicateTransactionError(payment.TxID, payment.UserID)
		}
		r.logger.Error("Database error when creating payment", map[string]any{
			"tx_id": payment.TxID,
			"error": result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	payment.ID = paymentModel.ID
	return nil
}

// GetByTxID retrieves a payment by its on-chain transaction hash
func (r *PaymentRepository) GetByTxID(ctx context.Context, txID string) (*entity.Payment, error) {
	var paymentModel model.Payment
	result := r.db.WithContext(ctx).Where("tx_id = ?", txID).First(&paymentModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		r.logger.Error("Database error when getting payment", map[string]any{
			"tx_id": txID,
			"error": result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}
	return paymentModelToEntity(&paymentModel), nil
}

// ListByUser returns a user's confirmed deposits, most recent first
func (r *PaymentRepository) ListByUser(ctx context.Context, userID uint64) ([]*entity.Payment, error) {
	var models []model.Payment
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models)
	if result.Error != nil {
		r.logger.Error("Database error when listing payments", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	payments := make([]*entity.Payment, 0, len(models))
	for i := range models {
		payments = append(payments, paymentModelToEntity(&models[i]))
	}
	return payments, nil
}
