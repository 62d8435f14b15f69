package persistence

import (
	"context"

	"github.com/alirazaSuccess/FAG-Project/internal/domain/entity"
)

// PaymentRepository defines methods to interact with confirmed deposit records
type PaymentRepository interface {
	// Create saves a confirmed payment. The transaction hash is globally
	// unique; inserting a hash that was already credited fails.
	//
	// Possible errors:
	// - ErrDuplicateTransaction: If the transaction hash was already credited
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, payment *entity.Payment) error

	// GetByTxID retrieves a payment by its on-chain transaction hash
	//
	// Possible errors:
	// - ErrNotFound: If no payment has the given hash
	// - ErrDatabaseConnection: If database connection fails
	GetByTxID(ctx context.Context, txID string) (*entity.Payment, error)

	// ListByUser returns a user's confirmed deposits, most recent first
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	ListByUser(ctx context.Context, userID uint64) ([]*entity.Payment, error)
}
