package persistence

import (
	"context"

	"github.com/alirazaSuccess/FAG-Project/internal/domain/entity"
)

// ReferralEventRepository defines methods to interact with earnings history
type ReferralEventRepository interface {
	// Create appends an earnings history entry
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, event *entity.ReferralEvent) error

	// ListByUser returns a user's earnings history, most recent first
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	ListByUser(ctx context.Context, userID uint64) ([]*entity.ReferralEvent, error)

	// SumPaidByUser returns the sum in cents of a user's paid events
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	SumPaidByUser(ctx context.Context, userID uint64) (int64, error)

	// SumPaidCommission returns the platform-wide sum in cents of paid
	// commission events, excluding daily bonuses. Used for admin stats.
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	SumPaidCommission(ctx context.Context) (int64, error)
}
