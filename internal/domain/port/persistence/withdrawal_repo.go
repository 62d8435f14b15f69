package persistence

import (
	"context"

	"github.com/alirazaSuccess/FAG-Project/internal/domain/entity"
)

// WithdrawalRepository defines methods to interact with withdrawal requests
type WithdrawalRepository interface {
	// Create saves a new withdrawal request
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, withdrawal *entity.Withdrawal) error

	// GetByID retrieves a withdrawal by ID
	//
	// Possible errors:
	// - ErrWithdrawalNotFound: If no withdrawal has the given ID
	// - ErrDatabaseConnection: If database connection fails
	GetByID(ctx context.Context, id uint64) (*entity.Withdrawal, error)

	// GetByIDForUpdate retrieves a withdrawal by ID with a row lock. Must be
	// called inside a unit of work.
	//
	// Possible errors:
	// - ErrWithdrawalNotFound: If no withdrawal has the given ID
	// - ErrDatabaseConnection: If database connection fails
	GetByIDForUpdate(ctx context.Context, id uint64) (*entity.Withdrawal, error)

	// Update persists changes to an existing withdrawal
	//
	// Possible errors:
	// - ErrWithdrawalNotFound: If withdrawal doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	Update(ctx context.Context, withdrawal *entity.Withdrawal) error

	// ListByUser returns a user's withdrawals, most recent first
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	ListByUser(ctx context.Context, userID uint64) ([]*entity.Withdrawal, error)

	// ListByStatus returns all withdrawals in the given status, most recent
	// first. An empty status returns everything.
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	ListByStatus(ctx context.Context, status entity.WithdrawalStatus) ([]*entity.Withdrawal, error)

	// SumOnHoldByUser returns the sum in cents of a user's pending and
	// approved withdrawals, excluding the given withdrawal ID (0 excludes
	// nothing). The exclusion lets an approval re-check availability without
	// counting the withdrawal being approved against itself.
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	SumOnHoldByUser(ctx context.Context, userID uint64, excludeID uint64) (int64, error)

	// SumByStatus returns the platform-wide sum in cents of withdrawals in
	// the given status. Used for admin stats.
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	SumByStatus(ctx context.Context, status entity.WithdrawalStatus) (int64, error)
}
