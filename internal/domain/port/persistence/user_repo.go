package persistence

import (
	"context"

	"github.com/alirazaSuccess/FAG-Project/internal/domain/entity"
)

// UserTotals carries platform-wide aggregates for the admin dashboard
type UserTotals struct {
	UserCount        int64
	DailyProfitCents int64
	BonusEarnedCents int64
}

// UserRepository defines essential methods to interact with user data
type UserRepository interface {
	// GetByID retrieves a user by ID
	//
	// Possible errors:
	// - ErrUserNotFound: If user with specified ID doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	GetByID(ctx context.Context, id uint64) (*entity.User, error)

	// GetByIDForUpdate retrieves a user by ID with a row lock. Must be called
	// inside a unit of work; the lock is held until the transaction ends.
	//
	// Possible errors:
	// - ErrUserNotFound: If user with specified ID doesn't exist
	// - ErrUserLocked: If the row lock could not be acquired
	// - ErrDatabaseConnection: If database connection fails
	GetByIDForUpdate(ctx context.Context, id uint64) (*entity.User, error)

	// GetByEmail retrieves a user by email
	//
	// Possible errors:
	// - ErrUserNotFound: If no user has the given email
	// - ErrDatabaseConnection: If database connection fails
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	// GetByRefCode retrieves a user by referral code
	//
	// Possible errors:
	// - ErrUserNotFound: If no user has the given referral code
	// - ErrDatabaseConnection: If database connection fails
	GetByRefCode(ctx context.Context, refCode string) (*entity.User, error)

	// Create creates a new user
	//
	// Possible errors:
	// - ErrDuplicateUser: If a user with the same email or referral code exists
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, user *entity.User) error

	// Update persists changes to an existing user
	//
	// Possible errors:
	// - ErrUserNotFound: If user doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	Update(ctx context.Context, user *entity.User) error

	// GetDirectReferrals returns the users whose parent is the given user.
	// Used by the rank calculator and the network views.
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	GetDirectReferrals(ctx context.Context, parentID uint64) ([]*entity.User, error)

	// Totals returns platform-wide user aggregates for admin stats
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	Totals(ctx context.Context) (*UserTotals, error)
}
