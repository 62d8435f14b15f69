package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidAmount          = 4001
	CodeBelowMinimumDeposit    = 4002
	CodeBelowMinimumWithdrawal = 4003
	CodeInvalidAddress         = 4004
	CodeInsufficientBalance    = 4005
	CodeDuplicateTransaction   = 4006
	CodeInvalidReferralCode    = 4007
	CodeNotEligible            = 4008
	CodeDailyBonusNotDue       = 4009
	CodeWithdrawalNotPending   = 4010
	CodeConstraintViolation    = 4011
	CodeUserNotFound           = 4040
	CodeWithdrawalNotFound     = 4041
	CodePaymentNotFound        = 4042
	CodeUserLocked             = 4230

	// 5xxx - Server errors
	CodeInternalServer = 5000
	CodePayoutFailed   = 5001
)

// Base error types
var (
	// ErrInvalidAmount is returned when a monetary amount has an invalid format
	ErrInvalidAmount = errors.New("invalid amount format")

	// ErrNegativeAmount is returned when a monetary amount is negative
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrAmountOverflow is returned when the amount is too large and would cause overflow
	ErrAmountOverflow = errors.New("amount is too large and would cause overflow")

	// ErrBelowMinimumDeposit is returned when a deposit claim is under the configured minimum
	ErrBelowMinimumDeposit = errors.New("deposit amount below minimum")

	// ErrBelowMinimumWithdrawal is returned when a withdrawal request is under the configured minimum
	ErrBelowMinimumWithdrawal = errors.New("withdrawal amount below minimum")

	// ErrInvalidAddress is returned when a payout address fails the chain format check
	ErrInvalidAddress = errors.New("invalid wallet address")

	// ErrInvalidAdminWallet is returned when the configured receiving wallet is malformed
	ErrInvalidAdminWallet = errors.New("invalid admin wallet address")

	// ErrInsufficientBalance is returned when a withdrawal exceeds the withdrawable amount
	ErrInsufficientBalance = errors.New("insufficient withdrawable balance")

	// ErrPaymentNotFound is returned when no qualifying on-chain transfer was observed.
	// It is retryable: the transfer may simply not be confirmed yet.
	ErrPaymentNotFound = errors.New("payment not found yet")

	// ErrDuplicateTransaction is returned when a transaction id was already credited to another user
	ErrDuplicateTransaction = errors.New("transaction already credited")

	// ErrInvalidUserID is returned when the user ID is not a positive integer
	ErrInvalidUserID = errors.New("user ID must be positive")

	// ErrUserNotFound is returned when the requested user doesn't exist
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateUser is returned when trying to create a user that already exists
	ErrDuplicateUser = errors.New("user already exists")

	// ErrInvalidReferralCode is returned when a signup names a referral code that matches no user
	ErrInvalidReferralCode = errors.New("invalid referral code")

	// ErrWithdrawalNotFound is returned when the requested withdrawal doesn't exist
	ErrWithdrawalNotFound = errors.New("withdrawal not found")

	// ErrWithdrawalNotPending is returned when approving or rejecting a withdrawal
	// that already left the pending state
	ErrWithdrawalNotPending = errors.New("withdrawal is not pending")

	// ErrPayoutFailed is returned when the external payout provider rejected a withdrawal
	ErrPayoutFailed = errors.New("payout failed")

	// ErrNotEligible is returned when a user without daily profit eligibility claims a bonus
	ErrNotEligible = errors.New("user not eligible for daily profit")

	// ErrDailyBonusNotDue is returned when the 24 hour window since the last bonus has not elapsed
	ErrDailyBonusNotDue = errors.New("daily profit not available yet")

	// ErrUserLocked is returned when a user row is locked by another operation
	ErrUserLocked = errors.New("user is locked by another operation")

	// ErrDatabaseConnection is returned when there's a problem connecting to the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrConstraintViolation is returned when a database constraint is violated
	ErrConstraintViolation = errors.New("database constraint violation")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNotFound is returned when a generic resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrNegativeAmount), errors.Is(err, ErrAmountOverflow):
		return CodeInvalidAmount
	case errors.Is(err, ErrBelowMinimumDeposit):
		return CodeBelowMinimumDeposit
	case errors.Is(err, ErrBelowMinimumWithdrawal):
		return CodeBelowMinimumWithdrawal
	case errors.Is(err, ErrInvalidAddress), errors.Is(err, ErrInvalidAdminWallet):
		return CodeInvalidAddress
	case errors.Is(err, ErrInsufficientBalance):
		return CodeInsufficientBalance
	case errors.Is(err, ErrDuplicateTransaction):
		return CodeDuplicateTransaction
	case errors.Is(err, ErrInvalidReferralCode):
		return CodeInvalidReferralCode
	case errors.Is(err, ErrNotEligible):
		return CodeNotEligible
	case errors.Is(err, ErrDailyBonusNotDue):
		return CodeDailyBonusNotDue
	case errors.Is(err, ErrWithdrawalNotPending):
		return CodeWithdrawalNotPending
	case errors.Is(err, ErrConstraintViolation):
		return CodeConstraintViolation
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrInvalidUserID):
		return CodeUserNotFound
	case errors.Is(err, ErrWithdrawalNotFound):
		return CodeWithdrawalNotFound
	case errors.Is(err, ErrPaymentNotFound):
		return CodePaymentNotFound
	case errors.Is(err, ErrUserLocked):
		return CodeUserLocked
	case errors.Is(err, ErrPayoutFailed):
		return CodePayoutFailed
	default:
		return CodeInternalServer
	}
}

// PayoutError carries the provider's error message for a failed withdrawal payout.
// The message is persisted on the withdrawal for operator review.
type PayoutError struct {
	ProviderCode int
	Message      string
}

// Error implements the error interface
func (e *PayoutError) Error() string {
	if e.ProviderCode != 0 {
		return fmt.Sprintf("payout failed: provider code %d: %s", e.ProviderCode, e.Message)
	}
	return fmt.Sprintf("payout failed: %s", e.Message)
}

// Is checks if the target error is an ErrPayoutFailed
func (e *PayoutError) Is(target error) bool {
	return target == ErrPayoutFailed
}

// LogFields returns a map of fields for structured logging
func (e *PayoutError) LogFields() map[string]any {
	return map[string]any{
		"error_type":    "payout_error",
		"provider_code": e.ProviderCode,
		"message":       e.Message,
		"error_code":    CodePayoutFailed,
	}
}

// NewPayoutError creates a payout error preserving the provider's message
func NewPayoutError(providerCode int, message string) error {
	return &PayoutError{ProviderCode: providerCode, Message: message}
}

// InsufficientBalanceError provides detailed error information for withdrawal rejections
type InsufficientBalanceError struct {
	UserID    uint64
	Amount    string
	Available string
}

// Error implements the error interface
func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient withdrawable balance for user %d: requested %s, available %s",
		e.UserID, e.Amount, e.Available)
}

// Is checks if the target error is an ErrInsufficientBalance
func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientBalanceError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "insufficient_balance",
		"user_id":    e.UserID,
		"amount":     e.Amount,
		"available":  e.Available,
		"error_code": CodeInsufficientBalance,
	}
}

// NewInsufficientBalanceError creates a new detailed insufficient balance error
func NewInsufficientBalanceError(userID uint64, amount, available string) error {
	return &InsufficientBalanceError{UserID: userID, Amount: amount, Available: available}
}

// DuplicateTransactionError provides detail about a transaction id credited twice
type DuplicateTransactionError struct {
	TxID   string
	UserID uint64
}

// Error implements the error interface
func (e *DuplicateTransactionError) Error() string {
	return fmt.Sprintf("transaction %s already credited and cannot be claimed by user %d", e.TxID, e.UserID)
}

// Is checks if the target error is an ErrDuplicateTransaction
func (e *DuplicateTransactionError) Is(target error) bool {
	return target == ErrDuplicateTransaction
}

// LogFields returns a map of fields for structured logging
func (e *DuplicateTransactionError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "duplicate_transaction",
		"tx_id":      e.TxID,
		"user_id":    e.UserID,
		"error_code": CodeDuplicateTransaction,
	}
}

// NewDuplicateTransactionError creates a new detailed duplicate transaction error
func NewDuplicateTransactionError(txID string, userID uint64) error {
	return &DuplicateTransactionError{TxID: txID, UserID: userID}
}

// DailyBonusNotDueError reports how long remains until the next daily bonus
type DailyBonusNotDueError struct {
	RemainingHours int
}

// Error implements the error interface
func (e *DailyBonusNotDueError) Error() string {
	return fmt.Sprintf("daily profit not available yet: %d hour(s) remaining", e.RemainingHours)
}

// Is checks if the target error is an ErrDailyBonusNotDue
func (e *DailyBonusNotDueError) Is(target error) bool {
	return target == ErrDailyBonusNotDue
}

// IsPaymentNotFound checks if the error is the retryable "not observed yet" outcome
func IsPaymentNotFound(err error) bool {
	return errors.Is(err, ErrPaymentNotFound)
}

// IsDuplicateTransactionError checks if the error is a duplicate transaction error
func IsDuplicateTransactionError(err error) bool {
	return errors.Is(err, ErrDuplicateTransaction)
}

// IsInsufficientBalanceError checks if the error is related to insufficient balance
func IsInsufficientBalanceError(err error) bool {
	return errors.Is(err, ErrInsufficientBalance)
}

// IsUserNotFoundError checks if the error is a user not found error
func IsUserNotFoundError(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrWithdrawalNotFound)
}

// IsUserLockedError checks if the error is related to a locked user
func IsUserLockedError(err error) bool {
	return errors.Is(err, ErrUserLocked)
}

// IsValidationError checks if the error is a client-side validation failure
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrNegativeAmount) ||
		errors.Is(err, ErrAmountOverflow) ||
		errors.Is(err, ErrBelowMinimumDeposit) ||
		errors.Is(err, ErrBelowMinimumWithdrawal) ||
		errors.Is(err, ErrInvalidAddress) ||
		errors.Is(err, ErrInvalidReferralCode)
}
