package entity

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	errs "github.com/alirazaSuccess/FAG-Project/internal/domain/error"
	coreport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/core"
)

// User represents a platform member with a deposit balance and referral earnings
type User struct {
	ID               uint64     // Unique identifier for the user
	Email            string     // Login identity, unique
	Username         string     // Display name
	RefCode          string     // This user's own referral code, unique
	ParentID         *uint64    // Direct sponsor, nil for root users
	balance          int64      // Deposited principal in cents (private)
	bonusEarned      int64      // Referral commissions in cents (private)
	dailyProfit      int64      // Accumulated daily bonuses in cents (private)
	Level            int        // Current referral level, 0..10
	Rank             string     // Label derived from Level
	ReferralCount    uint64     // Count of direct referrals
	DailyEligible    bool       // Whether daily profit claims are unlocked
	EligibleSince    *time.Time // When eligibility was first reached
	LastDailyBonusAt *time.Time // When the last daily bonus was credited
	IsAdmin          bool       // Operator flag
	CreatedAt        time.Time  // When the user was created
	UpdatedAt        time.Time  // When the user was last updated
}

// NewUser creates a new user with a freshly generated referral code
func NewUser(email, username string, parentID *uint64, timeProvider coreport.TimeProvider) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", errs.ErrInvalidRequest)
	}
	if strings.TrimSpace(username) == "" {
		return nil, fmt.Errorf("%w: username is required", errs.ErrInvalidRequest)
	}

	code, err := GenerateRefCode()
	if err != nil {
		return nil, err
	}

	now := timeProvider.Now()
	return &User{
		Email:     email,
		Username:  strings.TrimSpace(username),
		RefCode:   code,
		ParentID:  parentID,
		Level:     0,
		Rank:      RankForLevel(0),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GenerateRefCode produces a referral code of the form REF followed by six digits
func GenerateRefCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate referral code: %w", err)
	}
	return fmt.Sprintf("REF%06d", n.Int64()), nil
}

// Balance returns the deposited principal in cents
func (u *User) Balance() int64 {
	return u.balance
}

// BonusEarned returns the accumulated referral commissions in cents
func (u *User) BonusEarned() int64 {
	return u.bonusEarned
}

// DailyProfit returns the accumulated daily bonuses in cents
func (u *User) DailyProfit() int64 {
	return u.dailyProfit
}

// TotalEarnings returns the withdrawable pool before holds, in cents
func (u *User) TotalEarnings() int64 {
	return u.bonusEarned + u.dailyProfit
}

// GetBalance returns the principal as a string with 2 decimal places
func (u *User) GetBalance() string {
	return AmountInCentsToString(u.balance)
}

// SetBalances updates all monetary fields directly (for internal use, like repositories)
func (u *User) SetBalances(balanceInCents, bonusInCents, dailyInCents int64) {
	u.balance = balanceInCents
	u.bonusEarned = bonusInCents
	u.dailyProfit = dailyInCents
}

// IsActive reports whether the user's principal has reached the activity threshold
func (u *User) IsActive(thresholdInCents int64) bool {
	return u.balance >= thresholdInCents
}

// CreditDeposit adds a confirmed deposit to the principal. When the principal
// first crosses the activity threshold the user becomes eligible for daily
// profit and is granted one immediate daily unit. Returns true on that first
// crossing.
func (u *User) CreditDeposit(amountInCents, thresholdInCents, dailyUnitInCents int64, timeProvider coreport.TimeProvider) bool {
	now := timeProvider.Now()
	u.balance += amountInCents
	u.UpdatedAt = now

	if u.DailyEligible || u.balance < thresholdInCents {
		return false
	}

	u.DailyEligible = true
	u.EligibleSince = &now
	u.dailyProfit += dailyUnitInCents
	u.LastDailyBonusAt = &now
	return true
}

// CreditBonus adds a referral commission to bonusEarned
func (u *User) CreditBonus(amountInCents int64, timeProvider coreport.TimeProvider) {
	u.bonusEarned += amountInCents
	u.UpdatedAt = timeProvider.Now()
}

// CreditDailyProfit adds a claimed daily bonus and records the claim time
func (u *User) CreditDailyProfit(amountInCents int64, timeProvider coreport.TimeProvider) {
	now := timeProvider.Now()
	u.dailyProfit += amountInCents
	u.LastDailyBonusAt = &now
	u.UpdatedAt = now
}

// LastBonusReference returns the reference point for the 24h claim window:
// the last bonus time, falling back to when eligibility was reached
func (u *User) LastBonusReference() *time.Time {
	if u.LastDailyBonusAt != nil {
		return u.LastDailyBonusAt
	}
	return u.EligibleSince
}

// DeductEarnings removes a settled withdrawal amount from the earnings pools,
// bonusEarned first and dailyProfit for the remainder. Both pools floor at
// zero so a settlement never drives an account negative.
func (u *User) DeductEarnings(amountInCents int64, timeProvider coreport.TimeProvider) {
	remaining := amountInCents

	fromBonus := min(remaining, u.bonusEarned)
	u.bonusEarned -= fromBonus
	remaining -= fromBonus

	fromDaily := min(remaining, u.dailyProfit)
	u.dailyProfit -= fromDaily

	u.UpdatedAt = timeProvider.Now()
}

// SetRank updates the level and derived rank label
func (u *User) SetRank(level int, timeProvider coreport.TimeProvider) {
	u.Level = level
	u.Rank = RankForLevel(level)
	u.UpdatedAt = timeProvider.Now()
}

// IncrementReferralCount increases the direct referral count by 1
func (u *User) IncrementReferralCount(timeProvider coreport.TimeProvider) {
	u.ReferralCount++
	u.UpdatedAt = timeProvider.Now()
}
