package entity

import (
	"time"

	errs "github.com/alirazaSuccess/FAG-Project/internal/domain/error"
	coreport "github.com/alirazaSuccess/FAG-Project/internal/domain/port/core"
)

// MaxCommissionLevels is how many ancestors a deposit pays commissions to
const MaxCommissionLevels = 10

// MinActiveDirects is the direct-referral width required to hold a level above 0
const MinActiveDirects = 3

// MaxLevel caps the referral level
const MaxLevel = 10

// commissionCents is the fixed commission per ancestor depth, in cents.
// Index 0 is the direct sponsor of the depositor.
var commissionCents = [MaxCommissionLevels]int64{1000, 500, 300, 300, 200, 200, 150, 150, 100, 100}

// CommissionForLevel returns the commission in cents paid to the ancestor at
// the given depth (1-based). The second return is false beyond the table.
func CommissionForLevel(depth int) (int64, bool) {
	if depth < 1 || depth > MaxCommissionLevels {
		return 0, false
	}
	return commissionCents[depth-1], true
}

// TotalCommissionCents returns the sum of the full commission table
func TotalCommissionCents() int64 {
	var total int64
	for _, c := range commissionCents {
		total += c
	}
	return total
}

// rankNames maps a level to its display label
var rankNames = [MaxLevel + 1]string{
	"Starter", "Bronze", "Silver", "Gold", "Platinum", "Sapphire",
	"Ruby", "Emerald", "Diamond", "Crown", "Legender",
}

// RankForLevel returns the display label for a level, clamping out-of-range values
func RankForLevel(level int) string {
	if level < 0 {
		level = 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return rankNames[level]
}

// ReferralEventStatus represents whether a commission was credited or deferred
type ReferralEventStatus string

// Referral event statuses
const (
	EventPaid    ReferralEventStatus = "paid"
	EventPending ReferralEventStatus = "pending"
)

// Referral event reasons
const (
	ReasonCommission = "Referral Commission"
	ReasonDailyBonus = "Daily Bonus"
)

// ReferralEvent is one entry in a user's earnings history: a commission from a
// descendant's deposit, or a daily bonus credit
type ReferralEvent struct {
	ID            uint64              // Unique identifier for the event
	UserID        uint64              // Beneficiary of the event
	FromUserID    *uint64             // Depositor that triggered a commission, nil for bonuses
	Depth         int                 // Ancestor depth for commissions, 0 for bonuses
	AmountInCents int64               // Event amount in cents
	Status        ReferralEventStatus // paid or pending
	Reason        string              // Human readable label
	CreatedAt     time.Time           // When the event occurred
}

// NewCommissionEvent creates a commission history entry for an ancestor
func NewCommissionEvent(userID, fromUserID uint64, depth int, amountInCents int64, status ReferralEventStatus, timeProvider coreport.TimeProvider) (*ReferralEvent, error) {
	if userID == 0 || fromUserID == 0 {
		return nil, errs.ErrInvalidUserID
	}
	if _, ok := CommissionForLevel(depth); !ok {
		return nil, errs.ErrInvalidRequest
	}

	from := fromUserID
	return &ReferralEvent{
		UserID:        userID,
		FromUserID:    &from,
		Depth:         depth,
		AmountInCents: amountInCents,
		Status:        status,
		Reason:        ReasonCommission,
		CreatedAt:     timeProvider.Now(),
	}, nil
}

// NewDailyBonusEvent creates a paid daily bonus history entry
func NewDailyBonusEvent(userID uint64, amountInCents int64, timeProvider coreport.TimeProvider) (*ReferralEvent, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}
	return &ReferralEvent{
		UserID:        userID,
		AmountInCents: amountInCents,
		Status:        EventPaid,
		Reason:        ReasonDailyBonus,
		CreatedAt:     timeProvider.Now(),
	}, nil
}
