package model

import (
	"time"
)

// User represents the database model for users
type User struct {
	ID               uint64  `gorm:"primaryKey;autoIncrement"`
	Email            string  `gorm:"uniqueIndex;not null;size:255"`
	Username         string  `gorm:"not null;size:100"`
	RefCode          string  `gorm:"uniqueIndex;not null;size:20"`
	ParentID         *uint64 `gorm:"index"`
	Balance          int64   `gorm:"not null;default:0"` // Principal in cents
	BonusEarned      int64   `gorm:"not null;default:0"` // Commissions in cents
	DailyProfit      int64   `gorm:"not null;default:0"` // Daily bonuses in cents
	Level            int     `gorm:"not null;default:0"`
	Rank             string  `gorm:"not null;size:20"`
	ReferralCount    uint64  `gorm:"not null;default:0"`
	DailyEligible    bool    `gorm:"not null;default:false"`
	EligibleSince    *time.Time
	LastDailyBonusAt *time.Time
	IsAdmin          bool      `gorm:"not null;default:false"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
