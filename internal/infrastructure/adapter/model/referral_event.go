package model

import (
	"time"
)

// ReferralEvent represents the database model for earnings history entries
type ReferralEvent struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement"`
	UserID        uint64    `gorm:"not null;index"`
	FromUserID    *uint64   `gorm:"index"`
	Depth         int       `gorm:"not null;default:0"`
	AmountInCents int64     `gorm:"not null"`
	Status        string    `gorm:"not null;size:20;index"`
	Reason        string    `gorm:"not null;size:50"`
	CreatedAt     time.Time `gorm:"not null"`

	User User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for ReferralEvent
func (ReferralEvent) TableName() string {
	return "referral_events"
}
