package model

import (
	"time"
)

// Withdrawal represents the database model for withdrawal requests
type Withdrawal struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement"`
	UserID        uint64    `gorm:"not null;index:idx_withdrawals_user_status"`
	AmountInCents int64     `gorm:"not null"`
	Address       string    `gorm:"not null;size:50"`
	Status        string    `gorm:"not null;size:20;index:idx_withdrawals_user_status"`
	Note          string    `gorm:"type:text"`
	PayoutID      string    `gorm:"size:80"`
	RequestedAt   time.Time `gorm:"not null"`
	ProcessedAt   *time.Time

	User User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for Withdrawal
func (Withdrawal) TableName() string {
	return "withdrawals"
}
