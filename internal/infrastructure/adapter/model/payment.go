package model

import (
	"time"
)

// Payment represents the database model for confirmed deposits.
// The transaction hash carries a global unique index: the database is the
// final arbiter that one transfer credits one user once.
type Payment struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement"`
	UserID        uint64    `gorm:"not null;index"`
	TxID          string    `gorm:"uniqueIndex;not null;size:80"`
	FromAddress   string    `gorm:"not null;size:50"`
	AmountInCents int64     `gorm:"not null"`
	BlockNumber   uint64    `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null"`

	User User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "payments"
}
