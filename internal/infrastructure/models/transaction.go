package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction rows are append-only and outlive the custody wallets they mention.
type Transaction struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	FromAddress string    `gorm:"column:from_address;type:varchar(42);not null"`
	ToAddress   string    `gorm:"column:to_address;type:varchar(42);not null"`
	Amount      string    `gorm:"type:varchar(100);not null"`
	TxHash      string    `gorm:"type:varchar(100);not null;index"`
	Status      string    `gorm:"type:varchar(20);not null"`
	Type        string    `gorm:"type:varchar(20);not null;index:idx_transactions_user_type"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_transactions_user_type"`
	CreatedAt   time.Time `gorm:"index"`
}

func (Transaction) TableName() string {
	return "transactions"
}
