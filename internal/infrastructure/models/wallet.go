package models

import (
	"time"

	"github.com/google/uuid"
)

type CustodyWallet struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Address    string    `gorm:"type:varchar(42);not null;index"`
	PrivateKey string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"index"`
}

func (CustodyWallet) TableName() string {
	return "custody_wallets"
}
