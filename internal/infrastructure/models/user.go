package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

type User struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Email           string      `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash    string      `gorm:"type:varchar(255);not null"`
	ConnectedWallet null.String `gorm:"type:varchar(42)"`
	CreatedAt       time.Time
}
