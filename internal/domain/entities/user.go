package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// User represents a dashboard account
type User struct {
	ID              uuid.UUID   `json:"id"`
	Email           string      `json:"email"`
	PasswordHash    string      `json:"-"`
	ConnectedWallet null.String `json:"connectedWallet"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// RegisterInput represents input for creating an account
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginInput represents input for user login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LinkWalletInput represents input for linking a browser wallet
type LinkWalletInput struct {
	WalletAddress string `json:"walletAddress"`
}
