package entities

import (
	"time"

	"github.com/google/uuid"
)

// CustodyWallet is a server-generated key pair held for a user.
// PrivateKey holds the stored encoding of the key and never leaves the server.
type CustodyWallet struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"userId"`
	Address    string    `json:"address"`
	PrivateKey string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}

// WalletSummary is the listing view of a custody wallet
type WalletSummary struct {
	ID           uuid.UUID `json:"id"`
	Address      string    `json:"address"`
	CreatedAt    time.Time `json:"createdAt"`
	Balance      *string   `json:"balance,omitempty"`
	BalanceError string    `json:"balanceError,omitempty"`
}

// DeleteWalletInput represents input for removing a custody wallet
type DeleteWalletInput struct {
	WalletID   string `json:"walletId"`
	PrivateKey string `json:"privateKey"`
}
