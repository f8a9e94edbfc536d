package entities

import (
	"bytes"
	"encoding/json"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TransactionStatus is the recorded outcome of a transfer
type TransactionStatus string

const (
	TransactionSuccess TransactionStatus = "success"
	TransactionFailed  TransactionStatus = "failed"
)

// TransactionType is the origin of a transfer
type TransactionType string

const (
	TransactionTypeAdmin   TransactionType = "admin"
	TransactionTypeUser    TransactionType = "user"
	TransactionTypeCustody TransactionType = "custody"
)

// Valid reports whether t is a known transaction type
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeAdmin, TransactionTypeUser, TransactionTypeCustody:
		return true
	}
	return false
}

// Transaction is an append-only ledger row
type Transaction struct {
	ID        uuid.UUID         `json:"id"`
	From      string            `json:"from"`
	To        string            `json:"to"`
	Amount    string            `json:"amount"`
	TxHash    string            `json:"txHash"`
	Status    TransactionStatus `json:"status"`
	Type      TransactionType   `json:"type"`
	UserID    uuid.UUID         `json:"userId"`
	CreatedAt time.Time         `json:"createdAt"`
}

// TransferResult is returned by server-signed transfers
type TransferResult struct {
	TxHash      string
	ExplorerURL string
	Transaction *Transaction
}

// Amount is a human-unit token amount. It decodes from a JSON string or number.
// Strings are kept as-is; numbers in exponent form are expanded to plain decimals.
type Amount string

// maxAmountExponent bounds exponent expansion. Larger exponents are kept raw
// and fail amount validation downstream.
const maxAmountExponent = 80

// UnmarshalJSON accepts "12.5", 12.5, 1.25e1 and null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*a = Amount(expandExponent(n.String()))
	return nil
}

// expandExponent rewrites 1e2 as 100 and 1.5e-3 as 0.0015.
func expandExponent(num string) string {
	idx := strings.IndexAny(num, "eE")
	if idx < 0 {
		return num
	}
	exp, err := strconv.Atoi(num[idx+1:])
	if err != nil || exp > maxAmountExponent || exp < -maxAmountExponent {
		return num
	}
	r, ok := new(big.Rat).SetString(num)
	if !ok {
		return num
	}
	mantissa := num[:idx]
	prec := 0
	if dot := strings.IndexByte(mantissa, '.'); dot >= 0 {
		prec = len(mantissa) - dot - 1
	}
	prec -= exp
	if prec <= 0 {
		return r.FloatString(0)
	}
	out := strings.TrimRight(r.FloatString(prec), "0")
	return strings.TrimSuffix(out, ".")
}

// SendTokenInput is the body of a treasury transfer
type SendTokenInput struct {
	ToAddress string `json:"toAddress"`
	Amount    Amount `json:"amount"`
}

// SendFromWalletInput is the body of a custody wallet transfer
type SendFromWalletInput struct {
	WalletID  string `json:"walletId"`
	ToAddress string `json:"toAddress"`
	Amount    Amount `json:"amount"`
}

// RecordUserTransferInput is the body of a browser-signed transfer record
type RecordUserTransferInput struct {
	ToAddress string `json:"toAddress"`
	Amount    Amount `json:"amount"`
	TxHash    string `json:"txHash"`
}

// TokenBalance is a balance read for one address
type TokenBalance struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
	Symbol  string `json:"symbol"`
	Name    string `json:"name"`
}
