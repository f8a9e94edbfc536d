package blockchain

import (
	"crypto/ecdsa"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var ErrInvalidPrivateKey = errors.New("invalid private key")

var generateECDSAKey = crypto.GenerateKey

// GeneratedKey is a fresh secp256k1 key pair
type GeneratedKey struct {
	PrivateKeyHex string
	Address       string
}

// GenerateKey creates a new key pair. The private key is 0x-prefixed hex.
func GenerateKey() (*GeneratedKey, error) {
	key, err := generateECDSAKey()
	if err != nil {
		return nil, err
	}
	return &GeneratedKey{
		PrivateKeyHex: "0x" + hex.EncodeToString(crypto.FromECDSA(key)),
		Address:       crypto.PubkeyToAddress(key.PublicKey).Hex(),
	}, nil
}

// ParsePrivateKey accepts 64 hex chars with or without a 0x prefix
func ParsePrivateKey(keyHex string) (*ecdsa.PrivateKey, error) {
	keyHex = strings.TrimPrefix(strings.TrimSpace(keyHex), "0x")
	if len(keyHex) != 64 {
		return nil, ErrInvalidPrivateKey
	}
	key, err := crypto.HexToECDSA(keyHex)
	if err != nil {
		return nil, ErrInvalidPrivateKey
	}
	return key, nil
}

// AddressFromPrivateKeyHex derives the checksummed address of a hex private key
func AddressFromPrivateKeyHex(keyHex string) (string, error) {
	key, err := ParsePrivateKey(keyHex)
	if err != nil {
		return "", err
	}
	return crypto.PubkeyToAddress(key.PublicKey).Hex(), nil
}

// EncodeStoredKey produces the at-rest form of a private key: base64 of its 0x hex.
func EncodeStoredKey(keyHex string) string {
	keyHex = strings.TrimSpace(keyHex)
	if !strings.HasPrefix(keyHex, "0x") {
		keyHex = "0x" + keyHex
	}
	return base64.StdEncoding.EncodeToString([]byte(keyHex))
}

// DecodeStoredKey reverses EncodeStoredKey. Rows holding raw hex are accepted as-is.
func DecodeStoredKey(stored string) (string, error) {
	stored = strings.TrimSpace(stored)
	if _, err := ParsePrivateKey(stored); err == nil {
		return ensureHexPrefix(stored), nil
	}

	raw, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return "", ErrInvalidPrivateKey
	}
	keyHex := string(raw)
	if _, err := ParsePrivateKey(keyHex); err != nil {
		return "", err
	}
	return ensureHexPrefix(keyHex), nil
}

// SameAddress compares two hex addresses case-insensitively
func SameAddress(a, b string) bool {
	if !common.IsHexAddress(a) || !common.IsHexAddress(b) {
		return false
	}
	return common.HexToAddress(a) == common.HexToAddress(b)
}

// IsHexAddress reports whether s is a 20-byte hex address
func IsHexAddress(s string) bool {
	return common.IsHexAddress(strings.TrimSpace(s))
}

func ensureHexPrefix(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") {
		return s
	}
	return "0x" + s
}

// Signer is a parsed private key with its address
type Signer struct {
	Key     *ecdsa.PrivateKey
	Address common.Address
}

// NewSigner parses a hex private key
func NewSigner(keyHex string) (*Signer, error) {
	key, err := ParsePrivateKey(keyHex)
	if err != nil {
		return nil, err
	}
	return &Signer{Key: key, Address: crypto.PubkeyToAddress(key.PublicKey)}, nil
}
