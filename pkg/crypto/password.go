// Package crypto hashes account passwords and generates signing secrets.
package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	passwordCost = 12
	// bcrypt only reads the first 72 bytes
	maxPasswordBytes = 72
)

// ErrPasswordTooLong is returned for passwords bcrypt would silently truncate
var ErrPasswordTooLong = errors.New("password longer than 72 bytes")

var (
	bcryptHash = bcrypt.GenerateFromPassword
	randomRead = rand.Read
)

// HashPassword returns the bcrypt hash stored on the user row
func HashPassword(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcryptHash([]byte(password), passwordCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// PasswordMatches reports whether password hashes to storedHash.
// A malformed stored hash never matches.
func PasswordMatches(storedHash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) == nil
}

// NewHexSecret returns size random bytes, hex encoded
func NewHexSecret(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("secret size must be positive, got %d", size)
	}
	buf := make([]byte, size)
	if _, err := randomRead(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
