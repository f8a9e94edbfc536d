// Package units converts between human token amounts and base units.
package units

import (
	"errors"
	"math/big"
	"strings"
)

var (
	ErrEmptyAmount    = errors.New("amount is required")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrNegativeAmount = errors.New("amount must not be negative")
	ErrTooPrecise     = errors.New("amount has more fractional digits than the token supports")
)

func pow10(decimals int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
}

// ParseUnits converts a decimal string such as "12.5" into base units,
// ParseUnits("12.5", 18) == 12500000000000000000.
func ParseUnits(amount string, decimals int) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return nil, ErrEmptyAmount
	}
	if strings.HasPrefix(amount, "-") {
		return nil, ErrNegativeAmount
	}
	amount = strings.TrimPrefix(amount, "+")

	whole, frac, _ := strings.Cut(amount, ".")
	if whole == "" && frac == "" {
		return nil, ErrInvalidAmount
	}
	if !isDigits(whole) || !isDigits(frac) {
		return nil, ErrInvalidAmount
	}

	frac = strings.TrimRight(frac, "0")
	if len(frac) > decimals {
		return nil, ErrTooPrecise
	}

	digits := whole + frac + strings.Repeat("0", decimals-len(frac))
	if digits == "" {
		return nil, ErrInvalidAmount
	}
	value, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, ErrInvalidAmount
	}
	return value, nil
}

// FormatUnits renders base units as a decimal string without trailing zeros.
func FormatUnits(value *big.Int, decimals int) string {
	if value == nil {
		return "0"
	}
	sign := ""
	abs := new(big.Int).Set(value)
	if abs.Sign() < 0 {
		sign = "-"
		abs.Neg(abs)
	}
	if decimals <= 0 {
		return sign + abs.String()
	}

	whole, frac := new(big.Int).QuoRem(abs, pow10(decimals), new(big.Int))
	if frac.Sign() == 0 {
		return sign + whole.String()
	}

	fracStr := frac.String()
	fracStr = strings.Repeat("0", decimals-len(fracStr)) + fracStr
	fracStr = strings.TrimRight(fracStr, "0")
	return sign + whole.String() + "." + fracStr
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
