package jwt

import (
	"errors"
	"testing"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTService("secret", time.Minute)
	userID := uuid.New()

	token, issued, err := svc.GenerateToken(userID, "test@mail.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, issued.ID)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "test@mail.com", claims.Email)
	assert.Equal(t, issued.ID, claims.ID)
	assert.Equal(t, time.Minute, svc.Expiry())
}

func TestJWTService_ValidateInvalidToken(t *testing.T) {
	svc := NewJWTService("secret", time.Minute)

	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_ValidateWrongSecret(t *testing.T) {
	token, _, err := NewJWTService("secret-a", time.Minute).GenerateToken(uuid.New(), "a@b.c")
	require.NoError(t, err)

	_, err = NewJWTService("secret-b", time.Minute).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_ValidateExpiredToken(t *testing.T) {
	svc := NewJWTService("secret", -time.Second)

	token, _, err := svc.GenerateToken(uuid.New(), "expired@mail.com")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_ValidateWrongSigningMethod(t *testing.T) {
	svc := NewJWTService("secret", time.Minute)

	claims := gjwt.MapClaims{
		"userId": uuid.NewString(),
		"email":  "x@y.z",
		"exp":    time.Now().Add(time.Minute).Unix(),
		"iat":    time.Now().Unix(),
		"nbf":    time.Now().Unix(),
	}
	unsigned := gjwt.NewWithClaims(gjwt.SigningMethodNone, claims)
	tokenStr, err := unsigned.SignedString(gjwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateToken(tokenStr)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_ValidateMissingUserID(t *testing.T) {
	svc := NewJWTService("secret", time.Minute)

	claims := gjwt.MapClaims{
		"email": "x@y.z",
		"exp":   time.Now().Add(time.Minute).Unix(),
	}
	tokenStr, err := gjwt.NewWithClaims(gjwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(tokenStr)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_GenerateSignError(t *testing.T) {
	orig := signJWTToken
	t.Cleanup(func() { signJWTToken = orig })
	signJWTToken = func(*gjwt.Token, []byte) (string, error) {
		return "", errors.New("sign failed")
	}

	_, _, err := NewJWTService("secret", time.Minute).GenerateToken(uuid.New(), "a@b.c")
	assert.EqualError(t, err, "sign failed")
}
