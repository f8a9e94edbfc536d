package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"token-dashboard.backend/pkg/jwt"
	"token-dashboard.backend/pkg/logger"
)

const (
	// SessionKey is the gin context key holding the *SessionIdentity
	SessionKey = "session"
	// DefaultCookieName is used when no cookie name is configured
	DefaultCookieName = "token"
)

// RevocationChecker reports whether a session token id was revoked at logout
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// SessionIdentity is the verified session attached to a request
type SessionIdentity struct {
	UserID uuid.UUID
	Email  string
	Claims *jwt.Claims
}

// SessionVerifier resolves the session cookie into an identity
type SessionVerifier struct {
	jwtService  *jwt.JWTService
	cookieName  string
	revocations RevocationChecker
}

// NewSessionVerifier creates a verifier. revocations may be nil.
func NewSessionVerifier(jwtService *jwt.JWTService, cookieName string, revocations RevocationChecker) *SessionVerifier {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &SessionVerifier{
		jwtService:  jwtService,
		cookieName:  cookieName,
		revocations: revocations,
	}
}

// CookieName returns the session cookie name
func (v *SessionVerifier) CookieName() string {
	return v.cookieName
}

// Identify reads and verifies the session cookie. Any failure yields no identity.
func (v *SessionVerifier) Identify(c *gin.Context) (*SessionIdentity, bool) {
	token, err := c.Cookie(v.cookieName)
	if err != nil || token == "" {
		return nil, false
	}

	claims, err := v.jwtService.ValidateToken(token)
	if err != nil {
		logger.Debug(c.Request.Context(), "Session token rejected", zap.Error(err))
		return nil, false
	}

	if v.revocations != nil {
		revoked, err := v.revocations.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			logger.Warn(c.Request.Context(), "Session revocation lookup failed", zap.Error(err))
			return nil, false
		}
		if revoked {
			return nil, false
		}
	}

	return &SessionIdentity{
		UserID: claims.UserID,
		Email:  claims.Email,
		Claims: claims,
	}, true
}

// SessionMiddleware attaches the session identity, if any, and always continues
func SessionMiddleware(v *SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity, ok := v.Identify(c); ok {
			c.Set(SessionKey, identity)
			ctx := context.WithValue(c.Request.Context(), logger.UserIDKey, identity.UserID.String())
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

// RequireSession rejects requests without a verified session
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetSession(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Not authenticated",
			})
			return
		}
		c.Next()
	}
}

// GetSession gets the session identity from context
func GetSession(c *gin.Context) (*SessionIdentity, bool) {
	v, exists := c.Get(SessionKey)
	if !exists {
		return nil, false
	}
	identity, ok := v.(*SessionIdentity)
	return identity, ok && identity != nil
}

// GetUserID gets the session user ID from context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	identity, ok := GetSession(c)
	if !ok {
		return uuid.Nil, false
	}
	return identity.UserID, true
}
