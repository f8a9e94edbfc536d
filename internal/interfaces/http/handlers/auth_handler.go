package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"token-dashboard.backend/internal/domain/entities"
	domainerrors "token-dashboard.backend/internal/domain/errors"
	"token-dashboard.backend/internal/interfaces/http/middleware"
	"token-dashboard.backend/internal/interfaces/http/response"
	"token-dashboard.backend/internal/usecases"
	"token-dashboard.backend/pkg/jwt"
)

type authService interface {
	Register(ctx context.Context, input *entities.RegisterInput) (*entities.User, error)
	Login(ctx context.Context, input *entities.LoginInput) (*usecases.LoginResult, error)
	Logout(ctx context.Context, claims *jwt.Claims) error
	GetMe(ctx context.Context, userID uuid.UUID) (*entities.User, error)
}

// CookieSettings controls the session cookie
type CookieSettings struct {
	Name   string
	Secure bool
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authUsecase authService
	cookie      CookieSettings
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUsecase authService, cookie CookieSettings) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = middleware.DefaultCookieName
	}
	return &AuthHandler{
		authUsecase: authUsecase,
		cookie:      cookie,
	}
}

// Register handles account creation
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var input entities.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	user, err := h.authUsecase.Register(c.Request.Context(), &input)
	if err != nil {
		fail(c, err, "Registration failed")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    user,
	})
}

// Login checks credentials and sets the session cookie
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input entities.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.authUsecase.Login(c.Request.Context(), &input)
	if err != nil {
		fail(c, err, "Login failed")
		return
	}

	maxAge := int(time.Until(result.ExpiresAt).Seconds())
	h.setCookie(c, result.Token, maxAge)

	response.Success(c, http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    result.User,
	})
}

// Logout revokes the current session and clears the cookie
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setCookie(c, "", -1)

	if identity, ok := middleware.GetSession(c); ok {
		if err := h.authUsecase.Logout(c.Request.Context(), identity.Claims); err != nil {
			fail(c, err, "Logout failed")
			return
		}
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Me returns the session user
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	user, err := h.authUsecase.GetMe(c.Request.Context(), userID)
	if err != nil {
		fail(c, err, "Internal server error")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}
