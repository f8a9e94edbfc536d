package usecases

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"token-dashboard.backend/internal/domain/entities"
	domainerrors "token-dashboard.backend/internal/domain/errors"
	"token-dashboard.backend/internal/domain/repositories"
	"token-dashboard.backend/pkg/crypto"
	"token-dashboard.backend/pkg/jwt"
	"token-dashboard.backend/pkg/logger"
	"token-dashboard.backend/pkg/utils"
)

var (
	hashPassword  = crypto.HashPassword
	checkPassword = crypto.PasswordMatches
)

// SessionRevoker blocks a session token until it expires
type SessionRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// LoginResult carries the issued session token
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *entities.User
}

// AuthUsecase handles authentication business logic
type AuthUsecase struct {
	userRepo   repositories.UserRepository
	jwtService *jwt.JWTService
	revoker    SessionRevoker
}

// NewAuthUsecase creates a new auth usecase. revoker may be nil, in which case
// logout only clears the cookie.
func NewAuthUsecase(userRepo repositories.UserRepository, jwtService *jwt.JWTService, revoker SessionRevoker) *AuthUsecase {
	return &AuthUsecase{
		userRepo:   userRepo,
		jwtService: jwtService,
		revoker:    revoker,
	}
}

// Register creates an account
func (u *AuthUsecase) Register(ctx context.Context, input *entities.RegisterInput) (*entities.User, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, domainerrors.BadRequest("Email and password are required")
	}

	_, err := u.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, domainerrors.Conflict("User already exists")
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := hashPassword(input.Password)
	if errors.Is(err, crypto.ErrPasswordTooLong) {
		return nil, domainerrors.BadRequest("Password must be at most 72 bytes")
	}
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		ID:              utils.NewID(),
		Email:           email,
		PasswordHash:    passwordHash,
		ConnectedWallet: null.String{},
		CreatedAt:       time.Now().UTC(),
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("User already exists")
		}
		return nil, err
	}

	logger.Info(ctx, "User registered", zap.String("user_id", user.ID.String()))
	return user, nil
}

// Login checks credentials and issues a session token
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*LoginResult, error) {
	user, err := u.userRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, invalidCredentials()
		}
		return nil, err
	}

	if !checkPassword(user.PasswordHash, input.Password) {
		return nil, invalidCredentials()
	}

	token, claims, err := u.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      user,
	}, nil
}

// Logout revokes the session token id until its natural expiry
func (u *AuthUsecase) Logout(ctx context.Context, claims *jwt.Claims) error {
	if u.revoker == nil || claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	return u.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

// GetMe returns the session's user
func (u *AuthUsecase) GetMe(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("User not found")
		}
		return nil, err
	}
	return user, nil
}

func invalidCredentials() *domainerrors.AppError {
	return domainerrors.NewAppError(http.StatusUnauthorized, domainerrors.CodeInvalidCredentials, "Invalid email or password", domainerrors.ErrInvalidCredentials)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
