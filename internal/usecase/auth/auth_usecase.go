package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/gdugdh24/mutual-backend/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the email is unknown so that login
// takes the same time whether or not the account exists.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password"), bcrypt.DefaultCost)

type AuthUseCase struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
	expiry    time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

func NewAuthUseCase(userRepo repository.UserRepository, jwtSecret string, expiry time.Duration, logger *zap.Logger) *AuthUseCase {
	return &AuthUseCase{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		expiry:    expiry,
		logger:    logger,
		now:       time.Now,
	}
}

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,max=72"`
}

// TokenResponse represents the authentication response
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	UserID      uuid.UUID `json:"user_id"`
	IsActive    bool      `json:"is_active"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (uc *AuthUseCase) Signup(ctx context.Context, req *SignupRequest) (*TokenResponse, error) {
	// Hash before the lookup so a taken email costs the same as a free one.
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:               uuid.New(),
		Email:            NormalizeEmail(req.Email),
		HashedPassword:   string(hashed),
		MaxDistanceKm:    domain.DefaultMaxDistanceKm,
		AgeRangeMin:      domain.DefaultAgeRangeMin,
		AgeRangeMax:      domain.DefaultAgeRangeMax,
		IsActive:         true,
		GenderPreference: []string{},
		Languages:        []string{},
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.logger.Info("new user signup", zap.String("user_id", user.ID.String()))
	return uc.issueToken(user)
}

func (uc *AuthUseCase) Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, NormalizeEmail(req.Email))
	if errors.Is(err, domain.ErrUserNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
		uc.logger.Warn("failed login attempt", zap.String("reason", "unknown email"))
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		uc.logger.Warn("failed login attempt", zap.String("user_id", user.ID.String()))
		return nil, domain.ErrInvalidCredentials
	}

	uc.logger.Info("user login", zap.String("user_id", user.ID.String()), zap.Bool("active", user.IsActive))
	return uc.issueToken(user)
}

// LogoutAll revokes every token issued to the user up to now.
func (uc *AuthUseCase) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	if err := uc.userRepo.InvalidateTokens(ctx, userID, uc.now()); err != nil {
		return fmt.Errorf("failed to invalidate tokens: %w", err)
	}
	return nil
}

func (uc *AuthUseCase) issueToken(user *domain.User) (*TokenResponse, error) {
	now := uc.now()
	expiresAt := now.Add(uc.expiry)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})

	tokenString, err := token.SignedString(uc.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &TokenResponse{
		AccessToken: tokenString,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		UserID:      user.ID,
		IsActive:    user.IsActive,
	}, nil
}

// Authenticate verifies the token and returns its user. Tokens issued at or
// before the user's last forced logout are rejected with ErrTokenRevoked.
// Deactivated users are returned as is; callers decide what they may do.
func (uc *AuthUseCase) Authenticate(ctx context.Context, tokenString string) (*domain.User, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return uc.jwtSecret, nil
	}, jwt.WithTimeFunc(uc.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if claims.IssuedAt != nil && user.TokenRevoked(claims.IssuedAt.Time) {
		return nil, domain.ErrTokenRevoked
	}
	return user, nil
}
