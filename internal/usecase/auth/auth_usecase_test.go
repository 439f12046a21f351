package auth

import (
	"context"
	"testing"
	"time"

	"github.com/gdugdh24/mutual-backend/internal/domain"
	"github.com/gdugdh24/mutual-backend/internal/repository/memory"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newAuth(t *testing.T) *AuthUseCase {
	t.Helper()
	users := memory.NewUserRepository(memory.NewStore())
	return NewAuthUseCase(users, testSecret, time.Hour, zap.NewNop())
}

func TestSignupAndLogin(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()

	signup, err := uc.Signup(ctx, &SignupRequest{Email: "  Alex@Example.COM ", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", signup.TokenType)
	assert.True(t, signup.IsActive)

	user, err := uc.Authenticate(ctx, signup.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, signup.UserID, user.ID)
	assert.Equal(t, "alex@example.com", user.Email)
	assert.Equal(t, domain.DefaultAgeRangeMax, user.AgeRangeMax)

	login, err := uc.Login(ctx, &LoginRequest{Email: "ALEX@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, signup.UserID, login.UserID)
}

func TestSignupDuplicateEmail(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()

	_, err := uc.Signup(ctx, &SignupRequest{Email: "a@example.com", Password: "password123"})
	require.NoError(t, err)
	_, err = uc.Signup(ctx, &SignupRequest{Email: "A@example.com", Password: "password456"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()

	_, err := uc.Signup(ctx, &SignupRequest{Email: "a@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, &LoginRequest{Email: "a@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = uc.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()

	sign := func(secret string, claims jwt.Claims, method jwt.SigningMethod) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}
	now := time.Now()
	valid := jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}
	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))
	noExpiry := valid
	noExpiry.ExpiresAt = nil
	badSubject := valid
	badSubject.Subject = "42"

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"garbage", "not-a-token", domain.ErrInvalidToken},
		{"wrong secret", sign("another-secret-another-secret-xx", valid, jwt.SigningMethodHS256), domain.ErrInvalidToken},
		{"expired", sign(testSecret, expired, jwt.SigningMethodHS256), domain.ErrInvalidToken},
		{"missing expiry", sign(testSecret, noExpiry, jwt.SigningMethodHS256), domain.ErrInvalidToken},
		{"subject not a uuid", sign(testSecret, badSubject, jwt.SigningMethodHS256), domain.ErrInvalidToken},
		{"unknown user", sign(testSecret, valid, jwt.SigningMethodHS256), domain.ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Authenticate(ctx, tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLogoutAllRevokesEarlierTokens(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()

	clock := time.Now().Truncate(time.Second)
	uc.now = func() time.Time { return clock }

	signup, err := uc.Signup(ctx, &SignupRequest{Email: "a@example.com", Password: "password123"})
	require.NoError(t, err)

	clock = clock.Add(time.Second)
	require.NoError(t, uc.LogoutAll(ctx, signup.UserID))

	_, err = uc.Authenticate(ctx, signup.AccessToken)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)

	clock = clock.Add(2 * time.Second)
	login, err := uc.Login(ctx, &LoginRequest{Email: "a@example.com", Password: "password123"})
	require.NoError(t, err)
	_, err = uc.Authenticate(ctx, login.AccessToken)
	assert.NoError(t, err)
}
