package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 60 * time.Minute
	userID := uuid.New()

	svc := NewTestJWTService(testSecret, tokenLifetime, func() time.Time {
		return fixedTime
	})

	t.Run("generates valid token", func(t *testing.T) {
		t.Parallel()
		token, err := svc.GenerateToken(context.Background(), userID, false)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := svc.ValidateToken(context.Background(), token)
		require.NoError(t, err)

		assert.Equal(t, userID, claims.UserID)
		assert.False(t, claims.IsAdmin)
		assert.Equal(t, TokenTypeAccess, claims.TokenType)
		assert.Equal(t, userID.String(), claims.Subject)
		assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
		assert.Equal(t, fixedTime.Add(tokenLifetime).Unix(), claims.ExpiresAt.Unix())
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("carries the admin claim", func(t *testing.T) {
		t.Parallel()
		token, err := svc.GenerateToken(context.Background(), userID, true)
		require.NoError(t, err)

		claims, err := svc.ValidateToken(context.Background(), token)
		require.NoError(t, err)
		assert.True(t, claims.IsAdmin)
	})
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 60 * time.Minute
	userID := uuid.New()

	svc := NewTestJWTService(testSecret, tokenLifetime, func() time.Time {
		return fixedTime
	})

	t.Run("rejects garbage", func(t *testing.T) {
		t.Parallel()
		_, err := svc.ValidateToken(context.Background(), "not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects token signed with a different key", func(t *testing.T) {
		t.Parallel()
		other := NewTestJWTService("another-secret-that-is-long-enough-too", tokenLifetime, func() time.Time {
			return fixedTime
		})
		token, err := other.GenerateToken(context.Background(), userID, false)
		require.NoError(t, err)

		_, err = svc.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		t.Parallel()
		token, err := svc.GenerateToken(context.Background(), userID, false)
		require.NoError(t, err)

		later := NewTestJWTService(testSecret, tokenLifetime, func() time.Time {
			return fixedTime.Add(tokenLifetime + time.Minute)
		})
		_, err = later.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("rejects refresh token on the access path", func(t *testing.T) {
		t.Parallel()
		refresh, err := svc.GenerateRefreshToken(context.Background(), userID, false)
		require.NoError(t, err)

		_, err = svc.ValidateToken(context.Background(), refresh)
		assert.ErrorIs(t, err, ErrWrongTokenType)
	})
}

func TestRefreshTokens(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 60 * time.Minute
	userID := uuid.New()

	svc := NewTestJWTService(testSecret, tokenLifetime, func() time.Time {
		return fixedTime
	})

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		token, err := svc.GenerateRefreshToken(context.Background(), userID, true)
		require.NoError(t, err)

		claims, err := svc.ValidateRefreshToken(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.True(t, claims.IsAdmin)
		assert.Equal(t, TokenTypeRefresh, claims.TokenType)
	})

	t.Run("maps expiry to the refresh sentinel", func(t *testing.T) {
		t.Parallel()
		token, err := svc.GenerateRefreshToken(context.Background(), userID, false)
		require.NoError(t, err)

		later := NewTestJWTService(testSecret, tokenLifetime, func() time.Time {
			return fixedTime.Add(tokenLifetime + time.Minute)
		})
		_, err = later.ValidateRefreshToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrExpiredRefreshToken)
	})

	t.Run("maps garbage to the refresh sentinel", func(t *testing.T) {
		t.Parallel()
		_, err := svc.ValidateRefreshToken(context.Background(), "junk")
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("rejects an access token on the refresh path", func(t *testing.T) {
		t.Parallel()
		access, err := svc.GenerateToken(context.Background(), userID, false)
		require.NoError(t, err)

		_, err = svc.ValidateRefreshToken(context.Background(), access)
		assert.ErrorIs(t, err, ErrWrongTokenType)
	})
}

func TestResetTokens(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 30 * time.Minute
	userID := uuid.New()

	svc := NewTestJWTService(testSecret, tokenLifetime, func() time.Time {
		return fixedTime
	})

	t.Run("round trip never carries admin", func(t *testing.T) {
		t.Parallel()
		token, err := svc.GenerateResetToken(context.Background(), userID)
		require.NoError(t, err)

		claims, err := svc.ValidateResetToken(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.False(t, claims.IsAdmin)
		assert.Equal(t, TokenTypeReset, claims.TokenType)
	})

	t.Run("maps expiry to the reset sentinel", func(t *testing.T) {
		t.Parallel()
		token, err := svc.GenerateResetToken(context.Background(), userID)
		require.NoError(t, err)

		later := NewTestJWTService(testSecret, tokenLifetime, func() time.Time {
			return fixedTime.Add(tokenLifetime + time.Minute)
		})
		_, err = later.ValidateResetToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrExpiredResetToken)
	})

	t.Run("access token cannot reset a password", func(t *testing.T) {
		t.Parallel()
		access, err := svc.GenerateToken(context.Background(), userID, false)
		require.NoError(t, err)

		_, err = svc.ValidateResetToken(context.Background(), access)
		assert.ErrorIs(t, err, ErrWrongTokenType)
	})
}
