package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("creates a user and returns tokens", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		rec := env.doJSON(t, http.MethodPost, "/api/auth/register", "", RegisterRequest{
			Email:    "new@example.com",
			Password: "password123",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		resp := decode[AuthResponse](t, rec)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)

		// The issued token works against protected routes.
		list := env.doJSON(t, http.MethodGet, "/api/tasks", resp.AccessToken, nil)
		assert.Equal(t, http.StatusOK, list.Code)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.createUser(t, "taken@example.com", "password123")

		rec := env.doJSON(t, http.MethodPost, "/api/auth/register", "", RegisterRequest{
			Email:    "Taken@Example.com",
			Password: "password123",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("rejects short passwords", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		rec := env.doJSON(t, http.MethodPost, "/api/auth/register", "", RegisterRequest{
			Email:    "new@example.com",
			Password: "short",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLoginEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("valid credentials", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		user := env.createUser(t, "alice@example.com", "password123")

		rec := env.doJSON(t, http.MethodPost, "/api/auth/login", "", LoginRequest{
			Email:    "alice@example.com",
			Password: "password123",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode[AuthResponse](t, rec)
		assert.Equal(t, user.ID, resp.UserID)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.createUser(t, "alice@example.com", "password123")

		rec := env.doJSON(t, http.MethodPost, "/api/auth/login", "", LoginRequest{
			Email:    "alice@example.com",
			Password: "wrong password",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown email gets the same response as a bad password", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		rec := env.doJSON(t, http.MethodPost, "/api/auth/login", "", LoginRequest{
			Email:    "nobody@example.com",
			Password: "password123",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("deactivated accounts cannot log in", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		user := env.createUser(t, "gone@example.com", "password123")
		user.IsActive = false
		env.users.Seed(user)

		rec := env.doJSON(t, http.MethodPost, "/api/auth/login", "", LoginRequest{
			Email:    "gone@example.com",
			Password: "password123",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRefreshEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("issues a fresh pair", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.createUser(t, "alice@example.com", "password123")

		login := env.doJSON(t, http.MethodPost, "/api/auth/login", "", LoginRequest{
			Email:    "alice@example.com",
			Password: "password123",
		})
		require.Equal(t, http.StatusOK, login.Code)
		tokens := decode[AuthResponse](t, login)

		rec := env.doJSON(t, http.MethodPost, "/api/auth/refresh", "", RefreshTokenRequest{
			RefreshToken: tokens.RefreshToken,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		refreshed := decode[RefreshTokenResponse](t, rec)
		assert.NotEmpty(t, refreshed.AccessToken)
		assert.NotEmpty(t, refreshed.RefreshToken)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		user := env.createUser(t, "alice@example.com", "password123")

		rec := env.doJSON(t, http.MethodPost, "/api/auth/refresh", "", RefreshTokenRequest{
			RefreshToken: env.tokenFor(t, user),
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestPasswordResetFlow(t *testing.T) {
	t.Parallel()

	t.Run("forgot-password response never reveals account existence", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.createUser(t, "alice@example.com", "password123")

		known := env.doJSON(t, http.MethodPost, "/api/auth/forgot-password", "", ForgotPasswordRequest{
			Email: "alice@example.com",
		})
		unknown := env.doJSON(t, http.MethodPost, "/api/auth/forgot-password", "", ForgotPasswordRequest{
			Email: "nobody@example.com",
		})

		require.Equal(t, http.StatusOK, known.Code)
		require.Equal(t, http.StatusOK, unknown.Code)
		assert.Equal(t, known.Body.String(), unknown.Body.String())

		// Only the real account got mail.
		sent := env.notifier.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, "alice@example.com", sent[0].Recipient)
		assert.Equal(t, "[SmartTask] Password Reset", sent[0].Subject)
		assert.Contains(t, sent[0].Body, "http://localhost:3000/reset-password?token=")
	})

	t.Run("emailed token resets the password", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.createUser(t, "alice@example.com", "password123")

		rec := env.doJSON(t, http.MethodPost, "/api/auth/forgot-password", "", ForgotPasswordRequest{
			Email: "alice@example.com",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		sent := env.notifier.Sent()
		require.Len(t, sent, 1)
		token := extractResetToken(t, sent[0].Body)

		reset := env.doJSON(t, http.MethodPost, "/api/auth/reset-password", "", ResetPasswordRequest{
			Token:    token,
			Password: "brand-new-password",
		})
		require.Equal(t, http.StatusOK, reset.Code)

		// Old password no longer works; the new one does.
		old := env.doJSON(t, http.MethodPost, "/api/auth/login", "", LoginRequest{
			Email:    "alice@example.com",
			Password: "password123",
		})
		assert.Equal(t, http.StatusUnauthorized, old.Code)

		fresh := env.doJSON(t, http.MethodPost, "/api/auth/login", "", LoginRequest{
			Email:    "alice@example.com",
			Password: "brand-new-password",
		})
		assert.Equal(t, http.StatusOK, fresh.Code)
	})

	t.Run("an access token cannot reset a password", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		user := env.createUser(t, "alice@example.com", "password123")

		rec := env.doJSON(t, http.MethodPost, "/api/auth/reset-password", "", ResetPasswordRequest{
			Token:    env.tokenFor(t, user),
			Password: "brand-new-password",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

// extractResetToken pulls the token query value out of the reset link in a
// mail body.
func extractResetToken(t *testing.T, body string) string {
	t.Helper()
	const marker = "?token="
	i := strings.Index(body, marker)
	require.GreaterOrEqual(t, i, 0, "no reset link in body: %s", body)
	rest := body[i+len(marker):]
	if j := strings.IndexAny(rest, "\n \t"); j >= 0 {
		rest = rest[:j]
	}
	return rest
}
