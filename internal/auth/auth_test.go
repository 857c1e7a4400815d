package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"tv-tracker/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	SetTestSecret("test-secret")

	user := &models.User{
		ID:       "7b80e05c-4cbb-4077-a7ac-4d382414fe81",
		Username: "testuser",
		Email:    "testuser@example.com",
	}

	token, err := GenerateToken(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := ParseToken(token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)
	assert.Equal(t, user.Username, claims.Username)
	assert.Equal(t, user.Email, claims.Email)
}

func TestParseTokenWrongSecret(t *testing.T) {
	SetTestSecret("test-secret")
	token, err := GenerateToken(&models.User{ID: "abc"})
	assert.NoError(t, err)

	SetTestSecret("another-secret")
	_, err = ParseToken(token)
	assert.Error(t, err)
	// The keyword is load-bearing: the legacy classifier maps it to 401.
	assert.Contains(t, err.Error(), "Token")
}

func TestUserIDFromRequest(t *testing.T) {
	SetTestSecret("test-secret")

	t.Run("valid cookie", func(t *testing.T) {
		token, err := GenerateToken(&models.User{ID: "user-1", Username: "u", Email: "u@example.com"})
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token})

		id, err := UserIDFromRequest(req)
		assert.NoError(t, err)
		assert.Equal(t, "user-1", id)
	})

	t.Run("missing cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		_, err := UserIDFromRequest(req)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Unauthorized")
	})

	t.Run("tampered token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "eyJhbGciOiJIUzI1NiJ9.e30.bad"})
		_, err := UserIDFromRequest(req)
		assert.Error(t, err)
	})
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password123")
	assert.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, CheckPassword(hash, "password123"))
	assert.False(t, CheckPassword(hash, "password124"))
}
