package auth

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"tv-tracker/internal/models"
)

// TokenCookieName is the cookie carrying the session token.
const TokenCookieName = "token"

const tokenTTL = 24 * time.Hour

const bcryptCost = 12

var jwtSecret string

// Error text below intentionally keeps the "Unauthorized" / "Token"
// keywords: the HTTP layer's legacy classifier matches on them for errors
// that arrive without a tagged kind.
var ErrUnauthorized = errors.New("Unauthorized")

// Claims is the session token payload.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Email    string `json:"email"`
}

func secret() string {
	if jwtSecret == "" {
		jwtSecret = os.Getenv("JWT_SECRET")
	}
	return jwtSecret
}

// SetTestSecret overrides the signing secret. Only for tests.
func SetTestSecret(s string) {
	jwtSecret = s
}

// GenerateToken mints a signed session token for the user.
func GenerateToken(user *models.User) (string, error) {
	if secret() == "" {
		return "", fmt.Errorf("%w: JWT_SECRET is not set", ErrUnauthorized)
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Username: user.Username,
		Email:    user.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret()))
}

// ParseToken verifies a session token and returns its claims.
func ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret()), nil
	})
	if err != nil {
		return nil, fmt.Errorf("Token invalid or expired: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("Token invalid or expired")
	}
	return claims, nil
}

// UserIDFromRequest resolves the caller identity from the session cookie.
func UserIDFromRequest(r *http.Request) (string, error) {
	cookie, err := r.Cookie(TokenCookieName)
	if err != nil || cookie.Value == "" {
		return "", fmt.Errorf("%w: missing token cookie", ErrUnauthorized)
	}
	if secret() == "" {
		return "", fmt.Errorf("%w: token secret is not configured", ErrUnauthorized)
	}

	claims, err := ParseToken(cookie.Value)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
