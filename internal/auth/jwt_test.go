package auth_test

import (
	"testing"
	"time"

	"github.com/lifedesigner21/whole-pod-sub000/internal/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const secret = "test-secret-key"

func TestGenerateAndParseToken(t *testing.T) {
	token, err := auth.GenerateToken("user-1", "designer", secret, 24*time.Hour)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := auth.ParseToken(token, secret)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "designer", claims.Role)
}

func TestParseToken_InvalidToken(t *testing.T) {
	_, err := auth.ParseToken("invalid-token", secret)
	assert.Error(t, err)
	assert.Equal(t, "invalid token", err.Error())
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := auth.GenerateToken("user-1", "admin", secret, time.Hour)
	assert.NoError(t, err)

	_, err = auth.ParseToken(token, "other-secret")
	assert.Error(t, err)
}

func TestParseToken_ExpiredToken(t *testing.T) {
	claims := jwt.MapClaims{
		"user_id": "user-1",
		"role":    "admin",
		"exp":     time.Now().Add(-1 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	expired, _ := token.SignedString([]byte(secret))

	_, err := auth.ParseToken(expired, secret)
	assert.Error(t, err)
	assert.Equal(t, "invalid token", err.Error())
}

func TestParseToken_MissingClaims(t *testing.T) {
	claims := jwt.MapClaims{
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	withoutUserID, _ := token.SignedString([]byte(secret))

	_, err := auth.ParseToken(withoutUserID, secret)
	assert.Error(t, err)
	assert.Equal(t, "invalid claims", err.Error())
}
