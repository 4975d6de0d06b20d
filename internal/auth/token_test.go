package auth_test

import (
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventx/internal/auth"
)

func signedToken(t *testing.T, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub})
	signed, err := token.SignedString([]byte("test-signing-key"))
	require.NoError(t, err)
	return signed
}

func TestCallerFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/events", nil)
	r.Header.Set("Authorization", "Bearer "+signedToken(t, "admin-1"))

	caller, err := auth.CallerFromRequest(r)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", caller)
}

func TestCallerFromRequestMissingHeader(t *testing.T) {
	r := httptest.NewRequest("GET", "/events", nil)

	_, err := auth.CallerFromRequest(r)
	assert.Error(t, err)
}

func TestCallerFromRequestBadFormat(t *testing.T) {
	r := httptest.NewRequest("GET", "/events", nil)
	r.Header.Set("Authorization", "Token abc")

	_, err := auth.CallerFromRequest(r)
	assert.Error(t, err)
}

func TestCallerFromRequestMissingSub(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"aud": "eventx"})
	signed, err := token.SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/events", nil)
	r.Header.Set("Authorization", "Bearer "+signed)

	_, err = auth.CallerFromRequest(r)
	assert.Error(t, err)
}
