package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m, err := NewManager("secret", time.Hour)
	require.NoError(t, err)

	token, err := m.GenerateToken(42, "staff@golumino.com")
	require.NoError(t, err)

	id, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestValidateTokenRejects(t *testing.T) {
	m, err := NewManager("secret", time.Hour)
	require.NoError(t, err)
	other, err := NewManager("other-secret", time.Hour)
	require.NoError(t, err)

	foreign, err := other.GenerateToken(1, "a@b.com")
	require.NoError(t, err)

	expiredMgr, err := NewManager("secret", time.Hour)
	require.NoError(t, err)
	expiredMgr.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredMgr.GenerateToken(1, "a@b.com")
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": 1}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := map[string]string{
		"garbage":        "not-a-token",
		"wrong secret":   foreign,
		"expired":        expired,
		"unsigned token": none,
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := m.ValidateToken(tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewManagerRequiresSecret(t *testing.T) {
	_, err := NewManager("", time.Hour)
	assert.ErrorIs(t, err, ErrNoSecret)

	m, err := NewManager("s", 0)
	require.NoError(t, err)
	assert.Equal(t, 72*time.Hour, m.ttl)
}
