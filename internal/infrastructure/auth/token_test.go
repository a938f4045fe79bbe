package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager(secret, "lendbox", time.Hour)

	raw, err := tm.Generate(42, "+254700000001")
	require.NoError(t, err)

	claims, err := tm.Verify(raw)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
	assert.Equal(t, "+254700000001", claims.Phone)
	assert.Equal(t, "lendbox", claims.Issuer)
}

func TestTokenManager_Rejects(t *testing.T) {
	tm := NewTokenManager(secret, "lendbox", time.Hour)
	raw, err := tm.Generate(1, "+1")
	require.NoError(t, err)

	expired := NewTokenManager(secret, "lendbox", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	tests := []struct {
		name string
		tm   *TokenManager
		raw  string
	}{
		{"wrong secret", NewTokenManager(strings.Repeat("x", 32), "lendbox", time.Hour), raw},
		{"wrong issuer", NewTokenManager(secret, "other", time.Hour), raw},
		{"expired", expired, raw},
		{"garbage", tm, "not-a-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.tm.Verify(tt.raw)
			assert.True(t, errors.Is(err, ErrInvalidToken), "err = %v", err)
		})
	}
}
