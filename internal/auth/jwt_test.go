package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTM() *TokenManager {
	return NewTokenManager("finflow-test", "acc-secret", "ref-secret", time.Minute, time.Hour)
}

func TestGeneratePair_RoundTrip(t *testing.T) {
	tm := newTM()
	p, err := tm.GeneratePair("u1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), p.AccessExp, 2*time.Second)

	c, refresh, err := tm.ParseAny(p.AccessToken)
	require.NoError(t, err)
	assert.False(t, refresh)
	assert.Equal(t, "u1", c.UserID)
	assert.Equal(t, "finflow-test", c.Issuer)

	c, refresh, err = tm.ParseAny(p.RefreshToken)
	require.NoError(t, err)
	assert.True(t, refresh)
	assert.Equal(t, "u1", c.UserID)
}

func TestParseAny_Rejects(t *testing.T) {
	tm := newTM()
	p, err := tm.GeneratePair("u1")
	require.NoError(t, err)

	_, _, err = tm.ParseAny("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewTokenManager("someone-else", "acc-secret", "ref-secret", time.Minute, time.Hour)
	_, _, err = other.ParseAny(p.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "issuer mismatch")

	expired := newTM()
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.GeneratePair("u1")
	require.NoError(t, err)
	_, _, err = tm.ParseAny(old.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, _, err = tm.ParseAny(old.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
