package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_IssueAndVerify(t *testing.T) {
	codec := New("test-secret-123", 30*time.Minute, 7*24*time.Hour)

	raw, issued, err := codec.Issue("user-42", "pro", TypeAccess, 1500)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := codec.Verify(raw, TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.Subject)
	assert.Equal(t, "pro", claims.Tier)
	assert.Equal(t, TypeAccess, claims.TokenType)
	assert.Equal(t, int64(1500), claims.MinutesRemaining)
	assert.Equal(t, issued.ID, claims.ID)
	assert.NotEmpty(t, claims.ID)
}

func TestCodec_FreshJTIPerToken(t *testing.T) {
	codec := New("secret", time.Hour, time.Hour)

	_, a, err := codec.Issue("user-1", "free", TypeAccess, 0)
	require.NoError(t, err)
	_, b, err := codec.Issue("user-1", "free", TypeAccess, 0)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestCodec_ExpiredToken(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	codec := New("secret", 30*time.Minute, time.Hour).WithClock(func() time.Time { return now })

	raw, _, err := codec.Issue("user-1", "free", TypeAccess, 0)
	require.NoError(t, err)

	// Still inside leeway just past expiry.
	now = now.Add(30*time.Minute + Leeway - time.Second)
	_, err = codec.Verify(raw, TypeAccess)
	assert.NoError(t, err)

	// Past expiry plus leeway.
	now = now.Add(2 * time.Second)
	_, err = codec.Verify(raw, TypeAccess)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestCodec_WrongTokenType(t *testing.T) {
	codec := New("secret", time.Hour, time.Hour)

	refresh, _, err := codec.Issue("user-1", "basic", TypeRefresh, 0)
	require.NoError(t, err)

	_, err = codec.Verify(refresh, TypeAccess)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	access, _, err := codec.Issue("user-1", "basic", TypeAccess, 0)
	require.NoError(t, err)

	_, err = codec.Verify(access, TypeRefresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestCodec_TamperedToken(t *testing.T) {
	codec := New("secret", time.Hour, time.Hour)

	raw, _, err := codec.Issue("user-1", "free", TypeAccess, 0)
	require.NoError(t, err)

	// Flip a character inside the payload segment.
	parts := strings.Split(raw, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[10] == 'A' {
		payload[10] = 'B'
	} else {
		payload[10] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = codec.Verify(tampered, TypeAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestCodec_WrongSecret(t *testing.T) {
	raw, _, err := New("secret-a", time.Hour, time.Hour).Issue("user-1", "free", TypeAccess, 0)
	require.NoError(t, err)

	_, err = New("secret-b", time.Hour, time.Hour).Verify(raw, TypeAccess)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestCodec_GarbageToken(t *testing.T) {
	codec := New("secret", time.Hour, time.Hour)

	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := codec.Verify(raw, TypeAccess)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	}
}

func TestClaims_RemainingLifetime(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	codec := New("secret", 30*time.Minute, time.Hour).WithClock(func() time.Time { return now })

	_, claims, err := codec.Issue("user-1", "free", TypeAccess, 0)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, claims.RemainingLifetime(now))
	assert.Equal(t, 10*time.Minute, claims.RemainingLifetime(now.Add(20*time.Minute)))
	assert.LessOrEqual(t, claims.RemainingLifetime(now.Add(time.Hour)), time.Duration(0))
}

func TestCodec_TTLSelection(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	codec := New("secret", 30*time.Minute, 168*time.Hour).WithClock(func() time.Time { return now })

	_, access, err := codec.Issue("user-1", "free", TypeAccess, 0)
	require.NoError(t, err)
	_, refresh, err := codec.Issue("user-1", "free", TypeRefresh, 0)
	require.NoError(t, err)

	assert.Equal(t, now.Add(30*time.Minute), access.ExpiresAt.Time)
	assert.Equal(t, now.Add(168*time.Hour), refresh.ExpiresAt.Time)
}
