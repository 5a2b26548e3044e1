package helpers

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestManager(t *testing.T, now time.Time) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(testSecret, time.Hour)
	require.NoError(t, err)
	m.Now = func() time.Time { return now }
	return m
}

func TestNewJWTManagerRejectsWeakSecret(t *testing.T) {
	_, err := NewJWTManager("", time.Hour)
	assert.ErrorIs(t, err, ErrWeakSecret)

	_, err = NewJWTManager(strings.Repeat("x", MinSecretLength-1), time.Hour)
	assert.ErrorIs(t, err, ErrWeakSecret)

	_, err = NewJWTManager(testSecret, 0)
	assert.Error(t, err)
}

func TestIssueAndValidate(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m := newTestManager(t, now)
	watermark := now.Add(-time.Minute)

	tok, exp, err := m.Issue("u-1", "ana@example.com", watermark)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), exp)

	assert.True(t, m.Validate(tok, "ana@example.com", watermark))
	assert.False(t, m.Validate(tok, "bob@example.com", watermark), "subject mismatch")

	email, err := m.ExtractIdentity(tok)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", email)

	claims, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateRejectsTokensOlderThanWatermark(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m := newTestManager(t, now)
	issuedWith := now.Add(-time.Hour).Add(123456 * time.Nanosecond)

	tok, _, err := m.Issue("u-1", "ana@example.com", issuedWith)
	require.NoError(t, err)

	// sub-microsecond noise in the stored watermark must not invalidate the token
	assert.True(t, m.Validate(tok, "ana@example.com", issuedWith))
	assert.True(t, m.Validate(tok, "ana@example.com", issuedWith.Add(-time.Second)))
	assert.False(t, m.Validate(tok, "ana@example.com", issuedWith.Add(time.Microsecond)))
}

func TestExpiredToken(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m := newTestManager(t, now)
	tok, _, err := m.Issue("u-1", "ana@example.com", now)
	require.NoError(t, err)

	m.Now = func() time.Time { return now.Add(2 * time.Hour) }
	assert.False(t, m.Validate(tok, "ana@example.com", now))
	_, err = m.ExtractIdentity(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractIdentityRejectsForeignTokens(t *testing.T) {
	now := time.Now()
	m := newTestManager(t, now)

	_, err := m.ExtractIdentity("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, err := NewJWTManager(strings.Repeat("z", 40), time.Hour)
	require.NoError(t, err)
	foreign, _, err := other.Issue("u-1", "ana@example.com", now)
	require.NoError(t, err)
	_, err = m.ExtractIdentity(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "ana@example.com", "exp": now.Add(time.Hour).Unix()})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.ExtractIdentity(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensAreDistinct(t *testing.T) {
	now := time.Now()
	m := newTestManager(t, now)
	a, _, err := m.Issue("u-1", "ana@example.com", now)
	require.NoError(t, err)
	b, _, err := m.Issue("u-1", "ana@example.com", now)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, TokenFingerprint(a), TokenFingerprint(b))
	assert.Len(t, TokenFingerprint(a), 64)
}
