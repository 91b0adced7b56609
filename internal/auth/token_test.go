package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/encuentro-api/internal/apperror"
)

func newTestTokenService(t *testing.T, now time.Time, ttl time.Duration) *TokenService {
	t.Helper()
	svc, err := NewTokenService("test-secret", ttl)
	require.NoError(t, err)
	return svc.WithClock(func() time.Time { return now })
}

func TestNewTokenServiceValidation(t *testing.T) {
	_, err := NewTokenService("", time.Hour)
	assert.Error(t, err)

	_, err = NewTokenService("secret", 0)
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, issuedAt, time.Hour)

	principal := Principal{ID: uuid.New(), IsAdmin: true}
	token, err := svc.Issue(principal)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, principal.ID, got.ID)
	assert.True(t, got.IsAdmin)
}

func TestTokenExpiryBoundaryIsInclusive(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, issuedAt, time.Hour)

	token, err := svc.Issue(Principal{ID: uuid.New()})
	require.NoError(t, err)

	// One second before expiry the token is still accepted.
	svc.WithClock(func() time.Time { return issuedAt.Add(time.Hour - time.Second) })
	_, err = svc.Verify(token)
	assert.NoError(t, err)

	// At exactly now == exp the token is already rejected.
	svc.WithClock(func() time.Time { return issuedAt.Add(time.Hour) })
	_, err = svc.Verify(token)
	require.Error(t, err)
	assert.Equal(t, apperror.KindExpiredToken, apperror.KindOf(err))

	svc.WithClock(func() time.Time { return issuedAt.Add(2 * time.Hour) })
	_, err = svc.Verify(token)
	require.Error(t, err)
	assert.Equal(t, apperror.KindExpiredToken, apperror.KindOf(err))
}

func TestTokenMalformed(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, now, time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.Verify(token)
		require.Error(t, err)
		assert.Equal(t, apperror.KindMalformedToken, apperror.KindOf(err))
	}
}

func TestTokenForeignSecretRejected(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := newTestTokenService(t, now, time.Hour)

	other, err := NewTokenService("other-secret", time.Hour)
	require.NoError(t, err)
	other.WithClock(func() time.Time { return now })

	token, err := issuer.Issue(Principal{ID: uuid.New()})
	require.NoError(t, err)

	_, err = other.Verify(token)
	require.Error(t, err)
	assert.Equal(t, apperror.KindMalformedToken, apperror.KindOf(err))
}
