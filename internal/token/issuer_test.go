package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newFixedIssuer(at time.Time) *Issuer {
	issuer := NewIssuer("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	issuer.now = func() time.Time { return at }
	return issuer
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := newFixedIssuer(base)

	access, err := issuer.SignAccess("user-1", "ann@example.com")
	require.NoError(t, err)

	claims, err := issuer.VerifyAccess(access)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "ann@example.com", claims.Email)
	require.Equal(t, base.Add(15*time.Minute).Unix(), claims.ExpiresAt.Unix())

	refresh, err := issuer.SignRefresh("user-1", "ann@example.com")
	require.NoError(t, err)

	refreshClaims, err := issuer.VerifyRefresh(refresh)
	require.NoError(t, err)
	require.Equal(t, base.Add(7*24*time.Hour).Unix(), refreshClaims.ExpiresAt.Unix())
}

func TestSigningIsDeterministicForFixedClock(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	first, err := newFixedIssuer(base).SignAccess("user-1", "ann@example.com")
	require.NoError(t, err)
	second, err := newFixedIssuer(base).SignAccess("user-1", "ann@example.com")
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestVerifyExpiryBoundary(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := newFixedIssuer(base)

	access, err := issuer.SignAccess("user-1", "ann@example.com")
	require.NoError(t, err)

	t.Run("one second before expiry succeeds", func(t *testing.T) {
		issuer.now = func() time.Time { return base.Add(15*time.Minute - time.Second) }

		_, err := issuer.VerifyAccess(access)
		require.NoError(t, err)
	})

	t.Run("one second past expiry fails with ErrExpired", func(t *testing.T) {
		issuer.now = func() time.Time { return base.Add(15*time.Minute + time.Second) }

		_, err := issuer.VerifyAccess(access)
		require.ErrorIs(t, err, ErrExpired)
	})
}

func TestVerifyRejectsForeignSignatures(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := newFixedIssuer(base)

	t.Run("access secret does not verify refresh tokens", func(t *testing.T) {
		refresh, err := issuer.SignRefresh("user-1", "ann@example.com")
		require.NoError(t, err)

		_, err = issuer.VerifyAccess(refresh)
		require.ErrorIs(t, err, ErrSignatureInvalid)
	})

	t.Run("token signed with another key fails", func(t *testing.T) {
		other := NewIssuer("other-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
		other.now = func() time.Time { return base }
		forged, err := other.SignAccess("user-1", "ann@example.com")
		require.NoError(t, err)

		_, err = issuer.VerifyAccess(forged)
		require.ErrorIs(t, err, ErrSignatureInvalid)
	})
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Parallel()

	issuer := newFixedIssuer(time.Now().UTC())

	for _, tokenString := range []string{"", "not-a-jwt", "a.b", "a.b.c.d"} {
		_, err := issuer.VerifyAccess(tokenString)
		require.ErrorIs(t, err, ErrMalformed)
	}
}
