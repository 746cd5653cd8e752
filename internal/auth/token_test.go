package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"mymat/internal/domain"
)

var admin = &domain.User{ID: "u-admin", Email: "admin@mymat.test", Role: domain.RoleAdmin}

func TestIssueAndVerify(t *testing.T) {
	tok := NewTokens("s3cret")
	raw, exp, err := tok.Issue(admin)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(TokenTTL), exp, time.Minute)

	claims, err := tok.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "u-admin", claims.Subject)
	require.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestVerifyRejects(t *testing.T) {
	tok := NewTokens("s3cret")
	raw, _, err := tok.Issue(admin)
	require.NoError(t, err)

	_, err = NewTokens("other").Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken, "wrong secret")

	_, err = tok.Verify(raw + "x")
	require.ErrorIs(t, err, ErrInvalidToken, "tampered")

	later := NewTokens("s3cret")
	later.now = func() time.Time { return time.Now().Add(TokenTTL + time.Minute) }
	_, err = later.Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken, "expired")

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "u-admin", "iss": "mymat"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tok.Verify(none)
	require.ErrorIs(t, err, ErrInvalidToken, "alg none")
}

func TestMissingSecret(t *testing.T) {
	_, _, err := NewTokens("").Issue(admin)
	require.Error(t, err)
}
