package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groszeck/taxena-netlify/internal/apperr"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func requireUnauthenticated(t *testing.T, err error, message string) {
	t.Helper()
	require.Error(t, err)
	e := apperr.As(err)
	assert.Equal(t, apperr.Unauthenticated, e.Kind)
	assert.Equal(t, message, e.Message)
}

func TestIssueThenAuthenticate(t *testing.T) {
	tokens := NewTokens("secret", time.Hour).WithClock(fixedClock(epoch))
	raw, issued, err := tokens.Issue("user-1", "company-1", "admin", "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, epoch.Add(time.Hour), issued.ExpiresAt)

	session, err := tokens.Authenticate("Bearer " + raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", session.UserID)
	assert.Equal(t, "company-1", session.CompanyID)
	assert.Equal(t, "admin", session.Role)
	assert.True(t, session.ExpiresAt.Equal(epoch.Add(time.Hour)))
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer a b", "token"} {
		_, err := tokens.Authenticate(header)
		requireUnauthenticated(t, err, msgMalformedHeader)
	}
}

func TestAuthenticateExpiredIsDistinct(t *testing.T) {
	issuer := NewTokens("secret", time.Minute).WithClock(fixedClock(epoch))
	raw, _, err := issuer.Issue("user-1", "company-1", "member", "")
	require.NoError(t, err)

	later := issuer.WithClock(fixedClock(epoch.Add(2 * time.Minute)))
	_, err = later.Authenticate("Bearer " + raw)
	requireUnauthenticated(t, err, msgExpiredToken)
}

func TestAuthenticateWrongSecret(t *testing.T) {
	raw, _, err := NewTokens("one", time.Hour).Issue("user-1", "company-1", "member", "")
	require.NoError(t, err)

	_, err = NewTokens("two", time.Hour).Authenticate("Bearer " + raw)
	requireUnauthenticated(t, err, msgInvalidToken)
}

func TestAuthenticateGarbage(t *testing.T) {
	_, err := NewTokens("secret", time.Hour).Authenticate("Bearer not.a.jwt")
	requireUnauthenticated(t, err, msgInvalidToken)
}

func TestAuthenticateRejectsOtherAlgorithms(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims{
		UserID:    "user-1",
		CompanyID: "company-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	raw, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokens("secret", time.Hour).Authenticate("Bearer " + raw)
	requireUnauthenticated(t, err, msgInvalidToken)
}

func TestAuthenticateRequiresTenantAndUser(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	raw, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokens("secret", time.Hour).Authenticate("bearer " + raw)
	requireUnauthenticated(t, err, msgMalformedPayload)
}

func TestPasswords(t *testing.T) {
	passwords := NewPasswords(4)
	hash, err := passwords.Hash("correct horse")
	require.NoError(t, err)

	ok, err := passwords.Matches(hash, "correct horse")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = passwords.Matches(hash, "battery staple")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = passwords.Matches("", "anything")
	require.NoError(t, err)
	assert.False(t, ok)
}
