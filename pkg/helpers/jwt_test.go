package helpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestIssueAndParse(t *testing.T) {
	m := NewTokenManager(testSecret)
	tok, exp, err := m.Issue("alice", 30*time.Minute)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), exp, 2*time.Second)

	sub, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", sub)
}

func TestIssueDefaultTTL(t *testing.T) {
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewTokenManager(testSecret).WithClock(fixedClock(start))
	_, exp, err := m.Issue("alice", 0)
	require.NoError(t, err)
	assert.Equal(t, start.Add(DefaultTokenTTL), exp)
}

func TestIssueRejectsEmptySubject(t *testing.T) {
	_, _, err := NewTokenManager(testSecret).Issue("", time.Minute)
	assert.ErrorIs(t, err, ErrEmptySubject)
}

func TestParseExpired(t *testing.T) {
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewTokenManager(testSecret).WithClock(fixedClock(start))
	tok, _, err := issuer.Issue("alice", time.Minute)
	require.NoError(t, err)

	_, err = issuer.WithClock(fixedClock(start.Add(59 * time.Second))).Parse(tok)
	require.NoError(t, err)

	_, err = issuer.WithClock(fixedClock(start.Add(2 * time.Minute))).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseWrongSecret(t *testing.T) {
	tok, _, err := NewTokenManager(testSecret).Issue("alice", time.Minute)
	require.NoError(t, err)
	_, err = NewTokenManager("ffffffffffffffffffffffffffffffff").Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseMalformed(t *testing.T) {
	m := NewTokenManager(testSecret)
	for _, tok := range []string{"", "abc", "a.b.c"} {
		_, err := m.Parse(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}
}

func TestParseRejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.RegisteredClaims{Subject: "alice", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	m := NewTokenManager(testSecret)
	for _, tok := range []string{hs512, none} {
		_, err := m.Parse(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestParseRequiresSubjectAndExpiry(t *testing.T) {
	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "alice",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	m := NewTokenManager(testSecret)
	_, err = m.Parse(noSub)
	assert.ErrorIs(t, err, ErrEmptySubject)
	_, err = m.Parse(noExp)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
