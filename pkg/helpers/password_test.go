package helpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	SetBcryptCost(bcrypt.MinCost)
	m.Run()
}

func TestHashPasswordRoundTrip(t *testing.T) {
	for _, pw := range []string{"", "hunter2", "pässwörd ✓", strings.Repeat("x", 500)} {
		hash, err := HashPassword(pw)
		require.NoError(t, err)
		assert.True(t, CompareHashAndPassword(hash, pw), "password %q", pw)
	}
}

func TestHashPasswordRejectsOtherPasswords(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.False(t, CompareHashAndPassword(hash, "correct horse "))
	assert.False(t, CompareHashAndPassword(hash, "Correct horse"))
	assert.False(t, CompareHashAndPassword("not-a-hash", "correct horse"))
}

func TestHashPasswordBeyondBcryptLimit(t *testing.T) {
	prefix := strings.Repeat("a", 80)
	hash, err := HashPassword(prefix + "1")
	require.NoError(t, err)
	assert.True(t, CompareHashAndPassword(hash, prefix+"1"))
	assert.False(t, CompareHashAndPassword(hash, prefix+"2"))
}

func TestHashPasswordIsSalted(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.True(t, CompareHashAndPassword(a, "same"))
	assert.True(t, CompareHashAndPassword(b, "same"))
}

func TestSetBcryptCostClamps(t *testing.T) {
	t.Cleanup(func() { SetBcryptCost(bcrypt.MinCost) })

	SetBcryptCost(99)
	hash, err := HashPassword("pw")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
