package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSalt_UniqueAndNonEmpty(t *testing.T) {
	t.Parallel()

	a := GenerateSalt()
	b := GenerateSalt()

	require.NotEmpty(t, a)
	require.NotEmpty(t, b)
	assert.NotEqual(t, a, b)
}

func TestHashPassword_Deterministic(t *testing.T) {
	t.Parallel()

	salt := GenerateSalt()

	h1 := HashPassword("Secret123", salt)
	h2 := HashPassword("Secret123", salt)

	assert.Equal(t, h1, h2)
	// SHA-512 hex digest
	assert.Len(t, h1, 128)
}

func TestHashPassword_SaltChangesDigest(t *testing.T) {
	t.Parallel()

	h1 := HashPassword("Secret123", GenerateSalt())
	h2 := HashPassword("Secret123", GenerateSalt())

	assert.NotEqual(t, h1, h2)
}

func TestCheckPassword(t *testing.T) {
	t.Parallel()

	salt := GenerateSalt()
	stored := HashPassword("Secret123", salt)

	assert.True(t, CheckPassword("Secret123", salt, stored))
	assert.False(t, CheckPassword("secret123", salt, stored))
	assert.False(t, CheckPassword("", salt, stored))
	assert.False(t, CheckPassword("Secret123", GenerateSalt(), stored))
}
