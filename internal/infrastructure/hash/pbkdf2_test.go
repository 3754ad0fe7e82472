package hash_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatly/user-service/internal/infrastructure/hash"
)

func TestPBKDF2Hasher_RoundTrip(t *testing.T) {
	h := hash.NewPBKDF2Hasher()

	salt, err := h.NewSalt()
	require.NoError(t, err)
	require.NotEmpty(t, salt)

	stored := h.Hash(salt, "secret123")
	assert.NotEqual(t, "secret123", stored)
	assert.True(t, h.Compare(salt, "secret123", stored))
	assert.False(t, h.Compare(salt, "wrong-password", stored))
}

func TestPBKDF2Hasher_SaltsAreUnique(t *testing.T) {
	h := hash.NewPBKDF2Hasher()

	a, err := h.NewSalt()
	require.NoError(t, err)
	b, err := h.NewSalt()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	// same password, different salt, different stored hash
	assert.NotEqual(t, h.Hash(a, "secret123"), h.Hash(b, "secret123"))
}

func TestPBKDF2Hasher_Deterministic(t *testing.T) {
	h := hash.NewPBKDF2Hasher()
	assert.Equal(t, h.Hash("fixed-salt", "secret123"), h.Hash("fixed-salt", "secret123"))
}
