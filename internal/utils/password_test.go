package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	assert.NotContains(t, hash, "s3cret!")

	ok, err := VerifyPassword("s3cret!", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("mauvais", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashesAreSalted(t *testing.T) {
	h1, err := HashPassword("s3cret!")
	require.NoError(t, err)
	h2, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestVerifyPasswordRejectsGarbage(t *testing.T) {
	_, err := VerifyPassword("x", "pas-un-hash")
	assert.Error(t, err)
}
