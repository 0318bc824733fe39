package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	h1, err := HashPassword("password123")
	require.NoError(t, err)
	require.NotEmpty(t, h1)
	require.NotEqual(t, "password123", h1)

	// Salt is regenerated per call.
	h2, err := HashPassword("password123")
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
}

func TestHashPasswordEmpty(t *testing.T) {
	_, err := HashPassword("")
	require.Error(t, err)
}

func TestCheckPassword(t *testing.T) {
	h, err := HashPassword("password123")
	require.NoError(t, err)

	ok, err := CheckPassword(h, "password123")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = CheckPassword(h, "wrongpass")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCheckPasswordMissingArgs(t *testing.T) {
	_, err := CheckPassword("", "password123")
	require.Error(t, err)

	_, err = CheckPassword("somehash", "")
	require.Error(t, err)
}
