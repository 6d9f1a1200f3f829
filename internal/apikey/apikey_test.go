package apikey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestKeyLifecycle(t *testing.T) {
	keyring.MockInit()

	_, err := Get("gemini")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, Set("gemini", "segredo"))

	key, err := Get("gemini")
	require.NoError(t, err)
	assert.Equal(t, "segredo", key)

	require.NoError(t, Delete("gemini"))
	_, err = Get("gemini")
	require.ErrorIs(t, err, ErrNotFound)

	// Deleting again is a no-op.
	require.NoError(t, Delete("gemini"))
}

func TestSetRejectsEmptyKey(t *testing.T) {
	keyring.MockInit()
	require.Error(t, Set("gemini", "   "))
}

func TestEnvFallback(t *testing.T) {
	keyring.MockInit()
	t.Setenv("GEMINI_API_KEY", "do-ambiente")

	key, err := Get("gemini")
	require.NoError(t, err)
	assert.Equal(t, "do-ambiente", key)
}

func TestKeychainWinsOverEnv(t *testing.T) {
	keyring.MockInit()
	t.Setenv("GEMINI_API_KEY", "do-ambiente")
	require.NoError(t, Set("gemini", "da-keychain"))

	key, err := Get("gemini")
	require.NoError(t, err)
	assert.Equal(t, "da-keychain", key)
}
