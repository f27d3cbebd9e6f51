package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/habbo-store/internal/domain"
)

func TestUnlockWithCorrectSecret(t *testing.T) {
	gate := NewGate("habbo2024")

	token, err := gate.Unlock("habbo2024")

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, gate.Authorized(token))
}

func TestUnlockWithWrongSecretStaysLocked(t *testing.T) {
	gate := NewGate("habbo2024")

	token, err := gate.Unlock("guess")

	assert.ErrorIs(t, err, domain.ErrWrongSecret)
	assert.Empty(t, token)
	assert.False(t, gate.Authorized("guess"))
}

func TestLogoutInvalidatesToken(t *testing.T) {
	gate := NewGate("habbo2024")
	token, err := gate.Unlock("habbo2024")
	require.NoError(t, err)

	gate.Logout(token)

	assert.False(t, gate.Authorized(token))
}

func TestSessionsAreIndependent(t *testing.T) {
	gate := NewGate("habbo2024")
	first, err := gate.Unlock("habbo2024")
	require.NoError(t, err)
	second, err := gate.Unlock("habbo2024")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	gate.Logout(first)

	assert.False(t, gate.Authorized(first))
	assert.True(t, gate.Authorized(second))
}

func TestEmptyTokenNeverAuthorized(t *testing.T) {
	gate := NewGate("habbo2024")

	assert.False(t, gate.Authorized(""))
}
