package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager("secret", time.Hour)

	token, err := m.GenerateAccessToken("librarian", time.Now())
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "librarian", claims.Username)
}

func TestManager_RejectsExpired(t *testing.T) {
	m := NewManager("secret", time.Minute)

	token, err := m.GenerateAccessToken("librarian", time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestManager_RejectsOtherSecret(t *testing.T) {
	token, err := NewManager("one", time.Hour).GenerateAccessToken("librarian", time.Now())
	require.NoError(t, err)

	_, err = NewManager("two", time.Hour).ValidateAccessToken(token)
	assert.Error(t, err)
}
