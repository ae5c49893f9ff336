package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientToken(t *testing.T) {
	token, err := GenerateClientToken("c1", "secret-secret-secret-secret-1234", time.Hour)
	require.NoError(t, err)

	claims, err := ParseClientToken(token, "secret-secret-secret-secret-1234")
	require.NoError(t, err)
	assert.Equal(t, "c1", claims.ClientID)

	_, err = ParseClientToken(token, "another-secret-another-secret-12")
	assert.ErrorIs(t, err, ErrInvalidClient)

	expired, err := GenerateClientToken("c1", "secret-secret-secret-secret-1234", -time.Minute)
	require.NoError(t, err)
	_, err = ParseClientToken(expired, "secret-secret-secret-secret-1234")
	assert.ErrorIs(t, err, ErrInvalidClient)
}
