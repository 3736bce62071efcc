package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("campaign-secret")
	require.NoError(t, err)
	assert.NotEqual(t, "campaign-secret", hash)

	assert.True(t, CheckPasswordHash("campaign-secret", hash))
	assert.False(t, CheckPasswordHash("wrong-secret", hash))
}
