package apikey

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateProducesConsistentHash(t *testing.T) {
	key, hash, prefix, err := Generate("test")
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "pk_test_"))
	assert.True(t, strings.HasPrefix(prefix, "pk_test_"))
	assert.Len(t, hash, 64) // hex-encoded sha256
}

func TestGenerateIsNotReusable(t *testing.T) {
	key1, hash1, _, err := Generate("live")
	assert.NoError(t, err)
	key2, hash2, _, err := Generate("live")
	assert.NoError(t, err)

	assert.NotEqual(t, key1, key2)
	assert.NotEqual(t, hash1, hash2)
}
