package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	salt := NewSalt()
	hash, err := HashPassword("correct horse", salt)
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "correct horse", salt))
	assert.False(t, CheckPassword(hash, "wrong horse", salt))
	assert.False(t, CheckPassword(hash, "correct horse", NewSalt()))
}

func TestHashPasswordLongInput(t *testing.T) {
	long := strings.Repeat("x", 200)
	salt := NewSalt()
	hash, err := HashPassword(long, salt)
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, long, salt))
	assert.False(t, CheckPassword(hash, long[:199], salt))
}

func TestNewSalt(t *testing.T) {
	a, b := NewSalt(), NewSalt()
	assert.Len(t, a, 24)
	assert.NotEqual(t, a, b)
}
