package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashIsSaltedAndVerifies(t *testing.T) {
	s := NewPasswordService(bcrypt.MinCost)

	first, err := s.Hash("correct horse")
	require.NoError(t, err)
	second, err := s.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	for _, digest := range []string{first, second} {
		ok, err := s.Verify("correct horse", digest)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestPasswordVerifyMismatchIsNotAnError(t *testing.T) {
	s := NewPasswordService(bcrypt.MinCost)
	digest, err := s.Hash("right")
	require.NoError(t, err)

	ok, err := s.Verify("wrong", digest)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordVerifyMalformedDigestIsHashingError(t *testing.T) {
	s := NewPasswordService(bcrypt.MinCost)

	ok, err := s.Verify("anything", "not-a-bcrypt-digest")
	assert.False(t, ok)
	_, isHashing := IsHashingError(err)
	assert.True(t, isHashing)
}

func TestPasswordServiceClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordService(1).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordService(99).cost)
}
