package service

import (
	"testing"
	"time"

	"yamdb/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateYear(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	assert.ErrorIs(t, ValidateYear(2999, now), ErrValidation)
	assert.ErrorIs(t, ValidateYear(now.Year()+1, now), ErrValidation)
	assert.NoError(t, ValidateYear(now.Year(), now))
	assert.NoError(t, ValidateYear(now.Year()-1, now))
	assert.NoError(t, ValidateYear(1895, now))
}

func TestValidateScore(t *testing.T) {
	for _, s := range []int{1, 5, 10} {
		assert.NoError(t, ValidateScore(s), s)
	}
	for _, s := range []int{-1, 0, 11, 100} {
		assert.ErrorIs(t, ValidateScore(s), ErrValidation, s)
	}
}

func TestMean(t *testing.T) {
	assert.Nil(t, Mean(nil))
	assert.Nil(t, Mean([]int{}))

	m := Mean([]int{7, 9})
	require.NotNil(t, m)
	assert.InDelta(t, 8.0, *m, 1e-9)

	m = Mean([]int{1, 2})
	require.NotNil(t, m)
	assert.InDelta(t, 1.5, *m, 1e-9)
}

func TestUsernameValidator(t *testing.T) {
	v, err := NewUsernameValidator(config.DefaultUsernamePatterns)
	require.NoError(t, err)

	valid := []string{"alice", "bob.smith", "user+tag", "a@b", "ünïcode_1", "me2", "mee"}
	for _, name := range valid {
		assert.NoError(t, v.Validate(name), name)
	}

	invalidNames := []string{"", "me", "with space", "semi;colon", "slash/", "tab\tname"}
	for _, name := range invalidNames {
		err := v.Validate(name)
		assert.ErrorIs(t, err, ErrValidation, name)
	}

	long := make([]byte, maxUsernameLength+1)
	for i := range long {
		long[i] = 'a'
	}
	assert.ErrorIs(t, v.Validate(string(long)), ErrValidation)
}

func TestUsernameValidator_CustomPatterns(t *testing.T) {
	v, err := NewUsernameValidator([]config.UsernamePattern{
		{Regex: "^admin", InverseMatch: false},
		{Regex: "^[a-z]+$", InverseMatch: true},
	})
	require.NoError(t, err)

	assert.NoError(t, v.Validate("reader"))
	assert.Error(t, v.Validate("administrator"))
	assert.Error(t, v.Validate("Reader"))
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "Great film", cleanText("  <b>Great</b> film "))
	assert.Equal(t, "Tom & Jerry", cleanText("Tom & Jerry"))
	assert.Equal(t, "", cleanText("<script>alert(1)</script>"))
}
