package service

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashSecret(t *testing.T) {
	// Известный вектор: sha256("123456") в hex
	assert.Equal(t,
		"8d969eef6ecad3c29a3a629280e686cf0c3f5d5a86aff3ca12020c923adc6c92",
		hashSecret("123456"))

	// Детерминированность и отличие от открытого текста
	assert.Equal(t, hashSecret("NewPass1"), hashSecret("NewPass1"))
	assert.NotEqual(t, "NewPass1", hashSecret("NewPass1"))
	assert.Len(t, hashSecret(""), 64, "Дайджест всегда 64 hex-символа")
}

func TestGenerateOtpCode(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := generateOtpCode()
		require.NoError(t, err)
		require.Len(t, code, 6, "Код всегда 6-значный")

		n, convErr := strconv.Atoi(code)
		require.NoError(t, convErr, "Код должен состоять только из цифр")
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}
