package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
)

// hashSecret возвращает hex-представление SHA-256 дайджеста секрета.
// Используется и для одноразовых кодов, и для зеркала пароля в профиле.
func hashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// generateOtpCode возвращает 6-значный код, равномерно распределенный
// на отрезке [100000, 999999].
func generateOtpCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp code: %w", err)
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
