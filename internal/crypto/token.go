package crypto

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"time"
)

// TokenHexLen длина сессионного токена: hex SHA-256
const TokenHexLen = sha256.Size * 2

var tokenPattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// NewSessionDigest генерирует сессионный токен:
// HMAC-SHA256(secret, "admin:<unix-nanos>:<16 random bytes hex>") в нижнем регистре hex
func NewSessionDigest(secret []byte, now time.Time) (string, error) {
	if len(secret) == 0 {
		return "", fmt.Errorf("token secret cannot be empty")
	}

	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate random nonce: %w", err)
	}

	payload := fmt.Sprintf("admin:%d:%s", now.UnixNano(), hex.EncodeToString(nonce))

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))

	return hex.EncodeToString(mac.Sum(nil)), nil
}

// IsSessionDigest проверяет формат токена (64 символа [a-f0-9])
func IsSessionDigest(token string) bool {
	return tokenPattern.MatchString(token)
}
