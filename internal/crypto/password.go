package crypto

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordMismatch возвращается, если пароль не совпал
var ErrPasswordMismatch = errors.New("password mismatch")

// HashPassword хеширует пароль bcrypt с cost по умолчанию
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// VerifyPassword сверяет пароль с bcrypt хешем, если он задан,
// иначе сравнивает с открытым паролем за постоянное время
func VerifyPassword(password, hash, plain string) error {
	if hash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
			if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
				return ErrPasswordMismatch
			}
			return fmt.Errorf("failed to compare password hash: %w", err)
		}
		return nil
	}

	if plain == "" {
		return fmt.Errorf("no admin password configured")
	}

	if subtle.ConstantTimeCompare([]byte(password), []byte(plain)) != 1 {
		return ErrPasswordMismatch
	}

	return nil
}
