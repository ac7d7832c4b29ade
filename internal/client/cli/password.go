package cli

import (
	"errors"
	"fmt"

	"github.com/iudanet/folio/internal/crypto"
)

// minPasswordLength минимальная длина пароля администратора
const minPasswordLength = 8

var errPasswordsDiffer = errors.New("passwords do not match")

func (c *Cli) runHashPassword() error {
	password, err := c.io.ReadPassword("Admin password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	confirm, err := c.io.ReadPassword("Repeat password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if confirm != password {
		return errPasswordsDiffer
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return err
	}

	c.io.Println(hash)
	return nil
}
