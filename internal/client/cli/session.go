package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
)

// TokenEnv переменная окружения с токеном сессии по умолчанию
const TokenEnv = "FOLIO_TOKEN"

func parseTokenFlag(name string, args []string) (string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	token := fs.String("token", os.Getenv(TokenEnv), "session token")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	return *token, nil
}

func (c *Cli) runLogin(ctx context.Context) error {
	password, err := c.io.ReadPassword("Admin password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	token, err := c.server.Login(ctx, password)
	if err != nil {
		return err
	}

	c.io.Println("✓ Login successful")
	c.io.Printf("export %s=%s\n", TokenEnv, token)
	return nil
}

func (c *Cli) runLogout(ctx context.Context, args []string) error {
	token, err := parseTokenFlag("logout", args)
	if err != nil {
		return err
	}
	if token == "" {
		return errors.New("-token is required")
	}

	if err := c.server.Logout(ctx, token); err != nil {
		return err
	}

	c.io.Println("✓ Session revoked")
	return nil
}

func (c *Cli) runStatus(ctx context.Context, args []string) error {
	token, err := parseTokenFlag("status", args)
	if err != nil {
		return err
	}

	health, err := c.server.Health(ctx)
	if err != nil {
		return err
	}

	c.io.Println("=== Server Status ===")
	c.io.Printf("Status:  %s\n", health.Status)
	if health.Version != "" {
		c.io.Printf("Version: %s\n", health.Version)
	}

	if token == "" {
		c.io.Println("Session: no token given")
		return nil
	}

	ok, err := c.server.AuthStatus(ctx, token)
	if err != nil {
		return err
	}
	if ok {
		c.io.Println("Session: authenticated")
	} else {
		c.io.Println("Session: invalid or expired")
	}
	return nil
}
