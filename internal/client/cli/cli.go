// Package cli реализует команды операторской утилиты folioctl.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/folio/internal/client/iocli"
	"github.com/iudanet/folio/pkg/api"
)

// ErrUnknownCommand команда не поддерживается
var ErrUnknownCommand = errors.New("unknown command")

// Server операции сервера, которые использует folioctl
type Server interface {
	Health(ctx context.Context) (*api.HealthResponse, error)
	Login(ctx context.Context, password string) (string, error)
	Logout(ctx context.Context, token string) error
	AuthStatus(ctx context.Context, token string) (bool, error)
}

type Cli struct {
	io     iocli.IO
	server Server
}

func New(io iocli.IO, server Server) *Cli {
	return &Cli{
		io:     io,
		server: server,
	}
}

// Run выполняет команду с ее аргументами
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "hash-password":
		return c.runHashPassword()
	case "migrate":
		return c.runMigrate(ctx, args)
	case "login":
		return c.runLogin(ctx)
	case "logout":
		return c.runLogout(ctx, args)
	case "status":
		return c.runStatus(ctx, args)
	case "help":
		c.PrintUsage()
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}
}

// PrintUsage выводит справку по командам
func (c *Cli) PrintUsage() {
	c.io.Println("Usage: folioctl [-server URL] <command> [options]")
	c.io.Println()
	c.io.Println("Commands:")
	c.io.Println("  hash-password   Print a bcrypt hash for ADMIN_PASSWORD_HASH")
	c.io.Println("  migrate         Copy all documents between storage drivers")
	c.io.Println("                  -from <driver> -from-path <location> -to <driver> -to-path <location>")
	c.io.Println("  login           Log in and print the session token")
	c.io.Println("  logout          Revoke a session token (-token T)")
	c.io.Println("  status          Check server health and session (-token T)")
	c.io.Println("  help            Show this help")
}
