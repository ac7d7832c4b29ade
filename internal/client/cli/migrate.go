package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/iudanet/folio/internal/server/storage"
	"github.com/iudanet/folio/internal/server/storage/drivers"
)

type migrateOptions struct {
	fromDriver string
	fromPath   string
	toDriver   string
	toPath     string
}

func parseMigrateFlags(args []string) (migrateOptions, error) {
	var opts migrateOptions

	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.fromDriver, "from", drivers.File, "source driver: file, boltdb, sqlite")
	fs.StringVar(&opts.fromPath, "from-path", "content", "source location")
	fs.StringVar(&opts.toDriver, "to", "", "destination driver: file, boltdb, sqlite")
	fs.StringVar(&opts.toPath, "to-path", "", "destination location")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.toDriver == "" || opts.toPath == "" {
		return opts, errors.New("-to and -to-path are required")
	}
	if opts.fromDriver == opts.toDriver && opts.fromPath == opts.toPath {
		return opts, errors.New("source and destination are the same")
	}
	return opts, nil
}

func (c *Cli) runMigrate(ctx context.Context, args []string) error {
	opts, err := parseMigrateFlags(args)
	if err != nil {
		return err
	}

	src, err := drivers.Open(ctx, opts.fromDriver, opts.fromPath)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer closeStore(src)

	dst, err := drivers.Open(ctx, opts.toDriver, opts.toPath)
	if err != nil {
		return fmt.Errorf("failed to open destination: %w", err)
	}
	defer closeStore(dst)

	c.io.Printf("Migrating %s:%s -> %s:%s\n", opts.fromDriver, opts.fromPath, opts.toDriver, opts.toPath)

	copied, err := drivers.Copy(ctx, dst, src)
	if err != nil {
		return fmt.Errorf("migration stopped after %d documents: %w", copied, err)
	}

	c.io.Printf("✓ Copied %d documents\n", copied)
	return nil
}

func closeStore(s storage.DocumentStore) {
	_ = s.Close()
}
