// Package sqlite реализует DocumentStore поверх SQLite (modernc.org/sqlite, без cgo).
// Схема создается миграциями goose из встроенного каталога migrations.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// defaultPragmas применяются к каждому соединению, если DSN не задает свои
var defaultPragmas = []string{
	"busy_timeout(5000)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
}

// Storage документы в таблице documents
type Storage struct {
	db *sql.DB
}

// New открывает базу dbPath и применяет миграции.
// ":memory:" создает базу в памяти.
func New(ctx context.Context, dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Одно соединение: все транзакции процесса выполняются последовательно,
	// а база в памяти не теряется при переоткрытии соединения
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Storage{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// dsn дополняет путь параметрами драйвера. _txlock=immediate заставляет транзакцию
// сразу брать блокировку записи: два процесса не прочитают одну версию документа.
func dsn(dbPath string) string {
	if dbPath == ":memory:" {
		return dbPath
	}

	var params []string
	if !strings.Contains(dbPath, "_pragma=") {
		for _, p := range defaultPragmas {
			params = append(params, "_pragma="+p)
		}
	}
	if !strings.Contains(dbPath, "_txlock=") {
		params = append(params, "_txlock=immediate")
	}
	if len(params) == 0 {
		return dbPath
	}

	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + strings.Join(params, "&")
}

// migrate применяет встроенные миграции через goose.Provider (без глобального состояния goose)
func (s *Storage) migrate(ctx context.Context) error {
	migrations, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, s.db, migrations)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Close закрывает базу
func (s *Storage) Close() error {
	return s.db.Close()
}
