package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/korjavin/druglookup/internal/accounts"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Store is a SQLite-backed accounts.Backend.
type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// :memory: databases are per connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, err
	}
	goose.SetBaseFS(embedMigrations)

	if err := goose.Up(db, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate db: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// -- accounts.Backend --

func (s *Store) Load(ctx context.Context) ([]accounts.Account, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, username, password_hash FROM accounts ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []accounts.Account
	for rows.Next() {
		var a accounts.Account
		if err := rows.Scan(&a.ID, &a.Username, &a.PasswordHash); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Save replaces the whole table in one transaction.
func (s *Store) Save(ctx context.Context, list []accounts.Account) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM accounts"); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO accounts (position, id, username, password_hash) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, a := range list {
		if _, err := stmt.ExecContext(ctx, i, a.ID, a.Username, a.PasswordHash); err != nil {
			return fmt.Errorf("insert %q: %w", a.Username, err)
		}
	}

	return tx.Commit()
}
