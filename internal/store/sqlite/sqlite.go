// Package sqlite serves characters from a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	msqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"bitbucket.org/sotavant/starwars-trivia-skill/internal/logger"
	"bitbucket.org/sotavant/starwars-trivia-skill/internal/store"
	"bitbucket.org/sotavant/starwars-trivia-skill/migrations"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sqlx.DB
}

var _ store.Store = (*Store)(nil)

type characterRow struct {
	ID int64 `db:"id"`
	store.Character
}

// Open connects to the database at path and applies pending migrations.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("sqlite: empty database path")
	}

	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// SQLite has a single writer; one connection also keeps ":memory:" databases alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := Migrate(db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Log.Info("character database ready", zap.String("path", path))
	return &Store{db: db}, nil
}

// Migrate applies the embedded migrations to db.
func Migrate(db *sql.DB) error {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	driver, err := msqlite.WithInstance(db, &msqlite.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}

	logger.Log.Info("database migrations applied")
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) FindCharacter(ctx context.Context, name string) (*store.Character, error) {
	var row characterRow
	err := s.db.GetContext(ctx, &row,
		"SELECT id, name, planet, lightsaber_color FROM characters WHERE name = ? COLLATE NOCASE",
		strings.TrimSpace(name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select character: %w", err)
	}

	quotes, err := s.quotes(ctx, row.ID)
	if err != nil {
		return nil, err
	}

	c := row.Character
	c.Quotes = quotes
	return &c, nil
}

func (s *Store) quotes(ctx context.Context, characterID int64) ([]string, error) {
	quotes := []string{}
	err := s.db.SelectContext(ctx, &quotes,
		"SELECT text FROM quotes WHERE character_id = ? ORDER BY position", characterID)
	if err != nil {
		return nil, fmt.Errorf("select quotes: %w", err)
	}
	return quotes, nil
}

func (s *Store) ListCharacters(ctx context.Context) ([]store.Character, error) {
	var rows []characterRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT id, name, planet, lightsaber_color FROM characters ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("select characters: %w", err)
	}

	chars := make([]store.Character, 0, len(rows))
	for _, row := range rows {
		quotes, err := s.quotes(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		c := row.Character
		c.Quotes = quotes
		chars = append(chars, c)
	}
	return chars, nil
}

// Seed inserts or updates chars in one transaction. Quotes of a seeded
// character are replaced.
func (s *Store) Seed(ctx context.Context, chars []store.Character) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range chars {
		if err := seedCharacter(ctx, tx, c); err != nil {
			return fmt.Errorf("seed %q: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

func seedCharacter(ctx context.Context, tx *sqlx.Tx, c store.Character) error {
	name := strings.TrimSpace(c.Name)

	_, err := tx.NamedExecContext(ctx, `
		INSERT INTO characters (name, planet, lightsaber_color)
		VALUES (:name, :planet, :lightsaber_color)
		ON CONFLICT(name) DO UPDATE SET
			name = excluded.name,
			planet = excluded.planet,
			lightsaber_color = excluded.lightsaber_color`,
		map[string]interface{}{
			"name":             name,
			"planet":           c.Planet,
			"lightsaber_color": c.LightsaberColor,
		})
	if err != nil {
		return err
	}

	var id int64
	if err := tx.GetContext(ctx, &id, "SELECT id FROM characters WHERE name = ? COLLATE NOCASE", name); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM quotes WHERE character_id = ?", id); err != nil {
		return err
	}

	for i, q := range c.Quotes {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO quotes (character_id, position, text) VALUES (?, ?, ?)", id, i, q)
		if err != nil {
			return err
		}
	}
	return nil
}
