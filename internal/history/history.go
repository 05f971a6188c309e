// Package history persists REPL input lines in a SQL database so they can
// be recalled in later sessions.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	sqlitePrefix = "sqlite3://"
	mysqlPrefix  = "mysql://"
)

var postgresPrefixes = []string{"postgres://", "postgresql://"}

var schemas = map[string]string{
	"sqlite3": `CREATE TABLE IF NOT EXISTS history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		line TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	"mysql": `CREATE TABLE IF NOT EXISTS history (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		line TEXT NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	"postgres": `CREATE TABLE IF NOT EXISTS history (
		id BIGSERIAL PRIMARY KEY,
		line TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
}

type Store struct {
	db     *sql.DB
	driver string
}

// ParseDSN splits a store location into a database/sql driver name and
// data source. Locations without a scheme are sqlite file paths.
func ParseDSN(dsn string) (driver string, source string, err error) {
	for _, prefix := range postgresPrefixes {
		if strings.HasPrefix(dsn, prefix) {
			source, err := pq.ParseURL(dsn)
			if err != nil {
				return "", "", fmt.Errorf("invalid postgres url: %w", err)
			}
			return "postgres", source, nil
		}
	}

	switch {
	case strings.HasPrefix(dsn, mysqlPrefix):
		cfg, err := mysql.ParseDSN(strings.TrimPrefix(dsn, mysqlPrefix))
		if err != nil {
			return "", "", fmt.Errorf("invalid mysql dsn: %w", err)
		}
		cfg.ParseTime = true
		return "mysql", cfg.FormatDSN(), nil
	case strings.HasPrefix(dsn, sqlitePrefix):
		dsn = strings.TrimPrefix(dsn, sqlitePrefix)
	}

	if dsn == "" {
		return "", "", fmt.Errorf("empty history location")
	}
	return "sqlite3", dsn, nil
}

// Open connects to the store and creates the history table if needed.
func Open(ctx context.Context, dsn string) (*Store, error) {
	driver, source, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s history: %w", driver, err)
	}
	if driver == "sqlite3" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.ExecContext(ctx, schemas[driver]); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history table: %w", err)
	}

	slog.Debug("history store opened", slog.String("driver", driver))
	return &Store{db: db, driver: driver}, nil
}

// bind rewrites ? placeholders into the form the driver expects.
func (s *Store) bind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) Append(ctx context.Context, line string) error {
	_, err := s.db.ExecContext(ctx,
		s.bind("INSERT INTO history (line, created_at) VALUES (?, ?)"),
		line, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}

// Recent returns up to n of the latest lines, oldest first.
func (s *Store) Recent(ctx context.Context, n int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.bind(`SELECT line FROM (
			SELECT id, line FROM history ORDER BY id DESC LIMIT ?
		) AS recent ORDER BY id ASC`), n)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
