package postgres

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"

	"github.com/uptrace/bun"
)

const migrationsTable = "schema_migrations"

type rawExecutor interface {
	NewRaw(query string, args ...any) *bun.RawQuery
}

// ApplyMigrations runs the "-- +goose Up" section of every *.sql file in fsys
// that is not yet recorded in schema_migrations, in file name order.
func ApplyMigrations(ctx context.Context, db *bun.DB, fsys fs.FS, log *slog.Logger) ([]string, error) {
	if log == nil {
		log = slog.Default()
	}

	if _, err := db.NewRaw("CREATE TABLE IF NOT EXISTS " + migrationsTable + " (name text PRIMARY KEY, applied_at timestamptz NOT NULL DEFAULT now())").Exec(ctx); err != nil {
		return nil, err
	}

	var done []string
	if err := db.NewRaw("SELECT name FROM " + migrationsTable).Scan(ctx, &done); err != nil {
		return nil, err
	}
	applied := make(map[string]struct{}, len(done))
	for _, name := range done {
		applied[name] = struct{}{}
	}

	names, err := migrationNames(fsys)
	if err != nil {
		return nil, err
	}

	var ran []string
	for _, name := range names {
		if _, ok := applied[name]; ok {
			continue
		}
		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return ran, err
		}
		err = db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if err := execMigration(ctx, tx, string(b)); err != nil {
				return err
			}
			_, err := tx.NewRaw("INSERT INTO "+migrationsTable+" (name) VALUES (?)", name).Exec(ctx)
			return err
		})
		if err != nil {
			return ran, fmt.Errorf("migration %s: %w", name, err)
		}
		log.Info("migration applied", slog.String("name", name))
		ran = append(ran, name)
	}
	return ran, nil
}

func migrationNames(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func execMigration(ctx context.Context, exec rawExecutor, sql string) error {
	upSQL, err := extractGooseUp(sql)
	if err != nil {
		return err
	}
	for _, stmt := range splitSQLStatements(upSQL) {
		if _, err := exec.NewRaw(stmt).Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

func extractGooseUp(sql string) (string, error) {
	upMarker := "-- +goose Up"
	downMarker := "-- +goose Down"

	upIdx := strings.Index(sql, upMarker)
	if upIdx < 0 {
		return "", fmt.Errorf("missing goose up marker")
	}
	afterUp := sql[upIdx+len(upMarker):]
	afterUp = strings.TrimLeft(afterUp, "\r\n")

	downIdx := strings.Index(afterUp, downMarker)
	if downIdx < 0 {
		return strings.TrimSpace(afterUp), nil
	}
	return strings.TrimSpace(afterUp[:downIdx]), nil
}

func splitSQLStatements(sql string) []string {
	parts := strings.Split(sql, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
