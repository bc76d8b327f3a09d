package sqlite

import (
	"context"
	"embed"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migration is one versioned schema change.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// runMigrations applies all pending migrations in version order.
func (r *Repository) runMigrations(ctx context.Context) error {
	if err := r.createMigrationsTable(ctx); err != nil {
		return errors.Wrap(err, "create migrations table")
	}

	migrations, err := loadMigrations()
	if err != nil {
		return errors.Wrap(err, "load migrations")
	}

	applied, err := r.appliedMigrations(ctx)
	if err != nil {
		return errors.Wrap(err, "get applied migrations")
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := r.applyMigration(ctx, m); err != nil {
			return errors.Wrapf(err, "apply migration %d (%s)", m.Version, m.Name)
		}
	}

	return nil
}

func (r *Repository) createMigrationsTable(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	return err
}

// loadMigrations reads embedded migration files named NNN_description.sql.
func loadMigrations() ([]migration, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, err
	}

	migrations := make([]migration, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}

		parts := strings.SplitN(strings.TrimSuffix(name, ".sql"), "_", 2)
		version, convErr := strconv.Atoi(parts[0])
		if convErr != nil {
			return nil, errors.Wrapf(convErr, "bad migration filename %q", name)
		}

		sqlBytes, readErr := migrationsFS.ReadFile(path.Join("migrations", name))
		if readErr != nil {
			return nil, readErr
		}

		migrations = append(migrations, migration{
			Version: version,
			Name:    name,
			SQL:     string(sqlBytes),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

func (r *Repository) appliedMigrations(ctx context.Context) (map[int]bool, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func (r *Repository) applyMigration(ctx context.Context, m migration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
