package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const createMigrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version BIGINT PRIMARY KEY,
    name TEXT NOT NULL,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Migration is one versioned schema change read from NNNN_name.up.sql and
// its optional NNNN_name.down.sql counterpart.
type Migration struct {
	Version int64
	Name    string
	Up      string
	Down    string
}

// MigrationStatus reports whether a known migration has been applied.
type MigrationStatus struct {
	Version   int64
	Name      string
	Applied   bool
	AppliedAt *time.Time
}

type appliedRow struct {
	Version   int64
	AppliedAt time.Time
}

// Migrator applies embedded SQL migrations and records them in schema_migrations.
type Migrator struct {
	db         *gorm.DB
	migrations []Migration
	logger     *zap.Logger
}

// NewMigrator returns a Migrator over the migrations bundled with the binary.
func NewMigrator(db *gorm.DB, logger *zap.Logger) (*Migrator, error) {
	return NewMigratorFS(db, migrationFS, "migrations", logger)
}

// NewMigratorFS returns a Migrator reading migrations from dir in fsys.
func NewMigratorFS(db *gorm.DB, fsys fs.FS, dir string, logger *zap.Logger) (*Migrator, error) {
	migrations, err := LoadMigrations(fsys, dir)
	if err != nil {
		return nil, err
	}
	return &Migrator{db: db, migrations: migrations, logger: logger}, nil
}

// LoadMigrations parses the migration files in dir, ordered by version.
func LoadMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	byVersion := map[int64]*Migration{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		fileName := entry.Name()
		var direction, base string
		switch {
		case strings.HasSuffix(fileName, ".up.sql"):
			direction, base = "up", strings.TrimSuffix(fileName, ".up.sql")
		case strings.HasSuffix(fileName, ".down.sql"):
			direction, base = "down", strings.TrimSuffix(fileName, ".down.sql")
		default:
			continue
		}

		versionPart, name, ok := strings.Cut(base, "_")
		if !ok {
			return nil, fmt.Errorf("migration %s: expected NNNN_name", fileName)
		}
		version, err := strconv.ParseInt(versionPart, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("migration %s: invalid version: %w", fileName, err)
		}

		raw, err := fs.ReadFile(fsys, path.Join(dir, fileName))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", fileName, err)
		}

		m, exists := byVersion[version]
		if !exists {
			m = &Migration{Version: version, Name: name}
			byVersion[version] = m
		} else if m.Name != name {
			return nil, fmt.Errorf("migration version %d used by %q and %q", version, m.Name, name)
		}
		if direction == "up" {
			m.Up = string(raw)
		} else {
			m.Down = string(raw)
		}
	}

	migrations := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		if strings.TrimSpace(m.Up) == "" {
			return nil, fmt.Errorf("migration %d_%s has no up script", m.Version, m.Name)
		}
		migrations = append(migrations, *m)
	}
	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	return migrations, nil
}

// Migrations returns the known migrations in version order.
func (m *Migrator) Migrations() []Migration {
	return m.migrations
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	if err := m.db.WithContext(ctx).Exec(createMigrationsTable).Error; err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}
	return nil
}

func (m *Migrator) applied(ctx context.Context) (map[int64]time.Time, error) {
	var rows []appliedRow
	if err := m.db.WithContext(ctx).
		Raw("SELECT version, applied_at FROM schema_migrations ORDER BY version").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read schema_migrations: %w", err)
	}
	applied := make(map[int64]time.Time, len(rows))
	for _, r := range rows {
		applied[r.Version] = r.AppliedAt
	}
	return applied, nil
}

// Up applies every pending migration, each in its own transaction, and
// returns the ones it applied.
func (m *Migrator) Up(ctx context.Context) ([]Migration, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}
	applied, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}

	var done []Migration
	for _, mig := range m.migrations {
		if _, ok := applied[mig.Version]; ok {
			continue
		}
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := execScript(tx, mig.Up); err != nil {
				return err
			}
			return tx.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", mig.Version, mig.Name).Error
		})
		if err != nil {
			return done, fmt.Errorf("migration %d_%s failed: %w", mig.Version, mig.Name, err)
		}
		m.logger.Info("Applied migration", zap.Int64("version", mig.Version), zap.String("name", mig.Name))
		done = append(done, mig)
	}
	return done, nil
}

// Down reverts the most recent steps applied migrations.
func (m *Migrator) Down(ctx context.Context, steps int) ([]Migration, error) {
	if steps < 1 {
		return nil, fmt.Errorf("steps must be at least 1")
	}
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}
	applied, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}

	var done []Migration
	for i := len(m.migrations) - 1; i >= 0 && len(done) < steps; i-- {
		mig := m.migrations[i]
		if _, ok := applied[mig.Version]; !ok {
			continue
		}
		if strings.TrimSpace(mig.Down) == "" {
			return done, fmt.Errorf("migration %d_%s has no down script", mig.Version, mig.Name)
		}
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := execScript(tx, mig.Down); err != nil {
				return err
			}
			return tx.Exec("DELETE FROM schema_migrations WHERE version = ?", mig.Version).Error
		})
		if err != nil {
			return done, fmt.Errorf("rollback of %d_%s failed: %w", mig.Version, mig.Name, err)
		}
		m.logger.Info("Reverted migration", zap.Int64("version", mig.Version), zap.String("name", mig.Name))
		done = append(done, mig)
	}
	return done, nil
}

// Status lists every known migration with its applied state.
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}
	applied, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]MigrationStatus, 0, len(m.migrations))
	for _, mig := range m.migrations {
		st := MigrationStatus{Version: mig.Version, Name: mig.Name}
		if at, ok := applied[mig.Version]; ok {
			at := at
			st.Applied = true
			st.AppliedAt = &at
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

func execScript(tx *gorm.DB, script string) error {
	for _, stmt := range splitStatements(script) {
		if err := tx.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// splitStatements breaks a script on semicolons, dropping "--" comment lines.
// Scripts must not contain semicolons inside literals.
func splitStatements(script string) []string {
	var cleaned strings.Builder
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		cleaned.WriteString(line)
		cleaned.WriteString("\n")
	}

	var out []string
	for _, stmt := range strings.Split(cleaned.String(), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
