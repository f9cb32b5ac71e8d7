package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/config"
	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/database"
	"gorm.io/gorm"
)

func (rt *Runtime) dbCommand() *Command {
	check := &Command{
		Name:        "check",
		Description: "Connect to PostgreSQL and report server version and pool stats",
		Usage:       "foodtruck db check",
	}
	check.Run = func(ctx context.Context, args []string) error {
		if err := check.NewFlagSet(rt.Err).Parse(args); err != nil {
			return err
		}
		return rt.WithDB(func(cfg *config.Config, db *gorm.DB) error {
			version, err := database.ServerVersion(ctx, db)
			if err != nil {
				return fmt.Errorf("failed to query server version: %w", err)
			}
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			stats := sqlDB.Stats()
			rt.printf("Connected to %s:%s/%s\n", cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.DB)
			rt.printf("Server: %s\n", version)
			rt.printf("Pool: open=%d in_use=%d idle=%d max_open=%d\n",
				stats.OpenConnections, stats.InUse, stats.Idle, stats.MaxOpenConnections)
			return nil
		})
	}

	return &Command{
		Name:        "db",
		Description: "Database connectivity",
		Usage:       "foodtruck db <subcommand>",
		Subcommands: []*Command{check},
	}
}

func (rt *Runtime) migrateCommand() *Command {
	up := &Command{
		Name:        "up",
		Description: "Apply every pending migration",
		Usage:       "foodtruck migrate up",
	}
	up.Run = func(ctx context.Context, args []string) error {
		if err := up.NewFlagSet(rt.Err).Parse(args); err != nil {
			return err
		}
		return rt.withMigrator(func(m *database.Migrator) error {
			applied, err := m.Up(ctx)
			for _, mig := range applied {
				rt.printf("Applied %04d_%s\n", mig.Version, mig.Name)
			}
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				rt.printf("Database is up to date\n")
			}
			return nil
		})
	}

	down := &Command{
		Name:        "down",
		Description: "Revert the most recent migrations",
		Usage:       "foodtruck migrate down [--steps N]",
		Examples:    []string{"foodtruck migrate down --steps 2"},
	}
	down.Run = func(ctx context.Context, args []string) error {
		fs := down.NewFlagSet(rt.Err)
		steps := fs.Int("steps", 1, "number of migrations to revert")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return rt.withMigrator(func(m *database.Migrator) error {
			reverted, err := m.Down(ctx, *steps)
			for _, mig := range reverted {
				rt.printf("Reverted %04d_%s\n", mig.Version, mig.Name)
			}
			if err != nil {
				return err
			}
			if len(reverted) == 0 {
				rt.printf("Nothing to revert\n")
			}
			return nil
		})
	}

	status := &Command{
		Name:        "status",
		Description: "List migrations and whether they are applied",
		Usage:       "foodtruck migrate status",
	}
	status.Run = func(ctx context.Context, args []string) error {
		if err := status.NewFlagSet(rt.Err).Parse(args); err != nil {
			return err
		}
		return rt.withMigrator(func(m *database.Migrator) error {
			statuses, err := m.Status(ctx)
			if err != nil {
				return err
			}
			table := NewTableWriter("VERSION", "NAME", "APPLIED AT")
			for _, st := range statuses {
				appliedAt := "pending"
				if st.AppliedAt != nil {
					appliedAt = st.AppliedAt.UTC().Format(time.RFC3339)
				}
				table.AddRow(fmt.Sprintf("%04d", st.Version), st.Name, appliedAt)
			}
			table.Print(rt.Out)
			return nil
		})
	}

	return &Command{
		Name:        "migrate",
		Description: "Versioned schema migrations",
		Usage:       "foodtruck migrate <up|down|status>",
		Subcommands: []*Command{up, down, status},
	}
}

func (rt *Runtime) withMigrator(fn func(m *database.Migrator) error) error {
	return rt.WithDB(func(cfg *config.Config, db *gorm.DB) error {
		m, err := database.NewMigrator(db, rt.Logger)
		if err != nil {
			return err
		}
		return fn(m)
	})
}
