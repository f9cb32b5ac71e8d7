package cli

import (
	"context"
	"fmt"
	"runtime"

	"gopkg.in/yaml.v3"
)

// NewApp registers every command against rt.
func NewApp(rt *Runtime) *Registry {
	registry := NewRegistry()
	registry.Register(rt.healthCommand())
	registry.Register(rt.dbCommand())
	registry.Register(rt.migrateCommand())
	registry.Register(rt.userCommand())
	registry.Register(rt.shellCommand())
	registry.Register(rt.completionsCommand(registry))
	registry.Register(rt.configCommand())
	registry.Register(rt.versionCommand())
	return registry
}

func (rt *Runtime) configCommand() *Command {
	show := &Command{
		Name:        "show",
		Description: "Print the effective configuration as YAML with secrets redacted",
		Usage:       "foodtruck config show",
	}
	show.Run = func(ctx context.Context, args []string) error {
		if err := show.NewFlagSet(rt.Err).Parse(args); err != nil {
			return err
		}
		cfg, err := rt.Config()
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(cfg.Redacted())
		if err != nil {
			return fmt.Errorf("failed to render config: %w", err)
		}
		_, err = rt.Out.Write(out)
		return err
	}

	return &Command{
		Name:        "config",
		Description: "Inspect configuration",
		Usage:       "foodtruck config show",
		Subcommands: []*Command{show},
	}
}

func (rt *Runtime) versionCommand() *Command {
	return &Command{
		Name:        "version",
		Description: "Print version information",
		Usage:       "foodtruck version",
		Run: func(ctx context.Context, args []string) error {
			v := rt.Version
			rt.printf("foodtruck %s\n", v.Version)
			rt.printf("  commit: %s\n", v.Commit)
			rt.printf("  built:  %s\n", v.Date)
			rt.printf("  go:     %s\n", runtime.Version())
			return nil
		},
	}
}
