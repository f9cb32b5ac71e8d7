package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	rcBlockStart = "# >>> foodtruck >>>"
	rcBlockEnd   = "# <<< foodtruck <<<"
)

var shellTools = []string{"psql", "docker", "redis-cli"}

func (rt *Runtime) shellCommand() *Command {
	setup := &Command{
		Name:        "setup",
		Description: "Install completions and FOODTRUCK_ENV_FILE into your shell rc file",
		Usage:       "foodtruck shell setup [--shell bash|zsh] [--rc-file PATH]",
		Examples: []string{
			"foodtruck shell setup",
			"foodtruck --env-file /srv/foodtruck/.env shell setup --shell zsh",
		},
	}
	setup.Run = func(ctx context.Context, args []string) error {
		fs := setup.NewFlagSet(rt.Err)
		shell := fs.String("shell", "", "target shell (default from $SHELL)")
		rcFile := fs.String("rc-file", "", "rc file to update (default ~/.bashrc or ~/.zshrc)")
		if err := fs.Parse(args); err != nil {
			return err
		}

		sh := *shell
		if sh == "" {
			sh = filepath.Base(rt.Getenv("SHELL"))
		}
		if sh != "bash" && sh != "zsh" {
			return fmt.Errorf("unsupported shell %q (use --shell bash or --shell zsh)", sh)
		}

		path := *rcFile
		if path == "" {
			home, err := rt.HomeDir()
			if err != nil {
				return fmt.Errorf("cannot locate home directory: %w", err)
			}
			path = filepath.Join(home, "."+sh+"rc")
		}

		envFile, err := filepath.Abs(rt.EnvFile())
		if err != nil {
			return err
		}

		changed, err := installRCBlock(path, rcBlock(sh, envFile))
		if err != nil {
			return err
		}
		if changed {
			rt.printf("Updated %s; restart your shell or run: source %s\n", path, path)
		} else {
			rt.printf("%s is already up to date\n", path)
		}

		rt.printf("\nTools:\n")
		table := NewTableWriter("TOOL", "PATH")
		for _, tool := range shellTools {
			location, err := rt.LookPath(tool)
			if err != nil {
				location = "not found"
			}
			table.AddRow(tool, location)
		}
		table.Print(rt.Out)
		return nil
	}

	return &Command{
		Name:        "shell",
		Description: "Shell integration",
		Usage:       "foodtruck shell setup",
		Subcommands: []*Command{setup},
	}
}

func rcBlock(shell, envFile string) string {
	completion := `eval "$(foodtruck completions bash)"`
	if shell == "zsh" {
		completion = `source <(foodtruck completions zsh)`
	}
	return strings.Join([]string{
		rcBlockStart,
		fmt.Sprintf("export FOODTRUCK_ENV_FILE=%q", envFile),
		"command -v foodtruck >/dev/null 2>&1 && " + completion,
		rcBlockEnd,
	}, "\n") + "\n"
}

// installRCBlock writes block into path, replacing an earlier block. It
// reports whether the file changed.
func installRCBlock(path, block string) (bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	current := string(raw)

	var updated string
	start := strings.Index(current, rcBlockStart)
	end := strings.Index(current, rcBlockEnd)
	if start >= 0 && end > start {
		end += len(rcBlockEnd)
		if end < len(current) && current[end] == '\n' {
			end++
		}
		updated = current[:start] + block + current[end:]
	} else {
		if current != "" && !strings.HasSuffix(current, "\n") {
			current += "\n"
		}
		if current != "" {
			current += "\n"
		}
		updated = current + block
	}

	if updated == string(raw) {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}
