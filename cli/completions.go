package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
)

func (rt *Runtime) completionsCommand(registry *Registry) *Command {
	cmd := &Command{
		Name:        "completions",
		Description: "Print a shell completion script",
		Usage:       "foodtruck completions <bash|zsh>",
		Examples:    []string{`eval "$(foodtruck completions bash)"`},
	}
	cmd.Run = func(ctx context.Context, args []string) error {
		if len(args) != 1 {
			cmd.PrintUsage(rt.Err)
			return fmt.Errorf("completions: expected exactly one shell name")
		}
		switch args[0] {
		case "bash":
			writeBashCompletion(rt.Out, registry)
		case "zsh":
			writeZshCompletion(rt.Out, registry)
		default:
			return fmt.Errorf("completions: unsupported shell %q", args[0])
		}
		return nil
	}
	return cmd
}

func subcommandNames(cmd *Command) []string {
	names := make([]string, 0, len(cmd.Subcommands))
	for _, sub := range cmd.Subcommands {
		names = append(names, sub.Name)
	}
	return names
}

func writeBashCompletion(w io.Writer, registry *Registry) {
	fmt.Fprintln(w, "# bash completion for foodtruck")
	fmt.Fprintln(w, "_foodtruck() {")
	fmt.Fprintln(w, `    local cur="${COMP_WORDS[COMP_CWORD]}"`)
	fmt.Fprintln(w, `    if [ "$COMP_CWORD" -eq 1 ]; then`)
	fmt.Fprintf(w, "        COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(registry.Names(), " ")+" help")
	fmt.Fprintln(w, "        return")
	fmt.Fprintln(w, "    fi")
	fmt.Fprintln(w, `    case "${COMP_WORDS[1]}" in`)
	for _, cmd := range registry.Commands() {
		words := subcommandNames(cmd)
		if cmd.Name == "completions" {
			words = []string{"bash", "zsh"}
		}
		if len(words) == 0 {
			continue
		}
		fmt.Fprintf(w, "        %s) COMPREPLY=( $(compgen -W %q -- \"$cur\") ) ;;\n", cmd.Name, strings.Join(words, " "))
	}
	fmt.Fprintln(w, "    esac")
	fmt.Fprintln(w, "}")
	fmt.Fprintln(w, "complete -F _foodtruck foodtruck")
}

func writeZshCompletion(w io.Writer, registry *Registry) {
	fmt.Fprintln(w, "#compdef foodtruck")
	fmt.Fprintln(w, "_foodtruck() {")
	fmt.Fprintln(w, "    local -a commands")
	fmt.Fprintln(w, "    commands=(")
	for _, cmd := range registry.Commands() {
		fmt.Fprintf(w, "        '%s:%s'\n", cmd.Name, strings.ReplaceAll(cmd.Description, "'", ""))
	}
	fmt.Fprintln(w, "    )")
	fmt.Fprintln(w, "    if (( CURRENT == 2 )); then")
	fmt.Fprintln(w, "        _describe 'command' commands")
	fmt.Fprintln(w, "        return")
	fmt.Fprintln(w, "    fi")
	fmt.Fprintln(w, `    case "${words[2]}" in`)
	for _, cmd := range registry.Commands() {
		words := subcommandNames(cmd)
		if cmd.Name == "completions" {
			words = []string{"bash", "zsh"}
		}
		if len(words) == 0 {
			continue
		}
		fmt.Fprintf(w, "        %s) _values 'subcommand' %s ;;\n", cmd.Name, strings.Join(words, " "))
	}
	fmt.Fprintln(w, "    esac")
	fmt.Fprintln(w, "}")
	fmt.Fprintln(w, "compdef _foodtruck foodtruck")
}
