package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Command is one CLI verb. A command with Subcommands dispatches on its
// first argument instead of calling Run.
type Command struct {
	Name        string
	Description string
	Usage       string
	Examples    []string
	Subcommands []*Command
	Run         func(ctx context.Context, args []string) error
}

// NewFlagSet creates a flag set whose errors and usage go to w.
func (c *Command) NewFlagSet(w io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(c.Name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() {
		c.PrintUsage(w)
		fmt.Fprintln(w, "FLAGS:")
		fs.PrintDefaults()
	}
	return fs
}

// PrintUsage prints standardized usage information
func (c *Command) PrintUsage(w io.Writer) {
	fmt.Fprintf(w, "%s\n\n", c.Description)
	fmt.Fprintf(w, "USAGE:\n    %s\n\n", c.Usage)
	if len(c.Subcommands) > 0 {
		fmt.Fprintln(w, "SUBCOMMANDS:")
		for _, sub := range c.Subcommands {
			fmt.Fprintf(w, "    %-16s %s\n", sub.Name, sub.Description)
		}
		fmt.Fprintln(w)
	}
	if len(c.Examples) > 0 {
		fmt.Fprintln(w, "EXAMPLES:")
		for _, example := range c.Examples {
			fmt.Fprintf(w, "    %s\n", example)
		}
		fmt.Fprintln(w)
	}
}

func (c *Command) subcommand(name string) *Command {
	for _, sub := range c.Subcommands {
		if sub.Name == name {
			return sub
		}
	}
	return nil
}

func (c *Command) execute(ctx context.Context, w io.Writer, args []string) error {
	if len(c.Subcommands) == 0 {
		return c.Run(ctx, args)
	}
	if len(args) == 0 || isHelp(args[0]) {
		c.PrintUsage(w)
		if len(args) == 0 {
			return fmt.Errorf("%s: no subcommand specified", c.Name)
		}
		return nil
	}
	sub := c.subcommand(args[0])
	if sub == nil {
		c.PrintUsage(w)
		return fmt.Errorf("%s: unknown subcommand: %s", c.Name, args[0])
	}
	return sub.execute(ctx, w, args[1:])
}

// Registry manages all CLI commands
type Registry struct {
	commands map[string]*Command
	order    []string
}

func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]*Command)}
}

// Register adds a command to the registry. Help lists commands in
// registration order.
func (r *Registry) Register(cmd *Command) {
	if _, exists := r.commands[cmd.Name]; !exists {
		r.order = append(r.order, cmd.Name)
	}
	r.commands[cmd.Name] = cmd
}

// Commands returns the registered commands in registration order.
func (r *Registry) Commands() []*Command {
	out := make([]*Command, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.commands[name])
	}
	return out
}

// Names returns command names sorted alphabetically.
func (r *Registry) Names() []string {
	names := append([]string(nil), r.order...)
	sort.Strings(names)
	return names
}

// Dispatch runs the command named by args[0].
func (r *Registry) Dispatch(ctx context.Context, out, errOut io.Writer, args []string) error {
	if len(args) < 1 {
		r.PrintHelp(errOut)
		return fmt.Errorf("no command specified")
	}

	name := args[0]
	if isHelp(name) {
		r.PrintHelp(out)
		return nil
	}

	cmd, ok := r.commands[name]
	if !ok {
		r.PrintHelp(errOut)
		return fmt.Errorf("unknown command: %s", name)
	}

	err := cmd.execute(ctx, errOut, args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

// PrintHelp prints overall CLI help
func (r *Registry) PrintHelp(w io.Writer) {
	fmt.Fprintln(w, "foodtruck - administration CLI for the food truck ordering API")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "USAGE:")
	fmt.Fprintln(w, "    foodtruck [--env-file PATH] [--db-host HOST] <command> [arguments]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "COMMANDS:")
	for _, cmd := range r.Commands() {
		fmt.Fprintf(w, "    %-12s %s\n", cmd.Name, cmd.Description)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'foodtruck <command> --help' for more information on a command.")
}

func isHelp(arg string) bool {
	return arg == "help" || arg == "-h" || arg == "--help"
}

// TableWriter provides simple column-aligned output
type TableWriter struct {
	headers []string
	rows    [][]string
	widths  []int
}

// NewTableWriter creates a new table writer
func NewTableWriter(headers ...string) *TableWriter {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	return &TableWriter{headers: headers, widths: widths}
}

// AddRow adds a row to the table
func (t *TableWriter) AddRow(row ...string) {
	t.rows = append(t.rows, row)
	for i, cell := range row {
		if i < len(t.widths) && len(cell) > t.widths[i] {
			t.widths[i] = len(cell)
		}
	}
}

// Print writes the header, a separator and every row.
func (t *TableWriter) Print(w io.Writer) {
	t.printRow(w, t.headers)
	seps := make([]string, len(t.widths))
	for i, width := range t.widths {
		seps[i] = strings.Repeat("-", width)
	}
	t.printRow(w, seps)
	for _, row := range t.rows {
		t.printRow(w, row)
	}
}

func (t *TableWriter) printRow(w io.Writer, row []string) {
	cells := make([]string, 0, len(row))
	for i, cell := range row {
		if i < len(t.widths) {
			cells = append(cells, fmt.Sprintf("%-*s", t.widths[i], cell))
		}
	}
	fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))
}
