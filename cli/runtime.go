package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/cache"
	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/config"
	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/database"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// VersionInfo holds build-time version information
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// Runtime carries everything commands touch outside their own arguments.
// Tests replace the function fields.
type Runtime struct {
	In      io.Reader
	Out     io.Writer
	Err     io.Writer
	Logger  *zap.Logger
	Version VersionInfo

	LoadConfig func(opts config.Options) (*config.Config, error)
	OpenDB     func(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error)
	PingRedis  func(ctx context.Context, url string) error
	LookPath   func(file string) (string, error)
	Getenv     func(key string) string
	HomeDir    func() (string, error)
	HTTPClient *http.Client

	envFile string
	dbHost  string
	stdin   *bufio.Reader
}

// NewRuntime returns a Runtime bound to the process environment.
func NewRuntime(logger *zap.Logger, version VersionInfo) *Runtime {
	return &Runtime{
		In:         os.Stdin,
		Out:        os.Stdout,
		Err:        os.Stderr,
		Logger:     logger,
		Version:    version,
		LoadConfig: config.LoadWithOptions,
		OpenDB:     openDB,
		PingRedis:  pingRedis,
		LookPath:   exec.LookPath,
		Getenv:     os.Getenv,
		HomeDir:    os.UserHomeDir,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// openDB connects once, without the API's start-up retries.
func openDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	return database.Open(postgres.Open(cfg.DSN()), cfg, logger)
}

func pingRedis(ctx context.Context, url string) error {
	client, err := cache.NewRedisClient(url)
	if err != nil {
		return err
	}
	defer client.Close()
	return client.Ping(ctx).Err()
}

// Execute parses the global flags and dispatches to the named command.
func (rt *Runtime) Execute(ctx context.Context, registry *Registry, args []string) error {
	fs := flag.NewFlagSet("foodtruck", flag.ContinueOnError)
	fs.SetOutput(rt.Err)
	fs.StringVar(&rt.envFile, "env-file", "", "env file to load (default $FOODTRUCK_ENV_FILE or .env)")
	fs.StringVar(&rt.dbHost, "db-host", "", "override POSTGRES_HOST for this invocation")
	fs.Usage = func() { registry.PrintHelp(rt.Err) }
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	return registry.Dispatch(ctx, rt.Out, rt.Err, fs.Args())
}

// EnvFile is the env file the config is loaded from.
func (rt *Runtime) EnvFile() string {
	if rt.envFile != "" {
		return rt.envFile
	}
	if v := rt.Getenv("FOODTRUCK_ENV_FILE"); v != "" {
		return v
	}
	return ".env"
}

// Config loads the effective configuration, applying --db-host.
func (rt *Runtime) Config() (*config.Config, error) {
	cfg, err := rt.LoadConfig(config.Options{
		EnvFile:    rt.EnvFile(),
		ConfigFile: rt.Getenv("CONFIG_FILE"),
		Logger:     rt.Logger,
	})
	if err != nil {
		return nil, err
	}
	return cfg.WithDatabaseHost(rt.dbHost), nil
}

// WithDB opens the database for the duration of fn.
func (rt *Runtime) WithDB(fn func(cfg *config.Config, db *gorm.DB) error) error {
	cfg, err := rt.Config()
	if err != nil {
		return err
	}
	db, err := rt.OpenDB(cfg, rt.Logger)
	if err != nil {
		return fmt.Errorf("cannot reach database at %s:%s: %w", cfg.Postgres.Host, cfg.Postgres.Port, err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			rt.Logger.Warn("Database close error", zap.Error(err))
		}
	}()
	return fn(cfg, db)
}

// Prompt reads one line from In after printing label to Err.
func (rt *Runtime) Prompt(label string) (string, error) {
	if rt.stdin == nil {
		rt.stdin = bufio.NewReader(rt.In)
	}
	fmt.Fprint(rt.Err, label)
	line, err := rt.stdin.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (rt *Runtime) printf(format string, args ...interface{}) {
	fmt.Fprintf(rt.Out, format, args...)
}
