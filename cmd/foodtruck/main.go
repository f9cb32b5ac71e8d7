package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/cli"
	applogger "github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/logger"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	level := os.Getenv("FOODTRUCK_CLI_LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	logger, err := applogger.New(os.Getenv("ENV"), level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt := cli.NewRuntime(logger, cli.VersionInfo{Version: version, Commit: commit, Date: date})
	if err := rt.Execute(ctx, cli.NewApp(rt), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
