package cli

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/config"
	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/database"
)

type checkResult struct {
	name   string
	status string
	detail string
}

func (rt *Runtime) healthCommand() *Command {
	cmd := &Command{
		Name:        "health",
		Description: "Check database, cache and (optionally) the running API",
		Usage:       "foodtruck health [--api-url URL]",
		Examples: []string{
			"foodtruck health",
			"foodtruck health --api-url http://localhost:8000",
		},
	}
	cmd.Run = func(ctx context.Context, args []string) error {
		fs := cmd.NewFlagSet(rt.Err)
		apiURL := fs.String("api-url", "", "base URL of a running API whose /health should be queried")
		if err := fs.Parse(args); err != nil {
			return err
		}

		cfg, err := rt.Config()
		if err != nil {
			return err
		}

		results := []checkResult{rt.checkDatabase(ctx, cfg)}
		if cfg.RedisURL != "" {
			results = append(results, probe("cache", rt.PingRedis(ctx, cfg.RedisURL)))
		} else {
			results = append(results, checkResult{name: "cache", status: "skipped", detail: "REDIS_URL not set"})
		}
		if *apiURL != "" {
			results = append(results, rt.checkAPI(ctx, *apiURL))
		}

		table := NewTableWriter("CHECK", "STATUS", "DETAIL")
		var failed []string
		for _, r := range results {
			table.AddRow(r.name, r.status, r.detail)
			if r.status == "fail" {
				failed = append(failed, r.name)
			}
		}
		table.Print(rt.Out)

		if len(failed) > 0 {
			return fmt.Errorf("health check failed: %s", strings.Join(failed, ", "))
		}
		return nil
	}
	return cmd
}

func probe(name string, err error) checkResult {
	if err != nil {
		return checkResult{name: name, status: "fail", detail: err.Error()}
	}
	return checkResult{name: name, status: "ok"}
}

func (rt *Runtime) checkDatabase(ctx context.Context, cfg *config.Config) checkResult {
	db, err := rt.OpenDB(cfg, rt.Logger)
	if err != nil {
		return probe("database", err)
	}
	defer database.Close(db)
	return probe("database", database.Ping(ctx, db))
}

func (rt *Runtime) checkAPI(ctx context.Context, baseURL string) checkResult {
	url := strings.TrimRight(baseURL, "/") + "/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return probe("api", err)
	}
	resp, err := rt.HTTPClient.Do(req)
	if err != nil {
		return probe("api", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return probe("api", fmt.Errorf("%s returned HTTP %d", url, resp.StatusCode))
	}
	return checkResult{name: "api", status: "ok", detail: url}
}
