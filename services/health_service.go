package services

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
)

const (
	HealthStatusOK       = "ok"
	HealthStatusDegraded = "degraded"
	HealthStatusDown     = "unavailable"

	checkOK = "ok"
)

// HealthCheck is one named dependency probe. A failing critical check makes
// the whole service unavailable; a failing optional one only degrades it.
type HealthCheck struct {
	Name     string
	Critical bool
	Check    func(ctx context.Context) error
}

// HealthReport is the /health response body.
type HealthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Healthy reports whether every critical check passed.
func (r HealthReport) Healthy() bool { return r.Status != HealthStatusDown }

type HealthService interface {
	Check(ctx context.Context) HealthReport
}

type healthServiceImpl struct {
	checks  []HealthCheck
	timeout time.Duration
	logger  *zap.Logger
}

func NewHealthService(logger *zap.Logger, checks ...HealthCheck) HealthService {
	sorted := append([]HealthCheck(nil), checks...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &healthServiceImpl{checks: sorted, timeout: 3 * time.Second, logger: logger}
}

func (s *healthServiceImpl) Check(ctx context.Context) HealthReport {
	report := HealthReport{Status: HealthStatusOK, Checks: make(map[string]string, len(s.checks))}
	for _, hc := range s.checks {
		checkCtx, cancel := context.WithTimeout(ctx, s.timeout)
		err := hc.Check(checkCtx)
		cancel()

		if err == nil {
			report.Checks[hc.Name] = checkOK
			continue
		}
		report.Checks[hc.Name] = err.Error()
		s.logger.Warn("Health check failed", zap.String("check", hc.Name), zap.Error(err))
		if hc.Critical {
			report.Status = HealthStatusDown
		} else if report.Status == HealthStatusOK {
			report.Status = HealthStatusDegraded
		}
	}
	return report
}
