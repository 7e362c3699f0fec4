// Package monitor runs the journey suite on a cron schedule against a
// deployed application and exposes the outcomes as metrics.
package monitor

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
	"github.com/xeonx/timeago"

	"github.com/wedding-planner/wedding-e2e/internal/harness"
	"github.com/wedding-planner/wedding-e2e/internal/scenario"
)

// Suite runs a set of journeys once.
type Suite func(ctx context.Context) []scenario.Result

// Monitor triggers the suite on schedule. A run still in progress when the
// next tick fires causes that tick to be skipped.
type Monitor struct {
	cron     *cron.Cron
	schedule string
	timeout  time.Duration
	suite    Suite
	metrics  *Metrics
	log      *log.Logger

	mu       sync.Mutex
	lastPass time.Time
	now      func() time.Time
}

// New validates schedule (standard five-field cron or a descriptor such as
// "@every 15m") and returns a stopped Monitor.
func New(schedule string, timeout time.Duration, suite Suite, metrics *Metrics, logger *log.Logger) (*Monitor, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("suite timeout must be positive, got %s", timeout)
	}
	return &Monitor{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		schedule: schedule,
		timeout:  timeout,
		suite:    suite,
		metrics:  metrics,
		log:      logger,
		now:      time.Now,
	}, nil
}

// Start schedules the suite and blocks until ctx is done or the process is
// interrupted. Runs in flight are allowed to finish.
func (m *Monitor) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := m.cron.AddFunc(m.schedule, func() { m.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("schedule suite: %w", err)
	}
	m.cron.Start()
	m.log.Info("monitor started", "schedule", m.schedule, "timeout", m.timeout)
	return m.waitForShutdown(ctx)
}

// RunOnce runs the suite with the configured timeout and records the results.
func (m *Monitor) RunOnce(ctx context.Context) []scenario.Result {
	runCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	m.metrics.suiteRuns.Inc()
	start := m.now()
	results := m.suite(runCtx)
	end := m.now()
	for _, res := range results {
		m.metrics.Observe(res, end)
	}

	passed, failed := harness.Summary(results)
	m.mu.Lock()
	if failed == 0 && passed > 0 {
		m.lastPass = end
	}
	last := m.lastPass
	m.mu.Unlock()

	since := "never"
	if !last.IsZero() {
		since = timeago.English.FormatReference(last, end)
	}
	logf := m.log.Info
	if failed > 0 {
		logf = m.log.Warn
	}
	logf("suite finished", "passed", passed, "failed", failed,
		"took", end.Sub(start).Round(time.Millisecond), "last_full_pass", since)
	return results
}

// Stop stops scheduling and waits for a scheduled run in flight. Direct
// RunOnce calls are synchronous and not tracked.
func (m *Monitor) Stop() {
	m.log.Info("stopping monitor")
	<-m.cron.Stop().Done()
	m.log.Info("monitor stopped")
}

func (m *Monitor) waitForShutdown(ctx context.Context) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		m.log.Info("received signal", "signal", sig)
		m.Stop()
		return nil
	case <-ctx.Done():
		m.Stop()
		return ctx.Err()
	}
}
