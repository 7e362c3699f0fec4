package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/wedding-planner/wedding-e2e/internal/identity"
	"github.com/wedding-planner/wedding-e2e/internal/journeys"
	"github.com/wedding-planner/wedding-e2e/internal/locator"
	"github.com/wedding-planner/wedding-e2e/internal/monitor"
	"github.com/wedding-planner/wedding-e2e/internal/scenario"
)

var (
	scheduleFlag     string
	metricsAddrFlag  string
	suiteTimeoutFlag time.Duration
	runFirstFlag     bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [journey...]",
	Short: "Run journeys on a schedule and expose the results as Prometheus metrics",
	Long: `Watch keeps running the selected journeys (all by default) against the
configured endpoint on a cron schedule. Results are exported on /metrics.
When E2E_LOCATORS names an override file, edits to it apply to the next run
without a restart.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&scheduleFlag, "schedule", "@every 30m", "cron schedule (five fields or a descriptor)")
	watchCmd.Flags().StringVar(&metricsAddrFlag, "metrics-addr", ":9464", "listen address for /metrics, empty to disable")
	watchCmd.Flags().DurationVar(&suiteTimeoutFlag, "suite-timeout", 15*time.Minute, "upper bound for one suite run")
	watchCmd.Flags().BoolVar(&runFirstFlag, "now", false, "run the suite once immediately before the first tick")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if _, err := journeys.Select(identity.NewGenerator(), args...); err != nil {
		return err
	}
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	ids := identity.NewGenerator()
	suite := func(ctx context.Context) []scenario.Result {
		// Fresh journeys per run; names were validated above.
		js, _ := journeys.Select(ids, args...)
		return e.runner.ExecuteAll(ctx, js)
	}
	metrics := monitor.NewMetrics()
	m, err := monitor.New(scheduleFlag, suiteTimeoutFlag, suite, metrics, e.log.WithPrefix("monitor"))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if metricsAddrFlag != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		srv := &http.Server{Addr: metricsAddrFlag, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			e.log.Info("serving metrics", "addr", metricsAddrFlag)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				e.log.Error("metrics server", "err", err)
				cancel()
			}
		}()
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if path := e.cfg.Run.LocatorsFile; path != "" {
		go func() {
			if err := locator.Watch(ctx, path, e.log.WithPrefix("locators"), e.runner.UseLocators); err != nil {
				e.log.Warn("locator overrides will not be reloaded", "err", err)
			}
		}()
	}

	if runFirstFlag {
		m.RunOnce(ctx)
	}
	err = m.Start(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
