package monitor

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wedding-planner/wedding-e2e/internal/logutil"
	"github.com/wedding-planner/wedding-e2e/internal/scenario"
)

func quiet() *log.Logger { return logutil.New(logutil.Options{Output: io.Discard}) }

func results(failing ...string) Suite {
	return func(ctx context.Context) []scenario.Result {
		out := []scenario.Result{
			{Journey: "create-event", Reached: scenario.Verified, Elapsed: 4 * time.Second},
			{Journey: "add-guest", Reached: scenario.Verified, Elapsed: 6 * time.Second},
		}
		for i := range out {
			for _, f := range failing {
				if out[i].Journey == f {
					out[i].Reached = scenario.Authenticated
					out[i].Err = scenario.ErrPrecondition
				}
			}
		}
		return out
	}
}

func newMonitor(t *testing.T, suite Suite) *Monitor {
	t.Helper()
	m, err := New("@every 15m", time.Minute, suite, NewMetrics(), quiet())
	require.NoError(t, err)
	return m
}

func TestNewValidation(t *testing.T) {
	_, err := New("every quarter hour", time.Minute, results(), NewMetrics(), quiet())
	assert.ErrorContains(t, err, "invalid schedule")

	_, err = New("*/15 * * * *", 0, results(), NewMetrics(), quiet())
	assert.ErrorContains(t, err, "timeout must be positive")

	_, err = New("*/15 * * * *", time.Minute, results(), NewMetrics(), quiet())
	assert.NoError(t, err)
}

func TestRunOnceRecordsMetrics(t *testing.T) {
	m := newMonitor(t, results("add-guest"))
	at := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return at }

	res := m.RunOnce(context.Background())
	require.Len(t, res, 2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.metrics.suiteRuns))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.metrics.runs.WithLabelValues("create-event", "pass")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.metrics.runs.WithLabelValues("add-guest", "precondition")))
	assert.Equal(t, float64(at.Unix()), testutil.ToFloat64(m.metrics.lastSuccess.WithLabelValues("create-event")))
	assert.Equal(t, float64(scenario.Authenticated), testutil.ToFloat64(m.metrics.reached.WithLabelValues("add-guest")))
	assert.True(t, m.lastPass.IsZero(), "a failing journey is not a full pass")
}

func TestRunOnceTracksLastFullPass(t *testing.T) {
	m := newMonitor(t, results())
	at := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return at }

	m.RunOnce(context.Background())
	assert.Equal(t, at, m.lastPass)
}

func TestRunOnceAppliesTimeout(t *testing.T) {
	var deadline atomic.Bool
	m := newMonitor(t, func(ctx context.Context) []scenario.Result {
		_, ok := ctx.Deadline()
		deadline.Store(ok)
		return nil
	})
	m.RunOnce(context.Background())
	assert.True(t, deadline.Load())
}

func TestStartCancelled(t *testing.T) {
	var runs atomic.Int32
	m := newMonitor(t, func(context.Context) []scenario.Result {
		runs.Add(1)
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, m.Start(ctx), context.Canceled)
	assert.Zero(t, runs.Load())
}

func TestStartStopsWithContext(t *testing.T) {
	m := newMonitor(t, results())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, m.Start(ctx), context.DeadlineExceeded)
}

func TestStopWaitsForScheduledRun(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	m, err := New("@every 1s", time.Minute, func(context.Context) []scenario.Result {
		once.Do(func() { close(started) })
		<-release
		return nil
	}, NewMetrics(), quiet())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stopped := make(chan error, 1)
	go func() { stopped <- m.Start(ctx) }()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled run never started")
	}
	cancel()

	select {
	case <-stopped:
		t.Fatal("Start returned while a run was in flight")
	case <-time.After(100 * time.Millisecond):
	}
	close(release)

	select {
	case err := <-stopped:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after the run finished")
	}
}

func TestMetricsHandler(t *testing.T) {
	metrics := NewMetrics()
	metrics.Observe(scenario.Result{Journey: "add-vendor", Reached: scenario.Verified, Elapsed: 3 * time.Second}, time.Now())

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(body, `wedding_e2e_journey_runs_total{class="pass",journey="add-vendor"} 1`), body)
	assert.Contains(t, body, "wedding_e2e_journey_duration_seconds_bucket")
}
