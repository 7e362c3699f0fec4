// Package harness runs journeys inside scoped browser sessions. It is the one
// place where a session is acquired, handed to a scenario and released, for
// both go test and the command line.
package harness

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wedding-planner/wedding-e2e/internal/browser"
	"github.com/wedding-planner/wedding-e2e/internal/config"
	"github.com/wedding-planner/wedding-e2e/internal/locator"
	"github.com/wedding-planner/wedding-e2e/internal/scenario"
)

// Session is one live browser bound to one scenario.
type Session interface {
	ID() string
	ShortID() string
	Page() scenario.Page
	Screenshot(path string) error
	Release() error
}

// Acquirer hands out fresh, isolated sessions.
type Acquirer interface {
	Acquire(ctx context.Context) (Session, error)
}

type providerAcquirer struct {
	p *browser.Provider
}

// FromBrowser adapts a Playwright session provider.
func FromBrowser(p *browser.Provider) Acquirer {
	return providerAcquirer{p: p}
}

func (a providerAcquirer) Acquire(ctx context.Context) (Session, error) {
	s, err := a.p.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Runner executes journeys, one fresh session each.
type Runner struct {
	sessions Acquirer
	cfg      *config.Config
	log      *log.Logger
	locators atomic.Pointer[locator.Table]
}

// New returns a Runner. The locator table can be swapped later with UseLocators.
func New(sessions Acquirer, table *locator.Table, cfg *config.Config, logger *log.Logger) *Runner {
	r := &Runner{sessions: sessions, cfg: cfg, log: logger}
	r.locators.Store(table)
	return r
}

// UseLocators replaces the table used by scenarios started after the call.
func (r *Runner) UseLocators(t *locator.Table) {
	r.locators.Store(t)
}

// Execute runs j in its own session. Credentials the journey needs are checked
// before any browser is started. The session is released on every path out,
// including a panicking step.
func (r *Runner) Execute(ctx context.Context, j scenario.Journey) scenario.Result {
	logger := r.log.WithPrefix(j.Name)

	if err := j.Validate(); err != nil {
		return r.fail(logger, j.Name, err)
	}
	if err := r.cfg.Credentials.Validate(j.Needs); err != nil {
		return r.fail(logger, j.Name, err)
	}

	sess, err := r.sessions.Acquire(ctx)
	if err != nil {
		return r.fail(logger, j.Name, fmt.Errorf("acquire session: %w", err))
	}
	defer func() {
		if err := sess.Release(); err != nil {
			logger.Warn("release session", "session", sess.ShortID(), "err", err)
		}
	}()

	logger.Debug("session acquired", "session", sess.ShortID())
	flow := scenario.NewFlow(sess.Page(), r.locators.Load(), r.cfg, logger)
	res := scenario.Run(ctx, flow, j)
	if !res.Passed() && r.cfg.Run.Screenshots {
		r.capture(logger, sess, j.Name)
	}
	return res
}

// ExecuteAll runs journeys serially in the given order. A failure does not
// stop the remaining journeys; a cancelled context does.
func (r *Runner) ExecuteAll(ctx context.Context, js []scenario.Journey) []scenario.Result {
	out := make([]scenario.Result, 0, len(js))
	for _, j := range js {
		if ctx.Err() != nil {
			break
		}
		out = append(out, r.Execute(ctx, j))
	}
	return out
}

func (r *Runner) fail(logger *log.Logger, name string, err error) scenario.Result {
	logger.Error("FAIL", "class", scenario.Classify(err), "err", err)
	return scenario.Result{Journey: name, Reached: scenario.NotStarted, Err: err}
}

// ScreenshotPath is where the failure screenshot of a scenario is written.
func ScreenshotPath(artifacts, journey, session string) string {
	return filepath.Join(artifacts, "screenshots", fmt.Sprintf("%s_%s.png", journey, session))
}

func (r *Runner) capture(logger *log.Logger, sess Session, journey string) {
	path := ScreenshotPath(r.cfg.Run.ArtifactsDir, journey, sess.ShortID())
	start := time.Now()
	if err := sess.Screenshot(path); err != nil {
		logger.Warn("failure screenshot", "err", err)
		return
	}
	logger.Info("failure screenshot saved", "path", path, "took", time.Since(start).Round(time.Millisecond))
}

// Summary counts passed and failed results.
func Summary(results []scenario.Result) (passed, failed int) {
	for _, res := range results {
		if res.Passed() {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}
