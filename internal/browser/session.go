// Package browser hands out isolated, fixed-viewport browser sessions backed
// by Playwright. One session serves exactly one scenario.
package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"

	"github.com/wedding-planner/wedding-e2e/internal/config"
	"github.com/wedding-planner/wedding-e2e/internal/scenario"
)

// driver is what opening a browser yields. Splitting it out lets tests
// substitute a fake without a real browser.
type driver struct {
	page       scenario.Page
	screenshot func(path string) error
	close      func() error
}

type opener func(ctx context.Context) (*driver, error)

// Provider opens one browser per Acquire.
type Provider struct {
	cfg  config.RunConfig
	log  *log.Logger
	open opener

	installOnce sync.Once
	installErr  error
}

// NewProvider returns a Playwright-backed provider.
func NewProvider(cfg config.RunConfig, logger *log.Logger) *Provider {
	p := &Provider{cfg: cfg, log: logger}
	p.open = p.openPlaywright
	return p
}

// Acquire opens a fresh browser with the configured viewport. The caller
// owns the session and must Release it on every path.
func (p *Provider) Acquire(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d, err := p.open(ctx)
	if err != nil {
		return nil, err
	}
	s := &Session{
		id:    uuid.NewString(),
		drv:   d,
		log:   p.log,
		start: time.Now(),
	}
	s.guarded = &guardedPage{inner: d.page, released: &s.released}
	p.log.Info("browser session opened", "session", s.ShortID(),
		"viewport", fmt.Sprintf("%dx%d", p.cfg.Viewport.Width, p.cfg.Viewport.Height))
	return s, nil
}

func (p *Provider) install() error {
	p.installOnce.Do(func() {
		if !p.cfg.InstallBrowsers {
			return
		}
		p.log.Debug("installing playwright driver and chromium")
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
			p.installErr = fmt.Errorf("could not install playwright browsers: %w", err)
		}
	})
	return p.installErr
}

func (p *Provider) openPlaywright(ctx context.Context) (*driver, error) {
	if err := p.install(); err != nil {
		return nil, err
	}
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	var closers []func() error
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}
	closers = append(closers, pw.Stop)

	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(p.cfg.Headless),
		SlowMo:   playwright.Float(float64(p.cfg.SlowMo.Milliseconds())),
	})
	if err != nil {
		_ = closeAll()
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}
	closers = append(closers, func() error { return b.Close() })

	bctx, err := b.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  p.cfg.Viewport.Width,
			Height: p.cfg.Viewport.Height,
		},
	})
	if err != nil {
		_ = closeAll()
		return nil, fmt.Errorf("could not create context: %w", err)
	}
	closers = append(closers, func() error { return bctx.Close() })

	pg, err := bctx.NewPage()
	if err != nil {
		_ = closeAll()
		return nil, fmt.Errorf("could not create page: %w", err)
	}
	pg.SetDefaultTimeout(float64(p.cfg.Timeout.Milliseconds()))
	closers = append(closers, func() error { return pg.Close() })

	if err := ctx.Err(); err != nil {
		_ = closeAll()
		return nil, err
	}

	a := &page{pw: pg}
	return &driver{page: a, screenshot: a.screenshot, close: closeAll}, nil
}

// Session is an exclusively owned browser. It is never reused.
type Session struct {
	id      string
	drv     *driver
	guarded *guardedPage
	log     *log.Logger
	start   time.Time

	once       sync.Once
	released   atomic.Bool
	releaseErr error
}

// ID is unique per session.
func (s *Session) ID() string { return s.id }

// ShortID is the first segment of the ID, used in log lines and file names.
func (s *Session) ShortID() string { return s.id[:8] }

// Page returns the session's page. Calls made after Release fail with
// scenario.ErrSessionReleased.
func (s *Session) Page() scenario.Page { return s.guarded }

// Screenshot writes a full-page PNG to path, creating parent directories.
func (s *Session) Screenshot(path string) error {
	if s.released.Load() {
		return scenario.ErrSessionReleased
	}
	if s.drv.screenshot == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create screenshot dir: %w", err)
	}
	return s.drv.screenshot(path)
}

// Release closes the page, context, browser and driver. Only the first
// call does anything; later calls return the first call's result.
func (s *Session) Release() error {
	s.once.Do(func() {
		s.released.Store(true)
		s.releaseErr = s.drv.close()
		s.log.Info("browser session closed", "session", s.ShortID(),
			"lifetime", time.Since(s.start).Round(time.Millisecond))
	})
	return s.releaseErr
}

// guardedPage refuses use after the owning session is released.
type guardedPage struct {
	inner    scenario.Page
	released *atomic.Bool
}

func (g *guardedPage) check() error {
	if g.released.Load() {
		return scenario.ErrSessionReleased
	}
	return nil
}

func (g *guardedPage) Goto(url string) error {
	if err := g.check(); err != nil {
		return err
	}
	return g.inner.Goto(url)
}

func (g *guardedPage) URL() string {
	if g.check() != nil {
		return ""
	}
	return g.inner.URL()
}

func (g *guardedPage) WaitFor(selector string, state scenario.WaitState, timeout time.Duration) error {
	if err := g.check(); err != nil {
		return err
	}
	return g.inner.WaitFor(selector, state, timeout)
}

func (g *guardedPage) Fill(selector, value string) error {
	if err := g.check(); err != nil {
		return err
	}
	return g.inner.Fill(selector, value)
}

func (g *guardedPage) Click(selector string, timeout time.Duration) error {
	if err := g.check(); err != nil {
		return err
	}
	return g.inner.Click(selector, timeout)
}

func (g *guardedPage) DispatchClick(selector string) error {
	if err := g.check(); err != nil {
		return err
	}
	return g.inner.DispatchClick(selector)
}

func (g *guardedPage) ScrollIntoViewCenter(selector string) error {
	if err := g.check(); err != nil {
		return err
	}
	return g.inner.ScrollIntoViewCenter(selector)
}

func (g *guardedPage) SelectOption(selector, value string) error {
	if err := g.check(); err != nil {
		return err
	}
	return g.inner.SelectOption(selector, value)
}

func (g *guardedPage) Count(selector string) (int, error) {
	if err := g.check(); err != nil {
		return 0, err
	}
	return g.inner.Count(selector)
}

func (g *guardedPage) Attribute(selector, name string) (string, error) {
	if err := g.check(); err != nil {
		return "", err
	}
	return g.inner.Attribute(selector, name)
}

func (g *guardedPage) WaitIdle(timeout time.Duration) error {
	if err := g.check(); err != nil {
		return err
	}
	return g.inner.WaitIdle(timeout)
}

func (g *guardedPage) Content() (string, error) {
	if err := g.check(); err != nil {
		return "", err
	}
	return g.inner.Content()
}
