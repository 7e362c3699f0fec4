package browser

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wedding-planner/wedding-e2e/internal/config"
	"github.com/wedding-planner/wedding-e2e/internal/logutil"
	"github.com/wedding-planner/wedding-e2e/internal/scenario"
	"github.com/wedding-planner/wedding-e2e/internal/scenario/scenariotest"
)

type fakeDriver struct {
	opened, closed int
	shots          []string
	closeErr       error
	openErr        error
}

func (f *fakeDriver) open(context.Context) (*driver, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.opened++
	return &driver{
		page: scenariotest.New(),
		screenshot: func(path string) error {
			f.shots = append(f.shots, path)
			return nil
		},
		close: func() error {
			f.closed++
			return f.closeErr
		},
	}, nil
}

func newTestProvider(fd *fakeDriver) *Provider {
	cfg := config.RunConfig{Viewport: config.Viewport, Timeout: 10 * time.Second}
	p := NewProvider(cfg, logutil.New(logutil.Options{Output: io.Discard}))
	p.open = fd.open
	return p
}

func TestAcquireRelease(t *testing.T) {
	fd := &fakeDriver{}
	p := newTestProvider(fd)

	s, err := p.Acquire(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, fd.opened)
	assert.Len(t, s.ID(), 36)
	assert.Len(t, s.ShortID(), 8)

	require.NoError(t, s.Page().Goto("https://wedding.example.com"))

	require.NoError(t, s.Release())
	require.NoError(t, s.Release())
	assert.Equal(t, 1, fd.closed, "release must close the browser exactly once")
}

func TestSessionsAreIsolated(t *testing.T) {
	fd := &fakeDriver{}
	p := newTestProvider(fd)

	a, err := p.Acquire(context.Background())
	require.NoError(t, err)
	b, err := p.Acquire(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, a.ID(), b.ID())
	assert.NotSame(t, a.Page(), b.Page())
	require.NoError(t, a.Release())
	require.NoError(t, b.Release())
	assert.Equal(t, 2, fd.closed)
}

func TestPageUnusableAfterRelease(t *testing.T) {
	p := newTestProvider(&fakeDriver{})
	s, err := p.Acquire(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.Release())

	pg := s.Page()
	assert.ErrorIs(t, pg.Goto("https://wedding.example.com"), scenario.ErrSessionReleased)
	assert.ErrorIs(t, pg.Fill("input", "x"), scenario.ErrSessionReleased)
	assert.ErrorIs(t, pg.Click("button", time.Second), scenario.ErrSessionReleased)
	assert.ErrorIs(t, pg.WaitFor("h1", scenario.Visible, time.Second), scenario.ErrSessionReleased)
	_, err = pg.Content()
	assert.ErrorIs(t, err, scenario.ErrSessionReleased)
	assert.Empty(t, pg.URL())
	assert.ErrorIs(t, s.Screenshot(filepath.Join(t.TempDir(), "x.png")), scenario.ErrSessionReleased)
}

func TestReleaseErrorIsSticky(t *testing.T) {
	fd := &fakeDriver{closeErr: errors.New("browser already gone")}
	p := newTestProvider(fd)
	s, err := p.Acquire(context.Background())
	require.NoError(t, err)

	assert.EqualError(t, s.Release(), "browser already gone")
	assert.EqualError(t, s.Release(), "browser already gone")
	assert.Equal(t, 1, fd.closed)
}

func TestAcquireFailures(t *testing.T) {
	t.Run("open error", func(t *testing.T) {
		fd := &fakeDriver{openErr: errors.New("could not launch browser")}
		_, err := newTestProvider(fd).Acquire(context.Background())
		assert.EqualError(t, err, "could not launch browser")
	})

	t.Run("cancelled context", func(t *testing.T) {
		fd := &fakeDriver{}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := newTestProvider(fd).Acquire(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, fd.opened)
	})
}

func TestScreenshot(t *testing.T) {
	fd := &fakeDriver{}
	s, err := newTestProvider(fd).Acquire(context.Background())
	require.NoError(t, err)
	defer s.Release()

	path := filepath.Join(t.TempDir(), "screenshots", "add-guest.png")
	require.NoError(t, s.Screenshot(path))
	assert.Equal(t, []string{path}, fd.shots)
	assert.DirExists(t, filepath.Dir(path))
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(nil))

	plain := errors.New("boom")
	assert.Same(t, plain, classify(plain))

	intercepted := classify(errors.New(`locator.click: Timeout 3000ms exceeded. <div class="sticky top-0"> intercepts pointer events`))
	assert.ErrorIs(t, intercepted, scenario.ErrIntercepted)
}
