package scenario_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wedding-planner/wedding-e2e/internal/config"
	"github.com/wedding-planner/wedding-e2e/internal/locator"
	"github.com/wedding-planner/wedding-e2e/internal/logutil"
	"github.com/wedding-planner/wedding-e2e/internal/scenario"
	"github.com/wedding-planner/wedding-e2e/internal/scenario/scenariotest"
)

type sleeper struct {
	calls []time.Duration
}

func (s *sleeper) sleep(_ context.Context, d time.Duration) error {
	s.calls = append(s.calls, d)
	return nil
}

func newFlow(t *testing.T, page scenario.Page) (*scenario.Flow, *sleeper) {
	t.Helper()
	table, err := locator.Default()
	require.NoError(t, err)
	s := &sleeper{}
	return &scenario.Flow{
		Page:     page,
		Locators: table,
		Run: config.RunConfig{
			BaseURL:     "https://wedding.example.com",
			Timeout:     10 * time.Second,
			SettleDelay: 2 * time.Second,
		},
		Credentials: config.Credentials{Email: "planner@example.com", Password: "pw"},
		Log:         logutil.ForTest(t, "debug"),
		Now:         func() time.Time { return time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC) },
		Sleep:       s.sleep,
	}, s
}

func sel(t *testing.T, f *scenario.Flow, role locator.Role) string {
	t.Helper()
	return f.Locators.Must(role)
}

func TestNavigate(t *testing.T) {
	page := scenariotest.New()
	f, _ := newFlow(t, page)

	require.NoError(t, f.Navigate(""))
	require.NoError(t, f.Navigate("/vendors"))
	assert.Equal(t, []string{"https://wedding.example.com", "https://wedding.example.com/vendors"}, page.Visited)

	page.GotoErr = errors.New("net::ERR_NAME_NOT_RESOLVED")
	err := f.Navigate("")
	assert.ErrorIs(t, err, scenario.ErrNavigation)
}

func TestFillWaitsForVisibleInput(t *testing.T) {
	page := scenariotest.New()
	f, _ := newFlow(t, page)

	err := f.Fill(locator.GuestName, "Selenium Test Guest")
	require.Error(t, err)
	assert.ErrorIs(t, err, scenario.ErrTimeout)

	page.Show(sel(t, f, locator.GuestName))
	require.NoError(t, f.Fill(locator.GuestName, "Selenium Test Guest"))
	assert.Equal(t, "Selenium Test Guest", page.Value(sel(t, f, locator.GuestName)))
	assert.Contains(t, page.Waits, 10*time.Second)
}

func TestSubmit(t *testing.T) {
	t.Run("pointer click after scrolling", func(t *testing.T) {
		page := scenariotest.New()
		f, _ := newFlow(t, page)
		s := sel(t, f, locator.EventSubmit)
		page.Show(s)

		require.NoError(t, f.Submit(locator.EventSubmit))
		assert.Equal(t, []string{"scroll " + s, "click " + s}, page.Actions)
		assert.Empty(t, page.Dispatched)
	})

	t.Run("intercepted click falls back to dispatch", func(t *testing.T) {
		page := scenariotest.New()
		f, _ := newFlow(t, page)
		s := sel(t, f, locator.EventSubmit)
		page.Set(s, &scenariotest.Element{Count: 1, Visible: true, Intercepted: true})

		require.NoError(t, f.Submit(locator.EventSubmit))
		assert.Equal(t, []string{s}, page.Dispatched)
	})

	t.Run("both paths failing is an interaction error", func(t *testing.T) {
		page := scenariotest.New()
		f, _ := newFlow(t, page)
		s := sel(t, f, locator.EventSubmit)
		page.Set(s, &scenariotest.Element{Count: 1, Visible: true, Intercepted: true, DispatchFails: true})

		err := f.Submit(locator.EventSubmit)
		assert.ErrorIs(t, err, scenario.ErrInteraction)
	})

	t.Run("missing control times out without dispatch", func(t *testing.T) {
		page := scenariotest.New()
		f, _ := newFlow(t, page)

		err := f.Submit(locator.EventSubmit)
		assert.ErrorIs(t, err, scenario.ErrTimeout)
		assert.Empty(t, page.Dispatched)
	})
}

func TestSettle(t *testing.T) {
	page := scenariotest.New()
	f, s := newFlow(t, page)

	require.NoError(t, f.Settle(context.Background()))
	assert.Empty(t, s.calls, "network idle means no fixed delay")

	page.IdleErr = errors.New("timeout waiting for networkidle")
	require.NoError(t, f.Settle(context.Background()))
	assert.Equal(t, []time.Duration{2 * time.Second}, s.calls)
}

func TestLogin(t *testing.T) {
	page := scenariotest.New()
	f, _ := newFlow(t, page)
	email, password := sel(t, f, locator.LoginEmail), sel(t, f, locator.LoginPassword)
	page.Show(email)
	page.Show(password)
	page.Show(sel(t, f, locator.LoginSubmit))
	page.OnClick(sel(t, f, locator.LoginSubmit), func(p *scenariotest.Page) {
		p.Remove(email)
		p.Remove(password)
		p.Show(sel(t, f, locator.AppHeader))
	})

	require.NoError(t, f.Login())
	assert.Equal(t, "planner@example.com", page.Value(email))
}

func TestLoginHeaderNeverShows(t *testing.T) {
	page := scenariotest.New()
	f, _ := newFlow(t, page)
	page.Show(sel(t, f, locator.LoginEmail))
	page.Show(sel(t, f, locator.LoginPassword))
	page.Show(sel(t, f, locator.LoginSubmit))

	err := f.Login()
	require.Error(t, err)
	assert.ErrorIs(t, err, scenario.ErrTimeout)
	assert.ErrorContains(t, err, "sign-in form still shown")
}

func TestFollowFirst(t *testing.T) {
	t.Run("no record is a precondition failure", func(t *testing.T) {
		page := scenariotest.New()
		f, s := newFlow(t, page)

		err := f.FollowFirst(context.Background(), locator.NavGuestsLink, "event")
		require.Error(t, err)
		assert.ErrorIs(t, err, scenario.ErrPrecondition)
		assert.NotErrorIs(t, err, scenario.ErrTimeout)
		assert.ErrorContains(t, err, "no existing event found")
		assert.Len(t, s.calls, 40, "the link is awaited for the whole timeout")
		for _, d := range s.calls {
			assert.Equal(t, 250*time.Millisecond, d)
		}
	})

	t.Run("first link is opened", func(t *testing.T) {
		page := scenariotest.New()
		f, s := newFlow(t, page)
		sl := sel(t, f, locator.NavGuestsLink)
		page.Set(sl, &scenariotest.Element{Count: 3, Visible: true, Attrs: map[string]string{"href": "/events/42/guests"}})

		require.NoError(t, f.FollowFirst(context.Background(), locator.NavGuestsLink, "event"))
		assert.Contains(t, page.Actions, "click "+sl)
		assert.Empty(t, s.calls)
	})

	t.Run("link rendered after the events load", func(t *testing.T) {
		page := scenariotest.New()
		f, s := newFlow(t, page)
		sl := sel(t, f, locator.NavGuestsLink)
		page.After(4, func(p *scenariotest.Page) {
			p.Set(sl, &scenariotest.Element{Count: 1, Visible: true, Attrs: map[string]string{"href": "/events/7/guests"}})
		})

		require.NoError(t, f.FollowFirst(context.Background(), locator.NavGuestsLink, "event"))
		assert.Len(t, s.calls, 3)
		assert.Contains(t, page.Actions, "click "+sl)
	})

	t.Run("cancelled while waiting", func(t *testing.T) {
		page := scenariotest.New()
		f, _ := newFlow(t, page)
		f.Sleep = func(context.Context, time.Duration) error { return context.Canceled }

		err := f.FollowFirst(context.Background(), locator.NavGuestsLink, "event")
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, scenario.ErrPrecondition)
	})
}

func TestExpectText(t *testing.T) {
	page := scenariotest.New()
	f, _ := newFlow(t, page)

	page.Body = `<ul><li>Selenium Big Wedding</li></ul>`
	require.NoError(t, f.ExpectText(context.Background(), "Selenium Big Wedding"))

	page.Body = `<form><input value="Selenium Big Wedding"></form><ul></ul>`
	err := f.ExpectText(context.Background(), "Selenium Big Wedding")
	assert.ErrorIs(t, err, scenario.ErrVerification)
}

func TestExpectTextRenderedLate(t *testing.T) {
	page := scenariotest.New()
	f, s := newFlow(t, page)
	page.Body = `<ul></ul>`
	page.After(6, func(p *scenariotest.Page) {
		p.Body = `<ul><li>Selenium Big Wedding</li></ul>`
	})

	require.NoError(t, f.ExpectText(context.Background(), "Selenium Big Wedding"))
	assert.Len(t, s.calls, 5)
	assert.Equal(t, 6, page.Reads)
}

func TestExpectTextNeverRendered(t *testing.T) {
	page := scenariotest.New()
	f, s := newFlow(t, page)
	page.Body = `<ul></ul>`

	err := f.ExpectText(context.Background(), "Selenium Big Wedding")
	assert.ErrorIs(t, err, scenario.ErrVerification)
	// Settle window (2s) plus timeout (10s) in 250ms steps.
	assert.Len(t, s.calls, 48)
}

func TestExpectGone(t *testing.T) {
	page := scenariotest.New()
	f, _ := newFlow(t, page)
	s := sel(t, f, locator.LoginSignIn)

	require.NoError(t, f.ExpectGone(context.Background(), locator.LoginSignIn))

	page.Show(s)
	assert.ErrorIs(t, f.ExpectGone(context.Background(), locator.LoginSignIn), scenario.ErrVerification)
	assert.NoError(t, f.ExpectShown(locator.LoginSignIn))

	page.After(3, func(p *scenariotest.Page) { p.Remove(s) })
	assert.NoError(t, f.ExpectGone(context.Background(), locator.LoginSignIn))
}

func TestDateFromToday(t *testing.T) {
	page := scenariotest.New()
	f, _ := newFlow(t, page)
	assert.Equal(t, "2026-10-28", f.DateFromToday(10))
}
