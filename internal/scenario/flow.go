package scenario

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wedding-planner/wedding-e2e/internal/config"
	"github.com/wedding-planner/wedding-e2e/internal/locator"
)

// pointerAttempt bounds the pointer click in Submit before falling back to
// a dispatched click. The element is already visible and centred by then.
const pointerAttempt = 3 * time.Second

// pollInterval is how often a bounded wait re-reads the page.
const pollInterval = 250 * time.Millisecond

// Flow is what a step works with: one page, the locator table and the
// resolved configuration. It is built per scenario and never shared.
type Flow struct {
	Page        Page
	Locators    *locator.Table
	Run         config.RunConfig
	Credentials config.Credentials
	Log         *log.Logger

	// Now and Sleep are replaceable in tests.
	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewFlow wires a Flow with the real clock.
func NewFlow(page Page, table *locator.Table, cfg *config.Config, logger *log.Logger) *Flow {
	return &Flow{
		Page:        page,
		Locators:    table,
		Run:         cfg.Run,
		Credentials: cfg.Credentials,
		Log:         logger,
		Now:         time.Now,
		Sleep:       sleep,
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (f *Flow) sel(role locator.Role) (string, error) {
	return f.Locators.Lookup(role)
}

// Navigate loads a path below the base URL ("" for the landing view).
func (f *Flow) Navigate(path string) error {
	target := f.Run.URL(path)
	f.Log.Info("navigating", "url", target)
	if err := f.Page.Goto(target); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNavigation, target, err)
	}
	return nil
}

// Wait blocks until the element for role reaches state, bounded by the
// configured timeout.
func (f *Flow) Wait(role locator.Role, state WaitState) error {
	s, err := f.sel(role)
	if err != nil {
		return err
	}
	if err := f.Page.WaitFor(s, state, f.Run.Timeout); err != nil {
		return fmt.Errorf("%s to be %s: %w", role, state, err)
	}
	return nil
}

// Present reports whether at least one element matches role right now.
func (f *Flow) Present(role locator.Role) (bool, error) {
	s, err := f.sel(role)
	if err != nil {
		return false, err
	}
	n, err := f.Page.Count(s)
	if err != nil {
		return false, fmt.Errorf("count %s: %w", role, err)
	}
	return n > 0, nil
}

// Fill waits for the input to be visible and replaces its value.
func (f *Flow) Fill(role locator.Role, value string) error {
	if err := f.Wait(role, Visible); err != nil {
		return err
	}
	s, _ := f.sel(role)
	if err := f.Page.Fill(s, value); err != nil {
		return fmt.Errorf("fill %s: %w", role, err)
	}
	return nil
}

// Select picks an option by value.
func (f *Flow) Select(role locator.Role, value string) error {
	if err := f.Wait(role, Visible); err != nil {
		return err
	}
	s, _ := f.sel(role)
	if err := f.Page.SelectOption(s, value); err != nil {
		return fmt.Errorf("select %s=%q: %w", role, value, err)
	}
	return nil
}

// Click performs a plain pointer click on a visible element.
func (f *Flow) Click(role locator.Role) error {
	if err := f.Wait(role, Visible); err != nil {
		return err
	}
	s, _ := f.sel(role)
	if err := f.Page.Click(s, f.Run.Timeout); err != nil {
		return fmt.Errorf("click %s: %w", role, err)
	}
	return nil
}

// ScrollTo centres the element in the viewport.
func (f *Flow) ScrollTo(role locator.Role) error {
	if err := f.Wait(role, Attached); err != nil {
		return err
	}
	s, _ := f.sel(role)
	if err := f.Page.ScrollIntoViewCenter(s); err != nil {
		return fmt.Errorf("scroll to %s: %w", role, err)
	}
	return nil
}

// Submit scrolls the control into the viewport centre and clicks it. When
// the pointer click is intercepted by an overlapping element, or the element
// never becomes clickable, the click is dispatched on the element instead.
func (f *Flow) Submit(role locator.Role) error {
	if err := f.Wait(role, Visible); err != nil {
		return err
	}
	s, _ := f.sel(role)
	if err := f.Page.ScrollIntoViewCenter(s); err != nil {
		return fmt.Errorf("scroll to %s: %w", role, err)
	}

	attempt := pointerAttempt
	if f.Run.Timeout < attempt {
		attempt = f.Run.Timeout
	}
	clickErr := f.Page.Click(s, attempt)
	if clickErr == nil {
		return nil
	}
	if !errors.Is(clickErr, ErrIntercepted) && !errors.Is(clickErr, ErrTimeout) {
		return fmt.Errorf("click %s: %w", role, clickErr)
	}

	f.Log.Warn("pointer click failed, dispatching click", "role", role, "err", clickErr)
	if err := f.Page.DispatchClick(s); err != nil {
		return fmt.Errorf("%w: %s: click: %v; dispatch: %v", ErrInteraction, role, clickErr, err)
	}
	return nil
}

// Settle waits for the application's asynchronous refresh after a write.
// Network idle is the signal; the fixed settle delay is only used when that
// signal does not arrive within the timeout.
func (f *Flow) Settle(ctx context.Context) error {
	err := f.Page.WaitIdle(f.Run.Timeout)
	if err == nil {
		return nil
	}
	f.Log.Debug("network idle not reached, using settle delay", "delay", f.Run.SettleDelay, "err", err)
	return f.Sleep(ctx, f.Run.SettleDelay)
}

// Login fills the sign-in form with the configured credentials and waits
// until the login form is gone and the application header is present.
func (f *Flow) Login() error {
	f.Log.Info("logging in", "email", f.Credentials.Email)
	if err := f.Fill(locator.LoginEmail, f.Credentials.Email); err != nil {
		return err
	}
	if err := f.Fill(locator.LoginPassword, f.Credentials.Password); err != nil {
		return err
	}
	if err := f.Click(locator.LoginSubmit); err != nil {
		return err
	}
	return f.AwaitLanding()
}

// AwaitLanding waits for the authenticated landing view.
func (f *Flow) AwaitLanding() error {
	if err := f.Wait(locator.LoginPassword, Hidden); err != nil {
		return fmt.Errorf("sign-in form still shown: %w", err)
	}
	if err := f.Wait(locator.AppHeader, Attached); err != nil {
		return fmt.Errorf("post-login header: %w", err)
	}
	return nil
}

// poll calls check until it reports true or budget is spent. The budget is
// counted in poll intervals as well as on the clock, so a frozen test clock
// still terminates.
func (f *Flow) poll(ctx context.Context, budget time.Duration, check func() (bool, error)) (bool, error) {
	deadline := f.Now().Add(budget)
	attempts := int(budget/pollInterval) + 1
	for i := 1; ; i++ {
		ok, err := check()
		if err != nil || ok {
			return ok, err
		}
		if i >= attempts || f.Now().After(deadline) {
			return false, nil
		}
		if err := f.Sleep(ctx, pollInterval); err != nil {
			return false, err
		}
	}
}

// FollowFirst opens the first link matching role. The records behind it load
// asynchronously after landing, so the link is awaited for up to the timeout.
// Which records exist is not under the suite's control, so a link that never
// shows up is a precondition failure naming what is missing, not a timeout.
func (f *Flow) FollowFirst(ctx context.Context, role locator.Role, what string) error {
	if err := f.Settle(ctx); err != nil {
		return err
	}
	found, err := f.poll(ctx, f.Run.Timeout, func() (bool, error) { return f.Present(role) })
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: no existing %s found within %s, create one first", ErrPrecondition, what, f.Run.Timeout)
	}
	s, _ := f.sel(role)
	if href, err := f.Page.Attribute(s, "href"); err == nil {
		f.Log.Info("found existing "+what, "href", href)
	}
	return f.Submit(role)
}

// verifyBudget bounds the checks that follow a write: the settle window plus
// the element timeout.
func (f *Flow) verifyBudget() time.Duration {
	return f.Run.SettleDelay + f.Run.Timeout
}

// ExpectText fails with ErrVerification unless literal becomes part of the
// rendered page within the settle window.
func (f *Flow) ExpectText(ctx context.Context, literal string) error {
	if err := f.Settle(ctx); err != nil {
		return err
	}
	found, err := f.poll(ctx, f.verifyBudget(), func() (bool, error) {
		html, err := f.Page.Content()
		if err != nil {
			return false, fmt.Errorf("read page content: %w", err)
		}
		return ContainsText(html, literal)
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %q not found on %s", ErrVerification, literal, f.Page.URL())
	}
	f.Log.Info("found expected text", "text", literal)
	return nil
}

// ExpectShown fails with ErrVerification unless role is visible within the timeout.
func (f *Flow) ExpectShown(role locator.Role) error {
	if err := f.Wait(role, Visible); err != nil {
		return fmt.Errorf("%w: %v", ErrVerification, err)
	}
	return nil
}

// ExpectGone fails with ErrVerification while role is still present once the
// settle window has passed.
func (f *Flow) ExpectGone(ctx context.Context, role locator.Role) error {
	if err := f.Settle(ctx); err != nil {
		return err
	}
	gone, err := f.poll(ctx, f.verifyBudget(), func() (bool, error) {
		ok, err := f.Present(role)
		return !ok, err
	})
	if err != nil {
		return err
	}
	if !gone {
		return fmt.Errorf("%w: %s still present on %s", ErrVerification, role, f.Page.URL())
	}
	return nil
}

// DateFromToday formats today+days the way date inputs accept it.
func (f *Flow) DateFromToday(days int) string {
	return f.Now().AddDate(0, 0, days).Format(time.DateOnly)
}
