package browser

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/wedding-planner/wedding-e2e/internal/scenario"
)

// page adapts a playwright.Page to scenario.Page. Every element action goes
// through First() so selectors matching several elements behave like a
// find-first lookup instead of tripping strict mode.
type page struct {
	pw playwright.Page
}

func ms(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}

func (p *page) first(selector string) playwright.Locator {
	return p.pw.Locator(selector).First()
}

// classify maps playwright failures onto the scenario error classes.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "intercepts pointer events") {
		return fmt.Errorf("%w: %w", scenario.ErrIntercepted, err)
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %w", scenario.ErrTimeout, err)
	}
	return err
}

func (p *page) Goto(url string) error {
	_, err := p.pw.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil && strings.Contains(err.Error(), "ERR_TOO_MANY_REDIRECTS") {
		return fmt.Errorf("redirect loop navigating to %s: %w", url, err)
	}
	return classify(err)
}

func (p *page) URL() string {
	return p.pw.URL()
}

func (p *page) WaitFor(selector string, state scenario.WaitState, timeout time.Duration) error {
	st := playwright.WaitForSelectorStateAttached
	switch state {
	case scenario.Visible:
		st = playwright.WaitForSelectorStateVisible
	case scenario.Hidden:
		st = playwright.WaitForSelectorStateHidden
	}
	return classify(p.first(selector).WaitFor(playwright.LocatorWaitForOptions{
		State:   st,
		Timeout: ms(timeout),
	}))
}

func (p *page) Fill(selector, value string) error {
	return classify(p.first(selector).Fill(value))
}

func (p *page) Click(selector string, timeout time.Duration) error {
	return classify(p.first(selector).Click(playwright.LocatorClickOptions{
		Timeout: ms(timeout),
	}))
}

func (p *page) DispatchClick(selector string) error {
	return classify(p.first(selector).DispatchEvent("click", nil))
}

func (p *page) ScrollIntoViewCenter(selector string) error {
	_, err := p.first(selector).Evaluate(`el => el.scrollIntoView({block: "center", inline: "center"})`, nil)
	return classify(err)
}

func (p *page) SelectOption(selector, value string) error {
	_, err := p.first(selector).SelectOption(playwright.SelectOptionValues{
		Values: playwright.StringSlice(value),
	})
	return classify(err)
}

func (p *page) Count(selector string) (int, error) {
	n, err := p.pw.Locator(selector).Count()
	return n, classify(err)
}

func (p *page) Attribute(selector, name string) (string, error) {
	v, err := p.first(selector).GetAttribute(name)
	return v, classify(err)
}

func (p *page) WaitIdle(timeout time.Duration) error {
	return classify(p.pw.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: ms(timeout),
	}))
}

func (p *page) Content() (string, error) {
	html, err := p.pw.Content()
	return html, classify(err)
}

func (p *page) screenshot(path string) error {
	_, err := p.pw.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

var _ scenario.Page = (*page)(nil)
