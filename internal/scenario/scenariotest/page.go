// Package scenariotest provides an in-memory scenario.Page for unit tests.
package scenariotest

import (
	"fmt"
	"sync"
	"time"

	"github.com/wedding-planner/wedding-e2e/internal/scenario"
)

// Element is the fake state behind one selector.
type Element struct {
	Count   int
	Visible bool
	Value   string
	Attrs   map[string]string
	// Intercepted makes pointer clicks fail as if another element covered it.
	Intercepted bool
	// DispatchFails makes programmatic clicks fail too.
	DispatchFails bool
}

// Page is a scripted page. Selectors not registered behave as absent.
type Page struct {
	mu       sync.Mutex
	elements map[string]*Element
	hooks    map[string]func(p *Page)
	later    []*delayed

	URLValue string
	Body     string
	// IdleErr is returned from WaitIdle when set.
	IdleErr error
	// GotoErr is returned from Goto when set.
	GotoErr error

	Visited    []string
	Actions    []string
	Dispatched []string
	Selected   map[string]string
	Waits      []time.Duration
	// Reads counts the observations later changes are scheduled against.
	Reads int
}

type delayed struct {
	reads int
	fn    func(p *Page)
}

// New returns an empty page.
func New() *Page {
	return &Page{
		elements: map[string]*Element{},
		hooks:    map[string]func(p *Page){},
		Selected: map[string]string{},
	}
}

// Show registers a single visible element.
func (p *Page) Show(selector string) *Element {
	return p.Set(selector, &Element{Count: 1, Visible: true})
}

// Set registers el under selector.
func (p *Page) Set(selector string, el *Element) *Element {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.elements[selector] = el
	return el
}

// Remove makes selector match nothing.
func (p *Page) Remove(selector string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.elements, selector)
}

// Hide keeps selector attached but invisible, preserving its value.
func (p *Page) Hide(selector string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if el, ok := p.elements[selector]; ok {
		el.Visible = false
	}
}

// OnClick runs fn after a successful click (pointer or dispatched) on selector.
func (p *Page) OnClick(selector string, fn func(p *Page)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hooks[selector] = fn
}

// After runs fn once the page has been read n more times through WaitFor,
// Count or Content, the way a client-side render lands after some polling.
// fn runs before the nth read observes the page.
func (p *Page) After(n int, fn func(p *Page)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.later = append(p.later, &delayed{reads: n, fn: fn})
}

// read counts one observation and applies the changes that became due.
func (p *Page) read() {
	p.mu.Lock()
	p.Reads++
	var due []func(p *Page)
	pending := p.later[:0]
	for _, d := range p.later {
		d.reads--
		if d.reads <= 0 {
			due = append(due, d.fn)
			continue
		}
		pending = append(pending, d)
	}
	p.later = pending
	p.mu.Unlock()
	for _, fn := range due {
		fn(p)
	}
}

// Value returns what was last filled into selector.
func (p *Page) Value(selector string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if el, ok := p.elements[selector]; ok {
		return el.Value
	}
	return ""
}

func (p *Page) lookup(selector string) (*Element, bool) {
	el, ok := p.elements[selector]
	if !ok || el.Count == 0 {
		return nil, false
	}
	return el, true
}

func (p *Page) Goto(url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.GotoErr != nil {
		return p.GotoErr
	}
	p.Visited = append(p.Visited, url)
	p.URLValue = url
	return nil
}

func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.URLValue
}

func (p *Page) WaitFor(selector string, state scenario.WaitState, timeout time.Duration) error {
	p.read()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Waits = append(p.Waits, timeout)
	el, ok := p.lookup(selector)
	var met bool
	switch state {
	case scenario.Attached:
		met = ok
	case scenario.Visible:
		met = ok && el.Visible
	case scenario.Hidden:
		met = !ok || !el.Visible
	}
	if !met {
		return fmt.Errorf("%w: %s %s after %s", scenario.ErrTimeout, selector, state, timeout)
	}
	return nil
}

func (p *Page) Fill(selector, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	el, ok := p.lookup(selector)
	if !ok {
		return fmt.Errorf("%w: fill %s", scenario.ErrTimeout, selector)
	}
	el.Value = value
	p.Actions = append(p.Actions, "fill "+selector)
	return nil
}

func (p *Page) Click(selector string, timeout time.Duration) error {
	p.mu.Lock()
	el, ok := p.lookup(selector)
	if !ok {
		p.mu.Unlock()
		return fmt.Errorf("%w: click %s after %s", scenario.ErrTimeout, selector, timeout)
	}
	if el.Intercepted {
		p.mu.Unlock()
		return fmt.Errorf("%w: <div class=\"sticky\"> intercepts pointer events", scenario.ErrIntercepted)
	}
	p.Actions = append(p.Actions, "click "+selector)
	hook := p.hooks[selector]
	p.mu.Unlock()
	if hook != nil {
		hook(p)
	}
	return nil
}

func (p *Page) DispatchClick(selector string) error {
	p.mu.Lock()
	el, ok := p.lookup(selector)
	if !ok || el.DispatchFails {
		p.mu.Unlock()
		return fmt.Errorf("dispatch click on %s failed", selector)
	}
	p.Dispatched = append(p.Dispatched, selector)
	p.Actions = append(p.Actions, "dispatch "+selector)
	hook := p.hooks[selector]
	p.mu.Unlock()
	if hook != nil {
		hook(p)
	}
	return nil
}

func (p *Page) ScrollIntoViewCenter(selector string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.lookup(selector); !ok {
		return fmt.Errorf("%w: scroll %s", scenario.ErrTimeout, selector)
	}
	p.Actions = append(p.Actions, "scroll "+selector)
	return nil
}

func (p *Page) SelectOption(selector, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.lookup(selector); !ok {
		return fmt.Errorf("%w: select %s", scenario.ErrTimeout, selector)
	}
	p.Selected[selector] = value
	p.Actions = append(p.Actions, "select "+selector)
	return nil
}

func (p *Page) Count(selector string) (int, error) {
	p.read()
	p.mu.Lock()
	defer p.mu.Unlock()
	if el, ok := p.elements[selector]; ok {
		return el.Count, nil
	}
	return 0, nil
}

func (p *Page) Attribute(selector, name string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	el, ok := p.lookup(selector)
	if !ok {
		return "", fmt.Errorf("%w: attribute %s of %s", scenario.ErrTimeout, name, selector)
	}
	return el.Attrs[name], nil
}

func (p *Page) WaitIdle(timeout time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.IdleErr
}

func (p *Page) Content() (string, error) {
	p.read()
	p.mu.Lock()
	defer p.mu.Unlock()
	return "<html><body>" + p.Body + "</body></html>", nil
}

var _ scenario.Page = (*Page)(nil)
