package scenario

import "time"

// WaitState is the element condition a bounded wait polls for.
type WaitState int

const (
	Attached WaitState = iota
	Visible
	Hidden
)

func (s WaitState) String() string {
	switch s {
	case Visible:
		return "visible"
	case Hidden:
		return "hidden"
	default:
		return "attached"
	}
}

// Page is the slice of a browser page the journeys drive. Selectors that
// match several elements act on the first one.
//
// Implementations wrap their timeout errors with ErrTimeout and intercepted
// clicks with ErrIntercepted.
type Page interface {
	Goto(url string) error
	URL() string
	WaitFor(selector string, state WaitState, timeout time.Duration) error
	// Fill replaces any existing value.
	Fill(selector, value string) error
	Click(selector string, timeout time.Duration) error
	// DispatchClick fires a click event on the element without pointer
	// simulation, so overlapping elements cannot swallow it.
	DispatchClick(selector string) error
	ScrollIntoViewCenter(selector string) error
	SelectOption(selector, value string) error
	Count(selector string) (int, error)
	Attribute(selector, name string) (string, error)
	// WaitIdle waits until the page has no network activity.
	WaitIdle(timeout time.Duration) error
	Content() (string, error)
}
