package scenario

import (
	"errors"
	"fmt"
)

// Failure classes. Every scenario error wraps exactly one of these (or a
// config error) so callers can tell them apart with errors.Is.
var (
	// ErrTimeout: an element or signal did not show up within the bounded wait.
	ErrTimeout = errors.New("timed out waiting")
	// ErrNavigation: the page could not be loaded.
	ErrNavigation = errors.New("navigation failed")
	// ErrPrecondition: a pre-existing record the journey needs is absent.
	ErrPrecondition = errors.New("precondition not met")
	// ErrVerification: the expected content is missing after the action.
	ErrVerification = errors.New("verification failed")
	// ErrInteraction: neither a pointer click nor a programmatic dispatch worked.
	ErrInteraction = errors.New("interaction failed")
	// ErrIntercepted: another element received the pointer event.
	ErrIntercepted = errors.New("click intercepted")
	// ErrSessionReleased: the browser session was used after release.
	ErrSessionReleased = errors.New("browser session already released")
	// ErrInvalidJourney: step phases are out of order or the journey never verifies.
	ErrInvalidJourney = errors.New("invalid journey")
)

// StepError records where in a journey a failure happened.
type StepError struct {
	Journey string
	Phase   Phase
	Step    string
	Err     error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %s (%s): %v", e.Journey, e.Step, e.Phase, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Classify returns the failure class of err for reporting.
func Classify(err error) string {
	switch {
	case err == nil:
		return "pass"
	case errors.Is(err, ErrPrecondition):
		return "precondition"
	case errors.Is(err, ErrVerification):
		return "verification"
	case errors.Is(err, ErrInteraction):
		return "interaction"
	case errors.Is(err, ErrNavigation):
		return "navigation"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrSessionReleased):
		return "session"
	case errors.Is(err, ErrInvalidJourney):
		return "journey"
	default:
		return "error"
	}
}
