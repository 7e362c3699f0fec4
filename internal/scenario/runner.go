// Package scenario runs a journey as an ordered list of phase-tagged steps
// against one browser page and produces a pass/fail result.
package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/wedding-planner/wedding-e2e/internal/config"
)

// Step is one action within a journey.
type Step struct {
	Phase Phase
	Name  string
	Do    func(ctx context.Context, f *Flow) error
}

// Journey is a user-facing scenario exercised end to end.
type Journey struct {
	Name        string
	Description string
	// Needs lists the credential fields that must be configured.
	Needs config.Need
	Steps []Step
}

// Validate checks that phases never move backwards and the journey ends verified.
func (j Journey) Validate() error {
	if j.Name == "" {
		return fmt.Errorf("%w: unnamed", ErrInvalidJourney)
	}
	if len(j.Steps) == 0 {
		return fmt.Errorf("%w: %s has no steps", ErrInvalidJourney, j.Name)
	}
	prev := NotStarted
	for i, s := range j.Steps {
		if s.Do == nil {
			return fmt.Errorf("%w: %s step %d (%s) has no action", ErrInvalidJourney, j.Name, i, s.Name)
		}
		if s.Phase <= NotStarted || s.Phase > Verified || s.Phase < prev {
			return fmt.Errorf("%w: %s step %d (%s) moves from %s to %s", ErrInvalidJourney, j.Name, i, s.Name, prev, s.Phase)
		}
		prev = s.Phase
	}
	if prev != Verified {
		return fmt.Errorf("%w: %s never reaches %s", ErrInvalidJourney, j.Name, Verified)
	}
	return nil
}

// Result is the outcome of one scenario.
type Result struct {
	Journey string
	// Reached is the last phase whose steps all completed.
	Reached Phase
	Err     error
	Elapsed time.Duration
}

// Passed is true only when every step ran, verification included.
func (r Result) Passed() bool {
	return r.Err == nil && r.Reached == Verified
}

// Run executes j's steps in order. The first failing step ends the scenario;
// nothing is retried.
func Run(ctx context.Context, f *Flow, j Journey) Result {
	start := time.Now()
	res := Result{Journey: j.Name, Reached: NotStarted}
	finish := func(err error) Result {
		res.Err = err
		res.Elapsed = time.Since(start)
		if err != nil {
			f.Log.Error("FAIL", "reached", res.Reached, "class", Classify(err), "err", err)
		} else {
			f.Log.Info("PASS", "elapsed", res.Elapsed.Round(time.Millisecond))
		}
		return res
	}

	if err := j.Validate(); err != nil {
		return finish(err)
	}

	for i, s := range j.Steps {
		if err := ctx.Err(); err != nil {
			return finish(&StepError{Journey: j.Name, Phase: s.Phase, Step: s.Name, Err: err})
		}
		f.Log.Info(fmt.Sprintf("%d. %s", i+1, s.Name), "phase", s.Phase)
		if err := s.Do(ctx, f); err != nil {
			return finish(&StepError{Journey: j.Name, Phase: s.Phase, Step: s.Name, Err: err})
		}
		// A phase counts as reached once its last step has run.
		if i == len(j.Steps)-1 || j.Steps[i+1].Phase != s.Phase {
			res.Reached = s.Phase
		}
	}
	return finish(nil)
}
