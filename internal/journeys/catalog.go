// Package journeys defines the end-to-end user journeys of the wedding
// planner as phase-tagged step lists for the scenario runner.
package journeys

import (
	"context"
	"fmt"
	"sort"

	"github.com/wedding-planner/wedding-e2e/internal/identity"
	"github.com/wedding-planner/wedding-e2e/internal/scenario"
)

// Journey names.
const (
	LoginLogout        = "login-logout"
	SignupPrimary      = "signup-primary"
	SignupCollaborator = "signup-collaborator"
	CreateEvent        = "create-event"
	CreateTask         = "create-task"
	AddGuest           = "add-guest"
	AddExpense         = "add-expense"
	AddVendor          = "add-vendor"
)

// Values the journeys submit and then look for.
const (
	EventTitle       = "Selenium Big Wedding"
	EventDescription = "Automated event creation test"
	TaskTitle        = "Selenium Task"
	GuestName        = "Selenium Test Guest"
	GuestPhone       = "0501234567"
	GuestCount       = "3"
	ExpenseTitle     = "Selenium DJ Test"
	ExpenseAmount    = "2500"
	VendorName       = "Selenium Music Service"
	VendorCategory   = "Music"
	VendorPhone      = "0509998877"
	VendorPrice      = "4500"

	// DaysAhead keeps event dates and task due dates in the future.
	DaysAhead = 10

	VendorsPath = "/vendors"
)

// Catalog returns every journey in run order. Creating an event comes before
// the journeys that need an existing event, so a full run against an empty
// account satisfies their precondition.
func Catalog(ids *identity.Generator) []scenario.Journey {
	return []scenario.Journey{
		loginLogout(),
		signup(SignupPrimary, ids, identity.Primary),
		signup(SignupCollaborator, ids, identity.Collaborator),
		createEvent(),
		createTask(),
		addGuest(),
		addExpense(),
		addVendor(),
	}
}

// Names lists the catalog's journey names in run order.
func Names() []string {
	cat := Catalog(identity.NewGenerator())
	out := make([]string, len(cat))
	for i, j := range cat {
		out[i] = j.Name
	}
	return out
}

// Select picks journeys by name, keeping catalog order. No names selects all.
func Select(ids *identity.Generator, names ...string) ([]scenario.Journey, error) {
	cat := Catalog(ids)
	if len(names) == 0 {
		return cat, nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []scenario.Journey
	for _, j := range cat {
		if want[j.Name] {
			out = append(out, j)
			delete(want, j.Name)
		}
	}
	if len(want) > 0 {
		unknown := make([]string, 0, len(want))
		for n := range want {
			unknown = append(unknown, n)
		}
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown journey(s) %v, known: %v", unknown, Names())
	}
	return out, nil
}

// Get returns the named journey.
func Get(ids *identity.Generator, name string) (scenario.Journey, error) {
	js, err := Select(ids, name)
	if err != nil {
		return scenario.Journey{}, err
	}
	return js[0], nil
}

func openLanding() scenario.Step {
	return scenario.Step{Phase: scenario.Navigated, Name: "open landing page", Do: func(_ context.Context, f *scenario.Flow) error {
		return f.Navigate("")
	}}
}

func login() scenario.Step {
	return scenario.Step{Phase: scenario.Authenticated, Name: "log in", Do: func(_ context.Context, f *scenario.Flow) error {
		return f.Login()
	}}
}

func expectText(literal string) scenario.Step {
	return scenario.Step{Phase: scenario.Verified, Name: fmt.Sprintf("verify %q is listed", literal), Do: func(ctx context.Context, f *scenario.Flow) error {
		return f.ExpectText(ctx, literal)
	}}
}
