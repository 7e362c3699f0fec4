// Package locator maps semantic UI roles to element selectors.
//
// Journeys only ever name roles; the selectors live in locators.yaml so a
// change in UI copy touches one table.
package locator

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Role is a semantic name for a UI element, e.g. "login.submit".
type Role string

const (
	AppHeader Role = "app.header"

	LoginEmail    Role = "login.email"
	LoginPassword Role = "login.password"
	LoginSubmit   Role = "login.submit"
	LoginSignIn   Role = "login.sign_in"

	NavLogout     Role = "nav.logout"
	NavGuestsLink Role = "nav.guests_link"
	NavBudgetLink Role = "nav.budget_link"

	SignupToggle             Role = "signup.toggle"
	SignupFullName           Role = "signup.full_name"
	SignupEmail              Role = "signup.email"
	SignupPassword           Role = "signup.password"
	SignupCollaboratorToggle Role = "signup.collaborator_toggle"
	SignupInvitationCode     Role = "signup.invitation_code"
	SignupSubmit             Role = "signup.submit"

	EventSection     Role = "event.section"
	EventTitle       Role = "event.title"
	EventDate        Role = "event.date"
	EventDescription Role = "event.description"
	EventSubmit      Role = "event.submit"

	TaskTitle   Role = "task.title"
	TaskDueDate Role = "task.due_date"
	TaskSubmit  Role = "task.submit"

	GuestName   Role = "guest.name"
	GuestPhone  Role = "guest.phone"
	GuestCount  Role = "guest.count"
	GuestSubmit Role = "guest.submit"

	ExpenseOpen   Role = "expense.open"
	ExpenseTitle  Role = "expense.title"
	ExpenseAmount Role = "expense.amount"
	ExpenseSubmit Role = "expense.submit"

	VendorOpen     Role = "vendor.open"
	VendorName     Role = "vendor.name"
	VendorCategory Role = "vendor.category"
	VendorPhone    Role = "vendor.phone"
	VendorPrice    Role = "vendor.price"
	VendorSubmit   Role = "vendor.submit"
)

// Roles lists every role the journeys use.
var Roles = []Role{
	AppHeader,
	LoginEmail, LoginPassword, LoginSubmit, LoginSignIn,
	NavLogout, NavGuestsLink, NavBudgetLink,
	SignupToggle, SignupFullName, SignupEmail, SignupPassword,
	SignupCollaboratorToggle, SignupInvitationCode, SignupSubmit,
	EventSection, EventTitle, EventDate, EventDescription, EventSubmit,
	TaskTitle, TaskDueDate, TaskSubmit,
	GuestName, GuestPhone, GuestCount, GuestSubmit,
	ExpenseOpen, ExpenseTitle, ExpenseAmount, ExpenseSubmit,
	VendorOpen, VendorName, VendorCategory, VendorPhone, VendorPrice, VendorSubmit,
}

//go:embed locators.yaml
var defaultYAML []byte

var ErrUnknownRole = errors.New("unknown locator role")

// Table is an immutable role -> selector mapping.
type Table struct {
	selectors map[Role]string
}

// Default returns the embedded table.
func Default() (*Table, error) {
	return Parse(defaultYAML)
}

// Parse reads a YAML mapping of role to selector.
func Parse(data []byte) (*Table, error) {
	raw := map[string]string{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse locator table: %w", err)
	}
	t := &Table{selectors: make(map[Role]string, len(raw))}
	for k, v := range raw {
		if strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("locator %q: empty selector", k)
		}
		t.selectors[Role(k)] = v
	}
	return t, nil
}

// Load returns the embedded table with overrides from path applied. An empty
// path returns the embedded table unchanged.
func Load(path string) (*Table, error) {
	base, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read locator overrides: %w", err)
	}
	overrides, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return base.Override(overrides)
}

// Override returns a copy of t with every role in o replaced. Roles that t
// does not know are rejected so typos do not silently fall back to defaults.
func (t *Table) Override(o *Table) (*Table, error) {
	merged := make(map[Role]string, len(t.selectors))
	for k, v := range t.selectors {
		merged[k] = v
	}
	for k, v := range o.selectors {
		if _, ok := merged[k]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRole, k)
		}
		merged[k] = v
	}
	return &Table{selectors: merged}, nil
}

// Lookup returns the selector for role.
func (t *Table) Lookup(role Role) (string, error) {
	s, ok := t.selectors[role]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}
	return s, nil
}

// Must is Lookup for roles that are guaranteed by the embedded table.
func (t *Table) Must(role Role) string {
	s, err := t.Lookup(role)
	if err != nil {
		panic(err)
	}
	return s
}

// Roles returns the roles in the table, sorted.
func (t *Table) Roles() []Role {
	out := make([]Role, 0, len(t.selectors))
	for k := range t.selectors {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
