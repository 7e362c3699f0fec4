// Package identity generates throwaway sign-up identities.
//
// The application under test is never reset, so every generated identity
// carries a timestamp-derived ULID suffix that differs per invocation.
package identity

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// DefaultPassword satisfies the application's password rules.
const DefaultPassword = "SecretPassword123!"

const emailDomain = "fictive.com"

// Kind selects the naming scheme of a generated identity.
type Kind string

const (
	Primary      Kind = "signup"
	Collaborator Kind = "collab"
)

// Identity is a generated account.
type Identity struct {
	Suffix   string
	Email    string
	FullName string
	Password string
}

// Generator hands out identities with strictly increasing suffixes.
type Generator struct {
	mu      sync.Mutex
	now     func() time.Time
	entropy io.Reader
}

// NewGenerator returns a generator backed by crypto/rand.
func NewGenerator() *Generator {
	return newGenerator(time.Now, rand.Reader)
}

func newGenerator(now func() time.Time, r io.Reader) *Generator {
	return &Generator{
		now:     now,
		entropy: ulid.Monotonic(r, 0),
	}
}

// Next returns a fresh identity of the given kind.
func (g *Generator) Next(kind Kind) (Identity, error) {
	g.mu.Lock()
	id, err := ulid.New(ulid.Timestamp(g.now()), g.entropy)
	g.mu.Unlock()
	if err != nil {
		return Identity{}, fmt.Errorf("generate identity suffix: %w", err)
	}

	suffix := strings.ToLower(id.String())
	var name string
	switch kind {
	case Collaborator:
		name = "Collaborator " + suffix
	default:
		kind = Primary
		name = "Auto Tester " + suffix
	}
	return Identity{
		Suffix:   suffix,
		Email:    fmt.Sprintf("%s.test.%s@%s", kind, suffix, emailDomain),
		FullName: name,
		Password: DefaultPassword,
	}, nil
}
