package identity

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNext(t *testing.T) {
	g := NewGenerator()

	primary, err := g.Next(Primary)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(primary.Email, "signup.test."))
	assert.True(t, strings.HasSuffix(primary.Email, "@fictive.com"))
	assert.Equal(t, "Auto Tester "+primary.Suffix, primary.FullName)
	assert.Equal(t, DefaultPassword, primary.Password)
	assert.Len(t, primary.Suffix, 26)

	collab, err := g.Next(Collaborator)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(collab.Email, "collab.test."))
	assert.Equal(t, "Collaborator "+collab.Suffix, collab.FullName)
}

func TestNextSameInstant(t *testing.T) {
	frozen := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	g := newGenerator(func() time.Time { return frozen }, rand.New(rand.NewSource(1)))

	a, err := g.Next(Primary)
	require.NoError(t, err)
	b, err := g.Next(Primary)
	require.NoError(t, err)

	assert.NotEqual(t, a.Email, b.Email)
	assert.NotEqual(t, a.FullName, b.FullName)
	assert.Less(t, a.Suffix, b.Suffix)
}

// Sequential runs must never collide on email or display name, even when
// the clock does not move between them.
func TestSequentialRunsNeverCollide(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ms := rapid.Int64Range(0, 1<<40).Draw(t, "unix_ms")
		n := rapid.IntRange(2, 50).Draw(t, "runs")
		seed := rapid.Int64().Draw(t, "seed")
		kind := rapid.SampledFrom([]Kind{Primary, Collaborator}).Draw(t, "kind")

		now := time.UnixMilli(ms)
		g := newGenerator(func() time.Time { return now }, rand.New(rand.NewSource(seed)))

		emails := map[string]bool{}
		names := map[string]bool{}
		for i := 0; i < n; i++ {
			if rapid.Bool().Draw(t, "tick") {
				now = now.Add(time.Millisecond)
			}
			id, err := g.Next(kind)
			if err != nil {
				t.Fatalf("Next: %v", err)
			}
			if emails[id.Email] {
				t.Fatalf("duplicate email %s", id.Email)
			}
			if names[id.FullName] {
				t.Fatalf("duplicate name %s", id.FullName)
			}
			emails[id.Email] = true
			names[id.FullName] = true
		}
	})
}
