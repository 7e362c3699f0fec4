// Package helpers wires live end-to-end tests to the shared harness.
package helpers

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wedding-planner/wedding-e2e/internal/browser"
	"github.com/wedding-planner/wedding-e2e/internal/config"
	"github.com/wedding-planner/wedding-e2e/internal/harness"
	"github.com/wedding-planner/wedding-e2e/internal/identity"
	"github.com/wedding-planner/wedding-e2e/internal/journeys"
	"github.com/wedding-planner/wedding-e2e/internal/locator"
	"github.com/wedding-planner/wedding-e2e/internal/logutil"
	"github.com/wedding-planner/wedding-e2e/internal/scenario"
)

var (
	once      sync.Once
	cfg       *config.Config
	cfgErr    error
	provider  *browser.Provider
	table     *locator.Table
	tableErr  error
	generator = identity.NewGenerator()
)

func setup() {
	cfg, cfgErr = config.Load(config.Options{})
	if cfgErr != nil {
		return
	}
	table, tableErr = locator.Load(cfg.Run.LocatorsFile)
	provider = browser.NewProvider(cfg.Run, logutil.New(logutil.Options{Level: cfg.Run.LogLevel, Prefix: "browser"}))
}

// Config returns the resolved configuration, skipping t when the endpoint
// variable is not set.
func Config(t *testing.T) *config.Config {
	t.Helper()
	once.Do(setup)
	if errors.Is(cfgErr, config.ErrMissingVariable) {
		t.Skipf("%v, live tests need a running application", cfgErr)
	}
	require.NoError(t, cfgErr)
	require.NoError(t, tableErr)
	return cfg
}

// RunJourney runs the named journey in a fresh browser and fails t unless it
// reaches verification. Missing credentials skip the test.
func RunJourney(t *testing.T, name string) {
	t.Helper()
	c := Config(t)

	j, err := journeys.Get(generator, name)
	require.NoError(t, err)
	if err := c.Credentials.Validate(j.Needs); err != nil {
		t.Skipf("%v, skipping %s", err, name)
	}

	logger := logutil.ForTest(t, c.Run.LogLevel)
	r := harness.New(harness.FromBrowser(provider), table, c, logger)
	res := r.Execute(t.Context(), j)
	require.NoError(t, res.Err, "class=%s", scenario.Classify(res.Err))
	assert.Equal(t, scenario.Verified, res.Reached)
}
