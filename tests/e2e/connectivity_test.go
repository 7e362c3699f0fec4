//go:build e2e

package e2e

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wedding-planner/wedding-e2e/internal/config"
	"github.com/wedding-planner/wedding-e2e/tests/e2e/helpers"
)

func TestApplicationReachable(t *testing.T) {
	cfg := helpers.Config(t)
	res, err := config.Probe(t.Context(), cfg.Run.BaseURL)
	require.NoError(t, err)
	t.Logf("%s answered %d in %s", res.URL, res.Status, res.Elapsed)
}
