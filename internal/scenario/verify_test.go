package scenario_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wedding-planner/wedding-e2e/internal/scenario"
)

func TestRenderedText(t *testing.T) {
	html := `<html><head><style>.x{}</style></head><body>
		<h1>Wedding   Planner</h1>
		<script>var t = "Selenium Task";</script>
		<input name="title" value="Draft">
		<textarea>notes</textarea>
		<ul><li>Selenium
			Task</li></ul>
	</body></html>`

	text, err := scenario.RenderedText(html)
	require.NoError(t, err)
	assert.Equal(t, "Wedding Planner Selenium Task", text)
}

func TestContainsText(t *testing.T) {
	testCases := []struct {
		name string
		html string
		want bool
	}{
		{"listed", `<body><div class="card"><h3>Selenium Music Service</h3></div></body>`, true},
		{"split by markup", `<body><span>Selenium</span> <b>Music Service</b></body>`, true},
		{"only in input value", `<body><input value="Selenium Music Service"></body>`, false},
		{"only in attribute", `<body><a title="Selenium Music Service">x</a></body>`, false},
		{"absent", `<body><p>No vendors yet</p></body>`, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := scenario.ContainsText(tc.html, "Selenium Music Service")
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := scenario.ContainsText("<body></body>", "  ")
	assert.Error(t, err)
}
