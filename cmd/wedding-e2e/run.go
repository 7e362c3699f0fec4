package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/wedding-planner/wedding-e2e/internal/harness"
	"github.com/wedding-planner/wedding-e2e/internal/identity"
	"github.com/wedding-planner/wedding-e2e/internal/journeys"
	"github.com/wedding-planner/wedding-e2e/internal/scenario"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List journeys in run order",
	Run: func(cmd *cobra.Command, args []string) {
		for _, j := range journeys.Catalog(identity.NewGenerator()) {
			fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", j.Name, j.Description)
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run [journey...]",
	Short: "Run journeys serially, all of them when none are named",
	Long: `Run executes the named journeys one after another, each in a fresh browser,
in catalog order. A failing journey does not stop the rest. The exit status is
non-zero when any journey failed.`,
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return journeys.Names(), cobra.ShellCompDirectiveNoFileComp
	},
	RunE: runJourneys,
}

func runJourneys(cmd *cobra.Command, args []string) error {
	// Unknown names are reported before any configuration is needed.
	js, err := journeys.Select(identity.NewGenerator(), args...)
	if err != nil {
		return err
	}
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e.log.Info("running journeys", "count", len(js), "url", e.cfg.Run.BaseURL, "mode", e.cfg.Run.Mode)
	results := e.runner.ExecuteAll(ctx, js)
	report(cmd.OutOrStdout(), results)

	_, failed := harness.Summary(results)
	if skipped := len(js) - len(results); skipped > 0 {
		return fmt.Errorf("interrupted, %d journey(s) not run", skipped)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d journeys failed", failed, len(results))
	}
	return nil
}

// report prints one line per result and a summary.
func report(w io.Writer, results []scenario.Result) {
	r := lipgloss.NewRenderer(w)
	pass := r.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	fail := r.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	dim := r.NewStyle().Faint(true)

	for _, res := range results {
		elapsed := res.Elapsed.Round(100 * time.Millisecond).String()
		if res.Passed() {
			fmt.Fprintf(w, "%s  %-20s %s\n", pass.Render("PASS"), res.Journey, dim.Render(elapsed))
			continue
		}
		fmt.Fprintf(w, "%s  %-20s %s  [%s] %s\n", fail.Render("FAIL"), res.Journey, dim.Render(elapsed),
			scenario.Classify(res.Err), firstLine(res.Err))
	}
	passed, failed := harness.Summary(results)
	fmt.Fprintf(w, "\n%d passed, %d failed\n", passed, failed)
}

// firstLine trims multi-line driver errors to their headline.
func firstLine(err error) string {
	if err == nil {
		return ""
	}
	msg, _, _ := strings.Cut(err.Error(), "\n")
	return msg
}
