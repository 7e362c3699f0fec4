package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/wedding-planner/wedding-e2e/internal/config"
	"github.com/wedding-planner/wedding-e2e/internal/locator"
	"github.com/wedding-planner/wedding-e2e/internal/logutil"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration with secrets redacted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		printConfig(cmd.OutOrStdout(), cfg)
		return nil
	},
}

func printConfig(w io.Writer, cfg *config.Config) {
	rows := [][2]string{
		{"mode", string(cfg.Run.Mode)},
		{"base_url", cfg.Run.BaseURL},
		{"headless", strconv.FormatBool(cfg.Run.Headless)},
		{"slow_mo", cfg.Run.SlowMo.String()},
		{"timeout", cfg.Run.Timeout.String()},
		{"settle", cfg.Run.SettleDelay.String()},
		{"viewport", fmt.Sprintf("%dx%d", cfg.Run.Viewport.Width, cfg.Run.Viewport.Height)},
		{"screenshots", strconv.FormatBool(cfg.Run.Screenshots)},
		{"install_browsers", strconv.FormatBool(cfg.Run.InstallBrowsers)},
		{"artifacts_dir", cfg.Run.ArtifactsDir},
		{"locators_file", cfg.Run.LocatorsFile},
		{"log_level", cfg.Run.LogLevel},
		{config.EnvEmail, cfg.Credentials.Email},
		{config.EnvPassword, cfg.Credentials.Password},
		{config.EnvInvitationCode, cfg.Credentials.InvitationCode},
	}
	for _, r := range rows {
		v := logutil.Redact(r[0], r[1])
		if v == "" {
			v = "(unset)"
		}
		fmt.Fprintf(w, "%-28s %s\n", r[0], v)
	}
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration, locator overrides and that the application answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "config     ok (%s, %s)\n", cfg.Run.Mode, cfg.Run.BaseURL)

		table, err := locator.Load(cfg.Run.LocatorsFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "locators   ok (%d roles)\n", len(table.Roles()))

		for _, need := range []struct {
			name string
			need config.Need
		}{{"login", config.NeedLogin}, {"invitation", config.NeedInvitation}} {
			if err := cfg.Credentials.Validate(need.need); err != nil {
				fmt.Fprintf(out, "%-10s missing (%v), journeys needing it will fail\n", need.name, err)
			} else {
				fmt.Fprintf(out, "%-10s ok\n", need.name)
			}
		}

		res, err := config.Probe(cmd.Context(), cfg.Run.BaseURL)
		if err != nil {
			return fmt.Errorf("application not reachable: %w", err)
		}
		fmt.Fprintf(out, "reachable  ok (HTTP %d in %s)\n", res.Status, res.Elapsed.Round(time.Millisecond))
		return nil
	},
}
