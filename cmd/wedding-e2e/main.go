package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/wedding-planner/wedding-e2e/internal/browser"
	"github.com/wedding-planner/wedding-e2e/internal/config"
	"github.com/wedding-planner/wedding-e2e/internal/harness"
	"github.com/wedding-planner/wedding-e2e/internal/locator"
	"github.com/wedding-planner/wedding-e2e/internal/logutil"
	"github.com/wedding-planner/wedding-e2e/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "wedding-e2e",
	Short: "End-to-end journeys for the Wedding Planner web app",
	Long: `wedding-e2e drives a real Chromium browser through the Wedding Planner's
main user journeys: signing in and out, registering, and creating events,
tasks, guests, expenses and vendors.

The target endpoint is compiled in (local or deployed); everything else is
read from the environment or a dotenv file.`,
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	envFileFlag  string
	logLevelFlag string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&envFileFlag, "env-file", "", "dotenv file to read (default $E2E_ENV_FILE or .env)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level, overrides E2E_LOG_LEVEL")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "wedding-e2e %s\n", version.Full(string(config.CompiledMode())))
	},
}

// env is what every browser-driving command needs.
type env struct {
	cfg    *config.Config
	log    *log.Logger
	runner *harness.Runner
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.Options{EnvFile: envFileFlag})
	if err != nil {
		return nil, err
	}
	if logLevelFlag != "" {
		cfg.Run.LogLevel = logLevelFlag
	}
	return cfg, nil
}

func loadEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := logutil.New(logutil.Options{
		Level:           cfg.Run.LogLevel,
		Output:          cmd.ErrOrStderr(),
		ReportTimestamp: true,
	})
	table, err := locator.Load(cfg.Run.LocatorsFile)
	if err != nil {
		return nil, err
	}
	provider := browser.NewProvider(cfg.Run, logger.WithPrefix("browser"))
	logger.Debug("configuration resolved", "mode", cfg.Run.Mode, "url", cfg.Run.BaseURL, "headless", cfg.Run.Headless)
	return &env{
		cfg:    cfg,
		log:    logger,
		runner: harness.New(harness.FromBrowser(provider), table, cfg, logger),
	}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
