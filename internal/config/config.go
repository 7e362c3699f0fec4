package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Mode selects which deployed endpoint the suite targets.
type Mode string

const (
	ModeLocal    Mode = "local"
	ModeDeployed Mode = "deployed"
)

// buildMode is compiled into the harness. Switch it with
//
//	go build -ldflags "-X github.com/wedding-planner/wedding-e2e/internal/config.buildMode=local"
var buildMode = string(ModeDeployed)

// CompiledMode returns the mode built into this binary. Anything other than
// "local" means deployed.
func CompiledMode() Mode {
	if Mode(buildMode) == ModeLocal {
		return ModeLocal
	}
	return ModeDeployed
}

// Environment variable names.
const (
	EnvLocalURL       = "LOCAL_RUN_URL"
	EnvDeployedURL    = "RENDER_RUN_URL"
	EnvEmail          = "TEST_EMAIL"
	EnvPassword       = "TEST_PASSWORD"
	EnvInvitationCode = "MAIN_TEST_USER_WEDDING_CODE"

	EnvHeadless      = "HEADLESS"
	EnvSlowMo        = "SLOW_MO"
	EnvScreenshots   = "SCREENSHOTS"
	EnvPreinstalled  = "PLAYWRIGHT_PREINSTALLED"
	EnvTimeout       = "E2E_TIMEOUT"
	EnvSettle        = "E2E_SETTLE"
	EnvArtifactsDir  = "E2E_ARTIFACTS_DIR"
	EnvLocatorsFile  = "E2E_LOCATORS"
	EnvEnvFile       = "E2E_ENV_FILE"
	EnvLogLevel      = "E2E_LOG_LEVEL"
	defaultEnvFile   = ".env"
	defaultArtifacts = "./test-results"
)

// Viewport is fixed so the sidebar and other breakpoint-gated elements stay visible.
var Viewport = Size{Width: 1920, Height: 1080}

var (
	ErrMissingVariable = errors.New("missing configuration variable")
	ErrInvalidURL      = errors.New("invalid base URL")
)

// MissingVariableError names the variable that was unset or blank.
type MissingVariableError struct {
	Name string
}

func (e *MissingVariableError) Error() string { return "missing " + e.Name }

func (e *MissingVariableError) Is(target error) bool { return target == ErrMissingVariable }

// Size is a browser window size in CSS pixels.
type Size struct {
	Width  int
	Height int
}

// RunConfig is immutable once resolved.
type RunConfig struct {
	BaseURL         string
	Mode            Mode
	Headless        bool
	SlowMo          time.Duration
	Timeout         time.Duration
	SettleDelay     time.Duration
	Viewport        Size
	Screenshots     bool
	InstallBrowsers bool
	ArtifactsDir    string
	LocatorsFile    string
	LogLevel        string
}

// IsLocalMode reports whether the run targets the local endpoint.
func (c RunConfig) IsLocalMode() bool { return c.Mode == ModeLocal }

// URL joins a path onto the base URL.
func (c RunConfig) URL(path string) string {
	if path == "" {
		return c.BaseURL
	}
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// Credentials are the fixed test identity values.
type Credentials struct {
	Email          string
	Password       string
	InvitationCode string
}

// Need describes which credential fields a journey depends on.
type Need int

const (
	NeedLogin Need = 1 << iota
	NeedInvitation
)

// Validate fails with a *MissingVariableError for the first required field that is blank.
func (c Credentials) Validate(need Need) error {
	if need&NeedLogin != 0 {
		if strings.TrimSpace(c.Email) == "" {
			return &MissingVariableError{Name: EnvEmail}
		}
		if c.Password == "" {
			return &MissingVariableError{Name: EnvPassword}
		}
	}
	if need&NeedInvitation != 0 && strings.TrimSpace(c.InvitationCode) == "" {
		return &MissingVariableError{Name: EnvInvitationCode}
	}
	return nil
}

// Config is constructed once per run and passed explicitly to every scenario.
type Config struct {
	Run         RunConfig
	Credentials Credentials
}

// Options control where Load reads from. Zero value reads the process
// environment plus the dotenv file named by E2E_ENV_FILE (default .env).
type Options struct {
	EnvFile string
	// Lookup replaces os.LookupEnv, mainly for tests.
	Lookup func(string) (string, bool)
}

// Load resolves the run configuration and credentials. A missing endpoint
// variable is reported immediately instead of surfacing later as a navigation
// failure. Credentials are not validated here; journeys declare what they need.
func Load(opts Options) (*Config, error) {
	v, err := newViper(opts)
	if err != nil {
		return nil, err
	}

	mode := CompiledMode()
	baseURL, err := resolveBaseURL(v, mode)
	if err != nil {
		return nil, err
	}

	timeout, err := duration(v, EnvTimeout)
	if err != nil {
		return nil, err
	}
	settle, err := duration(v, EnvSettle)
	if err != nil {
		return nil, err
	}
	slowMo := time.Duration(v.GetInt(strings.ToLower(EnvSlowMo))) * time.Millisecond

	return &Config{
		Run: RunConfig{
			BaseURL:         baseURL,
			Mode:            mode,
			Headless:        v.GetBool(strings.ToLower(EnvHeadless)),
			SlowMo:          slowMo,
			Timeout:         timeout,
			SettleDelay:     settle,
			Viewport:        Viewport,
			Screenshots:     v.GetBool(strings.ToLower(EnvScreenshots)),
			InstallBrowsers: v.GetString(strings.ToLower(EnvPreinstalled)) != "1",
			ArtifactsDir:    v.GetString(strings.ToLower(EnvArtifactsDir)),
			LocatorsFile:    v.GetString(strings.ToLower(EnvLocatorsFile)),
			LogLevel:        v.GetString(strings.ToLower(EnvLogLevel)),
		},
		Credentials: Credentials{
			Email:          strings.TrimSpace(v.GetString(strings.ToLower(EnvEmail))),
			Password:       v.GetString(strings.ToLower(EnvPassword)),
			InvitationCode: strings.TrimSpace(v.GetString(strings.ToLower(EnvInvitationCode))),
		},
	}, nil
}

func newViper(opts Options) (*viper.Viper, error) {
	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	v := viper.New()
	v.SetDefault(strings.ToLower(EnvHeadless), true)
	v.SetDefault(strings.ToLower(EnvScreenshots), true)
	v.SetDefault(strings.ToLower(EnvTimeout), "10s")
	v.SetDefault(strings.ToLower(EnvSettle), "2s")
	v.SetDefault(strings.ToLower(EnvArtifactsDir), defaultArtifacts)
	v.SetDefault(strings.ToLower(EnvLogLevel), "info")

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = defaultEnvFile
		if p, ok := lookup(EnvEnvFile); ok && p != "" {
			envFile = p
		}
	}
	if _, err := os.Stat(envFile); err == nil {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}
	}

	// Process environment takes precedence over the dotenv file.
	for _, name := range []string{
		EnvLocalURL, EnvDeployedURL, EnvEmail, EnvPassword, EnvInvitationCode,
		EnvHeadless, EnvSlowMo, EnvScreenshots, EnvPreinstalled, EnvTimeout,
		EnvSettle, EnvArtifactsDir, EnvLocatorsFile, EnvLogLevel,
	} {
		if val, ok := lookup(name); ok && val != "" {
			v.Set(strings.ToLower(name), val)
		}
	}
	return v, nil
}

func resolveBaseURL(v *viper.Viper, mode Mode) (string, error) {
	name := EnvDeployedURL
	if mode == ModeLocal {
		name = EnvLocalURL
	}
	raw := strings.TrimSpace(v.GetString(strings.ToLower(name)))
	if raw == "" {
		return "", &MissingVariableError{Name: name}
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %s=%q", ErrInvalidURL, name, raw)
	}
	return strings.TrimRight(raw, "/"), nil
}

func duration(v *viper.Viper, name string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(strings.ToLower(name)))
	d, err := time.ParseDuration(raw)
	if err != nil {
		// bare numbers are seconds
		var secs int
		if _, scanErr := fmt.Sscanf(raw, "%d", &secs); scanErr != nil || fmt.Sprint(secs) != raw {
			return 0, fmt.Errorf("%s: invalid duration %q", name, raw)
		}
		d = time.Duration(secs) * time.Second
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: duration must be positive, got %q", name, raw)
	}
	return d, nil
}
