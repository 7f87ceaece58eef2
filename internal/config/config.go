// Package config holds the typed configuration record for the E2E suite.
//
// All knobs have documented defaults and can be overridden by environment
// variables with the E2E_ prefix (E2E_BASE_URL, E2E_HEADLESS, ...) or by an
// optional e2e.yaml in the working directory. A .env file, if present, is
// preloaded into the environment without overriding variables already set.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// TestConfig is the explicit configuration record for one test run.
type TestConfig struct {
	// BaseURL of the application under test.
	BaseURL string `mapstructure:"base_url"`
	// Browser kind: chrome, firefox or edge.
	Browser string `mapstructure:"browser"`
	// Headless toggles headless launch. Set E2E_HEADLESS=false to watch.
	Headless bool `mapstructure:"headless"`
	// SlowMo inserts a pause after every driver operation, for debugging.
	SlowMo time.Duration `mapstructure:"slow_mo"`

	// ImplicitWait is the default timeout for element operations.
	ImplicitWait time.Duration `mapstructure:"implicit_wait"`
	// PageLoadTimeout bounds navigations.
	PageLoadTimeout time.Duration `mapstructure:"page_load_timeout"`

	WindowWidth  int `mapstructure:"window_width"`
	WindowHeight int `mapstructure:"window_height"`

	// ResultsDir receives the run log and environment.properties.
	ResultsDir string `mapstructure:"results_dir"`
	// ScreenshotDir receives failure screenshots.
	ScreenshotDir string `mapstructure:"screenshot_dir"`
	// ProfileDirRoot is where per-session browser profiles are created.
	// Defaults to the OS temp dir.
	ProfileDirRoot string `mapstructure:"profile_dir_root"`
	// DriverDir is the fixed local driver directory consulted on platforms
	// without a prebuilt driver release.
	DriverDir string `mapstructure:"driver_dir"`

	// CredentialsFile is the JSON fixture with named credential sets.
	CredentialsFile string `mapstructure:"credentials_file"`

	// CI is true when a CI environment was detected. Not settable via the
	// E2E_ prefix; read from the standard CI variable.
	CI bool `mapstructure:"-"`
	// WorkerID identifies the parallel worker owning this process, used to
	// keep profile directories of concurrent runs apart.
	WorkerID string `mapstructure:"-"`
}

var dotEnvOnce sync.Once

// loadDotEnv loads simple KEY=VALUE lines from .env if present.
// Existing environment variables take precedence and are not overwritten.
func loadDotEnv() {
	f, err := os.Open(".env")
	if err != nil {
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		i := strings.Index(line, "=")
		if i <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:i])
		val := strings.TrimSpace(line[i+1:])
		if key == "" || val == "" {
			continue
		}
		if (strings.HasPrefix(val, `"`) && strings.HasSuffix(val, `"`)) ||
			(strings.HasPrefix(val, "'") && strings.HasSuffix(val, "'")) {
			val = val[1 : len(val)-1]
		}
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, val)
		}
	}
}

// Load builds the configuration from defaults, an optional e2e.yaml and
// E2E_-prefixed environment variables, in increasing precedence.
func Load() (*TestConfig, error) {
	dotEnvOnce.Do(loadDotEnv)

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("e2e")
	v.AddConfigPath(".")

	v.SetDefault("base_url", "https://opensource-demo.orangehrmlive.com/web/index.php/auth/login")
	v.SetDefault("browser", "chrome")
	v.SetDefault("headless", true)
	v.SetDefault("slow_mo", "0s")
	v.SetDefault("implicit_wait", "10s")
	v.SetDefault("page_load_timeout", "30s")
	v.SetDefault("window_width", 1920)
	v.SetDefault("window_height", 1080)
	v.SetDefault("results_dir", "test-results")
	v.SetDefault("screenshot_dir", "test-results/screenshots")
	v.SetDefault("profile_dir_root", os.TempDir())
	v.SetDefault("driver_dir", "/usr/local/share/playwright-driver")
	v.SetDefault("credentials_file", "testdata/login_credentials.json")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read e2e.yaml: %w", err)
		}
	}

	v.SetEnvPrefix("E2E")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &TestConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.CI = os.Getenv("CI") != "" && os.Getenv("CI") != "false"
	cfg.WorkerID = workerID()

	return cfg, nil
}

// workerID returns the parallel worker identifier for this process. The
// runner exports E2E_WORKER_ID when sharding; a plain `go test` run falls
// back to the pid, which is unique enough to keep profile dirs apart.
func workerID() string {
	if id := os.Getenv("E2E_WORKER_ID"); id != "" {
		return id
	}
	return "w" + strconv.Itoa(os.Getpid())
}
