// Package browser provisions isolated browser sessions for E2E tests.
//
// Each session owns a freshly created profile directory, so sessions started
// by concurrent workers never contend on browser profile locks. Driver
// resolution is a strategy table keyed off an environment probe (see
// strategy.go).
package browser

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"

	"github.com/orangeqa/hrm-e2e/internal/config"
	"github.com/orangeqa/hrm-e2e/internal/report"
)

// Kind identifies a browser family.
type Kind string

const (
	KindChrome  Kind = "chrome"
	KindFirefox Kind = "firefox"
	KindEdge    Kind = "edge"
)

// ParseKind validates a browser name from configuration.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindChrome, KindFirefox, KindEdge:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unsupported browser: %q", s)
	}
}

// installTargets returns the browser bundles the managed download should
// fetch for this kind.
func (k Kind) installTargets() []string {
	switch k {
	case KindFirefox:
		return []string{"firefox"}
	case KindEdge:
		return []string{"msedge"}
	default:
		return []string{"chromium"}
	}
}

// InstallBrowsers pre-fetches the managed driver and browser bundles for a
// kind, so a later Acquire does not pay the download cost.
func InstallBrowsers(kind Kind) error {
	if _, err := ParseKind(string(kind)); err != nil {
		return err
	}
	if err := playwright.Install(&playwright.RunOptions{Browsers: kind.installTargets()}); err != nil {
		return fmt.Errorf("managed install for %s failed: %w", kind, err)
	}
	return nil
}

// Session is an exclusive handle to one running browser instance. It is
// owned by exactly one test case and must be closed at teardown regardless
// of the test outcome.
type Session struct {
	Kind       Kind
	ProfileDir string
	Context    playwright.BrowserContext
	Page       playwright.Page

	pw     *playwright.Playwright
	rep    *report.Reporter
	closed bool
}

// Acquire resolves a driver for the requested kind, launches the browser
// with an isolated profile directory and applies the configured timeouts.
// Failures are reported as *ProvisionError; there is no retry here.
func Acquire(kind Kind, cfg *config.TestConfig, rep *report.Reporter) (*Session, error) {
	return acquire(kind, cfg, rep, DetectProbe(cfg))
}

func acquire(kind Kind, cfg *config.TestConfig, rep *report.Reporter, probe Probe) (*Session, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, &ProvisionError{Kind: kind, Stage: "validate", Err: err}
	}

	strat := selectStrategy(probe)
	rep.Logf("provisioning %s session via %q strategy (worker=%s)", kind, strat.name, cfg.WorkerID)

	pw, err := strat.run(probe, kind.installTargets(), rep)
	if err != nil {
		return nil, &ProvisionError{Kind: kind, Stage: "resolve-driver", Err: err}
	}

	profileDir, err := newProfileDir(cfg)
	if err != nil {
		_ = pw.Stop()
		return nil, &ProvisionError{Kind: kind, Stage: "profile-dir", Err: err}
	}

	ctx, err := launchPersistent(pw, kind, cfg, profileDir)
	if err != nil {
		_ = os.RemoveAll(profileDir)
		_ = pw.Stop()
		return nil, &ProvisionError{Kind: kind, Stage: "launch", Err: err}
	}

	ctx.SetDefaultTimeout(float64(cfg.ImplicitWait.Milliseconds()))
	ctx.SetDefaultNavigationTimeout(float64(cfg.PageLoadTimeout.Milliseconds()))

	page, err := firstPage(ctx)
	if err != nil {
		_ = ctx.Close()
		_ = os.RemoveAll(profileDir)
		_ = pw.Stop()
		return nil, &ProvisionError{Kind: kind, Stage: "page", Err: err}
	}

	rep.Logf("browser session up: kind=%s profile=%s", kind, profileDir)
	return &Session{
		Kind:       kind,
		ProfileDir: profileDir,
		Context:    ctx,
		Page:       page,
		pw:         pw,
		rep:        rep,
	}, nil
}

func launchPersistent(pw *playwright.Playwright, kind Kind, cfg *config.TestConfig, profileDir string) (playwright.BrowserContext, error) {
	opts := playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless: playwright.Bool(cfg.Headless),
		Viewport: &playwright.Size{
			Width:  cfg.WindowWidth,
			Height: cfg.WindowHeight,
		},
	}
	if cfg.SlowMo > 0 {
		opts.SlowMo = playwright.Float(float64(cfg.SlowMo.Milliseconds()))
	}

	bt := pw.Chromium
	switch kind {
	case KindFirefox:
		bt = pw.Firefox
	case KindEdge:
		opts.Channel = playwright.String("msedge")
	}
	if kind != KindFirefox {
		opts.Args = chromiumArgs(cfg)
	}

	return bt.LaunchPersistentContext(profileDir, opts)
}

// chromiumArgs are the standard headless/sandboxing flags for Chromium-family
// browsers.
func chromiumArgs(cfg *config.TestConfig) []string {
	return []string{
		"--no-sandbox",
		"--disable-dev-shm-usage",
		"--disable-gpu",
		"--disable-notifications",
		fmt.Sprintf("--window-size=%d,%d", cfg.WindowWidth, cfg.WindowHeight),
	}
}

// newProfileDir creates a fresh uniquely named user-data directory. The name
// combines the worker identifier with a random suffix so concurrent sessions
// never collide on profile locks.
func newProfileDir(cfg *config.TestConfig) (string, error) {
	dir := filepath.Join(cfg.ProfileDirRoot, fmt.Sprintf("hrm-e2e-%s-%s", cfg.WorkerID, uuid.NewString()))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create profile dir: %w", err)
	}
	return dir, nil
}

// firstPage reuses the page a persistent context opens on launch, creating
// one only when the context came up empty.
func firstPage(ctx playwright.BrowserContext) (playwright.Page, error) {
	if pages := ctx.Pages(); len(pages) > 0 {
		return pages[0], nil
	}
	return ctx.NewPage()
}

// Close tears the session down. Teardown problems are logged and swallowed
// so they can never mask the result of the owning test.
func (s *Session) Close() {
	if s == nil || s.closed {
		return
	}
	s.closed = true

	if s.Context != nil {
		if err := s.Context.Close(); err != nil {
			s.rep.Logf("teardown: closing browser context failed: %v", err)
		}
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil {
			s.rep.Logf("teardown: stopping driver failed: %v", err)
		}
	}
	if s.ProfileDir != "" {
		if err := os.RemoveAll(s.ProfileDir); err != nil {
			s.rep.Logf("teardown: removing profile dir failed: %v", err)
		}
	}
}
