package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/orangeqa/hrm-e2e/internal/report"
)

// A strategy knows how to bring up a working playwright driver for one class
// of environment. The table below is evaluated top-down; the first row whose
// predicate matches wins. This replaces the nested CI/local/arch branching
// of older revisions with one canonical, testable policy.
type strategy struct {
	name  string
	match func(Probe) bool
	run   func(p Probe, browsers []string, rep *report.Reporter) (*playwright.Playwright, error)
}

var strategies = []strategy{
	{
		// CI images carry a browser already; fetch the driver pinned to it.
		name:  "ci-managed",
		match: func(p Probe) bool { return p.CI },
		run:   runManaged,
	},
	{
		// linux/arm64 has no prebuilt driver release; use the local bundle
		// if one is installed, otherwise fall back to a managed download.
		name:  "local-driver",
		match: func(p Probe) bool { return p.OS == "linux" && p.Arch == "arm64" },
		run:   runLocalDriver,
	},
	{
		name:  "default",
		match: func(Probe) bool { return true },
		run:   runDefault,
	},
}

// StrategyName reports which provisioning strategy a probe selects, for
// diagnostics.
func StrategyName(p Probe) string {
	return selectStrategy(p).name
}

// selectStrategy returns the first matching row. The last row matches
// everything, so this never fails.
func selectStrategy(p Probe) strategy {
	for _, s := range strategies {
		if s.match(p) {
			return s
		}
	}
	return strategies[len(strategies)-1]
}

// runManaged installs the driver and the requested browsers through the
// toolchain's managed download, then starts the driver.
func runManaged(_ Probe, browsers []string, rep *report.Reporter) (*playwright.Playwright, error) {
	opts := &playwright.RunOptions{Browsers: browsers}
	if err := playwright.Install(opts); err != nil {
		return nil, fmt.Errorf("managed install failed: %w", err)
	}
	pw, err := playwright.Run(opts)
	if err != nil {
		return nil, fmt.Errorf("driver failed to start after managed install: %w", err)
	}
	rep.Logf("driver started (managed install, browsers=%v)", browsers)
	return pw, nil
}

// runLocalDriver tries the fixed local driver bundle first: the node binary
// must exist, be executable (permission bits are repaired if not) and answer
// a version probe. Any failure falls back to a managed download.
func runLocalDriver(p Probe, browsers []string, rep *report.Reporter) (*playwright.Playwright, error) {
	bin := filepath.Join(p.DriverDir, "node")
	if err := validateDriverBinary(bin); err != nil {
		rep.Logf("local driver at %s unusable (%v), falling back to managed install", bin, err)
		pw, ferr := runManaged(p, browsers, rep)
		if ferr != nil {
			return nil, fmt.Errorf("local driver unusable (%v) and fallback failed: %w", err, ferr)
		}
		return pw, nil
	}
	pw, err := playwright.Run(&playwright.RunOptions{
		DriverDirectory:     p.DriverDir,
		SkipInstallBrowsers: true,
	})
	if err != nil {
		return nil, fmt.Errorf("local driver in %s failed to start: %w", p.DriverDir, err)
	}
	rep.Logf("driver started (local bundle %s)", p.DriverDir)
	return pw, nil
}

// runDefault starts the driver, installing it first only if the initial
// start fails.
func runDefault(_ Probe, browsers []string, rep *report.Reporter) (*playwright.Playwright, error) {
	opts := &playwright.RunOptions{Browsers: browsers}
	pw, err := playwright.Run(opts)
	if err != nil {
		if ierr := playwright.Install(opts); ierr != nil {
			return nil, fmt.Errorf("driver start failed (%v) and install failed: %w", err, ierr)
		}
		pw, err = playwright.Run(opts)
		if err != nil {
			return nil, fmt.Errorf("driver failed to start after install retry: %w", err)
		}
	}
	rep.Logf("driver started (default resolution)")
	return pw, nil
}

// validateDriverBinary checks the binary exists, repairs missing execute
// bits and confirms it responds to a version probe.
func validateDriverBinary(bin string) error {
	info, err := os.Stat(bin)
	if err != nil {
		return fmt.Errorf("driver binary not found: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("driver path %s is a directory", bin)
	}
	if info.Mode().Perm()&0o111 == 0 {
		if err := os.Chmod(bin, info.Mode().Perm()|0o755); err != nil {
			return fmt.Errorf("driver binary not executable and chmod failed: %w", err)
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if out, err := exec.CommandContext(ctx, bin, "--version").CombinedOutput(); err != nil {
		return fmt.Errorf("driver version probe failed (%s): %w", string(out), err)
	}
	return nil
}
