package browser

import (
	"runtime"

	"github.com/orangeqa/hrm-e2e/internal/config"
)

// Probe is a snapshot of the facts the provisioning policy branches on.
// Keeping it a plain value makes the strategy table testable with fakes.
type Probe struct {
	CI        bool
	OS        string
	Arch      string
	DriverDir string
}

// DetectProbe captures the real environment.
func DetectProbe(cfg *config.TestConfig) Probe {
	return Probe{
		CI:        cfg.CI,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		DriverDir: cfg.DriverDir,
	}
}
