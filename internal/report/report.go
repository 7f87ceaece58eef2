// Package report provides the run-reporting context: a run log, the
// environment.properties file consumed by the report collaborator, and the
// registry of screenshot artifacts captured during the run.
//
// The Reporter is constructed at startup and passed down explicitly; nothing
// in this package keeps module-level state.
package report

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/magiconair/properties"

	"github.com/orangeqa/hrm-e2e/internal/config"
)

// Artifact is one captured screenshot, keyed by the test that produced it.
type Artifact struct {
	Test string
	Path string
	Time time.Time
}

// Reporter owns the results directory for one run.
type Reporter struct {
	dir     string
	logFile *os.File
	logger  *log.Logger

	mu        sync.Mutex
	artifacts []Artifact
}

// New creates the results directory, opens the run log and writes
// environment.properties describing the run environment.
func New(cfg *config.TestConfig) (*Reporter, error) {
	if err := os.MkdirAll(cfg.ResultsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create results dir: %w", err)
	}

	logPath := filepath.Join(cfg.ResultsDir, fmt.Sprintf("run_%s.log", time.Now().Format("20060102_150405")))
	f, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log: %w", err)
	}

	r := &Reporter{
		dir:     cfg.ResultsDir,
		logFile: f,
		logger:  log.New(io.MultiWriter(os.Stderr, f), "[e2e] ", log.LstdFlags),
	}

	if err := r.writeEnvironment(cfg); err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

func (r *Reporter) writeEnvironment(cfg *config.TestConfig) error {
	p := properties.NewProperties()
	set := func(k, v string) {
		_, _, _ = p.Set(k, v)
	}
	set("os.name", runtime.GOOS)
	set("os.arch", runtime.GOARCH)
	set("go.version", runtime.Version())
	set("browser", cfg.Browser)
	set("base.url", cfg.BaseURL)
	set("headless", fmt.Sprintf("%t", cfg.Headless))
	set("ci", fmt.Sprintf("%t", cfg.CI))
	set("worker.id", cfg.WorkerID)

	f, err := os.Create(filepath.Join(r.dir, "environment.properties"))
	if err != nil {
		return fmt.Errorf("failed to create environment.properties: %w", err)
	}
	defer f.Close()
	if _, err := p.Write(f, properties.UTF8); err != nil {
		return fmt.Errorf("failed to write environment.properties: %w", err)
	}
	return nil
}

// Logf writes to the run log and stderr.
func (r *Reporter) Logf(format string, args ...any) {
	r.logger.Printf(format, args...)
}

// Attach records a screenshot artifact for the given test.
func (r *Reporter) Attach(test, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.artifacts = append(r.artifacts, Artifact{Test: test, Path: path, Time: time.Now()})
	r.logger.Printf("attached screenshot for %s: %s", test, path)
}

// Artifacts returns the screenshots recorded so far.
func (r *Reporter) Artifacts() []Artifact {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Artifact, len(r.artifacts))
	copy(out, r.artifacts)
	return out
}

// Dir returns the results directory.
func (r *Reporter) Dir() string {
	return r.dir
}

// Close flushes and closes the run log.
func (r *Reporter) Close() error {
	return r.logFile.Close()
}
