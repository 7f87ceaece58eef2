// Package helpers owns the per-test browser lifecycle for the E2E suite.
package helpers

import (
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/orangeqa/hrm-e2e/internal/browser"
	"github.com/orangeqa/hrm-e2e/internal/config"
	"github.com/orangeqa/hrm-e2e/internal/fixtures"
	"github.com/orangeqa/hrm-e2e/internal/pages"
	"github.com/orangeqa/hrm-e2e/internal/report"
	"github.com/orangeqa/hrm-e2e/internal/testutil"
)

// Harness owns exactly one browser session for one test case. Setup acquires
// the session and a login page bound to it; TearDown captures a screenshot
// if the test failed, then unconditionally releases the session.
type Harness struct {
	Cfg     *config.TestConfig
	Rep     *report.Reporter
	Session *browser.Session
	Login   *pages.LoginPage

	t    *testing.T
	stub *httptest.Server
}

// NewHarness builds a harness for one test case. When E2E_BASE_URL points at
// a real deployment the suite runs against it (skipping if unreachable);
// otherwise a local login stub is started so the suite stays hermetic.
func NewHarness(t *testing.T) *Harness {
	t.Helper()

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config load failed: %v", err)
	}

	h := &Harness{Cfg: cfg, t: t}

	if os.Getenv("E2E_BASE_URL") != "" {
		if !reachable(cfg.BaseURL) {
			t.Skipf("application at %s not reachable", cfg.BaseURL)
		}
	} else {
		h.stub = testutil.NewLoginApp()
		cfg.BaseURL = h.stub.URL + "/auth/login"
	}

	rep, err := report.New(cfg)
	if err != nil {
		h.closeStub()
		t.Fatalf("reporter init failed: %v", err)
	}
	h.Rep = rep

	kind, err := browser.ParseKind(cfg.Browser)
	if err != nil {
		_ = rep.Close()
		h.closeStub()
		t.Fatalf("bad browser config: %v", err)
	}

	sess, err := browser.Acquire(kind, cfg, rep)
	if err != nil {
		_ = rep.Close()
		h.closeStub()
		var perr *browser.ProvisionError
		if errors.As(err, &perr) && os.Getenv("E2E_REQUIRE_BROWSER") != "1" {
			t.Skipf("no usable browser in this environment: %v", err)
		}
		t.Fatalf("browser provisioning failed: %v", err)
	}
	h.Session = sess
	h.Login = pages.NewLoginPage(sess, cfg, rep)

	return h
}

// TearDown captures a screenshot only when the test recorded a failure, then
// always closes the session. Teardown problems never mask the test result.
func (h *Harness) TearDown() {
	if h.t.Failed() && h.Login != nil {
		if path := h.Login.CaptureScreenshot(sanitize(h.t.Name())); path != "" {
			h.Rep.Attach(h.t.Name(), path)
		}
	}
	if h.Session != nil {
		h.Session.Close()
	}
	if h.Rep != nil {
		if err := h.Rep.Close(); err != nil {
			h.t.Logf("closing reporter failed: %v", err)
		}
	}
	h.closeStub()
}

func (h *Harness) closeStub() {
	if h.stub != nil {
		h.stub.Close()
		h.stub = nil
	}
}

// Fixtures loads the credential sets for this harness's configuration.
func (h *Harness) Fixtures() *fixtures.CredentialSets {
	h.t.Helper()
	return loadFixtures(h.t, h.Cfg.CredentialsFile)
}

// LoadFixtures loads the credential sets without provisioning anything, for
// tests that only need the data.
func LoadFixtures(t *testing.T) *fixtures.CredentialSets {
	t.Helper()
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config load failed: %v", err)
	}
	return loadFixtures(t, cfg.CredentialsFile)
}

// loadFixtures resolves the fixture path from either the working directory
// or the repository root.
func loadFixtures(t *testing.T, path string) *fixtures.CredentialSets {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		path = filepath.Join("..", "..", path)
	}
	sets, err := fixtures.Load(path)
	if err != nil {
		t.Fatalf("loading credential fixture: %v", err)
	}
	return sets
}

func sanitize(name string) string {
	return strings.NewReplacer("/", "_", " ", "_").Replace(name)
}

// reachable probes the target with a TCP dial and a quick GET, mirroring how
// connectivity is checked before committing to a full browser launch.
func reachable(base string) bool {
	u, err := url.Parse(base)
	if err != nil {
		return false
	}
	host := u.Host
	if !strings.Contains(host, ":") {
		if u.Scheme == "https" {
			host += ":443"
		} else {
			host += ":80"
		}
	}
	d := net.Dialer{Timeout: 2 * time.Second}
	conn, err := d.Dial("tcp", host)
	if err != nil {
		return false
	}
	_ = conn.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(base)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return true
}
