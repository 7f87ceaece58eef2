// Package pages implements the page-object layer: a base with generic
// wait/find/click/type primitives and concrete page objects built on it.
//
// All waits are explicit and bounded. Element absence is a normal result
// (Find returns ok=false), not an error; only mandatory presence raises
// *TimeoutError. Centralizing the waits here keeps the concrete page objects
// free of inline polling logic and makes flaky timing behavior one place to
// tune.
package pages

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/orangeqa/hrm-e2e/internal/browser"
	"github.com/orangeqa/hrm-e2e/internal/report"
)

// Base wraps one browser session with the generic element primitives shared
// by every page object. It is stateless beyond the session reference.
type Base struct {
	session *browser.Session
	rep     *report.Reporter
	shotDir string
}

// NewBase binds the primitives to a session. Screenshots land in shotDir.
func NewBase(session *browser.Session, rep *report.Reporter, shotDir string) *Base {
	return &Base{session: session, rep: rep, shotDir: shotDir}
}

// Page exposes the underlying driver page for operations the primitives do
// not cover (URL inspection, navigation).
func (b *Base) Page() playwright.Page {
	return b.session.Page
}

// Find polls until one element matching loc is attached or timeout elapses.
// Absence is a normal outcome: ok is false and no error is raised. Use
// WaitFor when presence is mandatory.
func (b *Base) Find(loc Locator, timeout time.Duration) (playwright.Locator, bool) {
	el := b.session.Page.Locator(loc.Selector()).First()
	err := el.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return nil, false
	}
	return el, true
}

// WaitFor polls until one element matching loc is attached, failing with
// *TimeoutError when it never appears.
func (b *Base) WaitFor(loc Locator, timeout time.Duration) (playwright.Locator, error) {
	el := b.session.Page.Locator(loc.Selector()).First()
	err := el.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return nil, wrapTimeout("wait", loc, timeout, err)
	}
	return el, nil
}

// Click waits for the element to be actionable, then dispatches a click.
func (b *Base) Click(loc Locator, timeout time.Duration) error {
	err := b.session.Page.Locator(loc.Selector()).First().Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	return wrapTimeout("click", loc, timeout, err)
}

// InputText waits for visibility, clears existing content and types text.
func (b *Base) InputText(loc Locator, text string, timeout time.Duration) error {
	el := b.session.Page.Locator(loc.Selector()).First()
	err := el.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return wrapTimeout("input", loc, timeout, err)
	}
	if err := el.Clear(); err != nil {
		return fmt.Errorf("clearing %s failed: %w", loc, err)
	}
	if err := el.Fill(text); err != nil {
		return fmt.Errorf("filling %s failed: %w", loc, err)
	}
	return nil
}

// Text returns the trimmed text content of the element, or "" on failure.
func (b *Base) Text(el playwright.Locator) string {
	text, err := el.TextContent()
	if err != nil {
		return ""
	}
	return text
}

// CaptureScreenshot saves the current frame to a file named after label and
// a timestamp, creating the destination directory if absent. Best-effort: a
// failure is logged and an empty path returned, never an error.
func (b *Base) CaptureScreenshot(label string) string {
	if err := os.MkdirAll(b.shotDir, 0o755); err != nil {
		b.rep.Logf("screenshot: creating %s failed: %v", b.shotDir, err)
		return ""
	}
	path := filepath.Join(b.shotDir, fmt.Sprintf("%s_%s.png", label, time.Now().Format("20060102_150405")))
	if _, err := b.session.Page.Screenshot(playwright.PageScreenshotOptions{
		Path: playwright.String(path),
	}); err != nil {
		b.rep.Logf("screenshot: capturing %s failed: %v", label, err)
		return ""
	}
	return path
}
