package pages

import (
	"fmt"
	"strings"
	"time"

	"github.com/orangeqa/hrm-e2e/internal/browser"
	"github.com/orangeqa/hrm-e2e/internal/config"
	"github.com/orangeqa/hrm-e2e/internal/report"
)

// Element map for the OrangeHRM login flow. Static configuration only.
var loginLocators = struct {
	Username      Locator
	Password      Locator
	Submit        Locator
	ErrorBanner   Locator
	RequiredError Locator
	Dashboard     Locator
	UserDropdown  Locator
	LogoutLink    Locator
}{
	Username:      CSS("input[name='username']"),
	Password:      CSS("input[name='password']"),
	Submit:        CSS("button[type='submit']"),
	ErrorBanner:   CSS("p.oxd-alert-content-text"),
	RequiredError: CSS("span.oxd-input-field-error-message"),
	Dashboard:     XPath("//h6[text()='Dashboard']"),
	UserDropdown:  CSS("p.oxd-userdropdown-name"),
	LogoutLink:    XPath("//a[text()='Logout']"),
}

// errorProbeTimeout bounds the optional error-banner lookups. Short by
// intent: after a submit the banner either renders promptly or not at all.
const errorProbeTimeout = 3 * time.Second

// LoginPage drives the login flow: Unloaded -> Loaded -> (Submitted) ->
// LoggedIn or ErrorShown, with LoggedIn -> LoggedOut via Logout.
type LoginPage struct {
	*Base
	url  string
	wait time.Duration
}

// NewLoginPage binds the login page's element map to a session.
func NewLoginPage(session *browser.Session, cfg *config.TestConfig, rep *report.Reporter) *LoginPage {
	return &LoginPage{
		Base: NewBase(session, rep, cfg.ScreenshotDir),
		url:  cfg.BaseURL,
		wait: cfg.ImplicitWait,
	}
}

// Navigate loads the login URL and waits for the username field. If the
// destination shows an already-authenticated session it logs out first, so
// the page always ends up Loaded with no prior session.
func (p *LoginPage) Navigate() error {
	if _, err := p.Page().Goto(p.url); err != nil {
		return fmt.Errorf("failed to load login page %s: %w", p.url, err)
	}

	if strings.Contains(p.Page().URL(), "/dashboard/index") {
		if err := p.Logout(); err != nil {
			return fmt.Errorf("stale session logout failed: %w", err)
		}
	}

	if _, err := p.WaitFor(loginLocators.Username, p.wait); err != nil {
		return err
	}
	return nil
}

// Login fills both credential fields and submits. It does not inspect the
// outcome; callers branch on IsLoginSuccessful or ErrorMessage.
func (p *LoginPage) Login(username, password string) error {
	if err := p.InputText(loginLocators.Username, username, p.wait); err != nil {
		return err
	}
	if err := p.InputText(loginLocators.Password, password, p.wait); err != nil {
		return err
	}
	return p.Submit()
}

// Submit clicks the login button without touching the fields.
func (p *LoginPage) Submit() error {
	return p.Click(loginLocators.Submit, p.wait)
}

// ErrorMessage returns the first of the general error banner and the
// required-field error found, or "" when neither is present. The general
// banner is checked first: when shown it is the more specific signal.
// Absence is a normal outcome, never an error.
func (p *LoginPage) ErrorMessage() string {
	if el, ok := p.Find(loginLocators.ErrorBanner, errorProbeTimeout); ok {
		return strings.TrimSpace(p.Text(el))
	}
	if el, ok := p.Find(loginLocators.RequiredError, errorProbeTimeout); ok {
		return strings.TrimSpace(p.Text(el))
	}
	return ""
}

// IsLoginSuccessful is false when any error message is shown, otherwise true
// iff a dashboard-only element is present. Element absence counts as false.
func (p *LoginPage) IsLoginSuccessful() bool {
	if p.ErrorMessage() != "" {
		return false
	}
	_, ok := p.Find(loginLocators.Dashboard, p.wait)
	return ok
}

// Logout opens the account menu and clicks the logout control. Failures
// propagate: this is only called from a known-authenticated state.
func (p *LoginPage) Logout() error {
	if err := p.Click(loginLocators.UserDropdown, p.wait); err != nil {
		return fmt.Errorf("failed to open account menu: %w", err)
	}
	if err := p.Click(loginLocators.LogoutLink, p.wait); err != nil {
		return fmt.Errorf("failed to click logout: %w", err)
	}
	return nil
}
