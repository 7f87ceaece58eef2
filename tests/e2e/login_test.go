package e2e

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orangeqa/hrm-e2e/internal/browser"
	"github.com/orangeqa/hrm-e2e/tests/e2e/helpers"
)

func TestValidLogin(t *testing.T) {
	h := helpers.NewHarness(t)
	defer h.TearDown()

	require.NoError(t, h.Login.Navigate())

	creds := h.Fixtures().Valid
	require.NoError(t, h.Login.Login(creds.Username, creds.Password))

	assert.True(t, h.Login.IsLoginSuccessful(), "login with valid credentials should succeed")
	assert.Empty(t, h.Login.ErrorMessage(), "no error message expected after valid login")
}

func TestInvalidCredentials(t *testing.T) {
	// Each credential set is its own test case with its own browser session.
	sets := helpers.LoadFixtures(t).Invalid

	names := make([]string, 0, len(sets))
	for name := range sets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		creds := sets[name]
		t.Run(name, func(t *testing.T) {
			h := helpers.NewHarness(t)
			defer h.TearDown()

			require.NoError(t, h.Login.Navigate())
			require.NoError(t, h.Login.Login(creds.Username, creds.Password))

			assert.False(t, h.Login.IsLoginSuccessful(), "login must fail for %s", name)
			assert.Equal(t, "Invalid credentials", h.Login.ErrorMessage())
		})
	}
}

func TestBlankCredentialsShowRequired(t *testing.T) {
	h := helpers.NewHarness(t)
	defer h.TearDown()

	require.NoError(t, h.Login.Navigate())
	require.NoError(t, h.Login.Submit())

	assert.False(t, h.Login.IsLoginSuccessful())
	assert.Equal(t, "Required", h.Login.ErrorMessage())
}

// The error message must read the same on repeated lookups with no further
// interaction in between.
func TestErrorMessageIdempotentReads(t *testing.T) {
	h := helpers.NewHarness(t)
	defer h.TearDown()

	require.NoError(t, h.Login.Navigate())
	require.NoError(t, h.Login.Login("invalid", "invalid"))

	first := h.Login.ErrorMessage()
	require.Equal(t, "Invalid credentials", first)

	second := h.Login.ErrorMessage()
	assert.Equal(t, first, second, "error message should persist across reads")
}

// Navigate must always land in the logged-out Loaded state, even when the
// browser still holds an authenticated session.
func TestNavigateResetsAuthenticatedSession(t *testing.T) {
	h := helpers.NewHarness(t)
	defer h.TearDown()

	require.NoError(t, h.Login.Navigate())
	creds := h.Fixtures().Valid
	require.NoError(t, h.Login.Login(creds.Username, creds.Password))
	require.True(t, h.Login.IsLoginSuccessful(), "precondition: must be logged in")

	require.NoError(t, h.Login.Navigate())

	assert.False(t, h.Login.IsLoginSuccessful(), "navigate should end logged out")
}

func TestLoginLogoutEndToEnd(t *testing.T) {
	h := helpers.NewHarness(t)
	defer h.TearDown()

	require.NoError(t, h.Login.Navigate())
	creds := h.Fixtures().Valid
	require.NoError(t, h.Login.Login(creds.Username, creds.Password))
	require.True(t, h.Login.IsLoginSuccessful())

	require.NoError(t, h.Login.Logout())

	assert.False(t, h.Login.IsLoginSuccessful(), "should be logged out after logout")
}

// Two sessions acquired concurrently must not share a profile directory and
// must both come up without blocking on each other.
func TestConcurrentSessionsAreIsolated(t *testing.T) {
	// The harness establishes that a browser is available at all; the two
	// extra sessions below are then acquired in parallel simulating two
	// workers.
	h := helpers.NewHarness(t)
	defer h.TearDown()
	assert.Equal(t, browser.KindChrome, h.Session.Kind)

	sessions := make([]*browser.Session, 2)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range sessions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessions[i], errs[i] = browser.Acquire(browser.KindChrome, h.Cfg, h.Rep)
		}(i)
	}
	wg.Wait()

	for i := range sessions {
		require.NoError(t, errs[i], "concurrent acquisition %d failed", i)
		defer sessions[i].Close()
	}

	assert.NotEqual(t, sessions[0].ProfileDir, sessions[1].ProfileDir,
		"concurrent sessions must have distinct profile directories")
	assert.NotEqual(t, h.Session.ProfileDir, sessions[0].ProfileDir)
	assert.NotEqual(t, h.Session.ProfileDir, sessions[1].ProfileDir)
}
