package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir, which requires Go 1.24; this toolchain is older.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Contains(t, cfg.BaseURL, "orangehrmlive.com")
	assert.Equal(t, "chrome", cfg.Browser)
	assert.True(t, cfg.Headless)
	assert.Equal(t, 10*time.Second, cfg.ImplicitWait)
	assert.Equal(t, 30*time.Second, cfg.PageLoadTimeout)
	assert.Equal(t, 1920, cfg.WindowWidth)
	assert.Equal(t, 1080, cfg.WindowHeight)
	assert.Equal(t, "test-results/screenshots", cfg.ScreenshotDir)
	assert.NotEmpty(t, cfg.ProfileDirRoot)
	assert.NotEmpty(t, cfg.WorkerID)
}

func TestLoadEnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("E2E_BASE_URL", "http://localhost:9000/login")
	t.Setenv("E2E_BROWSER", "firefox")
	t.Setenv("E2E_HEADLESS", "false")
	t.Setenv("E2E_IMPLICIT_WAIT", "5s")
	t.Setenv("E2E_WORKER_ID", "gw3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/login", cfg.BaseURL)
	assert.Equal(t, "firefox", cfg.Browser)
	assert.False(t, cfg.Headless)
	assert.Equal(t, 5*time.Second, cfg.ImplicitWait)
	assert.Equal(t, "gw3", cfg.WorkerID)
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "base_url: http://staging.example.com/login\nwindow_width: 1280\nwindow_height: 720\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "e2e.yaml"), []byte(yaml), 0o644))
	chdir(t, dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://staging.example.com/login", cfg.BaseURL)
	assert.Equal(t, 1280, cfg.WindowWidth)
	assert.Equal(t, 720, cfg.WindowHeight)
	// Unset keys keep their defaults.
	assert.Equal(t, "chrome", cfg.Browser)
}

func TestDotEnvDoesNotOverrideExisting(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("E2E_TEST_SENTINEL=from_dotenv\n# comment\nE2E_TEST_OTHER='quoted'\n"), 0o644))
	chdir(t, dir)
	t.Setenv("E2E_TEST_SENTINEL", "from_env")
	t.Setenv("E2E_TEST_OTHER", "")

	loadDotEnv()

	assert.Equal(t, "from_env", os.Getenv("E2E_TEST_SENTINEL"))
	assert.Equal(t, "quoted", os.Getenv("E2E_TEST_OTHER"))
}

func TestCIDetection(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CI", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.CI)

	t.Setenv("CI", "false")
	cfg, err = Load()
	require.NoError(t, err)
	assert.False(t, cfg.CI)
}
