package browser

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orangeqa/hrm-e2e/internal/config"
	"github.com/orangeqa/hrm-e2e/internal/report"
)

func testReporter(t *testing.T) *report.Reporter {
	t.Helper()
	rep, err := report.New(&config.TestConfig{
		ResultsDir: filepath.Join(t.TempDir(), "results"),
		Browser:    "chrome",
	})
	require.NoError(t, err)
	t.Cleanup(func() { rep.Close() })
	return rep
}

func TestParseKind(t *testing.T) {
	for _, name := range []string{"chrome", "firefox", "edge"} {
		k, err := ParseKind(name)
		require.NoError(t, err)
		assert.Equal(t, Kind(name), k)
	}

	_, err := ParseKind("safari")
	assert.Error(t, err)
}

func TestInstallTargets(t *testing.T) {
	assert.Equal(t, []string{"chromium"}, KindChrome.installTargets())
	assert.Equal(t, []string{"firefox"}, KindFirefox.installTargets())
	assert.Equal(t, []string{"msedge"}, KindEdge.installTargets())
}

func TestSelectStrategyFirstMatchWins(t *testing.T) {
	cases := []struct {
		name  string
		probe Probe
		want  string
	}{
		{"ci wins over everything", Probe{CI: true, OS: "linux", Arch: "arm64"}, "ci-managed"},
		{"constrained platform", Probe{OS: "linux", Arch: "arm64"}, "local-driver"},
		{"plain linux amd64", Probe{OS: "linux", Arch: "amd64"}, "default"},
		{"darwin arm64 has prebuilt drivers", Probe{OS: "darwin", Arch: "arm64"}, "default"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, selectStrategy(tc.probe).name)
		})
	}
}

func TestAcquireRejectsUnsupportedKind(t *testing.T) {
	rep := testReporter(t)
	cfg := &config.TestConfig{ProfileDirRoot: t.TempDir(), WorkerID: "gw0"}

	_, err := Acquire(Kind("netscape"), cfg, rep)
	require.Error(t, err)

	var perr *ProvisionError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "validate", perr.Stage)
	assert.Equal(t, Kind("netscape"), perr.Kind)
}

func TestValidateDriverBinary(t *testing.T) {
	t.Run("missing binary", func(t *testing.T) {
		err := validateDriverBinary(filepath.Join(t.TempDir(), "node"))
		assert.Error(t, err)
	})

	t.Run("directory is rejected", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "node"), 0o755))
		err := validateDriverBinary(filepath.Join(dir, "node"))
		assert.Error(t, err)
	})

	t.Run("permission bits repaired and version probe passes", func(t *testing.T) {
		bin := filepath.Join(t.TempDir(), "node")
		require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\necho v20.11.0\n"), 0o644))

		require.NoError(t, validateDriverBinary(bin))

		info, err := os.Stat(bin)
		require.NoError(t, err)
		assert.NotZero(t, info.Mode().Perm()&0o111, "execute bit should have been set")
	})

	t.Run("failing version probe", func(t *testing.T) {
		bin := filepath.Join(t.TempDir(), "node")
		require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\nexit 3\n"), 0o755))
		err := validateDriverBinary(bin)
		assert.Error(t, err)
	})
}

func TestNewProfileDirUnique(t *testing.T) {
	cfg := &config.TestConfig{ProfileDirRoot: t.TempDir(), WorkerID: "gw1"}

	a, err := newProfileDir(cfg)
	require.NoError(t, err)
	b, err := newProfileDir(cfg)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.DirExists(t, a)
	assert.DirExists(t, b)
	assert.Contains(t, filepath.Base(a), "gw1")
}

// Concurrent acquisitions must never share a profile directory and must not
// serialize on each other.
func TestNewProfileDirConcurrent(t *testing.T) {
	cfg := &config.TestConfig{ProfileDirRoot: t.TempDir(), WorkerID: "gw2"}

	const n = 32
	dirs := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			dir, err := newProfileDir(cfg)
			assert.NoError(t, err)
			dirs[i] = dir
		}(i)
	}
	wg.Wait()

	seen := make(map[string]struct{}, n)
	for _, d := range dirs {
		_, dup := seen[d]
		assert.False(t, dup, "duplicate profile dir %s", d)
		seen[d] = struct{}{}
	}
}

func TestProvisionErrorWrapping(t *testing.T) {
	base := errors.New("no driver release for this platform")
	err := &ProvisionError{Kind: KindChrome, Stage: "resolve-driver", Err: base}

	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), "chrome")
	assert.Contains(t, err.Error(), "resolve-driver")
}
