package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/orangeqa/hrm-e2e/internal/browser"
	"github.com/orangeqa/hrm-e2e/internal/config"
)

var (
	version = "dev"
	commit  = "none"
)

var rootCmd = &cobra.Command{
	Use:   "e2ectl",
	Short: "Utilities for the HRM login E2E suite",
	Long: `e2ectl inspects and prepares the environment the E2E suite runs in:
it shows the effective configuration, reports which driver-provisioning
strategy would be used, and pre-fetches browser bundles.`,
	Version: fmt.Sprintf("%s (commit: %s)", version, commit),
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Print the effective test configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "base_url\t%s\n", cfg.BaseURL)
		fmt.Fprintf(w, "browser\t%s\n", cfg.Browser)
		fmt.Fprintf(w, "headless\t%t\n", cfg.Headless)
		fmt.Fprintf(w, "implicit_wait\t%s\n", cfg.ImplicitWait)
		fmt.Fprintf(w, "page_load_timeout\t%s\n", cfg.PageLoadTimeout)
		fmt.Fprintf(w, "window\t%dx%d\n", cfg.WindowWidth, cfg.WindowHeight)
		fmt.Fprintf(w, "results_dir\t%s\n", cfg.ResultsDir)
		fmt.Fprintf(w, "screenshot_dir\t%s\n", cfg.ScreenshotDir)
		fmt.Fprintf(w, "profile_dir_root\t%s\n", cfg.ProfileDirRoot)
		fmt.Fprintf(w, "driver_dir\t%s\n", cfg.DriverDir)
		fmt.Fprintf(w, "credentials_file\t%s\n", cfg.CredentialsFile)
		fmt.Fprintf(w, "ci\t%t\n", cfg.CI)
		fmt.Fprintf(w, "worker_id\t%s\n", cfg.WorkerID)
		return w.Flush()
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Report how a browser session would be provisioned here",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if _, err := browser.ParseKind(cfg.Browser); err != nil {
			return err
		}
		probe := browser.DetectProbe(cfg)
		fmt.Fprintf(cmd.OutOrStdout(), "os: %s/%s\n", probe.OS, probe.Arch)
		fmt.Fprintf(cmd.OutOrStdout(), "ci: %t\n", probe.CI)
		fmt.Fprintf(cmd.OutOrStdout(), "browser: %s\n", cfg.Browser)
		fmt.Fprintf(cmd.OutOrStdout(), "strategy: %s\n", browser.StrategyName(probe))

		if bin := filepath.Join(probe.DriverDir, "node"); fileExists(bin) {
			fmt.Fprintf(cmd.OutOrStdout(), "local driver: %s (present)\n", bin)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "local driver: %s (absent)\n", bin)
		}
		return nil
	},
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Pre-fetch the driver and browser bundles for the configured kind",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		kind, err := browser.ParseKind(cfg.Browser)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "installing bundles for %s...\n", kind)
		if err := browser.InstallBrowsers(kind); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "done")
		return nil
	},
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func init() {
	rootCmd.AddCommand(envCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(installCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
