package cli

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/braid-labs/braid/internal/branding"
	"github.com/braid-labs/braid/internal/config"
	"github.com/braid-labs/braid/internal/updater"
	"github.com/spf13/cobra"
)

var (
	selfUpdateCheck   bool
	selfUpdateForce   bool
	selfUpdateVersion string
)

func init() {
	selfUpdateCmd.Flags().BoolVar(&selfUpdateCheck, "check", false, "Only check for updates, don't install")
	selfUpdateCmd.Flags().BoolVar(&selfUpdateForce, "force", false, "Force update even if already on latest version")
	selfUpdateCmd.Flags().StringVar(&selfUpdateVersion, "version", "", "Install a specific version (e.g., 1.2.0)")

	rootCmd.AddCommand(selfUpdateCmd)
}

var selfUpdateCmd = &cobra.Command{
	Use:     "self-update",
	Aliases: []string{"update"},
	Short:   "Update " + branding.CLIName() + " to the latest version",
	Long: `Downloads and installs the latest version of ` + branding.CLIName() + ` from GitHub
releases or a configured release mirror.

  braid self-update                # update to latest
  braid self-update --check        # check only
  braid self-update --version 1.2.0  # install specific version`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Resolve an alternate release API from config or env var.
		config.Load()
		apiBase := config.Get("release_api")
		if envBase := os.Getenv(branding.EnvVar("RELEASE_API")); envBase != "" {
			apiBase = envBase
		}

		var opts []updater.Option
		if apiBase != "" {
			opts = append(opts, updater.WithAPIBase(apiBase))
		}

		u := updater.New(buildVersion, opts...)

		// Fetch release.
		var release *updater.Release
		var err error
		if selfUpdateVersion != "" {
			fmt.Fprintf(os.Stderr, "Checking for version %s...\n", selfUpdateVersion)
			release, err = u.CheckSpecificVersion(selfUpdateVersion)
		} else {
			fmt.Fprintln(os.Stderr, "Checking for updates...")
			release, err = u.CheckLatestVersion()
		}
		if err != nil {
			return fmt.Errorf("checking for updates: %w", err)
		}

		// Compare versions.
		available, err := updater.IsUpdateAvailable(buildVersion, release.Version)
		if err != nil {
			// A "dev" build is always updateable.
			if buildVersion == "dev" {
				available = true
			} else {
				return fmt.Errorf("comparing versions: %w", err)
			}
		}

		if selfUpdateCheck {
			if available {
				fmt.Printf("Update available: %s -> %s\n", buildVersion, release.Version)
			} else {
				fmt.Printf("You are on the latest version (%s)\n", buildVersion)
			}
			return nil
		}

		if !available && !selfUpdateForce {
			fmt.Printf("You are on the latest version (%s)\n", buildVersion)
			return nil
		}

		// Download.
		fmt.Fprintf(os.Stderr, "Downloading %s %s for %s/%s...\n", branding.CLIName(), release.Version, runtime.GOOS, runtime.GOARCH)

		tmpDir, err := os.MkdirTemp("", branding.CLIName()+"-update-*")
		if err != nil {
			return fmt.Errorf("creating temp directory: %w", err)
		}
		defer os.RemoveAll(tmpDir)

		archivePath, err := u.DownloadAsset(release, tmpDir)
		if err != nil {
			return fmt.Errorf("downloading binary: %w", err)
		}

		// Verify checksum.
		fmt.Fprintln(os.Stderr, "Verifying checksum...")
		if err := u.VerifyChecksum(release, archivePath); err != nil {
			return fmt.Errorf("checksum verification failed: %w", err)
		}

		// Extract.
		binPath, err := updater.ExtractBinary(archivePath, tmpDir)
		if err != nil {
			return fmt.Errorf("extracting binary: %w", err)
		}

		// Replace.
		fmt.Fprintln(os.Stderr, "Installing...")
		currentBinary, err := os.Executable()
		if err != nil {
			return fmt.Errorf("finding current binary: %w", err)
		}

		if err := updater.ReplaceBinary(binPath, currentBinary); err != nil {
			return err
		}

		// Update cache so the banner quiets down immediately.
		cache := &updater.VersionCache{
			LatestVersion:   release.Version,
			CurrentVersion:  release.Version,
			CheckedAt:       time.Now(),
			UpdateAvailable: false,
		}
		_ = updater.SaveCache(config.Dir(), cache)

		fmt.Printf("Successfully updated to %s\n", release.Version)
		return nil
	},
}
