package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

// githubRepoSlug is the GitHub repository releases are published under.
const githubRepoSlug = "kubedeck/kubedeck"

// newSelfUpdateCmd creates the Cobra command for updating the binary in place.
func newSelfUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "self-update",
		Short: "Update kubedeck to the latest version",
		Long: `Update kubedeck to the latest version available on GitHub.

The command checks the GitHub releases of the kubedeck repository, and
when a newer release exists it downloads the matching asset and replaces
the running binary in place.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelfUpdate(cmd, rootCmd.Version)
		},
	}
}

// runSelfUpdate checks for a newer release and replaces the binary.
// Development builds carry no comparable version, so they refuse to update.
func runSelfUpdate(cmd *cobra.Command, version string) error {
	if version == "" || version == "dev" {
		return fmt.Errorf("cannot self-update a development version (%q), download a release build first", version)
	}

	ctx := context.Background()

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(githubRepoSlug))
	if err != nil {
		return fmt.Errorf("failed to detect the latest version: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s", githubRepoSlug)
	}

	if latest.LessOrEqual(version) {
		fmt.Fprintf(cmd.OutOrStdout(), "Current version (%s) is the latest\n", version)
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updating from %s to %s...\n", version, latest.Version())
	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Successfully updated to version %s\n", latest.Version())
	return nil
}
