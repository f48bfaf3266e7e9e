package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newVersionCmd creates the Cobra command for displaying the application version.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of kubedeck",
		Long:  `All software has versions. This is kubedeck's.`,
		Run: func(cmd *cobra.Command, args []string) {
			// rootCmd.Version is injected by main at build time.
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "kubedeck version %s\n", rootCmd.Version)
		},
	}
}
