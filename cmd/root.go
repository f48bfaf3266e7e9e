package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the kubedeck backend.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "kubedeck",
	Short: "MCP backend for Kubernetes cluster inspection",
	Long: `kubedeck is a Model Context Protocol (MCP) server that backs the kubedeck
desktop UI. It exposes tools for inspecting and operating Kubernetes
clusters: resource access, workload operations, pod logs and events,
kubeconfig context switching, and live resource watches streamed to the
UI as notifications.

When run without subcommands, it starts the MCP server (equivalent to 'kubedeck serve').`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application.
// It initializes and executes the root command, which in turn handles subcommands and flags.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "kubedeck version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
	rootCmd.AddCommand(newServeCmd())
}
