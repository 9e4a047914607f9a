package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X main.Version=..." at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
	GitURL    = "unknown"
	BuildDate = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information and exit",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "farmer-admin version %s\n", Version)
			fmt.Fprintf(out, "Git Commit: %s\n", GitCommit)
			fmt.Fprintf(out, "Git URL: %s\n", GitURL)
			fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
		},
	}
}
