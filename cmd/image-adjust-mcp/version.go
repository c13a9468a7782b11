package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-adjust-mcp/internal/vision"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "image-adjust-mcp %s\n", Version)
		fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
		fmt.Fprintf(out, "  Backends:   %v\n", vision.Backends())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
