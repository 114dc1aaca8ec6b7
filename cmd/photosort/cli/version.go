package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCommand prints the version string already attached to the root
// command, as a standalone subcommand for scripts that don't want to parse
// --version's flag output.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the photosort version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(cmd.Root().Version)
			return nil
		},
	}
}
