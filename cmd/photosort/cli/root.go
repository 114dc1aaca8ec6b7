package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// VersionInfo carries the build-time version/commit strings main.go embeds
// via -ldflags, threaded through to the root command's --version output.
type VersionInfo struct {
	Version string
	Commit  string
}

func NewRootCommand(info VersionInfo) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:           "photosort",
		Short:         "Photosort Catalog Pipeline",
		Long:          "A cataloging pipeline that scans a photo archive, resolves per-file dates, extracts metadata, and plans a deterministic file-placement layout, without ever moving or deleting a source file.",
		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(path); err != nil {
				return err
			}
			if cmd.Flags().Changed("metrics-addr") {
				viper.Set("metrics.enabled", true)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&path, "config", "", "config file (default is ./config.yaml)")
	cmd.PersistentFlags().Bool("no-color", false, "Disables colored command output")
	cmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("metrics-addr", "", "serve prometheus metrics at this address for the duration of the command")

	viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.no_color", cmd.PersistentFlags().Lookup("no-color"))
	viper.BindPFlag("metrics.listen_addr", cmd.PersistentFlags().Lookup("metrics-addr"))

	cmd.Version = fmt.Sprintf("%s.%s", info.Version, info.Commit)

	return cmd
}
