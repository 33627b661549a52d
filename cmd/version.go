package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Long:  "Displays the snipcheck build version, the Go version it was built with and the configured library.",
		Run: func(cmd *cobra.Command, _ []string) {
			if library := viper.GetString(libraryNameKey); library != "" {
				defer cmd.Println("library\t", library)
			}

			info, ok := debug.ReadBuildInfo()
			if !ok || info.Main.Version == "" {
				cmd.Println("version: unknown")
				return
			}

			// The type checker is compiled in, so its language support follows
			// the toolchain version.
			cmd.Println("snipcheck version\t", info.Main.Version)
			cmd.Println("go version\t", info.GoVersion)
		},
	}
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
