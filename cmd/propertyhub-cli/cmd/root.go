package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0" // set at build time with -ldflags "-X .../cmd.version=..."

// NewRootCmd builds the command tree. Each call returns fresh flag state.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "propertyhub-cli",
		Short: "PropertyHub operations tool",
		Long: `propertyhub-cli inspects the notification topics the site emits and
checks a deployment's configuration before the server is started.

Use "propertyhub-cli [command] --help" for more information about a command.`,
		SilenceUsage: true,
	}

	root.AddCommand(newTopicsCmd(), newConfigCmd(), newVersionCmd())
	return root
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of propertyhub-cli",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "propertyhub-cli v%s\n", version)
		},
	}
}
