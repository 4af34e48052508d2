package commands

import (
	"github.com/spf13/cobra"
)

// Version is stamped at build time with -ldflags "-X nlpayroll/internal/commands.Version=...".
var Version = "dev"

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "nlpayroll",
		Short:   "Dutch payroll tax returns, leave and calendar calculations",
		Version: Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newXMLCommand())
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newHolidaysCommand())
	rootCmd.AddCommand(newTokenCommand())

	return rootCmd
}
