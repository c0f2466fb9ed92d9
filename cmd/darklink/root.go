package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for darklink.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "darklink",
		Short: "Find hidden spam keywords and dark links in your web pages",
		Long: `darklink audits web pages for injected spam content ("dark links").

Each page is fetched as a desktop and as a mobile browser, because injected
content is often shown to only one of them. The page text is decoded
(URL escapes, HTML entities, hex escapes, base64) until it stops changing,
and then searched for the keywords of a rule list. Links hidden with CSS
are reported as well.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}
