package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tadash10/wasp/wasmtypes"
)

// NewHnameCommand creates the hname command.
func NewHnameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hname <name>...",
		Short: "Print the hname of contract and function names",
		Example: `  wasp hname accounts deposit
  accounts 0x3c4b5e02
  deposit  0xbdc9102d`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			width := 0
			for _, name := range args {
				width = max(width, len(name))
			}
			for _, name := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%-*s 0x%s\n", width, name, wasmtypes.NewScHname(name))
			}
			return nil
		},
	}
}
