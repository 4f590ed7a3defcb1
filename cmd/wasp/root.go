package main

import (
	"github.com/spf13/cobra"
)

// RootOptions holds the flags shared by the client commands.
type RootOptions struct {
	Addr    string
	ChainID string
	Sender  string
}

// NewRootCommand creates the root command of the wasp CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "wasp",
		Short: "Smart contract host and client",
		Long:  "Run the reference contract host, or post requests and call views on a running one.",
	}

	cmd.PersistentFlags().StringVar(&opts.Addr, "addr", "127.0.0.1:5550", "gRPC address of the host")
	cmd.PersistentFlags().StringVar(&opts.ChainID, "chain", "", "hex chain id (defaults to the zero chain)")
	cmd.PersistentFlags().StringVar(&opts.Sender, "sender", "", "agent id to post as, in address@hname form")

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewHnameCommand())
	cmd.AddCommand(NewCallCommand(opts))
	cmd.AddCommand(NewPostCommand(opts))

	return cmd
}
