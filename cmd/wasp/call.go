package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	waspgrpc "github.com/tadash10/wasp/grpc"
	"github.com/tadash10/wasp/wasmrequests"
	"github.com/tadash10/wasp/wasmtypes"
)

// CallOptions holds the flags of the call and post commands.
type CallOptions struct {
	*RootOptions
	Params    []string
	Transfer  uint64
	Allowance uint64
	Delay     uint32
	Wait      bool
	Timeout   time.Duration
}

func (o *RootOptions) chain() (wasmtypes.ScChainID, error) {
	if o.ChainID == "" {
		return wasmtypes.ScChainID{}, nil
	}
	return wasmtypes.ChainIDFromString(o.ChainID)
}

func (o *RootOptions) dial(ctx context.Context) (*waspgrpc.Client, error) {
	var sender wasmtypes.ScAgentID
	if o.Sender != "" {
		var err error
		if sender, err = wasmtypes.AgentIDFromString(o.Sender); err != nil {
			return nil, fmt.Errorf("sender: %w", err)
		}
	}
	return waspgrpc.Dial(ctx, o.Addr, sender, grpc.WithTransportCredentials(insecure.NewCredentials()))
}

func addCallFlags(cmd *cobra.Command, opts *CallOptions) {
	cmd.Flags().StringArrayVarP(&opts.Params, "param", "p", nil, "argument as key=type:value (repeatable)")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 30*time.Second, "overall deadline")
}

// NewCallCommand creates the call command.
func NewCallCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CallOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "call <contract> <view>",
		Short: "Call a view and print its results",
		Example: `  wasp call blob getBlobField -p hash=hash:0x... -p field=string:title
  wasp call accounts balance -p a=agentid:0x...@00000000`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return callView(cmd, opts, args[0], args[1])
		},
	}
	addCallFlags(cmd, opts)
	return cmd
}

func callView(cmd *cobra.Command, opts *CallOptions, contract, function string) error {
	req, err := buildCall(opts, contract, function)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
	defer cancel()
	client, err := opts.dial(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	results, err := client.CallView(ctx, req)
	if err != nil {
		return err
	}
	return printResults(cmd.OutOrStdout(), results)
}

func buildCall(opts *CallOptions, contract, function string) (wasmrequests.CallRequest, error) {
	var req wasmrequests.CallRequest
	var err error
	if req.Contract, err = resolveHname(contract); err != nil {
		return req, err
	}
	if req.Function, err = resolveHname(function); err != nil {
		return req, err
	}
	params, err := parseParams(opts.Params)
	if err != nil {
		return req, err
	}
	req.Params = params.Bytes()
	return req, nil
}

// NewPostCommand creates the post command.
func NewPostCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CallOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "post <contract> <function>",
		Short: "Post a request and print its id",
		Long: `Post a request to a contract function and print the request id.

With --wait the command blocks until the request is processed and prints
its outcome, events and results.`,
		Example:       `  wasp post accounts deposit --transfer 1000 --wait`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return postRequest(cmd, opts, args[0], args[1])
		},
	}
	addCallFlags(cmd, opts)
	cmd.Flags().Uint64Var(&opts.Transfer, "transfer", 0, "base tokens transferred with the request")
	cmd.Flags().Uint64Var(&opts.Allowance, "allowance", 0, "base tokens the function may take")
	cmd.Flags().Uint32Var(&opts.Delay, "delay", 0, "seconds before the request is processed")
	cmd.Flags().BoolVar(&opts.Wait, "wait", false, "wait for the receipt")
	return cmd
}

func postRequest(cmd *cobra.Command, opts *CallOptions, contract, function string) error {
	call, err := buildCall(opts, contract, function)
	if err != nil {
		return err
	}
	chain, err := opts.chain()
	if err != nil {
		return err
	}
	req := wasmrequests.PostRequest{
		Allowance: wasmtypes.NewScTransferBaseTokens(opts.Allowance).Bytes(),
		ChainID:   chain,
		Contract:  call.Contract,
		Delay:     opts.Delay,
		Function:  call.Function,
		Params:    call.Params,
		Transfer:  wasmtypes.NewScTransferBaseTokens(opts.Transfer).Bytes(),
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
	defer cancel()
	client, err := opts.dial(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	id, err := client.PostRequest(ctx, req)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "request: %s\n", id)
	if !opts.Wait {
		return nil
	}

	r, err := client.WaitRequest(ctx, id)
	if err != nil {
		return err
	}
	for _, e := range r.Events {
		fmt.Fprintf(out, "event: %s\n", e)
	}
	if err := r.Err(); err != nil {
		return err
	}
	return printResults(out, r.Results)
}
