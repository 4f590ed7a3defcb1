package coreaccounts

import (
	"github.com/tadash10/wasp"
	"github.com/tadash10/wasp/wasmclient"
	"github.com/tadash10/wasp/wasmtypes"
)

func agentParams(args *wasmclient.Arguments) MutableAgentParams {
	return NewMutableAgentParams(args.Proxy())
}

func balanceResults(res *wasmclient.Results) ImmutableBalanceResults {
	return NewImmutableBalanceResults(res.Proxy())
}

func amountResults(res *wasmclient.Results) ImmutableAmountResults {
	return NewImmutableAmountResults(res.Proxy())
}

// Entry points of the ledger contract.
var (
	Deposit = wasmclient.NewEntryPoint[struct{}, struct{}](FuncDeposit, nil, nil, nil)

	TransferAllowanceTo = wasmclient.NewEntryPoint[MutableAgentParams, struct{}](
		FuncTransferAllowanceTo, []string{ParamAgentID}, agentParams, nil)

	Withdraw = wasmclient.NewEntryPoint[struct{}, struct{}](FuncWithdraw, nil, nil, nil)

	Accounts = wasmclient.NewEntryPoint[struct{}](ViewAccounts, nil, nil,
		func(res *wasmclient.Results) ImmutableAccountsResults {
			return NewImmutableAccountsResults(res.Proxy())
		},
	)

	Balance = wasmclient.NewEntryPoint(ViewBalance, []string{ParamAgentID}, agentParams, balanceResults)

	BalanceBaseToken = wasmclient.NewEntryPoint(ViewBalanceBaseToken, []string{ParamAgentID}, agentParams, amountResults)

	BalanceNativeToken = wasmclient.NewEntryPoint(ViewBalanceNativeToken, []string{ParamAgentID, ParamTokenID},
		func(args *wasmclient.Arguments) MutableBalanceNativeTokenParams {
			return NewMutableBalanceNativeTokenParams(args.Proxy())
		},
		amountResults,
	)

	GetAccountNonce = wasmclient.NewEntryPoint(ViewGetAccountNonce, []string{ParamAgentID}, agentParams,
		func(res *wasmclient.Results) ImmutableGetAccountNonceResults {
			return NewImmutableGetAccountNonceResults(res.Proxy())
		},
	)

	TotalAssets = wasmclient.NewEntryPoint[struct{}](ViewTotalAssets, nil, nil, balanceResults)
)

// Service is the client binding of the ledger contract.
type Service struct {
	*wasmclient.Service
}

func NewService(host wasp.Host, chainID wasmtypes.ScChainID) *Service {
	return &Service{Service: wasmclient.NewService(host, chainID, ScName)}
}

// Deposit credits the transfer to the sender's account.
func (s *Service) Deposit() *wasmclient.Func[struct{}, struct{}] {
	return wasmclient.NewFunc(s.Service, Deposit)
}

// TransferAllowanceTo moves the allowance from the sender's account to the
// account of the agent param.
func (s *Service) TransferAllowanceTo() *wasmclient.Func[MutableAgentParams, struct{}] {
	return wasmclient.NewFunc(s.Service, TransferAllowanceTo)
}

// Withdraw sends the allowance from the sender's account to its address.
func (s *Service) Withdraw() *wasmclient.Func[struct{}, struct{}] {
	return wasmclient.NewFunc(s.Service, Withdraw)
}

func (s *Service) Accounts() *wasmclient.View[struct{}, ImmutableAccountsResults] {
	return wasmclient.NewView(s.Service, Accounts)
}

func (s *Service) Balance() *wasmclient.View[MutableAgentParams, ImmutableBalanceResults] {
	return wasmclient.NewView(s.Service, Balance)
}

func (s *Service) BalanceBaseToken() *wasmclient.View[MutableAgentParams, ImmutableAmountResults] {
	return wasmclient.NewView(s.Service, BalanceBaseToken)
}

func (s *Service) BalanceNativeToken() *wasmclient.View[MutableBalanceNativeTokenParams, ImmutableAmountResults] {
	return wasmclient.NewView(s.Service, BalanceNativeToken)
}

func (s *Service) GetAccountNonce() *wasmclient.View[MutableAgentParams, ImmutableGetAccountNonceResults] {
	return wasmclient.NewView(s.Service, GetAccountNonce)
}

func (s *Service) TotalAssets() *wasmclient.View[struct{}, ImmutableBalanceResults] {
	return wasmclient.NewView(s.Service, TotalAssets)
}
