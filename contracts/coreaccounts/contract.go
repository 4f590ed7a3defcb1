package coreaccounts

import (
	"fmt"

	"github.com/tadash10/wasp/server"
	"github.com/tadash10/wasp/wasmrequests"
	"github.com/tadash10/wasp/wasmtypes"
)

// Contract returns the host implementation of the ledger contract.
//
// Every func first credits the request transfer to the caller's account
// and bumps the caller's nonce, so a failing func still leaves nothing
// behind once the request rolls back.
func Contract() server.Contract {
	return server.Contract{
		Name:        ScName,
		Description: ScDescription,
		Funcs: map[string]server.FuncHandler{
			FuncDeposit:             funcDeposit,
			FuncTransferAllowanceTo: funcTransferAllowanceTo,
			FuncWithdraw:            funcWithdraw,
		},
		Views: map[string]server.ViewHandler{
			ViewAccounts:           viewAccounts,
			ViewBalance:            viewBalance,
			ViewBalanceBaseToken:   viewBalanceBaseToken,
			ViewBalanceNativeToken: viewBalanceNativeToken,
			ViewGetAccountNonce:    viewGetAccountNonce,
			ViewTotalAssets:        viewTotalAssets,
		},
	}
}

type ledger struct {
	state MutableLedgerState
}

func (l ledger) credit(agent wasmtypes.ScAgentID, assets wasmtypes.ScAssets) error {
	if assets.IsEmpty() {
		return nil
	}
	account := l.state.Accounts().GetElem(agent)
	balance, err := account.Value()
	if err != nil {
		return err
	}
	if err := balance.Add(assets); err != nil {
		return fmt.Errorf("account %s: %w", agent, err)
	}
	if err := account.SetValue(balance); err != nil {
		return err
	}
	total, err := l.state.TotalAssets().Value()
	if err != nil {
		return err
	}
	if err := total.Add(assets); err != nil {
		return fmt.Errorf("total assets: %w", err)
	}
	return l.state.TotalAssets().SetValue(total)
}

func (l ledger) debit(agent wasmtypes.ScAgentID, assets wasmtypes.ScAssets) error {
	account := l.state.Accounts().GetElem(agent)
	balance, err := account.Value()
	if err != nil {
		return err
	}
	if err := balance.Sub(assets); err != nil {
		return fmt.Errorf("account %s: %w", agent, err)
	}
	if balance.IsEmpty() {
		err = account.Delete()
	} else {
		err = account.SetValue(balance)
	}
	if err != nil {
		return err
	}
	total, err := l.state.TotalAssets().Value()
	if err != nil {
		return err
	}
	if err := total.Sub(assets); err != nil {
		return fmt.Errorf("total assets: %w", err)
	}
	return l.state.TotalAssets().SetValue(total)
}

// open credits the request transfer to the caller and bumps its nonce.
func open(ctx *server.FuncContext) (ledger, error) {
	l := ledger{state: NewMutableLedgerState(ctx.State())}
	if err := l.credit(ctx.Caller(), ctx.Transfer()); err != nil {
		return l, err
	}
	nonce := l.state.Nonces().GetElem(ctx.Caller())
	n, err := nonce.Value()
	if err != nil {
		return l, err
	}
	return l, nonce.SetValue(n + 1)
}

func funcDeposit(ctx *server.FuncContext) error {
	_, err := open(ctx)
	return err
}

func funcTransferAllowanceTo(ctx *server.FuncContext) error {
	l, err := open(ctx)
	if err != nil {
		return err
	}
	target, err := NewImmutableAgentParams(ctx.Params()).AgentID().Value()
	if err != nil {
		return err
	}
	allowance := ctx.Allowance()
	if allowance.IsEmpty() {
		return nil
	}
	if err := l.debit(ctx.Caller(), allowance); err != nil {
		return err
	}
	return l.credit(target, allowance)
}

func funcWithdraw(ctx *server.FuncContext) error {
	l, err := open(ctx)
	if err != nil {
		return err
	}
	caller := ctx.Caller()
	if err := ctx.Require(caller.IsAddress(), "withdraw: caller %s is not an address", caller); err != nil {
		return err
	}
	allowance := ctx.Allowance()
	if err := ctx.Require(!allowance.IsEmpty(), "withdraw: empty allowance"); err != nil {
		return err
	}
	if err := l.debit(caller, allowance); err != nil {
		return err
	}
	ctx.Send(wasmrequests.SendRequest{Address: caller.Address, Transfer: allowance.Bytes()})
	return nil
}

func viewAccounts(ctx *server.ViewContext) error {
	agents, err := NewImmutableLedgerState(ctx.State()).Accounts().Keys()
	if err != nil {
		return err
	}
	out := NewMutableAccountsResults(ctx.Results()).AllAccounts()
	for _, agent := range agents {
		if err := out.GetElem(agent).SetValue(true); err != nil {
			return err
		}
	}
	return nil
}

func accountOf(ctx *server.ViewContext) (wasmtypes.ScAssets, error) {
	agent, err := NewImmutableAgentParams(ctx.Params()).AgentID().Value()
	if err != nil {
		return wasmtypes.ScAssets{}, err
	}
	return NewImmutableLedgerState(ctx.State()).Accounts().GetElem(agent).Value()
}

func viewBalance(ctx *server.ViewContext) error {
	balance, err := accountOf(ctx)
	if err != nil {
		return err
	}
	return NewMutableBalanceResults(ctx.Results()).Balance().SetValue(balance)
}

func viewBalanceBaseToken(ctx *server.ViewContext) error {
	balance, err := accountOf(ctx)
	if err != nil {
		return err
	}
	return NewMutableAmountResults(ctx.Results()).Amount().SetValue(balance.BaseTokens)
}

func viewBalanceNativeToken(ctx *server.ViewContext) error {
	token, err := NewImmutableBalanceNativeTokenParams(ctx.Params()).TokenID().Value()
	if err != nil {
		return err
	}
	balance, err := accountOf(ctx)
	if err != nil {
		return err
	}
	return NewMutableAmountResults(ctx.Results()).Amount().SetValue(balance.Balance(token))
}

func viewGetAccountNonce(ctx *server.ViewContext) error {
	agent, err := NewImmutableAgentParams(ctx.Params()).AgentID().Value()
	if err != nil {
		return err
	}
	n, err := NewImmutableLedgerState(ctx.State()).Nonces().GetElem(agent).Value()
	if err != nil {
		return err
	}
	return NewMutableGetAccountNonceResults(ctx.Results()).AccountNonce().SetValue(n)
}

func viewTotalAssets(ctx *server.ViewContext) error {
	total, err := NewImmutableLedgerState(ctx.State()).TotalAssets().Value()
	if err != nil {
		return err
	}
	return NewMutableBalanceResults(ctx.Results()).Balance().SetValue(total)
}
