// Package coreaccounts binds the chain account ledger: per-agent asset
// balances, deposits, withdrawals and transfers between accounts.
package coreaccounts

import "github.com/tadash10/wasp/wasmtypes"

const (
	ScName        = "accounts"
	ScDescription = "Chain account ledger contract"
	HScName       = wasmtypes.ScHname(0x3c4b5e02)
)

const (
	ParamAgentID = "a"
	ParamTokenID = "N"
)

const (
	ResultAccountNonce = "n"
	ResultAllAccounts  = "this"
	ResultAmount       = "A"
	ResultBalance      = "B"
)

const (
	StateAccounts    = "a"
	StateNonces      = "n"
	StateTotalAssets = "t"
)

const (
	FuncDeposit             = "deposit"
	FuncTransferAllowanceTo = "transferAllowanceTo"
	FuncWithdraw            = "withdraw"
	ViewAccounts            = "accounts"
	ViewBalance             = "balance"
	ViewBalanceBaseToken    = "balanceBaseToken"
	ViewBalanceNativeToken  = "balanceNativeToken"
	ViewGetAccountNonce     = "getAccountNonce"
	ViewTotalAssets         = "totalAssets"
)

const (
	HFuncDeposit             = wasmtypes.ScHname(0xbdc9102d)
	HFuncTransferAllowanceTo = wasmtypes.ScHname(0x23f4e3a1)
	HFuncWithdraw            = wasmtypes.ScHname(0x9dcc0f41)
	HViewAccounts            = wasmtypes.ScHname(0x3c4b5e02)
	HViewBalance             = wasmtypes.ScHname(0x84168cb4)
	HViewBalanceBaseToken    = wasmtypes.ScHname(0x4c8ccd0f)
	HViewBalanceNativeToken  = wasmtypes.ScHname(0x1fea3104)
	HViewGetAccountNonce     = wasmtypes.ScHname(0x529d7df9)
	HViewTotalAssets         = wasmtypes.ScHname(0xfab0f8d2)
)
