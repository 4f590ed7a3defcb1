package coreaccounts

import "github.com/tadash10/wasp/wasmtypes"

// ImmutableBalanceResults holds the assets of balance and totalAssets.
type ImmutableBalanceResults struct {
	proxy wasmtypes.Proxy
}

func NewImmutableBalanceResults(proxy wasmtypes.Proxy) ImmutableBalanceResults {
	return ImmutableBalanceResults{proxy: proxy}
}

func (s ImmutableBalanceResults) Balance() wasmtypes.ScImmutable[wasmtypes.ScAssets] {
	return wasmtypes.NewScImmutable(s.proxy.Root(ResultBalance), wasmtypes.AssetsCodec)
}

type MutableBalanceResults struct {
	proxy wasmtypes.Proxy
}

func NewMutableBalanceResults(proxy wasmtypes.Proxy) MutableBalanceResults {
	return MutableBalanceResults{proxy: proxy}
}

func (s MutableBalanceResults) Balance() wasmtypes.ScMutable[wasmtypes.ScAssets] {
	return wasmtypes.NewScMutable(s.proxy.Root(ResultBalance), wasmtypes.AssetsCodec)
}

// ImmutableAmountResults holds the single token amount of
// balanceBaseToken and balanceNativeToken.
type ImmutableAmountResults struct {
	proxy wasmtypes.Proxy
}

func NewImmutableAmountResults(proxy wasmtypes.Proxy) ImmutableAmountResults {
	return ImmutableAmountResults{proxy: proxy}
}

func (s ImmutableAmountResults) Amount() wasmtypes.ScImmutable[uint64] {
	return wasmtypes.NewScImmutable(s.proxy.Root(ResultAmount), wasmtypes.Uint64Codec)
}

type MutableAmountResults struct {
	proxy wasmtypes.Proxy
}

func NewMutableAmountResults(proxy wasmtypes.Proxy) MutableAmountResults {
	return MutableAmountResults{proxy: proxy}
}

func (s MutableAmountResults) Amount() wasmtypes.ScMutable[uint64] {
	return wasmtypes.NewScMutable(s.proxy.Root(ResultAmount), wasmtypes.Uint64Codec)
}

type ImmutableAccountsResults struct {
	proxy wasmtypes.Proxy
}

func NewImmutableAccountsResults(proxy wasmtypes.Proxy) ImmutableAccountsResults {
	return ImmutableAccountsResults{proxy: proxy}
}

// AllAccounts holds every agent that owns an account.
func (s ImmutableAccountsResults) AllAccounts() wasmtypes.ScImmutableMap[wasmtypes.ScAgentID, bool] {
	return wasmtypes.NewScImmutableMap(s.proxy, wasmtypes.AgentIDKey, wasmtypes.BoolCodec)
}

type MutableAccountsResults struct {
	proxy wasmtypes.Proxy
}

func NewMutableAccountsResults(proxy wasmtypes.Proxy) MutableAccountsResults {
	return MutableAccountsResults{proxy: proxy}
}

func (s MutableAccountsResults) AllAccounts() wasmtypes.ScMutableMap[wasmtypes.ScAgentID, bool] {
	return wasmtypes.NewScMutableMap(s.proxy, wasmtypes.AgentIDKey, wasmtypes.BoolCodec)
}

type ImmutableGetAccountNonceResults struct {
	proxy wasmtypes.Proxy
}

func NewImmutableGetAccountNonceResults(proxy wasmtypes.Proxy) ImmutableGetAccountNonceResults {
	return ImmutableGetAccountNonceResults{proxy: proxy}
}

func (s ImmutableGetAccountNonceResults) AccountNonce() wasmtypes.ScImmutable[uint64] {
	return wasmtypes.NewScImmutable(s.proxy.Root(ResultAccountNonce), wasmtypes.Uint64Codec)
}

type MutableGetAccountNonceResults struct {
	proxy wasmtypes.Proxy
}

func NewMutableGetAccountNonceResults(proxy wasmtypes.Proxy) MutableGetAccountNonceResults {
	return MutableGetAccountNonceResults{proxy: proxy}
}

func (s MutableGetAccountNonceResults) AccountNonce() wasmtypes.ScMutable[uint64] {
	return wasmtypes.NewScMutable(s.proxy.Root(ResultAccountNonce), wasmtypes.Uint64Codec)
}
