package coreaccounts

import "github.com/tadash10/wasp/wasmtypes"

type ImmutableLedgerState struct {
	proxy wasmtypes.Proxy
}

func NewImmutableLedgerState(proxy wasmtypes.Proxy) ImmutableLedgerState {
	return ImmutableLedgerState{proxy: proxy}
}

// Accounts maps each agent to the assets it owns on the chain.
func (s ImmutableLedgerState) Accounts() wasmtypes.ScImmutableMap[wasmtypes.ScAgentID, wasmtypes.ScAssets] {
	return wasmtypes.NewScImmutableMap(s.proxy.Root(StateAccounts), wasmtypes.AgentIDKey, wasmtypes.AssetsCodec)
}

func (s ImmutableLedgerState) Nonces() wasmtypes.ScImmutableMap[wasmtypes.ScAgentID, uint64] {
	return wasmtypes.NewScImmutableMap(s.proxy.Root(StateNonces), wasmtypes.AgentIDKey, wasmtypes.Uint64Codec)
}

// TotalAssets is the sum of every account.
func (s ImmutableLedgerState) TotalAssets() wasmtypes.ScImmutable[wasmtypes.ScAssets] {
	return wasmtypes.NewScImmutable(s.proxy.Root(StateTotalAssets), wasmtypes.AssetsCodec)
}

type MutableLedgerState struct {
	proxy wasmtypes.Proxy
}

func NewMutableLedgerState(proxy wasmtypes.Proxy) MutableLedgerState {
	return MutableLedgerState{proxy: proxy}
}

func (s MutableLedgerState) Accounts() wasmtypes.ScMutableMap[wasmtypes.ScAgentID, wasmtypes.ScAssets] {
	return wasmtypes.NewScMutableMap(s.proxy.Root(StateAccounts), wasmtypes.AgentIDKey, wasmtypes.AssetsCodec)
}

func (s MutableLedgerState) Nonces() wasmtypes.ScMutableMap[wasmtypes.ScAgentID, uint64] {
	return wasmtypes.NewScMutableMap(s.proxy.Root(StateNonces), wasmtypes.AgentIDKey, wasmtypes.Uint64Codec)
}

func (s MutableLedgerState) TotalAssets() wasmtypes.ScMutable[wasmtypes.ScAssets] {
	return wasmtypes.NewScMutable(s.proxy.Root(StateTotalAssets), wasmtypes.AssetsCodec)
}

func (s MutableLedgerState) Immutable() ImmutableLedgerState {
	return ImmutableLedgerState{proxy: s.proxy}
}
