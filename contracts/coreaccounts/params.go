package coreaccounts

import "github.com/tadash10/wasp/wasmtypes"

// ImmutableAgentParams is shared by every entry point taking one agent id:
// transferAllowanceTo and the per-account views.
type ImmutableAgentParams struct {
	proxy wasmtypes.Proxy
}

func NewImmutableAgentParams(proxy wasmtypes.Proxy) ImmutableAgentParams {
	return ImmutableAgentParams{proxy: proxy}
}

func (s ImmutableAgentParams) AgentID() wasmtypes.ScImmutable[wasmtypes.ScAgentID] {
	return wasmtypes.NewScImmutable(s.proxy.Root(ParamAgentID), wasmtypes.AgentIDCodec)
}

type MutableAgentParams struct {
	proxy wasmtypes.Proxy
}

func NewMutableAgentParams(proxy wasmtypes.Proxy) MutableAgentParams {
	return MutableAgentParams{proxy: proxy}
}

func (s MutableAgentParams) AgentID() wasmtypes.ScMutable[wasmtypes.ScAgentID] {
	return wasmtypes.NewScMutable(s.proxy.Root(ParamAgentID), wasmtypes.AgentIDCodec)
}

type ImmutableBalanceNativeTokenParams struct {
	proxy wasmtypes.Proxy
}

func NewImmutableBalanceNativeTokenParams(proxy wasmtypes.Proxy) ImmutableBalanceNativeTokenParams {
	return ImmutableBalanceNativeTokenParams{proxy: proxy}
}

func (s ImmutableBalanceNativeTokenParams) AgentID() wasmtypes.ScImmutable[wasmtypes.ScAgentID] {
	return wasmtypes.NewScImmutable(s.proxy.Root(ParamAgentID), wasmtypes.AgentIDCodec)
}

func (s ImmutableBalanceNativeTokenParams) TokenID() wasmtypes.ScImmutable[wasmtypes.ScTokenID] {
	return wasmtypes.NewScImmutable(s.proxy.Root(ParamTokenID), wasmtypes.TokenIDCodec)
}

type MutableBalanceNativeTokenParams struct {
	proxy wasmtypes.Proxy
}

func NewMutableBalanceNativeTokenParams(proxy wasmtypes.Proxy) MutableBalanceNativeTokenParams {
	return MutableBalanceNativeTokenParams{proxy: proxy}
}

func (s MutableBalanceNativeTokenParams) AgentID() wasmtypes.ScMutable[wasmtypes.ScAgentID] {
	return wasmtypes.NewScMutable(s.proxy.Root(ParamAgentID), wasmtypes.AgentIDCodec)
}

func (s MutableBalanceNativeTokenParams) TokenID() wasmtypes.ScMutable[wasmtypes.ScTokenID] {
	return wasmtypes.NewScMutable(s.proxy.Root(ParamTokenID), wasmtypes.TokenIDCodec)
}
