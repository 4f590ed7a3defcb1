package server

import (
	"errors"
	"fmt"

	"github.com/tadash10/wasp/kv"
	"github.com/tadash10/wasp/wasmrequests"
	"github.com/tadash10/wasp/wasmtypes"
)

// The root contract keeps the registry of deployed contracts.
const (
	RootName        = "root"
	RootDescription = "Contract registry"

	FuncDeployContract    = "deployContract"
	FuncInit              = "init"
	ViewFindContract      = "findContract"
	ViewGetContractRecord = "getContractRecords"

	ParamProgramHash = "ph"
	ParamName        = "nm"
	ParamDescription = "ds"
	ParamHname       = "hn"

	ResultContractFound    = "cf"
	ResultContractRecData  = "dt"
	ResultContractRegistry = "r"

	StateContractRegistry = "r"
)

var (
	HRoot           = wasmtypes.NewScHname(RootName)
	HInit           = wasmtypes.NewScHname(FuncInit)
	HDeployContract = wasmtypes.NewScHname(FuncDeployContract)
)

var (
	// ErrContractExists is returned when deploying under a name that is
	// already taken.
	ErrContractExists = errors.New("server: contract already deployed")

	// ErrUnknownProgram is returned when deploying a program hash that was
	// never registered.
	ErrUnknownProgram = errors.New("server: unknown program")
)

// ContractRecord is the registry entry of a deployed contract.
type ContractRecord struct {
	Description string
	Name        string
	ProgHash    wasmtypes.ScHash
}

func ContractRecordEncode(enc *wasmtypes.WasmEncoder, r ContractRecord) {
	wasmtypes.StringEncode(enc, r.Description)
	wasmtypes.StringEncode(enc, r.Name)
	wasmtypes.HashEncode(enc, r.ProgHash)
}

func ContractRecordDecode(dec *wasmtypes.WasmDecoder) ContractRecord {
	return ContractRecord{
		Description: wasmtypes.StringDecode(dec),
		Name:        wasmtypes.StringDecode(dec),
		ProgHash:    wasmtypes.HashDecode(dec),
	}
}

var ContractRecordCodec = wasmtypes.Codec[ContractRecord]{
	Encode:   ContractRecordEncode,
	Decode:   ContractRecordDecode,
	Required: true,
}

func registryMap(root wasmtypes.Proxy) wasmtypes.ScMutableMap[wasmtypes.ScHname, ContractRecord] {
	return wasmtypes.NewScMutableMap(root.Root(StateContractRegistry), wasmtypes.HnameKey, ContractRecordCodec)
}

func (s *Server) rootContract() Contract {
	return Contract{
		Name:        RootName,
		Description: RootDescription,
		Funcs: map[string]FuncHandler{
			FuncDeployContract: s.funcDeployContract,
		},
		Views: map[string]ViewHandler{
			ViewFindContract:      viewFindContract,
			ViewGetContractRecord: viewGetContractRecords,
		},
	}
}

// funcDeployContract deploys a registered program. Parameters other than
// the program hash, name and description are handed to the program's init.
func (s *Server) funcDeployContract(ctx *FuncContext) error {
	params := ctx.Params()
	progHash, err := wasmtypes.NewScImmutable(params.Root(ParamProgramHash), wasmtypes.HashCodec).Value()
	if err != nil {
		return err
	}
	name, err := wasmtypes.NewScImmutable(params.Root(ParamName), wasmtypes.StringCodec).Value()
	if err != nil {
		return err
	}
	if err := ctx.Require(name != "", "missing contract name"); err != nil {
		return err
	}
	desc, err := wasmtypes.NewScImmutable(params.Root(ParamDescription), wasmtypes.StringCodec).Value()
	if err != nil {
		return err
	}
	initParams := ctx.params.Clone()
	for _, key := range []string{ParamProgramHash, ParamName, ParamDescription} {
		delete(initParams, key)
	}
	_, err = s.deploy(ctx, wasmrequests.DeployRequest{
		Description: desc,
		Name:        name,
		Params:      initParams.Bytes(),
		ProgHash:    progHash,
	})
	return err
}

// deploy records the contract in the root registry of the running request
// and runs its init func. The contract becomes callable once the request
// commits.
func (s *Server) deploy(ctx *FuncContext, req wasmrequests.DeployRequest) (wasmtypes.ScHname, error) {
	s.mu.Lock()
	prog, ok := s.programs[req.ProgHash]
	s.mu.Unlock()
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownProgram, req.ProgHash)
	}
	params, err := decodeParams(req.Params)
	if err != nil {
		return 0, fmt.Errorf("init %w", err)
	}

	hname := wasmtypes.NewScHname(req.Name)
	registry := registryMap(wasmtypes.NewProxy(kv.NewPrefixed(ctx.tx.state, HRoot.Bytes())))
	exists, err := registry.GetElem(hname).Exists()
	if err != nil {
		return 0, err
	}
	if exists || s.isPendingDeploy(ctx.tx, hname) {
		return 0, fmt.Errorf("%w: %s", ErrContractExists, req.Name)
	}

	record := ContractRecord{Description: req.Description, Name: req.Name, ProgHash: req.ProgHash}
	if record.Description == "" {
		record.Description = prog.Description
	}
	if err := registry.GetElem(hname).SetValue(record); err != nil {
		return 0, err
	}
	d := instantiate(record, prog)
	ctx.tx.deploys = append(ctx.tx.deploys, d)

	if init, ok := d.funcs[HInit]; ok {
		initCtx := &FuncContext{
			ctx:      ctx.ctx,
			srv:      s,
			tx:       ctx.tx,
			contract: hname,
			function: HInit,
			params:   params,
			results:  kv.NewDict(),
			caller:   ctx.AccountID(),
		}
		if err := init(initCtx); err != nil {
			return 0, fmt.Errorf("init %s: %w", req.Name, err)
		}
	}
	return hname, nil
}

func (s *Server) isPendingDeploy(tx *execution, hname wasmtypes.ScHname) bool {
	for _, d := range tx.deploys {
		if d.hname == hname {
			return true
		}
	}
	return false
}

func viewFindContract(ctx *ViewContext) error {
	hname, err := wasmtypes.NewScImmutable(ctx.Params().Root(ParamHname), wasmtypes.HnameCodec).Value()
	if err != nil {
		return err
	}
	record := registryMap(ctx.State()).Immutable().GetElem(hname)
	found, err := record.Exists()
	if err != nil {
		return err
	}
	results := ctx.Results()
	if err := wasmtypes.NewScMutable(results.Root(ResultContractFound), wasmtypes.BoolCodec).SetValue(found); err != nil {
		return err
	}
	if !found {
		return nil
	}
	r, err := record.Value()
	if err != nil {
		return err
	}
	return wasmtypes.NewScMutable(results.Root(ResultContractRecData), ContractRecordCodec).SetValue(r)
}

func viewGetContractRecords(ctx *ViewContext) error {
	registry := registryMap(ctx.State()).Immutable()
	hnames, err := registry.Keys()
	if err != nil {
		return err
	}
	out := registryMap(ctx.Results())
	for _, hname := range hnames {
		r, err := registry.GetElem(hname).Value()
		if err != nil {
			return err
		}
		if err := out.GetElem(hname).SetValue(r); err != nil {
			return err
		}
	}
	return nil
}
