package coreblob

import (
	"github.com/tadash10/wasp"
	"github.com/tadash10/wasp/wasmclient"
	"github.com/tadash10/wasp/wasmtypes"
)

// Entry points of the blob contract.
var (
	StoreBlob = wasmclient.NewEntryPoint(FuncStoreBlob, nil,
		func(args *wasmclient.Arguments) MutableStoreBlobParams {
			return NewMutableStoreBlobParams(args.Proxy())
		},
		func(res *wasmclient.Results) ImmutableStoreBlobResults {
			return NewImmutableStoreBlobResults(res.Proxy())
		},
	)

	GetBlobField = wasmclient.NewEntryPoint(ViewGetBlobField, []string{ParamField, ParamHash},
		func(args *wasmclient.Arguments) MutableGetBlobFieldParams {
			return NewMutableGetBlobFieldParams(args.Proxy())
		},
		func(res *wasmclient.Results) ImmutableGetBlobFieldResults {
			return NewImmutableGetBlobFieldResults(res.Proxy())
		},
	)

	GetBlobInfo = wasmclient.NewEntryPoint(ViewGetBlobInfo, []string{ParamHash},
		func(args *wasmclient.Arguments) MutableGetBlobInfoParams {
			return NewMutableGetBlobInfoParams(args.Proxy())
		},
		func(res *wasmclient.Results) ImmutableGetBlobInfoResults {
			return NewImmutableGetBlobInfoResults(res.Proxy())
		},
	)

	ListBlobs = wasmclient.NewEntryPoint[struct{}](ViewListBlobs, nil, nil,
		func(res *wasmclient.Results) ImmutableListBlobsResults {
			return NewImmutableListBlobsResults(res.Proxy())
		},
	)
)

// Service is the client binding of the blob contract.
type Service struct {
	*wasmclient.Service
}

func NewService(host wasp.Host, chainID wasmtypes.ScChainID) *Service {
	return &Service{Service: wasmclient.NewService(host, chainID, ScName)}
}

func (s *Service) StoreBlob() *wasmclient.Func[MutableStoreBlobParams, ImmutableStoreBlobResults] {
	return wasmclient.NewFunc(s.Service, StoreBlob)
}

func (s *Service) GetBlobField() *wasmclient.View[MutableGetBlobFieldParams, ImmutableGetBlobFieldResults] {
	return wasmclient.NewView(s.Service, GetBlobField)
}

func (s *Service) GetBlobInfo() *wasmclient.View[MutableGetBlobInfoParams, ImmutableGetBlobInfoResults] {
	return wasmclient.NewView(s.Service, GetBlobInfo)
}

func (s *Service) ListBlobs() *wasmclient.View[struct{}, ImmutableListBlobsResults] {
	return wasmclient.NewView(s.Service, ListBlobs)
}
