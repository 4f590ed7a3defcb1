// Package server is a reference host for native Go contracts.
//
// A Server owns one chain's state. Posted requests are queued and executed
// in posting order by ProcessPending or Run; every request executes against
// a buffered overlay of the state that is committed only when the request
// succeeds. Views run against committed state and never mutate it.
package server

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/tadash10/wasp"
	"github.com/tadash10/wasp/kv"
	"github.com/tadash10/wasp/wasmrequests"
	"github.com/tadash10/wasp/wasmtypes"
)

// Option configures a Server.
type Option func(*Server)

// WithStore sets the backing store. The default is an in-memory kv.Dict.
func WithStore(store wasmtypes.KVStore) Option {
	return func(s *Server) { s.store = store }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.log = l }
}

func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithClock sets the time source used for request timestamps and delays.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// Server executes requests for one chain.
type Server struct {
	chainID wasmtypes.ScChainID
	store   wasmtypes.KVStore
	log     *zap.Logger
	metrics *Metrics
	now     func() time.Time

	// stateMu serializes request execution against view calls.
	stateMu sync.RWMutex

	mu        sync.Mutex
	programs  map[wasmtypes.ScHash]Contract
	contracts map[wasmtypes.ScHname]*deployed
	queue     []*pending
	seq       uint64
	receipts  map[wasmtypes.ScRequestID]wasp.Receipt
	done      map[wasmtypes.ScRequestID]chan struct{}
	outbox    []wasmrequests.SendRequest

	wake chan struct{}
}

type pending struct {
	id        wasmtypes.ScRequestID
	sender    wasmtypes.ScAgentID
	req       wasmrequests.PostRequest
	notBefore time.Time
}

// New creates a server for chainID and installs the root contract. When
// the store already holds a registry, contracts recorded there become
// callable again once their programs are registered with RegisterProgram.
func New(chainID wasmtypes.ScChainID, opts ...Option) (*Server, error) {
	s := &Server{
		chainID:   chainID,
		programs:  make(map[wasmtypes.ScHash]Contract),
		contracts: make(map[wasmtypes.ScHname]*deployed),
		receipts:  make(map[wasmtypes.ScRequestID]wasp.Receipt),
		done:      make(map[wasmtypes.ScRequestID]chan struct{}),
		wake:      make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = kv.NewDict()
	}
	if s.log == nil {
		s.log = Logger()
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	if s.now == nil {
		s.now = time.Now
	}

	root := s.rootContract()
	record := ContractRecord{Description: RootDescription, Name: RootName, ProgHash: ProgramHash(RootName)}
	registry := registryMap(wasmtypes.NewProxy(kv.NewPrefixed(s.store, HRoot.Bytes())))
	if err := registry.GetElem(HRoot).SetValue(record); err != nil {
		return nil, fmt.Errorf("install root: %w", err)
	}
	s.contracts[HRoot] = instantiate(record, root)
	return s, nil
}

func (s *Server) ChainID() wasmtypes.ScChainID { return s.chainID }

// Store returns the backing store.
func (s *Server) Store() wasmtypes.KVStore { return s.store }

// ProgramHash derives the program hash of a native contract from its name.
func ProgramHash(name string) wasmtypes.ScHash {
	return blake2b.Sum256([]byte("program:" + name))
}

// RegisterProgram makes a contract program deployable under hash. Contracts
// already recorded in the registry with that program hash are revived.
func (s *Server) RegisterProgram(hash wasmtypes.ScHash, c Contract) error {
	registry := registryMap(wasmtypes.NewProxy(kv.NewPrefixed(s.store, HRoot.Bytes()))).Immutable()

	s.stateMu.RLock()
	revived, err := s.recordsOf(registry, hash, c)
	s.stateMu.RUnlock()
	if err != nil {
		return fmt.Errorf("register program %s: %w", c.Name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.programs[hash] = c
	for _, d := range revived {
		if _, ok := s.contracts[d.hname]; !ok {
			s.contracts[d.hname] = d
			s.log.Info("contract revived", zap.String("name", d.record.Name), zap.Stringer("hname", d.hname))
		}
	}
	return nil
}

func (s *Server) recordsOf(registry wasmtypes.ScImmutableMap[wasmtypes.ScHname, ContractRecord], hash wasmtypes.ScHash, c Contract) ([]*deployed, error) {
	hnames, err := registry.Keys()
	if errors.Is(err, wasmtypes.ErrNotIterable) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []*deployed
	for _, hname := range hnames {
		r, err := registry.GetElem(hname).Value()
		if err != nil {
			return nil, err
		}
		if r.ProgHash == hash {
			out = append(out, instantiate(r, c))
		}
	}
	return out, nil
}

// Deploy deploys a registered program outside of any posted request and
// runs its init func. Nothing is committed if init fails.
func (s *Server) Deploy(ctx context.Context, req wasmrequests.DeployRequest) (wasmtypes.ScHname, error) {
	var hname wasmtypes.ScHname
	p := &pending{
		sender: wasmtypes.NewScAgentID(s.chainID, HRoot),
		req: wasmrequests.PostRequest{
			ChainID:  s.chainID,
			Contract: HRoot,
			Function: HDeployContract,
		},
	}
	_, err := s.execute(ctx, p, func(fctx *FuncContext) error {
		var err error
		hname, err = s.deploy(fctx, req)
		return err
	})
	if err != nil {
		return 0, err
	}
	return hname, nil
}

// Register registers c as a program under ProgramHash(c.Name) and deploys
// it under its own name.
func (s *Server) Register(ctx context.Context, c Contract) (wasmtypes.ScHname, error) {
	hash := ProgramHash(c.Name)
	if err := s.RegisterProgram(hash, c); err != nil {
		return 0, err
	}
	return s.Deploy(ctx, wasmrequests.DeployRequest{Description: c.Description, Name: c.Name, ProgHash: hash})
}

func (s *Server) lookup(hname wasmtypes.ScHname) (*deployed, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.contracts[hname]
	return d, ok
}

// PostRequest queues req on behalf of sender and returns its id. The
// request executes no earlier than its delay.
func (s *Server) PostRequest(ctx context.Context, sender wasmtypes.ScAgentID, req wasmrequests.PostRequest) (wasmtypes.ScRequestID, error) {
	if err := ctx.Err(); err != nil {
		return wasmtypes.ScRequestID{}, err
	}
	if req.ChainID != s.chainID {
		return wasmtypes.ScRequestID{}, fmt.Errorf("%w: %s", wasp.ErrWrongChain, req.ChainID)
	}

	s.mu.Lock()
	s.seq++
	enc := wasmtypes.NewWasmEncoder()
	wasmtypes.ChainIDEncode(enc, s.chainID)
	wasmtypes.AgentIDEncode(enc, sender)
	wasmtypes.Uint64Encode(enc, s.seq)
	enc.FixedBytes(req.Bytes())
	id := wasmtypes.NewScRequestID(blake2b.Sum256(enc.Buf()), 0)

	p := &pending{id: id, sender: sender, req: req, notBefore: s.now()}
	if req.Delay > 0 {
		p.notBefore = p.notBefore.Add(time.Duration(req.Delay) * time.Second)
	}
	s.queue = append(s.queue, p)
	s.done[id] = make(chan struct{})
	queued := len(s.queue)
	s.mu.Unlock()

	s.metrics.posted.Inc()
	s.metrics.pending.Set(float64(queued))
	s.log.Debug("request posted",
		zap.Stringer("id", id),
		zap.Stringer("contract", req.Contract),
		zap.Stringer("function", req.Function),
	)
	select {
	case s.wake <- struct{}{}:
	default:
	}
	return id, nil
}

// Pending returns the number of queued requests.
func (s *Server) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// ProcessPending executes every queued request whose delay has passed, in
// posting order, and returns how many were executed. A failing request
// yields a failed receipt; only storage failures are returned as errors.
func (s *Server) ProcessPending(ctx context.Context) (int, error) {
	now := s.now()
	s.mu.Lock()
	var ready []*pending
	rest := s.queue[:0]
	for _, p := range s.queue {
		if p.notBefore.After(now) {
			rest = append(rest, p)
		} else {
			ready = append(ready, p)
		}
	}
	s.queue = rest
	s.mu.Unlock()

	for i, p := range ready {
		if err := ctx.Err(); err != nil {
			s.requeue(ready[i:])
			return i, err
		}
		if err := s.process(ctx, p); err != nil {
			s.requeue(ready[i:])
			return i, err
		}
	}
	s.metrics.pending.Set(float64(s.Pending()))
	return len(ready), nil
}

func (s *Server) requeue(ps []*pending) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(slices.Clone(ps), s.queue...)
}

func (s *Server) process(ctx context.Context, p *pending) error {
	start := time.Now()
	receipt := wasp.Receipt{RequestID: p.id, Contract: p.req.Contract, Function: p.req.Function}

	tx, err := s.execute(ctx, p, func(fctx *FuncContext) error {
		d, ok := s.lookup(p.req.Contract)
		if !ok {
			return fmt.Errorf("%w: %s", wasp.ErrUnknownContract, p.req.Contract)
		}
		h, ok := d.funcs[p.req.Function]
		if !ok {
			return fmt.Errorf("%w: %s", wasp.ErrUnknownFunction, p.req.Function)
		}
		return h(fctx)
	})
	var failed *executionError
	switch {
	case errors.As(err, &failed):
		receipt.Error = failed.err.Error()
	case err != nil:
		return err
	default:
		receipt.Results = tx.results.Bytes()
		receipt.Events = tx.events
	}
	s.metrics.observeExecuted(start, receipt.Err())

	s.mu.Lock()
	s.receipts[p.id] = receipt
	if ch, ok := s.done[p.id]; ok {
		close(ch)
		delete(s.done, p.id)
	}
	s.mu.Unlock()

	if receipt.Error != "" {
		s.log.Info("request failed", zap.Stringer("id", p.id), zap.String("error", receipt.Error))
	} else {
		s.log.Debug("request executed", zap.Stringer("id", p.id), zap.Int("events", len(receipt.Events)))
	}
	return nil
}

// executionError marks a failure of contract code, as opposed to a storage
// failure while committing.
type executionError struct {
	err error
}

func (e *executionError) Error() string { return e.err.Error() }
func (e *executionError) Unwrap() error { return e.err }

// executed is the outcome of a committed execution.
type executed struct {
	*execution
	results kv.Dict
}

// execute runs fn in a fresh FuncContext and commits its side effects when
// it succeeds. Contract failures are returned as *executionError.
func (s *Server) execute(ctx context.Context, p *pending, fn FuncHandler) (*executed, error) {
	params, err := decodeParams(p.req.Params)
	if err != nil {
		return nil, &executionError{err}
	}
	transfer, err := wasmtypes.NewScAssets(p.req.Transfer)
	if err != nil {
		return nil, &executionError{fmt.Errorf("transfer: %w", err)}
	}
	allowance, err := wasmtypes.NewScAssets(p.req.Allowance)
	if err != nil {
		return nil, &executionError{fmt.Errorf("allowance: %w", err)}
	}

	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	tx := &execution{
		id:        p.id,
		timestamp: uint64(s.now().UnixNano()),
		state:     kv.NewBuffered(s.store),
	}
	fctx := &FuncContext{
		ctx:       ctx,
		srv:       s,
		tx:        tx,
		contract:  p.req.Contract,
		function:  p.req.Function,
		params:    params,
		results:   kv.NewDict(),
		caller:    p.sender,
		transfer:  transfer,
		allowance: allowance,
	}
	if err := runFunc(fn, fctx); err != nil {
		tx.state.Discard()
		return nil, &executionError{err}
	}
	if err := tx.state.Commit(); err != nil {
		return nil, fmt.Errorf("commit request %s: %w", p.id, err)
	}

	s.mu.Lock()
	for _, d := range tx.deploys {
		s.contracts[d.hname] = d
		s.log.Info("contract deployed", zap.String("name", d.record.Name), zap.Stringer("hname", d.hname))
	}
	s.outbox = append(s.outbox, tx.sends...)
	s.mu.Unlock()
	return &executed{execution: tx, results: fctx.results}, nil
}

// decodeParams treats an empty buffer as an empty container.
func decodeParams(buf []byte) (kv.Dict, error) {
	if len(buf) == 0 {
		return kv.NewDict(), nil
	}
	params, err := kv.DictFromBytes(buf)
	if err != nil {
		return nil, fmt.Errorf("params: %w", err)
	}
	return params, nil
}

func runFunc(fn FuncHandler, ctx *FuncContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx)
}

func runView(fn ViewHandler, ctx *ViewContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx)
}

// Run processes pending requests until ctx is done, waking every interval
// and whenever a request is posted.
func (s *Server) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := s.ProcessPending(ctx); err != nil && ctx.Err() == nil {
			s.log.Error("process pending requests", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-s.wake:
		}
	}
}

// CallView executes a view against committed state and returns the encoded
// result container. A failing view returns a *wasp.RequestError.
func (s *Server) CallView(ctx context.Context, req wasmrequests.CallRequest) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf, err := s.callView(ctx, req)
	s.metrics.views.WithLabelValues(outcome(err)).Inc()
	return buf, err
}

func (s *Server) callView(ctx context.Context, req wasmrequests.CallRequest) ([]byte, error) {
	d, ok := s.lookup(req.Contract)
	if !ok {
		return nil, fmt.Errorf("%w: %s", wasp.ErrUnknownContract, req.Contract)
	}
	h, ok := d.views[req.Function]
	if !ok {
		return nil, fmt.Errorf("%w: %s", wasp.ErrUnknownFunction, req.Function)
	}
	params, err := decodeParams(req.Params)
	if err != nil {
		return nil, err
	}

	vctx := &ViewContext{
		ctx:      ctx,
		srv:      s,
		contract: req.Contract,
		function: req.Function,
		params:   params,
		results:  kv.NewDict(),
	}
	s.stateMu.RLock()
	err = runView(h, vctx)
	s.stateMu.RUnlock()
	if err != nil {
		return nil, wasp.NewRequestError(req.Contract, req.Function, err.Error())
	}
	return vctx.results.Bytes(), nil
}

// Receipt returns the receipt of a processed request.
func (s *Server) Receipt(id wasmtypes.ScRequestID) (wasp.Receipt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.receipts[id]
	return r, ok
}

// WaitRequest blocks until the request has been processed or ctx is done.
func (s *Server) WaitRequest(ctx context.Context, id wasmtypes.ScRequestID) (wasp.Receipt, error) {
	s.mu.Lock()
	if r, ok := s.receipts[id]; ok {
		s.mu.Unlock()
		return r, nil
	}
	ch, ok := s.done[id]
	s.mu.Unlock()
	if !ok {
		return wasp.Receipt{}, fmt.Errorf("%w: %s", wasp.ErrUnknownRequest, id)
	}

	select {
	case <-ctx.Done():
		return wasp.Receipt{}, ctx.Err()
	case <-ch:
	}
	r, _ := s.Receipt(id)
	return r, nil
}

// Outbox returns the send requests committed so far, in commit order.
func (s *Server) Outbox() []wasmrequests.SendRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.outbox)
}

// Contracts returns the records of the callable contracts.
func (s *Server) Contracts() []ContractRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]ContractRecord, 0, len(s.contracts))
	for _, d := range s.contracts {
		records = append(records, d.record)
	}
	slices.SortFunc(records, func(a, b ContractRecord) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return records
}

// Close is a no-op; the caller owns the store.
func (s *Server) Close() error { return nil }
