package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp serves the ledger state to tendermint. It answers Info, Query
// and Commit, loads the genesis on InitChain and keeps the block context.
// BaseApp embeds it and adds the transaction handling.
//
// ABCI calls that carry no user input cannot report an error back, so a
// database failure on those paths panics.
type StoreApp struct {
	name    string
	logger  log.Logger
	state   *State
	genesis capcall.Initializer
	queries capcall.QueryRouter
	metrics *Metrics

	// chainID is empty until the genesis is loaded.
	chainID string

	// appCtx lives as long as the process, blockCtx is replaced on
	// every BeginBlock.
	appCtx   capcall.Context
	blockCtx capcall.Context
}

// NewStoreApp opens the ledger held in db. The name is reported by Info.
func NewStoreApp(name string, db capcall.CommitKVStore,
	queries capcall.QueryRouter, ctx capcall.Context) (*StoreApp, error) {
	state, err := OpenState(db)
	if err != nil {
		return nil, errors.Wrap(err, "open ledger")
	}
	chainID, err := loadChainID(state.Deliver())
	if err != nil {
		return nil, errors.Wrap(err, "chain id")
	}
	last, err := state.LastCommit()
	if err != nil {
		return nil, err
	}

	s := &StoreApp{
		name:    name,
		state:   state,
		queries: queries,
		chainID: chainID,
		appCtx:  ctx,
	}
	s.WithLogger(log.NewNopLogger())
	if chainID != "" {
		s.appCtx = capcall.WithChainID(s.appCtx, chainID)
	}
	s.blockCtx = capcall.WithHeight(s.appCtx, last.Version)
	return s, nil
}

// WithInit sets the initializer that receives the genesis app_state.
func (s *StoreApp) WithInit(init capcall.Initializer) *StoreApp {
	s.genesis = init
	return s
}

// WithMetrics sets the collectors updated on every commit.
func (s *StoreApp) WithMetrics(m *Metrics) *StoreApp {
	s.metrics = m
	return s
}

// WithLogger sets the logger of the app and of every context it hands
// out.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.logger = logger
	s.appCtx = capcall.WithLogger(s.appCtx, logger)
	if s.blockCtx != nil {
		s.blockCtx = capcall.WithLogger(s.blockCtx, logger)
	}
	return s
}

func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

// GetChainID returns the chain id, empty before the genesis is loaded.
func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// BlockContext returns the context of the block being executed.
func (s *StoreApp) BlockContext() capcall.Context {
	return s.blockCtx
}

// DeliverStore returns the layer of the block being executed.
func (s *StoreApp) DeliverStore() capcall.CacheableKVStore {
	return s.state.Deliver()
}

// CheckStore returns the layer mempool validation runs on.
func (s *StoreApp) CheckStore() capcall.CacheableKVStore {
	return s.state.Check()
}

// Info implements abci.Application. LastBlockHeight is the height of the
// latest commit.
func (s *StoreApp) Info(req abci.RequestInfo) abci.ResponseInfo {
	last, err := s.state.LastCommit()
	if err != nil {
		panic(err)
	}
	s.logger.Info("Ledger loaded",
		"chain_id", s.chainID,
		"height", last.Version,
		"hash", fmt.Sprintf("%X", last.Hash))
	return abci.ResponseInfo{
		Data:             s.name,
		LastBlockHeight:  last.Version,
		LastBlockAppHash: last.Hash,
	}
}

func (s *StoreApp) SetOption(res abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "Not Implemented"}
}

// InitChain implements abci.Application. The genesis time is the block
// time seen by the initializers.
func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	ctx := capcall.WithLogInfo(s.appCtx, "call", "init_chain")
	ctx = capcall.WithBlockTime(ctx, req.Time)
	if err := s.loadGenesis(ctx, req.ChainId, req.AppStateBytes); err != nil {
		panic(err)
	}
	s.logger.Info("Genesis loaded", "chain_id", req.ChainId)
	return abci.ResponseInitChain{}
}

// loadGenesis writes the chain id and passes the app_state to the
// initializer. Tendermint calls it only when the chain starts at height
// zero.
func (s *StoreApp) loadGenesis(ctx capcall.Context, chainID string, raw []byte) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrState, "genesis already loaded for chain %s", s.chainID)
	}
	if len(raw) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app_state missing from genesis, run init first")
	}
	var opts capcall.Options
	if err := json.Unmarshal(raw, &opts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	db := s.state.Deliver()
	if err := saveChainID(db, chainID); err != nil {
		return err
	}
	s.chainID = chainID
	s.appCtx = capcall.WithChainID(s.appCtx, chainID)
	if s.genesis == nil {
		return nil
	}
	return s.genesis.FromGenesis(capcall.WithChainID(ctx, chainID), opts, db)
}

// BeginBlock implements abci.Application. It replaces the block context.
func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	ctx := capcall.WithHeader(s.appCtx, req.Header)
	ctx = capcall.WithHeight(ctx, req.Header.GetHeight())
	s.blockCtx = capcall.WithBlockTime(ctx, req.Header.GetTime())
	return abci.ResponseBeginBlock{}
}

func (s *StoreApp) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}

// Commit implements abci.Application. The returned data is the app hash.
func (s *StoreApp) Commit() abci.ResponseCommit {
	id, err := s.state.Commit()
	if err != nil {
		panic(err)
	}
	s.metrics.ObserveCommit(id.Version)
	s.logger.Debug("Block committed",
		"height", id.Version,
		"hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseCommit{Data: id.Hash}
}

// Query reads from the latest commit, the requested height is ignored.
//
// The path names a registered handler, such as "/capital" or
// "/capital/status", and may end with "?<modifier>". Key and Value of the
// response are ResultSets of the same length, one entry per model found.
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	path, mod := splitPath(req.Path)
	h := s.queries.Handler(path)
	if h == nil {
		return queryError(errors.Wrapf(errors.ErrNotFound, "no query handler for %s", req.Path))
	}

	last, err := s.state.LastCommit()
	if err != nil {
		return queryError(err)
	}
	snap := s.state.Snapshot()
	defer snap.Discard()

	found, err := h.Query(snap, mod, req.Data)
	if err != nil {
		return queryError(err)
	}
	keys, values, err := encodeResults(found)
	if err != nil {
		return queryError(err)
	}
	return abci.ResponseQuery{Height: last.Version, Key: keys, Value: values}
}

// splitPath separates the query modifier, found after the first "?".
func splitPath(path string) (string, string) {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i], path[i+1:]
	}
	return path, ""
}

func queryError(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, true)
	return abci.ResponseQuery{Code: code, Log: log}
}
