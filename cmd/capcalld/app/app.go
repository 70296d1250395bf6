/*
Package app links together all the various components
to construct the capcalld app.
*/
package app

import (
	"context"
	"path/filepath"

	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/app"
	"github.com/iov-one/capcall/store/iavl"
	"github.com/iov-one/capcall/x/capital"
	"github.com/iov-one/capcall/x/ledger"
	"github.com/iov-one/capcall/x/utils"
	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Chain returns a chain of decorators, to handle logging, recovery,
// state isolation and the settlement of funds and instructions.
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewActionTagger(),
		// a rejected tx must not change the state in either phase
		utils.NewSavepoint().OnCheck().OnDeliver(),
		ledger.NewDispatcher(),
	)
}

// Router returns a router dispatching all capital call messages.
func Router(queries capcall.QueryRouter) *app.Router {
	r := app.NewRouter()
	capital.RegisterRoutes(r, queries)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/", "/wallets", "/capital", "/capital/status" and
// "/capital/terms"
func QueryRouter() capcall.QueryRouter {
	r := capcall.NewQueryRouter()
	r.RegisterAll(
		app.RegisterQuery,
		ledger.RegisterQuery,
		capital.RegisterQuery,
	)
	return r
}

// Initializers returns all extensions reading the genesis app_state.
func Initializers() capcall.Initializer {
	return app.ChainInitializers(
		&ledger.Initializer{},
		&capital.Initializer{},
	)
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack(queries capcall.QueryRouter) capcall.Handler {
	return Chain().WithHandler(Router(queries))
}

// Application constructs a basic ABCI application with
// the given arguments.
func Application(name string, dbPath string, metrics *app.Metrics, debug bool) (app.BaseApp, error) {
	queries := QueryRouter()
	kv := CommitKVStore(dbPath)
	store, err := app.NewStoreApp(name, kv, queries, context.Background())
	if err != nil {
		return app.BaseApp{}, err
	}
	store.WithInit(Initializers())
	return app.NewBaseApp(store, TxDecoder, Stack(queries), metrics, debug), nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path. An empty path keeps the data in memory.
func CommitKVStore(dbPath string) capcall.CommitKVStore {
	if dbPath == "" {
		return iavl.NewCommitStore("", "")
	}
	dir := filepath.Dir(dbPath)
	name := filepath.Base(dbPath)
	ext := filepath.Ext(name)
	name = name[:len(name)-len(ext)]
	return iavl.NewCommitStore(dir, name)
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, debug bool, reg prometheus.Registerer) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "capcall.db")
	}

	var metrics *app.Metrics
	if reg != nil {
		metrics = app.NewMetrics(reg)
	}
	application, err := Application("capcalld", dbPath, metrics, debug)
	if err != nil {
		return nil, err
	}
	application.WithLogger(logger)
	return application, nil
}
