/*
Package app links together all the various components
to construct the supersigd application.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/supersig/app"
	"github.com/iov-one/supersig/errors"
	"github.com/iov-one/supersig/store/iavl"
	"github.com/iov-one/supersig/weave"
	"github.com/iov-one/supersig/x"
	"github.com/iov-one/supersig/x/cash"
	"github.com/iov-one/supersig/x/sigs"
	"github.com/iov-one/supersig/x/supersig"
	"github.com/iov-one/supersig/x/utils"
	"github.com/prometheus/client_golang/prometheus"
)

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, metrics and recovery. A nil registerer disables metrics.
func Chain(reg prometheus.Registerer) app.Decorators {
	var metrics weave.Decorator
	if reg != nil {
		metrics = utils.NewMetrics(reg)
	}
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		metrics,
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, a failing message does not roll back the
		// signature nonce increment
		utils.NewSavepoint().OnDeliver(),
		utils.NewActionTagger(),
	)
}

// Router returns the router of signed messages. Calls approved by a
// supersig are executed by a second router that trusts only the
// executing treasury.
func Router(authFn x.Authenticator) *app.Router {
	ctrl := cash.NewController(cash.NewWalletBucket())

	calls := app.NewRouter()
	exec := supersig.HandlerAsExecutor(calls)
	cash.RegisterRoutes(calls, supersig.Authenticate{}, ctrl)
	supersig.RegisterRoutes(calls, supersig.Authenticate{}, ctrl, DecodeCall, exec)

	r := app.NewRouter()
	cash.RegisterRoutes(r, authFn, ctrl)
	supersig.RegisterRoutes(r, authFn, ctrl, DecodeCall, exec)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/wallets", "/auth" and the supersig buckets.
func QueryRouter() weave.QueryRouter {
	r := weave.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		sigs.RegisterQuery,
		supersig.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack(reg prometheus.Registerer) weave.Handler {
	authFn := Authenticator()
	return Chain(reg).WithHandler(Router(authFn))
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h weave.Handler, tx weave.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, errors.Wrap(err, "cannot create database instance")
	}
	store, err := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	if err != nil {
		return app.BaseApp{}, errors.Wrap(err, "cannot create store app")
	}
	return app.NewBaseApp(store, tx, h, debug), nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (weave.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.MockCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "invalid database name %q: %s", dbPath, err)
	}

	// Some external calls accidently add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	kv, err := iavl.NewCommitStore(dir, name)
	if err != nil {
		return nil, err
	}
	return kv, nil
}
