/*
Package app links together all the various components
to construct the custody ledger.
*/
package app

import (
	"path/filepath"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/app"
	"github.com/iov-one/custody/store/iavl"
	"github.com/iov-one/custody/x"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/escrow"
	"github.com/iov-one/custody/x/sigs"
	"github.com/tendermint/tendermint/libs/log"
)

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		app.NewLogging(),
		app.NewRecovery(),
		sigs.NewDecorator(),
	)
}

// Router returns a router dispatching to the token ledger
// and escrow handlers
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	ctrl := cash.NewController()
	cash.RegisterRoutes(r, authFn, ctrl)
	escrow.RegisterRoutes(r, authFn, ctrl)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into a Ledger.
func Stack() custody.Handler {
	authFn := Authenticator()
	return Chain().WithHandler(Router(authFn))
}

// Initializer loads the genesis of every extension.
func Initializer() custody.Initializer {
	return app.ChainInitializers(cash.Initializer{})
}

// CommitKVStore returns an initialized store that persists
// the data under given directory. Empty home keeps all data in memory.
func CommitKVStore(home string) (*iavl.CommitStore, error) {
	if home == "" {
		return iavl.NewMemCommitStore(), nil
	}
	path, err := filepath.Abs(home)
	if err != nil {
		return nil, err
	}
	return iavl.NewCommitStore(path, "state"), nil
}

// NewLedger opens the ledger state stored under home.
func NewLedger(home string, logger log.Logger) (*app.Ledger, error) {
	kv, err := CommitKVStore(home)
	if err != nil {
		return nil, err
	}
	return app.NewLedger(kv, TxDecoder, Stack(), logger)
}
