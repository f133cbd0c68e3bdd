package app

import (
	"context"
	"io"
	"sync"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Ledger executes transactions against a committed store.
//
// Transactions are executed one at a time. Every transaction runs on its
// own cache wrap: its changes are written only if the whole handler stack
// succeeded, so a failed transaction leaves no trace in the state.
type Ledger struct {
	mu      sync.Mutex
	store   custody.CommitKVStore
	decoder custody.TxDecoder
	handler custody.Handler
	logger  log.Logger
	chainID string
}

// NewLedger loads the latest version of the store. The chain id is
// restored if the genesis was loaded before.
func NewLedger(store custody.CommitKVStore, decoder custody.TxDecoder, handler custody.Handler, logger log.Logger) (*Ledger, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "cannot load store")
	}
	cache := store.CacheWrap()
	chainID, err := loadChainID(cache)
	cache.Discard()
	if err != nil {
		return nil, err
	}
	return &Ledger{
		store:   store,
		decoder: decoder,
		handler: handler,
		logger:  logger,
		chainID: chainID,
	}, nil
}

// ChainID returns the chain id set by the genesis, or an empty string.
func (l *Ledger) ChainID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.chainID
}

// InitChain saves the chain id and initializes all extensions from the
// genesis. The state is committed as the first version.
func (l *Ledger) InitChain(gen Genesis, init custody.Initializer) (custody.CommitID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.chainID != "" {
		return custody.CommitID{}, errors.Wrapf(errors.ErrState, "chain %q already initialized", l.chainID)
	}
	cache := l.store.CacheWrap()
	if err := saveChainID(cache, gen.ChainID); err != nil {
		cache.Discard()
		return custody.CommitID{}, err
	}
	if err := init.FromGenesis(gen.AppOptions, cache); err != nil {
		cache.Discard()
		return custody.CommitID{}, errors.Wrap(err, "genesis")
	}
	if err := cache.Write(); err != nil {
		return custody.CommitID{}, errors.Wrap(err, "write genesis")
	}
	id, err := l.store.Commit()
	if err != nil {
		return id, errors.Wrap(err, "commit genesis")
	}
	l.chainID = gen.ChainID
	l.logger.Info("chain initialized", "chain_id", gen.ChainID, "version", id.Version)
	return id, nil
}

// CheckTx runs the Check phase of the handler stack. The state is never
// modified.
func (l *Ledger) CheckTx(raw []byte) (*custody.CheckResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx, ctx, err := l.prepare(raw, "check_tx")
	if err != nil {
		return nil, err
	}
	cache := l.store.CacheWrap()
	defer cache.Discard()
	return l.handler.Check(ctx, cache, tx)
}

// DeliverTx runs the Deliver phase of the handler stack and keeps the
// changes only if it succeeded. Changes are persisted by Commit.
func (l *Ledger) DeliverTx(raw []byte) (*custody.DeliverResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx, ctx, err := l.prepare(raw, "deliver_tx")
	if err != nil {
		return nil, err
	}
	cache := l.store.CacheWrap()
	res, err := l.handler.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "cannot write transaction state")
	}
	return res, nil
}

// Commit persists all delivered transactions as a new version.
func (l *Ledger) Commit() (custody.CommitID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id, err := l.store.Commit()
	if err != nil {
		return id, errors.Wrap(err, "commit")
	}
	l.logger.Debug("state committed", "version", id.Version)
	return id, nil
}

// View calls fn with a read only access to the current state.
func (l *Ledger) View(fn func(db custody.ReadOnlyKVStore) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	cache := l.store.CacheWrap()
	defer cache.Discard()
	return fn(cache)
}

// Close releases the store if it holds any resources.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if c, ok := l.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (l *Ledger) prepare(raw []byte, call string) (custody.Tx, custody.Context, error) {
	if l.chainID == "" {
		return nil, nil, errors.Wrap(errors.ErrState, "chain not initialized")
	}
	tx, err := l.loadTx(raw)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot decode transaction")
	}
	version, err := l.store.LatestVersion()
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot read version")
	}
	ctx := context.Background()
	ctx = custody.WithLogger(ctx, l.logger)
	ctx = custody.WithChainID(ctx, l.chainID)
	ctx = custody.WithHeight(ctx, version.Version+1)
	ctx = custody.WithLogInfo(ctx, "call", call, "path", custody.GetPath(tx))
	return tx, ctx, nil
}

// loadTx calls the decoder, and capture any panics
func (l *Ledger) loadTx(raw []byte) (tx custody.Tx, err error) {
	defer errors.Recover(&err)
	return l.decoder(raw)
}
