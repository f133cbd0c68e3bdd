package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/iov-one/custody"
	weaveapp "github.com/iov-one/custody/app"
	"github.com/iov-one/custody/cmd/custodyd/app"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/sigs"
	"github.com/tendermint/tendermint/libs/log"
)

func newLogger(debug bool) log.Logger {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stderr)).With("module", "custodyd")
	if debug {
		return log.NewFilter(logger, log.AllowDebug())
	}
	return log.NewFilter(logger, log.AllowError())
}

// openLedger opens the ledger stored under home. Caller must close it.
func openLedger(fl ledgerFlags) (*weaveapp.Ledger, error) {
	if err := os.MkdirAll(*fl.home, 0700); err != nil {
		return nil, fmt.Errorf("cannot create home directory: %s", err)
	}
	l, err := app.NewLedger(*fl.home, newLogger(*fl.debug))
	if err != nil {
		return nil, fmt.Errorf("cannot open ledger: %s", err)
	}
	return l, nil
}

// submit signs the message with given key, executes it and commits the
// state. The result data is returned.
func submit(fl ledgerFlags, keyPath string, msg custody.Msg) ([]byte, error) {
	key, err := loadKey(keyPath)
	if err != nil {
		return nil, err
	}
	l, err := openLedger(fl)
	if err != nil {
		return nil, err
	}
	defer l.Close()

	tx, err := signTx(l, key, msg)
	if err != nil {
		return nil, err
	}
	raw, err := tx.Marshal()
	if err != nil {
		return nil, fmt.Errorf("cannot serialize transaction: %s", err)
	}
	if _, err := l.CheckTx(raw); err != nil {
		return nil, txError(err, *fl.debug)
	}
	res, err := l.DeliverTx(raw)
	if err != nil {
		return nil, txError(err, *fl.debug)
	}
	if _, err := l.Commit(); err != nil {
		return nil, fmt.Errorf("cannot commit: %s", err)
	}
	return res.Data, nil
}

func signTx(l *weaveapp.Ledger, key *crypto.PrivateKey, msg custody.Msg) (*app.Tx, error) {
	tx := &app.Tx{Msg: msg}
	var seq int64
	err := l.View(func(db custody.ReadOnlyKVStore) error {
		var err error
		seq, err = sigs.NextSequence(db, key.PublicKey())
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("cannot load sequence: %s", err)
	}
	sig, err := sigs.SignTx(key, tx, l.ChainID(), seq)
	if err != nil {
		return nil, fmt.Errorf("cannot sign transaction: %s", err)
	}
	tx.Signatures = []*sigs.StdSignature{sig}
	return tx, nil
}

// txError presents a ledger error the way a client sees it. Details of
// internal errors are hidden unless debugging.
func txError(err error, debug bool) error {
	code, info := errors.Info(err, debug)
	return fmt.Errorf("transaction failed with code %d: %s", code, info)
}

func writeJSON(output io.Writer, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot serialize: %s", err)
	}
	_, err = fmt.Fprintln(output, string(raw))
	return err
}
