package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/custody"
	weaveapp "github.com/iov-one/custody/app"
	"github.com/iov-one/custody/cmd/custodyd/app"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/escrow"
)

func cmdGenesis(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Initialize the ledger state from a genesis file. The genesis file declares
the chain id and the initial token accounts, for example:

  {
    "chain_id": "my-custody",
    "app_state": {
      "cash": [
        {"address": "<hex>", "owner": "<hex>", "ticker": "IOV", "balance": 1000}
      ]
    }
  }
`)
		fl.PrintDefaults()
	}
	var (
		ledgerFl  = flLedger(fl)
		genesisFl = fl.String("file", "genesis.json", "Path to the genesis file.")
	)
	fl.Parse(args)

	gen, err := weaveapp.LoadGenesis(*genesisFl)
	if err != nil {
		return err
	}
	l, err := openLedger(ledgerFl)
	if err != nil {
		return err
	}
	defer l.Close()

	id, err := l.InitChain(gen, app.Initializer())
	if err != nil {
		return txError(err, *ledgerFl.debug)
	}
	_, err = fmt.Fprintf(output, "%s initialized at version %d\n", gen.ChainID, id.Version)
	return err
}

func cmdShowAccount(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the state of a token account.
`)
		fl.PrintDefaults()
	}
	var (
		ledgerFl  = flLedger(fl)
		addressFl = flAddress(fl, "address", "", "Address of the token account.")
	)
	fl.Parse(args)

	l, err := openLedger(ledgerFl)
	if err != nil {
		return err
	}
	defer l.Close()

	var acct *cash.TokenAccount
	err = l.View(func(db custody.ReadOnlyKVStore) error {
		var err error
		acct, err = cash.NewController().Balance(db, *addressFl)
		return err
	})
	if err != nil {
		return txError(err, *ledgerFl.debug)
	}
	return writeJSON(output, struct {
		Address custody.Address `json:"address"`
		Owner   custody.Address `json:"owner"`
		Balance string          `json:"balance"`
	}{
		Address: *addressFl,
		Owner:   acct.Owner,
		Balance: acct.Coin().String(),
	})
}

func cmdShowEscrow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the state of an escrow.
`)
		fl.PrintDefaults()
	}
	var (
		ledgerFl = flLedger(fl)
		idFl     = fl.String("id", "", "Escrow ID.")
	)
	fl.Parse(args)

	l, err := openLedger(ledgerFl)
	if err != nil {
		return err
	}
	defer l.Close()

	var e *escrow.Escrow
	err = l.View(func(db custody.ReadOnlyKVStore) error {
		var err error
		e, err = escrow.NewController(nil).Escrow(db, []byte(*idFl))
		return err
	})
	if err != nil {
		return txError(err, *ledgerFl.debug)
	}
	return writeJSON(output, escrowView(*idFl, e))
}

func cmdCustodyAddress(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the address owning the custody account of an escrow. Open the custody
token account with this owner before initializing the escrow.
`)
		fl.PrintDefaults()
	}
	idFl := fl.String("id", "", "Escrow ID.")
	fl.Parse(args)

	if *idFl == "" {
		return fmt.Errorf("escrow id is required")
	}
	_, err := fmt.Fprintln(output, escrow.Condition([]byte(*idFl)).Address())
	return err
}

type escrowJSON struct {
	ID           string          `json:"id"`
	IDHex        string          `json:"id_hex"`
	Owner        custody.Address `json:"owner"`
	TokenAccount custody.Address `json:"token_account"`
	Balance      uint64          `json:"balance"`
}

func escrowView(id string, e *escrow.Escrow) escrowJSON {
	return escrowJSON{
		ID:           id,
		IDHex:        hex.EncodeToString([]byte(id)),
		Owner:        e.Owner,
		TokenAccount: e.TokenAccount,
		Balance:      e.Balance,
	}
}
