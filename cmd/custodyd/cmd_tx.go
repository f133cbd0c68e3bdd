package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/escrow"
)

func cmdOpenAccount(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Open an empty token account. Only the owner can move funds out of it.
`)
		fl.PrintDefaults()
	}
	var (
		ledgerFl  = flLedger(fl)
		keyFl     = flKey(fl)
		addressFl = flAddress(fl, "address", "", "Address of the new token account.")
		ownerFl   = flAddress(fl, "owner", "", "Address of the account owner.")
		tickerFl  = fl.String("ticker", "IOV", "Ticker of the tokens held.")
	)
	fl.Parse(args)

	msg := &cash.CreateAccountMsg{
		Address: *addressFl,
		Owner:   *ownerFl,
		Ticker:  *tickerFl,
	}
	if _, err := submit(ledgerFl, *keyFl, msg); err != nil {
		return err
	}
	_, err := fmt.Fprintln(output, msg.Address)
	return err
}

func cmdSend(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Send tokens between two accounts of the same ticker. The transaction must
be signed by the owner of the source account.
`)
		fl.PrintDefaults()
	}
	var (
		ledgerFl = flLedger(fl)
		keyFl    = flKey(fl)
		srcFl    = flAddress(fl, "src", "", "Source token account.")
		destFl   = flAddress(fl, "dest", "", "Destination token account.")
		amountFl = fl.Uint64("amount", 0, "Amount in base units.")
		memoFl   = fl.String("memo", "", "Optional memo.")
	)
	fl.Parse(args)

	msg := &cash.SendMsg{
		Source:      *srcFl,
		Destination: *destFl,
		Amount:      *amountFl,
		Memo:        *memoFl,
	}
	_, err := submit(ledgerFl, *keyFl, msg)
	return err
}

func cmdInitialize(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create an escrow owned by the signer. The token account must be owned by the
custody address of the escrow, see custody-address command.
`)
		fl.PrintDefaults()
	}
	var (
		ledgerFl  = flLedger(fl)
		keyFl     = flKey(fl)
		idFl      = fl.String("id", "", "Escrow ID.")
		accountFl = flAddress(fl, "account", "", "Custody token account of the escrow.")
	)
	fl.Parse(args)

	msg := &escrow.InitializeMsg{
		EscrowID:     []byte(*idFl),
		TokenAccount: *accountFl,
	}
	if _, err := submit(ledgerFl, *keyFl, msg); err != nil {
		return err
	}
	_, err := fmt.Fprintln(output, *idFl)
	return err
}

func cmdDeposit(input io.Reader, output io.Writer, args []string) error {
	return escrowTransfer(output, args, "Deposit tokens into the custody account of an escrow.",
		func(id []byte, src, dest []byte, amount uint64) custody.Msg {
			return &escrow.DepositMsg{EscrowID: id, Source: src, Destination: dest, Amount: amount}
		})
}

func cmdWithdraw(input io.Reader, output io.Writer, args []string) error {
	return escrowTransfer(output, args, "Withdraw tokens from the custody account of an escrow.",
		func(id []byte, src, dest []byte, amount uint64) custody.Msg {
			return &escrow.WithdrawMsg{EscrowID: id, Source: src, Destination: dest, Amount: amount}
		})
}

// escrowTransfer executes a deposit or withdraw and prints the updated
// escrow.
func escrowTransfer(output io.Writer, args []string, help string, build func(id, src, dest []byte, amount uint64) custody.Msg) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "\n%s\nThe transaction must be signed by the escrow owner.\n", help)
		fl.PrintDefaults()
	}
	var (
		ledgerFl = flLedger(fl)
		keyFl    = flKey(fl)
		idFl     = fl.String("id", "", "Escrow ID.")
		srcFl    = flAddress(fl, "src", "", "Source token account.")
		destFl   = flAddress(fl, "dest", "", "Destination token account.")
		amountFl = fl.Uint64("amount", 0, "Amount in base units.")
	)
	fl.Parse(args)

	data, err := submit(ledgerFl, *keyFl, build([]byte(*idFl), *srcFl, *destFl, *amountFl))
	if err != nil {
		return err
	}
	var e escrow.Escrow
	if err := e.Unmarshal(data); err != nil {
		return fmt.Errorf("cannot decode escrow: %s", err)
	}
	return writeJSON(output, escrowView(*idFl, &e))
}
