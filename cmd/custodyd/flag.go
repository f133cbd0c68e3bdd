package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/iov-one/custody"
)

// flAddress returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flAddress(fl *flag.FlagSet, name, defaultVal, usage string) *custody.Address {
	var a custody.Address
	if defaultVal != "" {
		var err error
		a, err = custody.ParseAddress(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q custody.Address flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&a, name, usage)
	return &a
}

// ledgerFlags are shared by all commands accessing the ledger state.
type ledgerFlags struct {
	home  *string
	debug *bool
}

func flLedger(fl *flag.FlagSet) ledgerFlags {
	return ledgerFlags{
		home: fl.String("home", env("CUSTODYD_HOME", os.Getenv("HOME")+"/.custodyd"),
			"Directory the ledger state is stored in. You can use CUSTODYD_HOME environment variable to set it."),
		debug: fl.Bool("debug", false, "Log debug information and show full error details."),
	}
}

func flKey(fl *flag.FlagSet) *string {
	return fl.String("key", env("CUSTODYD_PRIV_KEY", os.Getenv("HOME")+"/.custodyd.priv.key"),
		"Path to the private key file that transaction should be signed with. You can use CUSTODYD_PRIV_KEY environment variable to set it.")
}
