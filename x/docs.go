/*
Package x contains the ledger extensions and the helpers they share.

Each sub-package implements one concern (signatures, token accounts,
escrow) with its own models, messages and handlers. Extensions never
check signatures themselves: they are given an Authenticator and ask it
which conditions were fulfilled for the current transaction.
*/
package x
