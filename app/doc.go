/*
Package app hosts the ledger: it routes messages to their handlers,
wraps them with decorators and executes every transaction atomically
against a committed store.
*/
package app
