/*
Package cash keeps token accounts. Each account holds a balance of a
single ticker and names an owner, the only authority that may move funds
out of it.

Transfers are all or nothing: both accounts are written only after
every check passed, so a failed transfer never leaves a trace.
*/
package cash
