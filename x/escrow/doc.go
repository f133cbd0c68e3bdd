/*
Package escrow implements a single owner escrow.

An escrow binds an owner to a token account held in custody. The owner
deposits tokens into the custody account and later withdraws them. Every
escrow keeps track of the balance it holds, and only the owner may move it.

Funds leave the custody account on the authority of the escrow itself:
the controller presents the escrow condition to the token ledger. That
condition cannot be presented by any signer, so custody funds move only
through Withdraw.
*/
package escrow
