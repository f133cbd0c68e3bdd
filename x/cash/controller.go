package cash

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
	"github.com/iov-one/custody/x"
)

// Mover moves tokens between two accounts.
//
// Transfer either moves the whole amount or fails without any
// modification of the state.
type Mover interface {
	Transfer(ctx custody.Context, db custody.KVStore, auth x.Authenticator, src, dest custody.Address, amount uint64) error
}

// Controller manages token accounts.
type Controller struct {
	bucket orm.ModelBucket
}

var _ Mover = Controller{}

// NewController returns a controller using the default bucket.
func NewController() Controller {
	return Controller{bucket: NewBucket()}
}

// Open creates an empty account under given address. It fails with
// ErrDuplicate if the address is already in use.
func (c Controller) Open(db custody.KVStore, addr, owner custody.Address, ticker string) (*TokenAccount, error) {
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "account address")
	}
	acct := &TokenAccount{Owner: owner, Ticker: ticker}
	if err := c.bucket.Create(db, addr, acct); err != nil {
		return nil, err
	}
	return acct, nil
}

// Balance returns the account stored under given address.
func (c Controller) Balance(db custody.ReadOnlyKVStore, addr custody.Address) (*TokenAccount, error) {
	var acct TokenAccount
	if err := c.bucket.One(db, addr, &acct); err != nil {
		return nil, errors.Wrapf(err, "account %s", addr)
	}
	return &acct, nil
}

// Issue creates new tokens on the account. Only used by the genesis.
func (c Controller) Issue(db custody.KVStore, addr custody.Address, amount uint64) error {
	acct, err := c.Balance(db, addr)
	if err != nil {
		return err
	}
	if acct.Balance, err = coin.Add64(acct.Balance, amount); err != nil {
		return errors.Wrapf(err, "issue to %s", addr)
	}
	return c.bucket.Put(db, addr, acct)
}

// Transfer moves amount from src to dest. The owner of src must be
// authenticated by auth and both accounts must hold the same ticker.
func (c Controller) Transfer(ctx custody.Context, db custody.KVStore, auth x.Authenticator, src, dest custody.Address, amount uint64) error {
	from, err := c.Balance(db, src)
	if err != nil {
		return err
	}
	if !auth.HasAddress(ctx, from.Owner) {
		return errors.Wrapf(errors.ErrUnauthorized, "account %s owner signature missing", src)
	}
	to, err := c.Balance(db, dest)
	if err != nil {
		return err
	}
	if from.Ticker != to.Ticker {
		return errors.Wrapf(errors.ErrCurrency, "cannot send %s to %s account", from.Ticker, to.Ticker)
	}
	remaining, err := coin.Sub64(from.Balance, amount)
	if err != nil {
		return errors.Wrapf(err, "account %s", src)
	}
	if src.Equals(dest) {
		// Sending to self changes nothing.
		return nil
	}
	received, err := coin.Add64(to.Balance, amount)
	if err != nil {
		return errors.Wrapf(err, "account %s", dest)
	}

	from.Balance = remaining
	to.Balance = received
	if err := c.bucket.Put(db, src, from); err != nil {
		return err
	}
	if err := c.bucket.Put(db, dest, to); err != nil {
		return err
	}
	custody.GetLogger(ctx).Debug("tokens transferred",
		"src", src, "dest", dest, "amount", amount, "ticker", from.Ticker)
	return nil
}
