package escrow

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
	"github.com/iov-one/custody/x"
	"github.com/iov-one/custody/x/cash"
)

// Controller executes the escrow operations. Every operation either
// fully succeeds or returns an error leaving the escrow as it was.
//
// Writes to the token ledger are not rolled back by the controller. A
// failing operation must be executed on a cache wrap that is discarded,
// as the application does.
type Controller struct {
	bucket orm.ModelBucket
	mover  cash.Mover
}

// NewController returns a controller moving funds with given mover.
func NewController(mover cash.Mover) Controller {
	return Controller{
		bucket: NewBucket(),
		mover:  mover,
	}
}

// Escrow loads the escrow stored under id.
func (c Controller) Escrow(db custody.ReadOnlyKVStore, id []byte) (*Escrow, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	var e Escrow
	if err := c.bucket.One(db, id, &e); err != nil {
		return nil, errors.Wrap(err, "cannot load escrow")
	}
	return &e, nil
}

// Initialize creates an empty escrow owned by the main signer. It fails
// with ErrDuplicate if an escrow with the same id exists.
func (c Controller) Initialize(ctx custody.Context, db custody.KVStore, auth x.Authenticator, id []byte, tokenAccount custody.Address) (*Escrow, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	signer := x.MainSigner(ctx, auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	e := &Escrow{
		Owner:        signer.Address(),
		TokenAccount: tokenAccount,
	}
	if err := c.bucket.Create(db, id, e); err != nil {
		return nil, errors.Wrap(err, "cannot create escrow")
	}
	custody.GetLogger(ctx).Info("escrow initialized",
		"escrow", string(id), "owner", e.Owner, "account", e.TokenAccount)
	return e, nil
}

// Deposit moves amount from src to the custody account dest, on the
// authority of the caller, and credits the escrow. src must be another
// account than the custody one.
func (c Controller) Deposit(ctx custody.Context, db custody.KVStore, auth x.Authenticator, id []byte, src, dest custody.Address, amount uint64) (*Escrow, error) {
	e, err := c.owned(ctx, db, auth, id)
	if err != nil {
		return nil, err
	}
	if !dest.Equals(e.TokenAccount) {
		return nil, errors.Wrapf(ErrAccountMismatch, "deposit to %s, escrow holds %s", dest, e.TokenAccount)
	}
	if src.Equals(e.TokenAccount) {
		return nil, errors.Wrap(ErrAccountMismatch, "cannot deposit from the escrow account")
	}
	balance, err := coin.Add64(e.Balance, amount)
	if err != nil {
		return nil, errors.Wrap(err, "escrow balance")
	}

	if err := c.mover.Transfer(ctx, db, auth, src, dest, amount); err != nil {
		return nil, errors.Wrap(err, "deposit transfer")
	}

	e.Balance = balance
	if err := c.bucket.Put(db, id, e); err != nil {
		return nil, errors.Wrap(err, "cannot save escrow")
	}
	custody.GetLogger(ctx).Info("escrow deposit",
		"escrow", string(id), "amount", amount, "balance", e.Balance)
	return e, nil
}

// Withdraw moves amount from the custody account src to dest, on the
// authority of the escrow, and debits the escrow. dest must be another
// account than the custody one.
func (c Controller) Withdraw(ctx custody.Context, db custody.KVStore, auth x.Authenticator, id []byte, src, dest custody.Address, amount uint64) (*Escrow, error) {
	e, err := c.owned(ctx, db, auth, id)
	if err != nil {
		return nil, err
	}
	if !src.Equals(e.TokenAccount) {
		return nil, errors.Wrapf(ErrAccountMismatch, "withdraw from %s, escrow holds %s", src, e.TokenAccount)
	}
	if dest.Equals(e.TokenAccount) {
		return nil, errors.Wrap(ErrAccountMismatch, "cannot withdraw to the escrow account")
	}
	if e.Balance < amount {
		return nil, errors.Wrapf(ErrInsufficientFunds, "balance %d, requested %d", e.Balance, amount)
	}

	if err := c.mover.Transfer(ctx, db, custodian{cond: Condition(id)}, src, dest, amount); err != nil {
		return nil, errors.Wrap(err, "withdraw transfer")
	}

	e.Balance -= amount
	if err := c.bucket.Put(db, id, e); err != nil {
		return nil, errors.Wrap(err, "cannot save escrow")
	}
	custody.GetLogger(ctx).Info("escrow withdraw",
		"escrow", string(id), "amount", amount, "balance", e.Balance)
	return e, nil
}

// owned loads the escrow and ensures its owner is authenticated.
func (c Controller) owned(ctx custody.Context, db custody.ReadOnlyKVStore, auth x.Authenticator, id []byte) (*Escrow, error) {
	e, err := c.Escrow(db, id)
	if err != nil {
		return nil, err
	}
	if !auth.HasAddress(ctx, e.Owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "escrow owner signature missing")
	}
	return e, nil
}

// custodian authenticates the escrow condition. Only the controller
// creates it.
type custodian struct {
	cond custody.Condition
}

var _ x.Authenticator = custodian{}

func (c custodian) GetConditions(custody.Context) []custody.Condition {
	return []custody.Condition{c.cond}
}

func (c custodian) HasAddress(_ custody.Context, addr custody.Address) bool {
	return c.cond.Address().Equals(addr)
}
