package cash

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// BucketName is where we store the token accounts
const BucketName = "tok"

// TokenAccount holds a balance of a single ticker.
type TokenAccount struct {
	// Owner is the address allowed to move funds out of this account.
	Owner   custody.Address
	Ticker  string
	Balance uint64
}

var _ orm.Model = (*TokenAccount)(nil)

// Validate ensures the account is well formed.
func (a *TokenAccount) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", a.Owner.Validate())
	if !coin.IsCC(a.Ticker) {
		errs = errors.Append(errs, errors.Field("Ticker", errors.ErrCurrency, "invalid ticker %q", a.Ticker))
	}
	return errs
}

// Coin returns the balance of the account.
func (a *TokenAccount) Coin() coin.Coin {
	return coin.NewCoin(a.Balance, a.Ticker)
}

func (a *TokenAccount) Marshal() ([]byte, error) {
	return custody.NewEncoder().
		Bytes(1, a.Owner).
		String(2, a.Ticker).
		Uint64(3, a.Balance).
		Result()
}

func (a *TokenAccount) Unmarshal(raw []byte) error {
	*a = TokenAccount{}
	d := custody.NewDecoder(raw)
	for d.More() {
		field, wire, err := d.Field()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			var b []byte
			b, err = d.Bytes(wire)
			a.Owner = custody.Address(b)
		case 2:
			a.Ticker, err = d.String(wire)
		case 3:
			a.Balance, err = d.Uint64(wire)
		default:
			err = d.Skip(wire)
		}
		if err != nil {
			return errors.Wrap(err, "token account")
		}
	}
	return nil
}

// NewBucket returns a bucket storing TokenAccounts keyed by address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &TokenAccount{})
}
