package escrow

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

const (
	// BucketName is where we store the escrows
	BucketName = "esc"

	maxIDLength = 64
)

// Escrow is the state of a single escrow.
type Escrow struct {
	// Owner is the only address allowed to deposit and withdraw.
	Owner custody.Address
	// TokenAccount is the custody account holding the funds.
	TokenAccount custody.Address
	// Balance is the amount currently held, in base units.
	Balance uint64
}

var _ orm.Model = (*Escrow)(nil)

// Validate ensures the escrow is well formed.
func (e *Escrow) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", e.Owner.Validate())
	errs = errors.AppendField(errs, "TokenAccount", e.TokenAccount.Validate())
	return errs
}

func (e *Escrow) Marshal() ([]byte, error) {
	return custody.NewEncoder().
		Bytes(1, e.Owner).
		Bytes(2, e.TokenAccount).
		Uint64(3, e.Balance).
		Result()
}

func (e *Escrow) Unmarshal(raw []byte) error {
	*e = Escrow{}
	d := custody.NewDecoder(raw)
	for d.More() {
		field, wire, err := d.Field()
		if err != nil {
			return err
		}
		var b []byte
		switch field {
		case 1:
			b, err = d.Bytes(wire)
			e.Owner = b
		case 2:
			b, err = d.Bytes(wire)
			e.TokenAccount = b
		case 3:
			e.Balance, err = d.Uint64(wire)
		default:
			err = d.Skip(wire)
		}
		if err != nil {
			return errors.Wrap(err, "escrow")
		}
	}
	return nil
}

// Condition calculates the custody condition of an escrow given its id.
// Token accounts held in custody are owned by its address.
func Condition(id []byte) custody.Condition {
	return custody.NewCondition("escrow", "seq", id)
}

// NewBucket returns a bucket storing escrows keyed by their id.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Escrow{})
}

func validateID(id []byte) error {
	if len(id) == 0 {
		return errors.Wrap(errors.ErrEmpty, "escrow id")
	}
	if len(id) > maxIDLength {
		return errors.Wrapf(errors.ErrInput, "escrow id longer than %d bytes", maxIDLength)
	}
	return nil
}
