package sigs

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// maxSequenceValue is the greatest nonce that a javascript client can
// represent (Number.MAX_SAFE_INTEGER).
const maxSequenceValue = (1 << 53) - 1

// UserData tracks the public key and the next expected sequence of
// every key that ever signed a transaction.
type UserData struct {
	Pubkey   *crypto.PublicKey
	Sequence int64
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Validate() error {
	var errs error
	if seq := u.Sequence; seq < 0 {
		errs = errors.AppendField(errs, "Sequence", ErrInvalidSequence)
	} else if seq > 0 && u.Pubkey == nil {
		errs = errors.Append(errs, errors.Field("Sequence", ErrInvalidSequence, "needs Pubkey"))
	}
	return errs
}

func (u *UserData) Marshal() ([]byte, error) {
	e := custody.NewEncoder()
	if u.Pubkey != nil {
		e.Message(1, u.Pubkey)
	}
	return e.Uint64(2, uint64(u.Sequence)).Result()
}

func (u *UserData) Unmarshal(raw []byte) error {
	*u = UserData{}
	d := custody.NewDecoder(raw)
	for d.More() {
		field, wire, err := d.Field()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			u.Pubkey = &crypto.PublicKey{}
			err = d.Message(wire, u.Pubkey)
		case 2:
			var seq uint64
			seq, err = d.Uint64(wire)
			u.Sequence = int64(seq)
		default:
			err = d.Skip(wire)
		}
		if err != nil {
			return errors.Wrap(err, "user data")
		}
	}
	return nil
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// Bucket stores UserData keyed by the address of the public key.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, &UserData{}),
	}
}

// GetOrCreate loads the UserData of given key or initializes a new one,
// that is not yet saved.
func (b Bucket) GetOrCreate(db custody.ReadOnlyKVStore, pubkey *crypto.PublicKey) (*UserData, error) {
	var user UserData
	err := b.One(db, pubkey.Address(), &user)
	switch {
	case err == nil:
		return &user, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{Pubkey: pubkey}, nil
	default:
		return nil, err
	}
}

// Save stores the user under its public key address.
func (b Bucket) Save(db custody.KVStore, user *UserData) error {
	if user.Pubkey == nil {
		return errors.Wrap(errors.ErrEmpty, "public key")
	}
	return b.Put(db, user.Pubkey.Address(), user)
}

// StdSignature is a signature of a transaction, together with the key
// that produced it and the sequence of that key.
type StdSignature struct {
	Pubkey    *crypto.PublicKey
	Signature *crypto.Signature
	Sequence  int64
}

var _ custody.Persistent = (*StdSignature)(nil)

// Validate ensures the StdSignature meets basic standards
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if s.Pubkey == nil || len(s.Pubkey.Ed25519) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if s.Signature == nil || len(s.Signature.Ed25519) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}

func (s *StdSignature) Marshal() ([]byte, error) {
	e := custody.NewEncoder()
	if s.Pubkey != nil {
		e.Message(1, s.Pubkey)
	}
	if s.Signature != nil {
		e.Message(2, s.Signature)
	}
	return e.Uint64(3, uint64(s.Sequence)).Result()
}

func (s *StdSignature) Unmarshal(raw []byte) error {
	*s = StdSignature{}
	d := custody.NewDecoder(raw)
	for d.More() {
		field, wire, err := d.Field()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			s.Pubkey = &crypto.PublicKey{}
			err = d.Message(wire, s.Pubkey)
		case 2:
			s.Signature = &crypto.Signature{}
			err = d.Message(wire, s.Signature)
		case 3:
			var seq uint64
			seq, err = d.Uint64(wire)
			s.Sequence = int64(seq)
		default:
			err = d.Skip(wire)
		}
		if err != nil {
			return errors.Wrap(err, "signature")
		}
	}
	return nil
}
