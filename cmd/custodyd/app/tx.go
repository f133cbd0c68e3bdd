package app

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/escrow"
	"github.com/iov-one/custody/x/sigs"
)

// Field numbers of the messages a transaction can carry. Only one of
// them may be set.
const (
	fieldSignatures = 1

	fieldCreateAccountMsg = 51
	fieldSendMsg          = 52

	fieldInitializeEscrowMsg = 61
	fieldDepositEscrowMsg    = 62
	fieldWithdrawEscrowMsg   = 63
)

// Tx is the transaction of the custody ledger: a single message and the
// signatures of its authors.
type Tx struct {
	Signatures []*sigs.StdSignature
	Msg        custody.Msg
}

// make sure tx fulfills all interfaces
var _ custody.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (custody.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// GetMsg returns the carried message.
func (tx *Tx) GetMsg() (custody.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "no message")
	}
	return tx.Msg, nil
}

// GetSignatures returns the signatures of the tx.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign: the serialized tx without
// any signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{Msg: tx.Msg}
	return unsigned.Marshal()
}

func (tx *Tx) Marshal() ([]byte, error) {
	e := custody.NewEncoder()
	for _, sig := range tx.Signatures {
		e.Message(fieldSignatures, sig)
	}
	if tx.Msg != nil {
		field, err := msgField(tx.Msg)
		if err != nil {
			return nil, err
		}
		e.Message(field, tx.Msg)
	}
	return e.Result()
}

func (tx *Tx) Unmarshal(raw []byte) error {
	*tx = Tx{}
	d := custody.NewDecoder(raw)
	for d.More() {
		field, wire, err := d.Field()
		if err != nil {
			return err
		}
		if field == fieldSignatures {
			var sig sigs.StdSignature
			if err := d.Message(wire, &sig); err != nil {
				return errors.Wrap(err, "signature")
			}
			tx.Signatures = append(tx.Signatures, &sig)
			continue
		}
		msg := newMsg(field)
		if msg == nil {
			if err := d.Skip(wire); err != nil {
				return err
			}
			continue
		}
		if tx.Msg != nil {
			return errors.Wrap(errors.ErrInput, "more than one message")
		}
		if err := d.Message(wire, msg); err != nil {
			return errors.Wrapf(err, "message %d", field)
		}
		tx.Msg = msg
	}
	return nil
}

// newMsg returns an empty message for the field, or nil if the field does
// not hold a message.
func newMsg(field int) custody.Msg {
	switch field {
	case fieldCreateAccountMsg:
		return new(cash.CreateAccountMsg)
	case fieldSendMsg:
		return new(cash.SendMsg)
	case fieldInitializeEscrowMsg:
		return new(escrow.InitializeMsg)
	case fieldDepositEscrowMsg:
		return new(escrow.DepositMsg)
	case fieldWithdrawEscrowMsg:
		return new(escrow.WithdrawMsg)
	}
	return nil
}

func msgField(msg custody.Msg) (int, error) {
	switch msg.(type) {
	case *cash.CreateAccountMsg:
		return fieldCreateAccountMsg, nil
	case *cash.SendMsg:
		return fieldSendMsg, nil
	case *escrow.InitializeMsg:
		return fieldInitializeEscrowMsg, nil
	case *escrow.DepositMsg:
		return fieldDepositEscrowMsg, nil
	case *escrow.WithdrawMsg:
		return fieldWithdrawEscrowMsg, nil
	}
	return 0, errors.Wrapf(errors.ErrType, "unsupported message %T", msg)
}
