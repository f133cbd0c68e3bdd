package escrow

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

var (
	_ custody.Msg = (*InitializeMsg)(nil)
	_ custody.Msg = (*DepositMsg)(nil)
	_ custody.Msg = (*WithdrawMsg)(nil)
)

// InitializeMsg creates an escrow owned by the signer.
type InitializeMsg struct {
	EscrowID     []byte
	TokenAccount custody.Address
}

func (InitializeMsg) Path() string {
	return "escrow/initialize"
}

func (m *InitializeMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "EscrowID", validateID(m.EscrowID))
	errs = errors.AppendField(errs, "TokenAccount", m.TokenAccount.Validate())
	return errs
}

func (m *InitializeMsg) Marshal() ([]byte, error) {
	return custody.NewEncoder().
		Bytes(1, m.EscrowID).
		Bytes(2, m.TokenAccount).
		Result()
}

func (m *InitializeMsg) Unmarshal(raw []byte) error {
	*m = InitializeMsg{}
	d := custody.NewDecoder(raw)
	for d.More() {
		field, wire, err := d.Field()
		if err != nil {
			return err
		}
		var b []byte
		switch field {
		case 1:
			m.EscrowID, err = d.Bytes(wire)
		case 2:
			b, err = d.Bytes(wire)
			m.TokenAccount = b
		default:
			err = d.Skip(wire)
		}
		if err != nil {
			return errors.Wrap(err, "initialize msg")
		}
	}
	return nil
}

// DepositMsg moves tokens from Source into the custody account
// Destination of the escrow.
type DepositMsg struct {
	EscrowID    []byte
	Source      custody.Address
	Destination custody.Address
	Amount      uint64
}

func (DepositMsg) Path() string {
	return "escrow/deposit"
}

func (m *DepositMsg) Validate() error {
	return validateTransfer(m.EscrowID, m.Source, m.Destination)
}

func (m *DepositMsg) Marshal() ([]byte, error) {
	return marshalTransfer(m.EscrowID, m.Source, m.Destination, m.Amount)
}

func (m *DepositMsg) Unmarshal(raw []byte) error {
	*m = DepositMsg{}
	err := unmarshalTransfer(raw, &m.EscrowID, &m.Source, &m.Destination, &m.Amount)
	return errors.Wrap(err, "deposit msg")
}

// WithdrawMsg moves tokens from the custody account Source of the escrow
// to Destination.
type WithdrawMsg struct {
	EscrowID    []byte
	Source      custody.Address
	Destination custody.Address
	Amount      uint64
}

func (WithdrawMsg) Path() string {
	return "escrow/withdraw"
}

func (m *WithdrawMsg) Validate() error {
	return validateTransfer(m.EscrowID, m.Source, m.Destination)
}

func (m *WithdrawMsg) Marshal() ([]byte, error) {
	return marshalTransfer(m.EscrowID, m.Source, m.Destination, m.Amount)
}

func (m *WithdrawMsg) Unmarshal(raw []byte) error {
	*m = WithdrawMsg{}
	err := unmarshalTransfer(raw, &m.EscrowID, &m.Source, &m.Destination, &m.Amount)
	return errors.Wrap(err, "withdraw msg")
}

// Deposit and withdraw share the same fields and layout.

func validateTransfer(id []byte, src, dest custody.Address) error {
	var errs error
	errs = errors.AppendField(errs, "EscrowID", validateID(id))
	errs = errors.AppendField(errs, "Source", src.Validate())
	errs = errors.AppendField(errs, "Destination", dest.Validate())
	return errs
}

func marshalTransfer(id []byte, src, dest custody.Address, amount uint64) ([]byte, error) {
	return custody.NewEncoder().
		Bytes(1, id).
		Bytes(2, src).
		Bytes(3, dest).
		Uint64(4, amount).
		Result()
}

func unmarshalTransfer(raw []byte, id *[]byte, src, dest *custody.Address, amount *uint64) error {
	d := custody.NewDecoder(raw)
	for d.More() {
		field, wire, err := d.Field()
		if err != nil {
			return err
		}
		var b []byte
		switch field {
		case 1:
			*id, err = d.Bytes(wire)
		case 2:
			b, err = d.Bytes(wire)
			*src = b
		case 3:
			b, err = d.Bytes(wire)
			*dest = b
		case 4:
			*amount, err = d.Uint64(wire)
		default:
			err = d.Skip(wire)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
