package cash

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/errors"
)

var (
	_ custody.Msg = (*CreateAccountMsg)(nil)
	_ custody.Msg = (*SendMsg)(nil)
)

const (
	createAccountCost int64 = 50
	sendTxCost        int64 = 100

	maxMemoSize int = 128
)

// CreateAccountMsg opens an empty token account.
type CreateAccountMsg struct {
	Address custody.Address
	Owner   custody.Address
	Ticker  string
}

// Path returns the routing path for this message
func (CreateAccountMsg) Path() string {
	return "cash/create"
}

// Validate makes sure that this is sensible
func (m *CreateAccountMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Address", m.Address.Validate())
	errs = errors.AppendField(errs, "Owner", m.Owner.Validate())
	if !coin.IsCC(m.Ticker) {
		errs = errors.Append(errs, errors.Field("Ticker", errors.ErrCurrency, "invalid ticker %q", m.Ticker))
	}
	return errs
}

func (m *CreateAccountMsg) Marshal() ([]byte, error) {
	return custody.NewEncoder().
		Bytes(1, m.Address).
		Bytes(2, m.Owner).
		String(3, m.Ticker).
		Result()
}

func (m *CreateAccountMsg) Unmarshal(raw []byte) error {
	*m = CreateAccountMsg{}
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
			m.Address = b
		case 2:
			b, err = d.Bytes(wire)
			m.Owner = b
		case 3:
			m.Ticker, err = d.String(wire)
		default:
			err = d.Skip(wire)
		}
		if err != nil {
			return errors.Wrap(err, "create account msg")
		}
	}
	return nil
}

// SendMsg moves tokens between two accounts of the same ticker.
type SendMsg struct {
	Source      custody.Address
	Destination custody.Address
	Amount      uint64
	Memo        string
}

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if m.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be positive"))
	}
	if len(m.Memo) > maxMemoSize {
		errs = errors.Append(errs, errors.Field("Memo", errors.ErrInput, "memo too long"))
	}
	return errs
}

func (m *SendMsg) Marshal() ([]byte, error) {
	return custody.NewEncoder().
		Bytes(1, m.Source).
		Bytes(2, m.Destination).
		Uint64(3, m.Amount).
		String(4, m.Memo).
		Result()
}

func (m *SendMsg) Unmarshal(raw []byte) error {
	*m = SendMsg{}
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
			m.Source = b
		case 2:
			b, err = d.Bytes(wire)
			m.Destination = b
		case 3:
			m.Amount, err = d.Uint64(wire)
		case 4:
			m.Memo, err = d.String(wire)
		default:
			err = d.Skip(wire)
		}
		if err != nil {
			return errors.Wrap(err, "send msg")
		}
	}
	return nil
}
