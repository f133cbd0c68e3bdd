package weavetest

import "github.com/iov-one/custody"

// Tx carries a single message through the handler stack.
type Tx struct {
	// Msg is returned by GetMsg.
	Msg custody.Msg
	// Err if set is returned by any method call.
	Err error
}

var _ custody.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (custody.Msg, error) {
	return tx.Msg, tx.Err
}

func (tx *Tx) Unmarshal([]byte) error {
	return tx.Err
}

func (tx *Tx) Marshal() ([]byte, error) {
	if tx.Err != nil || tx.Msg == nil {
		return nil, tx.Err
	}
	return tx.Msg.Marshal()
}

// Msg is a message mock routed by its RoutePath.
type Msg struct {
	// RoutePath is returned by Path and consumed by the router.
	RoutePath string
	// Serialized represents the serialized form of this message.
	Serialized []byte
	// Err if set is returned by any method call.
	Err error
}

var _ custody.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}

func (m *Msg) Unmarshal(b []byte) error {
	m.Serialized = b
	return m.Err
}

func (m *Msg) Marshal() ([]byte, error) {
	return m.Serialized, m.Err
}
