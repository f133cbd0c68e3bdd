/*
Package crypto holds the keys used to sign transactions and the
signatures they produce. Only ed25519 is supported.
*/
package crypto

import (
	"encoding/hex"
	"encoding/json"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// ExtensionName is used for the conditions we get from signatures
const ExtensionName = "sigs"

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// PublicKey is an ed25519 public key.
type PublicKey struct {
	Ed25519 []byte
}

var _ custody.Persistent = (*PublicKey)(nil)

func (p *PublicKey) Marshal() ([]byte, error) {
	return custody.NewEncoder().Bytes(1, p.Ed25519).Result()
}

func (p *PublicKey) Unmarshal(raw []byte) error {
	*p = PublicKey{}
	return decodeKey(raw, &p.Ed25519)
}

// MarshalJSON encodes the key as a hex string.
func (p PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(p.Ed25519))
}

func (p *PublicKey) UnmarshalJSON(raw []byte) error {
	return unmarshalHex(raw, &p.Ed25519)
}

// Signature is an ed25519 signature.
type Signature struct {
	Ed25519 []byte
}

var _ custody.Persistent = (*Signature)(nil)

func (s *Signature) Marshal() ([]byte, error) {
	return custody.NewEncoder().Bytes(1, s.Ed25519).Result()
}

func (s *Signature) Unmarshal(raw []byte) error {
	*s = Signature{}
	return decodeKey(raw, &s.Ed25519)
}

// PrivateKey is an ed25519 private key. Keep it secret.
type PrivateKey struct {
	Ed25519 []byte
}

var _ custody.Persistent = (*PrivateKey)(nil)

func (p *PrivateKey) Marshal() ([]byte, error) {
	return custody.NewEncoder().Bytes(1, p.Ed25519).Result()
}

func (p *PrivateKey) Unmarshal(raw []byte) error {
	*p = PrivateKey{}
	return decodeKey(raw, &p.Ed25519)
}

// MarshalJSON encodes the key as a hex string.
func (p PrivateKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(p.Ed25519))
}

func (p *PrivateKey) UnmarshalJSON(raw []byte) error {
	return unmarshalHex(raw, &p.Ed25519)
}

// decodeKey reads a message with a single bytes field.
func decodeKey(raw []byte, dest *[]byte) error {
	d := custody.NewDecoder(raw)
	for d.More() {
		field, wire, err := d.Field()
		if err != nil {
			return err
		}
		if field != 1 {
			if err := d.Skip(wire); err != nil {
				return err
			}
			continue
		}
		if *dest, err = d.Bytes(wire); err != nil {
			return errors.Wrap(err, "ed25519")
		}
	}
	return nil
}

func unmarshalHex(raw []byte, dest *[]byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return errors.Wrap(errors.ErrInput, "invalid hex key")
	}
	*dest = b
	return nil
}
