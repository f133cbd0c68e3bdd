package custody

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody/errors"
)

// Protobuf wire types used by the models of this application.
const (
	WireVarint  = 0
	WireFixed64 = 1
	WireBytes   = 2
	WireFixed32 = 5
)

// Encoder serializes fields using the protobuf wire format. All models and
// messages are encoded with it, so that any protobuf client can read the
// state. As in proto3, zero values are not written.
//
// The first error encountered is kept and returned by Result, so that
// calls can be chained.
type Encoder struct {
	buf *proto.Buffer
	err error
}

// NewEncoder returns an encoder writing into a fresh buffer.
func NewEncoder() *Encoder {
	return &Encoder{buf: proto.NewBuffer(nil)}
}

func (e *Encoder) key(field, wire int) {
	if e.err == nil {
		e.err = e.buf.EncodeVarint(uint64(field<<3 | wire))
	}
}

// Bytes writes a length delimited field. Empty values are omitted.
func (e *Encoder) Bytes(field int, b []byte) *Encoder {
	if len(b) == 0 {
		return e
	}
	e.key(field, WireBytes)
	if e.err == nil {
		e.err = e.buf.EncodeRawBytes(b)
	}
	return e
}

// String writes a string field. Empty values are omitted.
func (e *Encoder) String(field int, s string) *Encoder {
	return e.Bytes(field, []byte(s))
}

// Uint64 writes a varint field. Zero is omitted.
func (e *Encoder) Uint64(field int, v uint64) *Encoder {
	if v == 0 {
		return e
	}
	e.key(field, WireVarint)
	if e.err == nil {
		e.err = e.buf.EncodeVarint(v)
	}
	return e
}

// Message writes an embedded message. A nil message is omitted, an empty
// one is written, so that repeated fields keep their length.
func (e *Encoder) Message(field int, m Marshaller) *Encoder {
	if e.err != nil || m == nil {
		return e
	}
	raw, err := m.Marshal()
	if err != nil {
		e.err = err
		return e
	}
	e.key(field, WireBytes)
	if e.err == nil {
		e.err = e.buf.EncodeRawBytes(raw)
	}
	return e
}

// Result returns the serialized data or the first error encountered.
func (e *Encoder) Result() ([]byte, error) {
	if e.err != nil {
		return nil, errors.Wrap(e.err, "encode")
	}
	return e.buf.Bytes(), nil
}

// Decoder reads fields encoded in the protobuf wire format.
//
//   d := NewDecoder(raw)
//   for d.More() {
//     field, wire, err := d.Field()
//     ...
//   }
type Decoder struct {
	data []byte
	idx  int
}

// NewDecoder returns a decoder reading given data.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// More returns true if there is still data to read.
func (d *Decoder) More() bool {
	return d.idx < len(d.data)
}

func (d *Decoder) varint() (uint64, error) {
	x, n := proto.DecodeVarint(d.data[d.idx:])
	if n == 0 {
		return 0, errors.Wrap(errors.ErrInput, "malformed varint")
	}
	d.idx += n
	return x, nil
}

// Field reads the next field key and returns its number and wire type.
func (d *Decoder) Field() (int, int, error) {
	key, err := d.varint()
	if err != nil {
		return 0, 0, err
	}
	field := int(key >> 3)
	if field <= 0 {
		return 0, 0, errors.Wrapf(errors.ErrInput, "illegal field number %d", field)
	}
	return field, int(key & 7), nil
}

// Uint64 reads a varint value.
func (d *Decoder) Uint64(wire int) (uint64, error) {
	if wire != WireVarint {
		return 0, errors.Wrapf(errors.ErrInput, "want varint, got wire type %d", wire)
	}
	return d.varint()
}

// Bytes reads a length delimited value. Returned slice is a copy.
func (d *Decoder) Bytes(wire int) ([]byte, error) {
	if wire != WireBytes {
		return nil, errors.Wrapf(errors.ErrInput, "want bytes, got wire type %d", wire)
	}
	size, err := d.varint()
	if err != nil {
		return nil, err
	}
	end := d.idx + int(size)
	if size > uint64(len(d.data)) || end > len(d.data) {
		return nil, errors.Wrap(errors.ErrInput, "unexpected end of data")
	}
	out := make([]byte, int(size))
	copy(out, d.data[d.idx:end])
	d.idx = end
	return out, nil
}

// String reads a length delimited value as a string.
func (d *Decoder) String(wire int) (string, error) {
	b, err := d.Bytes(wire)
	return string(b), err
}

// Message reads an embedded message into given destination.
func (d *Decoder) Message(wire int, dest Persistent) error {
	raw, err := d.Bytes(wire)
	if err != nil {
		return err
	}
	return dest.Unmarshal(raw)
}

// Skip ignores a value of an unknown field.
func (d *Decoder) Skip(wire int) error {
	switch wire {
	case WireVarint:
		_, err := d.varint()
		return err
	case WireBytes:
		_, err := d.Bytes(wire)
		return err
	case WireFixed64:
		return d.advance(8)
	case WireFixed32:
		return d.advance(4)
	default:
		return errors.Wrapf(errors.ErrInput, "unsupported wire type %d", wire)
	}
}

func (d *Decoder) advance(n int) error {
	if d.idx+n > len(d.data) {
		return errors.Wrap(errors.ErrInput, "unexpected end of data")
	}
	d.idx += n
	return nil
}
