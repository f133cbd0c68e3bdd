package custody

import (
	"testing"

	"github.com/iov-one/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pair struct {
	Name  string
	Count uint64
}

func (p *pair) Marshal() ([]byte, error) {
	return NewEncoder().String(1, p.Name).Uint64(2, p.Count).Result()
}

func (p *pair) Unmarshal(raw []byte) error {
	*p = pair{}
	d := NewDecoder(raw)
	for d.More() {
		field, wire, err := d.Field()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			p.Name, err = d.String(wire)
		case 2:
			p.Count, err = d.Uint64(wire)
		default:
			err = d.Skip(wire)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func TestEncoderWireFormat(t *testing.T) {
	raw, err := NewEncoder().
		Bytes(1, []byte("ab")).
		Uint64(3, 150).
		Result()
	require.NoError(t, err)
	// field 1 bytes, length 2, "ab", field 3 varint 150
	assert.Equal(t, []byte{0x0a, 0x02, 'a', 'b', 0x18, 0x96, 0x01}, raw)

	empty, err := NewEncoder().Bytes(1, nil).Uint64(2, 0).String(3, "").Result()
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestEncodeDecodeMessage(t *testing.T) {
	in := pair{Name: "escrow", Count: 1 << 40}
	raw, err := NewEncoder().Message(4, &in).Uint64(5, 9).Result()
	require.NoError(t, err)

	var out pair
	var extra uint64
	d := NewDecoder(raw)
	for d.More() {
		field, wire, err := d.Field()
		require.NoError(t, err)
		switch field {
		case 4:
			require.NoError(t, d.Message(wire, &out))
		case 5:
			extra, err = d.Uint64(wire)
			require.NoError(t, err)
		}
	}
	assert.Equal(t, in, out)
	assert.Equal(t, uint64(9), extra)
}

func TestDecoderSkipsUnknownFields(t *testing.T) {
	raw, err := NewEncoder().
		String(1, "name").
		Bytes(7, []byte("unknown")).
		Uint64(8, 12).
		Uint64(2, 3).
		Result()
	require.NoError(t, err)

	var p pair
	require.NoError(t, p.Unmarshal(raw))
	assert.Equal(t, pair{Name: "name", Count: 3}, p)
}

func TestDecoderErrors(t *testing.T) {
	cases := map[string][]byte{
		"truncated length":   {0x0a, 0x05, 'a'},
		"truncated varint":   {0x10, 0xff},
		"wrong wire type":    {0x08, 0x01},
		"field number zero":  {0x00, 0x01},
		"unsupported wire 3": {0x0b},
	}
	for testName, raw := range cases {
		t.Run(testName, func(t *testing.T) {
			var p pair
			err := p.Unmarshal(raw)
			require.Error(t, err)
			assert.True(t, errors.ErrInput.Is(err), "got %+v", err)
		})
	}
}
