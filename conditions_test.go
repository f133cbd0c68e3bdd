package custody_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/weavetest/assert"
	. "github.com/smartystreets/goconvey/convey"
)

func TestConditionPrinting(t *testing.T) {
	Convey("a condition keeps extension and type readable", t, func() {
		cond := custody.NewCondition("escrow", "seq", []byte{0, 1, 0xff})
		So(cond.String(), ShouldEqual, "escrow/seq/0001FF")
		So(cond.Validate(), ShouldBeNil)

		ext, typ, data, err := cond.Parse()
		So(err, ShouldBeNil)
		So(ext, ShouldEqual, "escrow")
		So(typ, ShouldEqual, "seq")
		So(data, ShouldResemble, []byte{0, 1, 0xff})
	})

	Convey("an address is printed as upper case hex", t, func() {
		addr := custody.NewAddress([]byte("some data"))
		So(addr.String(), ShouldEqual, fmt.Sprintf("%X", []byte(addr)))
		So(custody.Address(nil).String(), ShouldEqual, "(nil)")
	})
}

func TestConditionValidate(t *testing.T) {
	cases := map[string]struct {
		cond    custody.Condition
		wantErr *errors.Error
	}{
		"valid":            {cond: custody.NewCondition("sigs", "ed25519", []byte("key"))},
		"data with spaces": {cond: custody.NewCondition("sigs", "ed25519", []byte("a\nb c"))},
		"short extension":  {cond: custody.NewCondition("a", "ed25519", []byte("key")), wantErr: errors.ErrInput},
		"no data":          {cond: custody.Condition("sigs/ed25519/"), wantErr: errors.ErrInput},
		"empty":            {cond: nil, wantErr: errors.ErrInput},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.cond.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
			} else {
				assert.IsErr(t, tc.wantErr, err)
			}
		})
	}
}

func TestAddressUnmarshalJSON(t *testing.T) {
	addr := custody.NewAddress([]byte("owner"))
	cond := custody.NewCondition("escrow", "seq", []byte("escrow-1"))
	b32, err := addr.Bech32("tiov")
	assert.Nil(t, err)

	cases := map[string]struct {
		json     string
		wantErr  *errors.Error
		wantAddr custody.Address
	}{
		"default decoding": {
			json:     fmt.Sprintf(`"%X"`, []byte(addr)),
			wantAddr: addr,
		},
		"hex decoding": {
			json:     fmt.Sprintf(`"hex:%x"`, []byte(addr)),
			wantAddr: addr,
		},
		"cond decoding": {
			json:     fmt.Sprintf(`"cond:escrow/seq/%x"`, []byte("escrow-1")),
			wantAddr: cond.Address(),
		},
		"bech32 decoding": {
			json:     fmt.Sprintf(`"bech32:%s"`, b32),
			wantAddr: addr,
		},
		"empty string": {
			json:     `""`,
			wantAddr: nil,
		},
		"invalid condition format": {
			json:    `"cond:escrow/6573"`,
			wantErr: errors.ErrInput,
		},
		"unknown format": {
			json:    `"base64:AAAA"`,
			wantErr: errors.ErrType,
		},
		"wrong length": {
			json:    `"0102"`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var a custody.Address
			err := json.Unmarshal([]byte(tc.json), &a)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.wantAddr, a)
		})
	}
}

func TestAddressJSONRoundTrip(t *testing.T) {
	addr := custody.NewAddress([]byte("token account"))
	raw, err := json.Marshal(addr)
	assert.Nil(t, err)

	var got custody.Address
	assert.Nil(t, json.Unmarshal(raw, &got))
	assert.Equal(t, addr, got)

	cond := custody.NewCondition("escrow", "seq", []byte{1, 2, 3})
	raw, err = json.Marshal(cond)
	assert.Nil(t, err)
	assert.Equal(t, `"escrow/seq/010203"`, string(raw))

	var c custody.Condition
	assert.Nil(t, json.Unmarshal(raw, &c))
	assert.Equal(t, cond, c)
}

func TestAddressClone(t *testing.T) {
	addr := custody.NewAddress([]byte("a"))
	cpy := addr.Clone()
	assert.Equal(t, addr, cpy)
	cpy[0]++
	if addr.Equals(cpy) {
		t.Fatal("clone shares memory with the original")
	}
	if custody.Address(nil).Clone() != nil {
		t.Fatal("clone of nil must be nil")
	}
}
