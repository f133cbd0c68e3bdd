package coin

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/weavetest/assert"
)

func TestCoinArithmetic(t *testing.T) {
	cases := map[string]struct {
		a, b    Coin
		wantAdd Coin
		addErr  *errors.Error
		wantSub Coin
		subErr  *errors.Error
	}{
		"simple": {
			a:       NewCoin(150, "IOV"),
			b:       NewCoin(100, "IOV"),
			wantAdd: NewCoin(250, "IOV"),
			wantSub: NewCoin(50, "IOV"),
		},
		"zero": {
			a:       NewCoin(0, "IOV"),
			b:       NewCoin(0, "IOV"),
			wantAdd: NewCoin(0, "IOV"),
			wantSub: NewCoin(0, "IOV"),
		},
		"insufficient": {
			a:       NewCoin(100, "IOV"),
			b:       NewCoin(150, "IOV"),
			wantAdd: NewCoin(250, "IOV"),
			subErr:  errors.ErrInsufficientAmount,
		},
		"overflow": {
			a:       NewCoin(math.MaxUint64, "IOV"),
			b:       NewCoin(1, "IOV"),
			addErr:  errors.ErrOverflow,
			wantSub: NewCoin(math.MaxUint64-1, "IOV"),
		},
		"currency mismatch": {
			a:      NewCoin(1, "IOV"),
			b:      NewCoin(1, "ETH"),
			addErr: errors.ErrCurrency,
			subErr: errors.ErrCurrency,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			sum, err := tc.a.Add(tc.b)
			if tc.addErr != nil {
				assert.IsErr(t, tc.addErr, err)
			} else {
				assert.Nil(t, err)
				assert.Equal(t, tc.wantAdd, sum)
			}

			rest, err := tc.a.Subtract(tc.b)
			if tc.subErr != nil {
				assert.IsErr(t, tc.subErr, err)
			} else {
				assert.Nil(t, err)
				assert.Equal(t, tc.wantSub, rest)
			}
		})
	}
}

func TestAdd64(t *testing.T) {
	sum, err := Add64(math.MaxUint64-5, 5)
	assert.Nil(t, err)
	assert.Equal(t, uint64(math.MaxUint64), sum)

	_, err = Add64(math.MaxUint64-5, 6)
	assert.IsErr(t, errors.ErrOverflow, err)

	rest, err := Sub64(5, 5)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), rest)

	_, err = Sub64(5, 6)
	assert.IsErr(t, errors.ErrInsufficientAmount, err)
}

func TestParseHumanFormat(t *testing.T) {
	cases := map[string]struct {
		input   string
		want    Coin
		wantErr *errors.Error
	}{
		"with space":        {input: "100 IOV", want: NewCoin(100, "IOV")},
		"without space":     {input: "7ETH", want: NewCoin(7, "ETH")},
		"zero":              {input: "0 IOV", want: NewCoin(0, "IOV")},
		"max":               {input: "18446744073709551615 IOV", want: NewCoin(math.MaxUint64, "IOV")},
		"too big":           {input: "18446744073709551616 IOV", wantErr: errors.ErrOverflow},
		"negative":          {input: "-1 IOV", wantErr: errors.ErrInput},
		"fractional":        {input: "1.5 IOV", wantErr: errors.ErrInput},
		"lower case ticker": {input: "1 iov", wantErr: errors.ErrInput},
		"no ticker":         {input: "100", wantErr: errors.ErrInput},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := ParseHumanFormat(tc.input)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.input != "7ETH", got.String() == tc.input)
		})
	}
}

func TestCoinSerialization(t *testing.T) {
	c := NewCoinp(12345, "IOV")
	raw, err := c.Marshal()
	assert.Nil(t, err)
	var got Coin
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, *c, got)

	var fromHuman Coin
	assert.Nil(t, json.Unmarshal([]byte(`"42 ETH"`), &fromHuman))
	assert.Equal(t, NewCoin(42, "ETH"), fromHuman)

	var fromObj Coin
	assert.Nil(t, json.Unmarshal([]byte(`{"ticker":"ETH","amount":42}`), &fromObj))
	assert.Equal(t, NewCoin(42, "ETH"), fromObj)
}

func TestCoinValidate(t *testing.T) {
	assert.Nil(t, NewCoin(0, "IOV").Validate())
	assert.Nil(t, NewCoin(1, "ABCD").Validate())
	assert.IsErr(t, errors.ErrCurrency, NewCoin(1, "AB").Validate())
	assert.IsErr(t, errors.ErrCurrency, NewCoin(1, "").Validate())
}
