package orm

import (
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/iov-one/custody/weavetest/assert"
)

type counter struct {
	Count uint64
	Label string
}

func (c *counter) Marshal() ([]byte, error) {
	return custody.NewEncoder().Uint64(1, c.Count).String(2, c.Label).Result()
}

func (c *counter) Unmarshal(raw []byte) error {
	*c = counter{}
	d := custody.NewDecoder(raw)
	for d.More() {
		field, wire, err := d.Field()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			c.Count, err = d.Uint64(wire)
		case 2:
			c.Label, err = d.String(wire)
		default:
			err = d.Skip(wire)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *counter) Validate() error {
	if c.Label == "" {
		return errors.Field("Label", errors.ErrEmpty, "required")
	}
	return nil
}

type other struct{ counter }

func TestModelBucketCreate(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnt", &counter{})

	assert.Nil(t, b.Create(db, []byte("a"), &counter{Count: 1, Label: "first"}))

	err := b.Create(db, []byte("a"), &counter{Count: 9, Label: "second"})
	assert.IsErr(t, errors.ErrDuplicate, err)

	// the original record is untouched
	var got counter
	assert.Nil(t, b.One(db, []byte("a"), &got))
	assert.Equal(t, counter{Count: 1, Label: "first"}, got)
}

func TestModelBucketPutOne(t *testing.T) {
	cases := map[string]struct {
		key     []byte
		model   Model
		wantErr *errors.Error
	}{
		"valid":          {key: []byte("k"), model: &counter{Count: 3, Label: "x"}},
		"zero count":     {key: []byte("k"), model: &counter{Label: "x"}},
		"invalid model":  {key: []byte("k"), model: &counter{Count: 3}, wantErr: errors.ErrEmpty},
		"empty key":      {key: nil, model: &counter{Label: "x"}, wantErr: errors.ErrEmpty},
		"different type": {key: []byte("k"), model: &other{counter{Label: "x"}}, wantErr: errors.ErrType},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			b := NewModelBucket("cnt", &counter{})
			err := b.Put(db, tc.key, tc.model)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)

			var got counter
			assert.Nil(t, b.One(db, tc.key, &got))
			assert.Equal(t, tc.model, &got)
		})
	}
}

func TestModelBucketOneErrors(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnt", &counter{})

	var c counter
	assert.IsErr(t, errors.ErrNotFound, b.One(db, []byte("missing"), &c))

	assert.Nil(t, b.Put(db, []byte("k"), &counter{Label: "x"}))
	var o other
	assert.IsErr(t, errors.ErrType, b.One(db, []byte("k"), &o))
}

func TestModelBucketDelete(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnt", &counter{})

	assert.IsErr(t, errors.ErrNotFound, b.Delete(db, []byte("k")))
	assert.Nil(t, b.Put(db, []byte("k"), &counter{Label: "x"}))
	has, err := b.Has(db, []byte("k"))
	assert.Nil(t, err)
	assert.Equal(t, true, has)

	assert.Nil(t, b.Delete(db, []byte("k")))
	has, err = b.Has(db, []byte("k"))
	assert.Nil(t, err)
	assert.Equal(t, false, has)
}

func TestBucketsDoNotOverlap(t *testing.T) {
	db := store.MemStore()
	first := NewModelBucket("first", &counter{})
	second := NewModelBucket("second", &counter{})

	assert.Nil(t, first.Put(db, []byte("k"), &counter{Count: 1, Label: "a"}))
	assert.Nil(t, second.Put(db, []byte("k"), &counter{Count: 2, Label: "b"}))
	assert.Nil(t, first.Put(db, []byte("k2"), &counter{Count: 3, Label: "c"}))

	var keys []string
	var total uint64
	err := first.Iterate(db, func(key []byte, m Model) error {
		keys = append(keys, string(key))
		total += m.(*counter).Count
		return nil
	})
	assert.Nil(t, err)
	assert.Equal(t, []string{"k", "k2"}, keys)
	assert.Equal(t, uint64(4), total)
}

func TestBucketDBKey(t *testing.T) {
	b := NewBucket("abcd")
	k1 := b.DBKey([]byte("ABC"))
	k2 := b.DBKey([]byte("LED"))
	assert.Equal(t, []byte("abcd:ABC"), k1)
	assert.Equal(t, []byte("abcd:LED"), k2)

	assert.Panics(t, func() { NewBucket("NO") })
	assert.Panics(t, func() { NewBucket("with-dash") })
}

func TestPrefixEnd(t *testing.T) {
	assert.Equal(t, []byte("esc;"), prefixEnd([]byte("esc:")))
	assert.Equal(t, []byte{0x01}, prefixEnd([]byte{0x00, 0xff}))
	if prefixEnd([]byte{0xff, 0xff}) != nil {
		t.Fatal("prefix of 0xff bytes has no end")
	}
}
