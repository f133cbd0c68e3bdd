package cash

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file
// use custody.Address, so address in hex, not base64
type GenesisAccount struct {
	Address custody.Address `json:"address"`
	Owner   custody.Address `json:"owner"`
	Ticker  string          `json:"ticker"`
	Balance uint64          `json:"balance"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ custody.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts custody.Options, kv custody.KVStore) error {
	accts := []GenesisAccount{}
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	ctrl := NewController()
	for i, a := range accts {
		if _, err := ctrl.Open(kv, a.Address, a.Owner, a.Ticker); err != nil {
			return errors.Wrapf(err, "genesis account %d", i)
		}
		if err := ctrl.Issue(kv, a.Address, a.Balance); err != nil {
			return errors.Wrapf(err, "genesis account %d", i)
		}
	}
	return nil
}
