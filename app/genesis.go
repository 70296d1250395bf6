package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/errors"
)

// Genesis file format, designed to be overlayed with tendermint genesis
type Genesis struct {
	ChainID  string          `json:"chain_id"`
	AppState capcall.Options `json:"app_state"`
}

// LoadGenesis tries to load a given file into a Genesis struct
func LoadGenesis(filePath string) (*Genesis, error) {
	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	var gen Genesis
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "genesis %s: %s", filePath, err)
	}
	return &gen, nil
}

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...capcall.Initializer) capcall.Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []capcall.Initializer
}

// FromGenesis will pass opts to all Initializers in the list,
// aborting at the first error.
func (c chainInitializer) FromGenesis(ctx capcall.Context, opts capcall.Options, kv capcall.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(ctx, opts, kv); err != nil {
			return err
		}
	}
	return nil
}
