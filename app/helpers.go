package app

import (
	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// rawQueryPath serves direct key lookups against the application store.
const rawQueryPath = "/"

// RegisterQuery exposes the raw store under "/". Data is the full
// database key.
func RegisterQuery(qr capcall.QueryRouter) {
	qr.Register(rawQueryPath, capcall.QueryHandlerFunc(rawQuery))
}

func rawQuery(db capcall.ReadOnlyKVStore, mod string, key []byte) ([]capcall.Model, error) {
	if mod != capcall.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrHuman, "unsupported query modifier %q", mod)
	}
	if len(key) == 0 {
		return nil, errors.Wrap(errors.ErrInput, "missing key")
	}
	value, err := db.Get(key)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if value == nil {
		return nil, nil
	}
	return []capcall.Model{capcall.Pair(key, value)}, nil
}

// ABCIStore exposes the abci.Query interface as a ReadOnlyKVStore
type ABCIStore struct {
	app abci.Application
}

var _ capcall.ReadOnlyKVStore = (*ABCIStore)(nil)

func NewABCIStore(app abci.Application) *ABCIStore {
	return &ABCIStore{app: app}
}

// Get will query for exactly one value over the abci store.
// This can be wrapped with a bucket to reuse key/index/parse logic
func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	query := a.app.Query(abci.RequestQuery{
		Path: rawQueryPath,
		Data: key,
	})
	if query.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(query.Code, query.Log)
	}
	var value ResultSet
	if err := capcall.Unmarshal(query.Value, &value); err != nil {
		return nil, errors.Wrap(err, "unmarshal result set")
	}
	switch len(value.Results) {
	case 0:
		return nil, nil
	case 1:
		return value.Results[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrState, "%d results for a single key", len(value.Results))
	}
}

// Has returns true if the given key in in the abci app store
func (a *ABCIStore) Has(key []byte) (bool, error) {
	v, err := a.Get(key)
	return len(v) > 0, err
}
