package capital

import (
	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/errors"
)

const (
	statusQueryPath = "/capital/status"
	termsQueryPath  = "/capital/terms"
)

// RegisterQuery registers the raw instance bucket as "/capital" together
// with the status and terms queries. All of them expect an instance
// address as the query data.
func RegisterQuery(qr capcall.QueryRouter) {
	b := NewEscrowBucket()
	b.Register("capital", qr)
	qr.Register(statusQueryPath, capcall.QueryHandlerFunc(func(db capcall.ReadOnlyKVStore, mod string, data []byte) ([]capcall.Model, error) {
		e, key, err := loadForQuery(b, db, mod, data)
		if err != nil || e == nil {
			return nil, err
		}
		return marshalModel(key, &StatusResponse{Status: e.Status})
	}))
	qr.Register(termsQueryPath, capcall.QueryHandlerFunc(func(db capcall.ReadOnlyKVStore, mod string, data []byte) ([]capcall.Model, error) {
		e, key, err := loadForQuery(b, db, mod, data)
		if err != nil || e == nil {
			return nil, err
		}
		return marshalModel(key, e.Terms())
	}))
}

// loadForQuery returns nil without an error when there is no such
// instance, as every key query does on a miss.
func loadForQuery(b EscrowBucket, db capcall.ReadOnlyKVStore, mod string, data []byte) (*Escrow, []byte, error) {
	if mod != capcall.KeyQueryMod {
		return nil, nil, errors.Wrapf(errors.ErrHuman, "not implemented: %s", mod)
	}
	e, err := b.Load(db, data)
	switch {
	case err == nil:
		return e, b.DBKey(data), nil
	case errors.ErrNotFound.Is(err):
		return nil, nil, nil
	default:
		return nil, nil, err
	}
}

func marshalModel(key []byte, p capcall.Persistent) ([]capcall.Model, error) {
	raw, err := capcall.Marshal(p)
	if err != nil {
		return nil, err
	}
	return []capcall.Model{capcall.Pair(key, raw)}, nil
}
