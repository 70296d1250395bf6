package app

import (
	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/errors"
)

// State holds the committed ledger and the two layers tendermint writes
// into between commits. Delivered writes reach disk on Commit, checked
// writes never do.
type State struct {
	db      capcall.CommitKVStore
	deliver capcall.KVCacheWrap
	check   capcall.KVCacheWrap
}

// OpenState loads the latest committed version of db.
func OpenState(db capcall.CommitKVStore) (*State, error) {
	if err := db.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load latest version")
	}
	s := &State{db: db}
	s.reopen()
	return s, nil
}

func (s *State) reopen() {
	s.deliver = s.db.CacheWrap()
	s.check = s.db.CacheWrap()
}

// LastCommit returns the height and app hash of the latest commit.
func (s *State) LastCommit() (capcall.CommitID, error) {
	id, err := s.db.LatestVersion()
	return id, errors.Wrap(err, "latest version")
}

// Commit persists the delivered block and starts both layers afresh.
// Pending checks are dropped.
func (s *State) Commit() (capcall.CommitID, error) {
	s.check.Discard()
	if err := s.deliver.Write(); err != nil {
		return capcall.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	id, err := s.db.Commit()
	if err != nil {
		return id, errors.Wrap(err, "commit")
	}
	s.reopen()
	return id, nil
}

// Deliver is the layer of the block being executed.
func (s *State) Deliver() capcall.CacheableKVStore {
	return s.deliver
}

// Check is the layer mempool validation runs on.
func (s *State) Check() capcall.CacheableKVStore {
	return s.check
}

// Snapshot returns a throwaway layer over the latest commit.
func (s *State) Snapshot() capcall.KVCacheWrap {
	return s.db.CacheWrap()
}

// chainIDKey is outside of every bucket namespace. Bucket names cannot
// start with an underscore.
const chainIDKey = "_cc:chainID"

// loadChainID returns the chain id written at genesis, or an empty string
// on a fresh ledger.
func loadChainID(kv capcall.ReadOnlyKVStore) (string, error) {
	raw, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return string(raw), nil
}

// saveChainID writes the chain id. It can be written only once.
func saveChainID(kv capcall.KVStore, chainID string) error {
	if !capcall.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id %q", chainID)
	}
	switch current, err := loadChainID(kv); {
	case err != nil:
		return err
	case current != "":
		return errors.Wrapf(errors.ErrState, "chain id already set to %s", current)
	}
	if err := kv.Set([]byte(chainIDKey), []byte(chainID)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
