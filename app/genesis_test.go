package app

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/capcalltest/assert"
	"github.com/iov-one/capcall/errors"
	"github.com/iov-one/capcall/store"
	"github.com/stretchr/testify/require"
)

const dummyKey = "dummy"

type dummyInit struct{}

func (dummyInit) FromGenesis(ctx capcall.Context, opts capcall.Options, kv capcall.KVStore) error {
	var value string
	if err := opts.ReadOptions(dummyKey, &value); err != nil {
		return err
	}
	if value == "" {
		return nil
	}
	return kv.Set([]byte(dummyKey), []byte(value))
}

type countInit struct {
	called    int
	blockTime time.Time
	err       error
}

func (c *countInit) FromGenesis(ctx capcall.Context, opts capcall.Options, kv capcall.KVStore) error {
	c.called++
	c.blockTime, _ = capcall.BlockTime(ctx)
	return c.err
}

func TestChainInitializers(t *testing.T) {
	first := &countInit{}
	failing := &countInit{err: errors.ErrState}
	last := &countInit{}

	init := ChainInitializers(first, failing, last)
	err := init.FromGenesis(context.Background(), capcall.Options{}, store.MemStore())
	assert.IsErr(t, errors.ErrState, err)
	assert.Equal(t, 1, first.called)
	assert.Equal(t, 1, failing.called)
	assert.Equal(t, 0, last.called)
}

func TestLoadGenesis(t *testing.T) {
	dir, err := ioutil.TempDir("", "capcall-genesis")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	valid := filepath.Join(dir, "genesis.json")
	require.NoError(t, ioutil.WriteFile(valid, []byte(`{
		"chain_id": "capcall-test-7",
		"app_state": {"dummy": "secret"}
	}`), 0600))
	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, ioutil.WriteFile(broken, []byte(`{"chain_id": `), 0600))

	cases := map[string]struct {
		path      string
		wantErr   *errors.Error
		wantChain string
		wantValue string
	}{
		"valid file": {
			path:      valid,
			wantChain: "capcall-test-7",
			wantValue: "secret",
		},
		"missing file": {
			path:    filepath.Join(dir, "missing.json"),
			wantErr: errors.ErrInput,
		},
		"malformed file": {
			path:    broken,
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			gen, err := LoadGenesis(tc.path)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}
			assert.Equal(t, tc.wantChain, gen.ChainID)
			var value string
			require.NoError(t, gen.AppState.ReadOptions(dummyKey, &value))
			assert.Equal(t, tc.wantValue, value)
		})
	}
}
