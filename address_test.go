package capcall_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/capcalltest/assert"
	"github.com/iov-one/capcall/errors"
	"github.com/stretchr/testify/require"
)

func TestAddressString(t *testing.T) {
	addr := capcall.NewAddress([]byte("provider"))
	assert.Equal(t, fmt.Sprintf("%X", []byte(addr)), addr.String())
	assert.Equal(t, "(nil)", capcall.Address(nil).String())
}

func TestAddressValidate(t *testing.T) {
	assert.Nil(t, capcall.NewAddress([]byte("provider")).Validate())
	assert.IsErr(t, errors.ErrInput, capcall.Address(nil).Validate())
	assert.IsErr(t, errors.ErrInput, capcall.Address("short").Validate())
}

func TestAddressClone(t *testing.T) {
	addr := capcall.NewAddress([]byte("provider"))
	cpy := addr.Clone()
	assert.Equal(t, addr, cpy)
	cpy[0]++
	assert.Equal(t, false, addr.Equals(cpy))
	assert.Nil(t, capcall.Address(nil).Clone())
}

func TestParseAddress(t *testing.T) {
	instance := capcall.NewCondition("capital", "seq", []byte{0, 0, 0, 0, 0, 0, 0, 1}).Address()
	b32, err := instance.Bech32("capcall")
	require.NoError(t, err)

	cases := map[string]struct {
		enc      string
		wantErr  *errors.Error
		wantAddr capcall.Address
	}{
		"plain hex": {
			enc:      instance.String(),
			wantAddr: instance,
		},
		"hex prefix": {
			enc:      fmt.Sprintf("hex:%x", []byte(instance)),
			wantAddr: instance,
		},
		"condition": {
			enc:      "cond:capital/seq/0000000000000001",
			wantAddr: instance,
		},
		"bech32": {
			enc:      "bech32:" + b32,
			wantAddr: instance,
		},
		"empty": {
			enc: "",
		},
		"empty with prefix": {
			enc: "cond:",
		},
		"bad bech32 checksum": {
			enc:     "bech32:capcall1qqqqqqqq",
			wantErr: errors.ErrInput,
		},
		"hex too short": {
			enc:     "6865782d61646472",
			wantErr: errors.ErrInput,
		},
		"not hex": {
			enc:     "provider",
			wantErr: errors.ErrInput,
		},
		"condition without type": {
			enc:     "cond:capital/0001",
			wantErr: errors.ErrInput,
		},
		"condition data not hex": {
			enc:     "cond:capital/seq/zz",
			wantErr: errors.ErrInput,
		},
		"unknown format": {
			enc:     "base64:AAAA",
			wantErr: errors.ErrType,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			addr, err := capcall.ParseAddress(tc.enc)
			assert.IsErr(t, tc.wantErr, err)
			assert.Equal(t, tc.wantAddr, addr)
		})
	}
}

func TestAddressJSON(t *testing.T) {
	provider := capcall.NewAddress([]byte("provider"))
	raw, err := json.Marshal(struct {
		Provider capcall.Address `json:"provider"`
	}{provider})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf(`{"provider":"%s"}`, provider), string(raw))

	var got struct {
		Provider capcall.Address `json:"provider"`
	}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, provider, got.Provider)

	assert.IsErr(t, errors.ErrInput, json.Unmarshal([]byte(`{"provider": 12}`), &got))
}
