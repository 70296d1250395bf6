package app

import (
	"crypto/rand"
	"encoding/json"
	"fmt"

	"github.com/iov-one/capcall"
	"github.com/iov-one/capcall/coin"
	"github.com/iov-one/capcall/errors"
	"github.com/iov-one/capcall/x/ledger"
)

const defaultSupply = 123456789

// GenInitOptions will produce some basic options for one rich
// account, to use for dev mode
//
// Arguments are an optional denomination and an optional hex address.
// Without an address a random one is generated and printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	denom := "cfigure"
	if len(args) > 0 {
		denom = args[0]
		if !coin.IsDenom(denom) {
			return nil, errors.Wrapf(errors.ErrCurrency, "invalid denomination %q", denom)
		}
	}

	var addr capcall.Address
	if len(args) > 1 {
		a, err := capcall.ParseAddress(args[1])
		if err != nil {
			return nil, err
		}
		addr = a
	} else {
		seed := make([]byte, 16)
		if _, err := rand.Read(seed); err != nil {
			return nil, errors.Wrap(err, "generate address")
		}
		addr = capcall.NewCondition("dev", "seed", seed).Address()
		fmt.Println(addr)
	}

	opts := struct {
		Wallets  []ledger.GenesisWallet   `json:"wallets"`
		Mintable []ledger.GenesisMintable `json:"mintable"`
		Capital  []json.RawMessage        `json:"capital"`
	}{
		Wallets: []ledger.GenesisWallet{
			{Address: addr, Coins: []coin.Coin{coin.NewCoin(defaultSupply, denom)}},
		},
		Mintable: []ledger.GenesisMintable{},
		Capital:  []json.RawMessage{},
	}
	return json.MarshalIndent(opts, "", "  ")
}
