package ledger

import (
	"github.com/iov-one/capcall"
)

// CustodyAddress returns the address of the account that holds the supply
// of given denomination before it is withdrawn to a recipient. Nobody can
// sign for it, only instructions can move funds out of it.
func CustodyAddress(denom string) capcall.Address {
	return capcall.NewCondition("custody", "denom", []byte(denom)).Address()
}
