package capcalltest

import (
	"encoding/binary"
	"sync/atomic"
	"testing"

	"github.com/iov-one/capcall"
)

var counter uint64

// NewCondition returns a new, unique condition. Each call returns a
// condition that was never returned before, so that addresses built from it
// do not collide between tests.
func NewCondition() capcall.Condition {
	n := atomic.AddUint64(&counter, 1)
	return capcall.NewCondition("test", "seq", SequenceID(n))
}

// NewAddress returns the address of a new, unique condition.
func NewAddress() capcall.Address {
	return NewCondition().Address()
}

// SequenceID returns an ID encoded as if it was generated by the orm
// sequence.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}

// ParseAddress takes an address in a human readable format and returns
// its binary representation. This function is a test helper that is using
// capcall.ParseAddress function functionality.
func ParseAddress(t testing.TB, encodedAddress string) capcall.Address {
	t.Helper()

	addr, err := capcall.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
