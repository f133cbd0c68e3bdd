package weavetest

import (
	"testing"

	"github.com/iov-one/custody"
)

// ParseAddress decodes an address in any format accepted by
// custody.ParseAddress and fails the test if it cannot.
func ParseAddress(t testing.TB, encodedAddress string) custody.Address {
	t.Helper()
	addr, err := custody.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
