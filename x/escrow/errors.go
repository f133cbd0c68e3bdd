package escrow

import (
	"github.com/iov-one/custody/errors"
)

// x/escrow reserves 1010~1019
var (
	ErrInsufficientFunds = errors.Register(1010, "insufficient escrow funds")
	ErrAccountMismatch   = errors.Register(1011, "account mismatch")
)
