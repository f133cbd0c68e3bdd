package escrow

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x"
	"github.com/iov-one/custody/x/cash"
)

const (
	initializeEscrowCost int64 = 300
	depositEscrowCost    int64 = 100
	withdrawEscrowCost   int64 = 100
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r custody.Registry, auth x.Authenticator, mover cash.Mover) {
	ctrl := NewController(mover)
	r.Handle(&InitializeMsg{}, InitializeHandler{auth: auth, ctrl: ctrl})
	r.Handle(&DepositMsg{}, DepositHandler{auth: auth, ctrl: ctrl})
	r.Handle(&WithdrawMsg{}, WithdrawHandler{auth: auth, ctrl: ctrl})
}

// InitializeHandler creates new escrows.
type InitializeHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ custody.Handler = InitializeHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h InitializeHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	var msg InitializeMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if x.MainSigner(ctx, h.auth) == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return &custody.CheckResult{GasAllocated: initializeEscrowCost}, nil
}

// Deliver stores a new escrow and returns its id.
func (h InitializeHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	var msg InitializeMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := h.ctrl.Initialize(ctx, db, h.auth, msg.EscrowID, msg.TokenAccount); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{Data: msg.EscrowID}, nil
}

// DepositHandler credits escrows.
type DepositHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ custody.Handler = DepositHandler{}

// Check verifies the message and that the escrow owner signed it.
func (h DepositHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	var msg DepositMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := h.ctrl.owned(ctx, db, h.auth, msg.EscrowID); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: depositEscrowCost}, nil
}

// Deliver moves the tokens into custody and returns the updated escrow.
func (h DepositHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	var msg DepositMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	e, err := h.ctrl.Deposit(ctx, db, h.auth, msg.EscrowID, msg.Source, msg.Destination, msg.Amount)
	if err != nil {
		return nil, err
	}
	return escrowResult(e)
}

// WithdrawHandler debits escrows.
type WithdrawHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ custody.Handler = WithdrawHandler{}

// Check verifies the message and that the escrow owner signed it.
func (h WithdrawHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	var msg WithdrawMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := h.ctrl.owned(ctx, db, h.auth, msg.EscrowID); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: withdrawEscrowCost}, nil
}

// Deliver releases the tokens from custody and returns the updated escrow.
func (h WithdrawHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	var msg WithdrawMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	e, err := h.ctrl.Withdraw(ctx, db, h.auth, msg.EscrowID, msg.Source, msg.Destination, msg.Amount)
	if err != nil {
		return nil, err
	}
	return escrowResult(e)
}

func escrowResult(e *Escrow) (*custody.DeliverResult, error) {
	raw, err := e.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "cannot marshal escrow")
	}
	return &custody.DeliverResult{Data: raw}, nil
}
