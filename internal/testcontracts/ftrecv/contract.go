// Package ftrecv is a token receiver used in tests of transfer calls.
//
// The message of the transfer call selects the behaviour:
//   - "take-my-money" keeps the whole amount;
//   - decimal number returns this amount as unused;
//   - "fail" makes the notification fail;
//   - anything else returns the amount configured with Decline.
package ftrecv

import (
	"context"
	"errors"
	"sync"

	"github.com/holiman/uint256"
	"github.com/quigiaosu103/htpc/common"
)

// Messages understood by the Contract.
const (
	MsgTakeAll = "take-my-money"
	MsgFail    = "fail"
)

// ErrRejected is returned on MsgFail.
var ErrRejected = errors.New("transfer rejected by receiver")

// Call is a recorded notification.
type Call struct {
	Sender  common.AccountID
	Amount  *uint256.Int
	Message string
}

// Contract records notifications and declines configured amounts.
type Contract struct {
	mtx     sync.Mutex
	calls   []Call
	decline *uint256.Int
	hook    func()
}

// New returns Contract keeping everything by default.
func New() *Contract {
	return &Contract{decline: new(uint256.Int)}
}

// Decline sets the amount returned as unused for unrecognized messages.
func (c *Contract) Decline(n *uint256.Int) {
	c.mtx.Lock()
	c.decline = n.Clone()
	c.mtx.Unlock()
}

// OnCall sets f to be called on every notification before it is handled.
// The contract lock is not held while f runs.
func (c *Contract) OnCall(f func()) {
	c.mtx.Lock()
	c.hook = f
	c.mtx.Unlock()
}

// OnTransfer implements host.Receiver.
func (c *Contract) OnTransfer(_ context.Context, sender common.AccountID, amount *uint256.Int, msg string) (*uint256.Int, error) {
	c.mtx.Lock()
	c.calls = append(c.calls, Call{Sender: sender, Amount: amount.Clone(), Message: msg})
	hook := c.hook
	decline := c.decline.Clone()
	c.mtx.Unlock()

	if hook != nil {
		hook()
	}

	switch msg {
	case MsgTakeAll:
		return new(uint256.Int), nil
	case MsgFail:
		return nil, ErrRejected
	}

	if n, err := uint256.FromDecimal(msg); err == nil {
		return n, nil
	}

	return decline, nil
}

// Calls returns recorded notifications.
func (c *Contract) Calls() []Call {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return append([]Call(nil), c.calls...)
}
