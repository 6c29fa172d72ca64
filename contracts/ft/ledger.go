package ft

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/quigiaosu103/htpc/common"
	"github.com/quigiaosu103/htpc/events"
)

func accountKey(account common.AccountID) []byte {
	return append([]byte{accPrefix}, account...)
}

func encodeBalance(n *uint256.Int) ([]byte, error) {
	return stackitem.Serialize(common.UintToItem(n))
}

func decodeBalance(data []byte) (*uint256.Int, error) {
	item, err := stackitem.Deserialize(data)
	if err != nil {
		return nil, err
	}
	return common.UintFromItem(item)
}

// getBalance returns balance of the account and reports whether the
// account is registered.
func (c *Contract) getBalance(account common.AccountID) (*uint256.Int, bool, error) {
	n, ok, err := common.GetUint(c.store, accountKey(account))
	if err != nil {
		return nil, false, fmt.Errorf("%w: balance of %s: %w", ErrCorruptedState, account, err)
	}
	if !ok {
		return new(uint256.Int), false, nil
	}
	return n, true, nil
}

func (c *Contract) putBalance(account common.AccountID, n *uint256.Int) error {
	return common.PutUint(c.store, accountKey(account), n)
}

// BalanceOf returns balance of the account. Unregistered accounts have zero
// balance.
func (c *Contract) BalanceOf(account common.AccountID) (*uint256.Int, error) {
	n, _, err := c.getBalance(account)
	return n, err
}

// Balances iterates over all registered accounts and passes them with their
// balances into f until f returns false.
func (c *Contract) Balances(f func(common.AccountID, *uint256.Int) bool) error {
	var iterErr error

	c.store.Seek(storage.SeekRange{Prefix: []byte{accPrefix}}, func(k, v []byte) bool {
		var n *uint256.Int

		n, iterErr = decodeBalance(v)
		if iterErr != nil {
			iterErr = fmt.Errorf("%w: balance of %s: %w", ErrCorruptedState, k[1:], iterErr)
			return false
		}

		return f(common.AccountID(k[1:]), n)
	})

	return iterErr
}

// internalDeposit credits the registered account.
func (c *Contract) internalDeposit(account common.AccountID, amount *uint256.Int) error {
	bal, ok, err := c.getBalance(account)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingAccount, account)
	}

	sum, overflow := new(uint256.Int).AddOverflow(bal, amount)
	if overflow || sum.Gt(MaxBalance) {
		return fmt.Errorf("%w: %s", ErrBalanceOverflow, account)
	}

	return c.putBalance(account, sum)
}

// internalWithdraw debits the registered account.
func (c *Contract) internalWithdraw(account common.AccountID, amount *uint256.Int) error {
	bal, ok, err := c.getBalance(account)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s is not registered", ErrInsufficientBalance, account)
	}

	rest, underflow := new(uint256.Int).SubOverflow(bal, amount)
	if underflow {
		return fmt.Errorf("%w: %s has %s, requested %s", ErrInsufficientBalance, account, bal.Dec(), amount.Dec())
	}

	return c.putBalance(account, rest)
}

// internalTransfer moves amount from sender to receiver. Ledger is left
// untouched on any failure.
func (c *Contract) internalTransfer(sender, receiver common.AccountID, amount *uint256.Int, memo *string) error {
	if sender == receiver {
		return ErrSelfTransfer
	}
	if amount == nil || amount.IsZero() {
		return ErrZeroAmount
	}

	ok, err := c.IsRegistered(receiver)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrReceiverNotRegistered, receiver)
	}

	prev, _, err := c.getBalance(sender)
	if err != nil {
		return err
	}

	err = c.internalWithdraw(sender, amount)
	if err != nil {
		return err
	}

	err = c.internalDeposit(receiver, amount)
	if err != nil {
		if rbErr := c.putBalance(sender, prev); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %w)", err, rbErr)
		}
		return err
	}

	c.env.Emit(events.Transfer{
		OldOwnerID: sender,
		NewOwnerID: receiver,
		Amount:     amount.Clone(),
		Memo:       memo,
	})

	return nil
}
