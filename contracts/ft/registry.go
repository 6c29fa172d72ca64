package ft

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/quigiaosu103/htpc/common"
	"github.com/quigiaosu103/htpc/events"
	"go.uber.org/zap"
)

// IsRegistered checks whether the account has a ledger entry.
func (c *Contract) IsRegistered(account common.AccountID) (bool, error) {
	_, ok, err := c.getBalance(account)
	return ok, err
}

// register creates zero ledger entry for the new account.
func (c *Contract) register(account common.AccountID) error {
	err := account.Validate()
	if err != nil {
		return err
	}

	ok, err := c.IsRegistered(account)
	if err != nil {
		return err
	}
	if ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, account)
	}

	return c.putBalance(account, new(uint256.Int))
}

// unregister removes ledger entry of the account. Positive balance is burned
// if force is set, otherwise ErrNonZeroBalance is returned. Returns burned
// amount.
func (c *Contract) unregister(account common.AccountID, force bool) (*uint256.Int, error) {
	bal, ok, err := c.getBalance(account)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, account)
	}

	if !bal.IsZero() {
		if !force {
			return nil, fmt.Errorf("%w: %s", ErrNonZeroBalance, account)
		}

		err = c.burn(account, bal, nil)
		if err != nil {
			return nil, err
		}
	}

	c.store.Delete(accountKey(account))

	c.log.Info("account unregistered", zap.Stringer("account", account), zap.String("burned", bal.Dec()))

	return bal, nil
}

// burn reduces total supply by the amount already taken from the account
// balance.
func (c *Contract) burn(account common.AccountID, amount *uint256.Int, memo *string) error {
	rest, underflow := new(uint256.Int).SubOverflow(c.state.TotalSupply, amount)
	if underflow {
		return fmt.Errorf("%w: total supply %s is less than burned %s", ErrCorruptedState, c.state.TotalSupply.Dec(), amount.Dec())
	}

	c.state.TotalSupply = rest

	c.env.Emit(events.Burn{
		OwnerID: account,
		Amount:  amount.Clone(),
		Memo:    memo,
	})

	return nil
}
