package ft

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/quigiaosu103/htpc/common"
	"go.uber.org/zap"
)

// StorageBalance is the storage payment state of a registered account.
type StorageBalance struct {
	Total     *uint256.Int `json:"total"`
	Available *uint256.Int `json:"available"`
}

// StorageBalanceBounds are minimal and maximal storage payments of a single
// account.
type StorageBalanceBounds struct {
	Min *uint256.Int `json:"min"`
	Max *uint256.Int `json:"max"`
}

// measureBytesForLongestAccountID records storage consumed by the ledger
// entry of the longest possible account holding the biggest balance. Balance
// encoding is variable-length, so the entry is measured at MaxBalance to
// bound every account's storage.
func (c *Contract) measureBytesForLongestAccountID() error {
	before := c.store.Usage()

	tmp := common.AccountID(bytes.Repeat([]byte{longestAccChar}, common.MaxAccountIDLen))

	err := c.putBalance(tmp, MaxBalance)
	if err != nil {
		return err
	}

	c.state.BytesForLongestAccountID = uint64(c.store.Usage() - before)

	c.store.Delete(accountKey(tmp))

	return nil
}

// requiredDeposit returns storage payment required for registration.
func (c *Contract) requiredDeposit() (*uint256.Int, error) {
	n, overflow := new(uint256.Int).MulOverflow(
		uint256.NewInt(c.state.BytesForLongestAccountID),
		c.env.StorageBytePrice(),
	)
	if overflow {
		return nil, fmt.Errorf("%w: storage deposit", ErrBalanceOverflow)
	}
	return n, nil
}

// StorageBalanceBounds returns storage payment bounds. The model charges the
// fixed amount, so both bounds are equal.
func (c *Contract) StorageBalanceBounds() (StorageBalanceBounds, error) {
	n, err := c.requiredDeposit()
	if err != nil {
		return StorageBalanceBounds{}, err
	}
	return StorageBalanceBounds{Min: n, Max: n.Clone()}, nil
}

// StorageBalanceOf returns storage balance of the account or nil if the
// account is not registered.
func (c *Contract) StorageBalanceOf(account common.AccountID) (*StorageBalance, error) {
	ok, err := c.IsRegistered(account)
	if err != nil || !ok {
		return nil, err
	}

	n, err := c.requiredDeposit()
	if err != nil {
		return nil, err
	}

	return &StorageBalance{Total: n, Available: new(uint256.Int)}, nil
}

// StorageDeposit registers the account paying for its storage with the
// attached deposit. The account defaults to the caller. Excess of the
// attached deposit is refunded to the caller. Registration only mode is
// implied: the fixed model never keeps the excess.
func (c *Contract) StorageDeposit(account *common.AccountID, registrationOnly bool) (StorageBalance, error) {
	var (
		payer    = c.env.Predecessor()
		attached = c.env.AttachedDeposit()
		target   = payer
	)

	if account != nil {
		target = *account
	}

	ok, err := c.IsRegistered(target)
	if err != nil {
		return StorageBalance{}, err
	}
	if ok {
		return StorageBalance{}, fmt.Errorf("%w: %s", ErrAlreadyRegistered, target)
	}

	required, err := c.requiredDeposit()
	if err != nil {
		return StorageBalance{}, err
	}

	if attached.Lt(required) {
		return StorageBalance{}, fmt.Errorf("%w: attached %s, required %s", ErrInsufficientDeposit, attached.Dec(), required.Dec())
	}

	err = c.register(target)
	if err != nil {
		return StorageBalance{}, err
	}

	refund := new(uint256.Int).Sub(attached, required)
	if !refund.IsZero() {
		c.env.Refund(payer, refund)
	}

	c.log.Info("account registered",
		zap.Stringer("account", target),
		zap.Stringer("payer", payer),
		zap.String("deposit", required.Dec()),
		zap.String("refund", refund.Dec()),
		zap.Bool("registration only", registrationOnly))

	return StorageBalance{Total: required, Available: new(uint256.Int)}, nil
}

// StorageWithdraw withdraws available storage payment of the caller. The fixed
// model has nothing available, so only zero or no amount is accepted.
func (c *Contract) StorageWithdraw(amount *uint256.Int) (StorageBalance, error) {
	err := common.CheckConfirmationDeposit(c.env.AttachedDeposit())
	if err != nil {
		return StorageBalance{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	caller := c.env.Predecessor()

	sb, err := c.StorageBalanceOf(caller)
	if err != nil {
		return StorageBalance{}, err
	}
	if sb == nil {
		return StorageBalance{}, fmt.Errorf("%w: %s", ErrNotRegistered, caller)
	}

	if amount != nil && amount.Gt(sb.Available) {
		return StorageBalance{}, fmt.Errorf("%w: requested %s, available %s", ErrExcessiveWithdrawal, amount.Dec(), sb.Available.Dec())
	}

	return *sb, nil
}

// StorageUnregister removes the caller's ledger entry and refunds its storage
// payment. Positive balance is burned if force is set. Returns false if the
// caller is not registered.
func (c *Contract) StorageUnregister(force bool) (bool, error) {
	attached := c.env.AttachedDeposit()

	err := common.CheckConfirmationDeposit(attached)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	caller := c.env.Predecessor()

	required, err := c.requiredDeposit()
	if err != nil {
		return false, err
	}

	_, err = c.unregister(caller, force)
	if err != nil {
		if errors.Is(err, ErrNotRegistered) {
			c.log.Info("account is not registered", zap.Stringer("account", caller))
			return false, nil
		}
		return false, err
	}

	c.env.Refund(caller, new(uint256.Int).Add(required, attached))

	return true, nil
}
