package host

import (
	"context"
	"errors"

	"github.com/holiman/uint256"
	"github.com/quigiaosu103/htpc/common"
	"github.com/quigiaosu103/htpc/contracts/ft"
	"go.uber.org/zap"
)

// Init initializes the token contract on behalf of the contract account.
func (r *Runtime) Init(ctx context.Context, prm ft.InitPrm) (*Outcome, error) {
	return r.execute(ctx, r.selfCall(0), "new", func(env ft.Env, s common.Storage, log *zap.Logger) (*ft.Contract, error) {
		return ft.New(env, s, log, prm)
	}, nil)
}

// Initialized checks whether the token contract is initialized.
func (r *Runtime) Initialized(ctx context.Context) (bool, error) {
	err := r.View(ctx, func(*ft.Contract) error { return nil })
	if err != nil {
		if errors.Is(err, ft.ErrNotInitialized) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// StorageDeposit registers the account, see ft.Contract.StorageDeposit.
func (r *Runtime) StorageDeposit(ctx context.Context, call Call, account *common.AccountID, registrationOnly bool) (ft.StorageBalance, *Outcome, error) {
	var sb ft.StorageBalance

	out, err := r.Invoke(ctx, call, "storage_deposit", func(c *ft.Contract) error {
		var err error
		sb, err = c.StorageDeposit(account, registrationOnly)
		return err
	})

	return sb, out, err
}

// StorageWithdraw see ft.Contract.StorageWithdraw.
func (r *Runtime) StorageWithdraw(ctx context.Context, call Call, amount *uint256.Int) (ft.StorageBalance, *Outcome, error) {
	var sb ft.StorageBalance

	out, err := r.Invoke(ctx, call, "storage_withdraw", func(c *ft.Contract) error {
		var err error
		sb, err = c.StorageWithdraw(amount)
		return err
	})

	return sb, out, err
}

// StorageUnregister see ft.Contract.StorageUnregister.
func (r *Runtime) StorageUnregister(ctx context.Context, call Call, force bool) (bool, *Outcome, error) {
	var ok bool

	out, err := r.Invoke(ctx, call, "storage_unregister", func(c *ft.Contract) error {
		var err error
		ok, err = c.StorageUnregister(force)
		return err
	})

	return ok, out, err
}

// Transfer moves tokens from the caller to the receiver.
func (r *Runtime) Transfer(ctx context.Context, call Call, receiver common.AccountID, amount *uint256.Int, memo *string) (*Outcome, error) {
	return r.Invoke(ctx, call, "ft_transfer", func(c *ft.Contract) error {
		return c.Transfer(call.Caller, receiver, amount, memo)
	})
}

// TransferCall moves tokens from the caller to the receiver and schedules
// the receiver notification. Use Step or Drain to run it.
func (r *Runtime) TransferCall(ctx context.Context, call Call, receiver common.AccountID, amount *uint256.Int, memo *string, msg string) (ft.TransferID, *Outcome, error) {
	var id ft.TransferID

	out, err := r.Invoke(ctx, call, "ft_transfer_call", func(c *ft.Contract) error {
		var err error
		id, err = c.TransferCall(call.Caller, receiver, amount, memo, msg)
		return err
	})

	return id, out, err
}

// BalanceOf returns balance of the account, zero for unregistered ones.
func (r *Runtime) BalanceOf(ctx context.Context, account common.AccountID) (*uint256.Int, error) {
	var n *uint256.Int

	err := r.View(ctx, func(c *ft.Contract) error {
		var err error
		n, err = c.BalanceOf(account)
		return err
	})

	return n, err
}

// TotalSupply returns the amount of tokens in circulation.
func (r *Runtime) TotalSupply(ctx context.Context) (*uint256.Int, error) {
	var n *uint256.Int

	err := r.View(ctx, func(c *ft.Contract) error {
		n = c.TotalSupply()
		return nil
	})

	return n, err
}

// Metadata returns the token metadata.
func (r *Runtime) Metadata(ctx context.Context) (ft.FungibleTokenMetadata, error) {
	var m ft.FungibleTokenMetadata

	err := r.View(ctx, func(c *ft.Contract) error {
		var err error
		m, err = c.Metadata()
		return err
	})

	return m, err
}

// StorageBalanceOf returns storage balance of the account or nil if it is
// not registered.
func (r *Runtime) StorageBalanceOf(ctx context.Context, account common.AccountID) (*ft.StorageBalance, error) {
	var sb *ft.StorageBalance

	err := r.View(ctx, func(c *ft.Contract) error {
		var err error
		sb, err = c.StorageBalanceOf(account)
		return err
	})

	return sb, err
}

// StorageBalanceBounds returns storage payment bounds of a single account.
func (r *Runtime) StorageBalanceBounds(ctx context.Context) (ft.StorageBalanceBounds, error) {
	var b ft.StorageBalanceBounds

	err := r.View(ctx, func(c *ft.Contract) error {
		var err error
		b, err = c.StorageBalanceBounds()
		return err
	})

	return b, err
}

// State returns the contract-wide state.
func (r *Runtime) State(ctx context.Context) (ft.State, error) {
	var st ft.State

	err := r.View(ctx, func(c *ft.Contract) error {
		st = c.State()
		return nil
	})

	return st, err
}

// CheckSupply scans the committed ledger and checks the total supply.
func (r *Runtime) CheckSupply(ctx context.Context) error {
	return r.View(ctx, (*ft.Contract).CheckSupply)
}
