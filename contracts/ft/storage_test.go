package ft_test

import (
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/quigiaosu103/htpc/common"
	"github.com/quigiaosu103/htpc/contracts/ft"
	"github.com/quigiaosu103/htpc/events"
	"github.com/stretchr/testify/require"
)

func storageDeposit(l *ledger, cl call, acc *common.AccountID) (ft.StorageBalance, error) {
	var sb ft.StorageBalance

	err := l.invoke(cl, func(c *ft.Contract) error {
		var err error
		sb, err = c.StorageDeposit(acc, false)
		return err
	})

	return sb, err
}

func storageUnregister(l *ledger, cl call, force bool) (bool, error) {
	var ok bool

	err := l.invoke(cl, func(c *ft.Contract) error {
		var err error
		ok, err = c.StorageUnregister(force)
		return err
	})

	return ok, err
}

func TestStorageDeposit(t *testing.T) {
	l := newToken(t, aliceAcc, 1000)
	required := l.requiredDeposit().Uint64()

	t.Run("insufficient", func(t *testing.T) {
		_, err := storageDeposit(l, from(bobAcc).attach(required-1), nil)
		require.ErrorIs(t, err, ft.ErrInsufficientDeposit)
		require.False(t, ft.IsFatal(err))
		require.False(t, l.registered(bobAcc))
	})

	t.Run("exact", func(t *testing.T) {
		sb, err := storageDeposit(l, from(bobAcc).attach(required), nil)
		require.NoError(t, err)
		require.Equal(t, ft.StorageBalance{Total: u(required), Available: u(0)}, sb)
		require.True(t, l.registered(bobAcc))
		require.EqualValues(t, 0, l.balance(bobAcc))
		require.Empty(t, l.refunds)
	})

	t.Run("already registered", func(t *testing.T) {
		_, err := storageDeposit(l, from(bobAcc).attach(required), nil)
		require.ErrorIs(t, err, ft.ErrAlreadyRegistered)
	})

	t.Run("for another account with excess", func(t *testing.T) {
		acc := carolAcc

		_, err := storageDeposit(l, from(aliceAcc).attach(required+100), &acc)
		require.NoError(t, err)
		require.True(t, l.registered(carolAcc))
		// excess goes back to the payer
		require.Len(t, l.refunds, 1)
		require.Equal(t, aliceAcc, l.refunds[0].to)
		require.Equal(t, u(100), l.refunds[0].amount)
	})

	t.Run("invalid account", func(t *testing.T) {
		acc := common.AccountID("-bad-")

		_, err := storageDeposit(l, from(aliceAcc).attach(required), &acc)
		require.ErrorIs(t, err, common.ErrInvalidAccountID)
		require.True(t, ft.IsFatal(err))
	})

	require.EqualValues(t, 1000, l.totalSupply())
}

func TestStorageBalanceOf(t *testing.T) {
	l := newToken(t, aliceAcc, 1000)
	required := l.requiredDeposit()

	l.view(func(c *ft.Contract) {
		sb, err := c.StorageBalanceOf(bobAcc)
		require.NoError(t, err)
		require.Nil(t, sb)

		sb, err = c.StorageBalanceOf(aliceAcc)
		require.NoError(t, err)
		require.Equal(t, &ft.StorageBalance{Total: required, Available: new(uint256.Int)}, sb)
	})
}

func TestStorageWithdraw(t *testing.T) {
	l := newToken(t, aliceAcc, 1000)
	required := l.requiredDeposit()

	withdraw := func(cl call, amount *uint256.Int) (ft.StorageBalance, error) {
		var sb ft.StorageBalance
		err := l.invoke(cl, func(c *ft.Contract) error {
			var err error
			sb, err = c.StorageWithdraw(amount)
			return err
		})
		return sb, err
	}

	t.Run("no confirmation", func(t *testing.T) {
		_, err := withdraw(from(aliceAcc), nil)
		require.ErrorIs(t, err, ft.ErrUnauthorized)
		require.ErrorIs(t, err, common.ErrConfirmationDeposit)

		_, err = withdraw(from(aliceAcc).attach(2), nil)
		require.ErrorIs(t, err, ft.ErrUnauthorized)
	})
	t.Run("not registered", func(t *testing.T) {
		_, err := withdraw(confirmed(bobAcc), nil)
		require.ErrorIs(t, err, ft.ErrNotRegistered)
	})
	t.Run("excessive", func(t *testing.T) {
		_, err := withdraw(confirmed(aliceAcc), u(1))
		require.ErrorIs(t, err, ft.ErrExcessiveWithdrawal)
	})
	t.Run("nothing available", func(t *testing.T) {
		for _, amount := range []*uint256.Int{nil, u(0)} {
			sb, err := withdraw(confirmed(aliceAcc), amount)
			require.NoError(t, err)
			require.Equal(t, ft.StorageBalance{Total: required, Available: u(0)}, sb)
			require.Empty(t, l.refunds)
		}
	})
}

func TestStorageDepositWithdrawRoundTrip(t *testing.T) {
	l := newToken(t, aliceAcc, 1000)
	required := l.requiredDeposit().Uint64()

	_, err := storageDeposit(l, from(bobAcc).attach(required), nil)
	require.NoError(t, err)

	ok, err := storageUnregister(l, confirmed(bobAcc), false)
	require.NoError(t, err)
	require.True(t, ok)
	require.False(t, l.registered(bobAcc))

	// deposit and the confirmation yocto are returned
	require.Len(t, l.refunds, 1)
	require.Equal(t, bobAcc, l.refunds[0].to)
	require.Equal(t, u(required+1), l.refunds[0].amount)

	_, err = storageDeposit(l, from(bobAcc).attach(required), nil)
	require.NoError(t, err)
	require.True(t, l.registered(bobAcc))
}

func TestStorageUnregister(t *testing.T) {
	l := newToken(t, aliceAcc, 1000)
	l.register(bobAcc)
	require.NoError(t, l.transfer(aliceAcc, bobAcc, 300))

	t.Run("not registered", func(t *testing.T) {
		ok, err := storageUnregister(l, confirmed(carolAcc), false)
		require.NoError(t, err)
		require.False(t, ok)
		require.Empty(t, l.refunds)
	})
	t.Run("no confirmation", func(t *testing.T) {
		_, err := storageUnregister(l, from(bobAcc), true)
		require.ErrorIs(t, err, ft.ErrUnauthorized)
	})
	t.Run("positive balance", func(t *testing.T) {
		_, err := storageUnregister(l, confirmed(bobAcc), false)
		require.ErrorIs(t, err, ft.ErrNonZeroBalance)
		require.True(t, l.registered(bobAcc))
		require.EqualValues(t, 300, l.balance(bobAcc))
	})
	t.Run("force", func(t *testing.T) {
		ok, err := storageUnregister(l, confirmed(bobAcc), true)
		require.NoError(t, err)
		require.True(t, ok)

		require.False(t, l.registered(bobAcc))
		require.EqualValues(t, 0, l.balance(bobAcc))
		require.EqualValues(t, 700, l.totalSupply())
		require.Equal(t, []events.Event{events.Burn{OwnerID: bobAcc, Amount: u(300)}}, l.events)
	})
}

func TestStorageBoundCoversMaxBalance(t *testing.T) {
	owner := common.AccountID(strings.Repeat("z", common.MaxAccountIDLen))

	l := newLedger(t)
	require.NoError(t, l.init(ft.InitPrm{
		Owner:       owner,
		TotalSupply: ft.MaxBalance,
		Metadata:    ft.DefaultMetadata(),
	}))

	var st ft.State
	l.view(func(c *ft.Contract) { st = c.State() })

	key := append([]byte{'a'}, owner...)
	val, err := l.store.Get(key)
	require.NoError(t, err)

	used := uint64(len(key) + len(val) + common.StorageRecordOverhead)
	require.LessOrEqual(t, used, st.BytesForLongestAccountID)
}
