package ft_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/quigiaosu103/htpc/common"
	"github.com/quigiaosu103/htpc/contracts/ft"
	"github.com/quigiaosu103/htpc/contracts/ft/ftconst"
	"github.com/quigiaosu103/htpc/events"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const (
	tokenAcc common.AccountID = "htpc.testnet"
	aliceAcc common.AccountID = "alice.testnet"
	bobAcc   common.AccountID = "bob.testnet"
	carolAcc common.AccountID = "carol.testnet"
)

var bytePrice = uint256.NewInt(10_000_000_000)

type refund struct {
	to     common.AccountID
	amount *uint256.Int
}

// testEnv is ft.Env of a single invocation.
type testEnv struct {
	caller  common.AccountID
	deposit *uint256.Int
	gas     ftconst.Gas

	refunds   []refund
	scheduled []ft.TransferID
	events    []events.Event
}

func (e *testEnv) Predecessor() common.AccountID { return e.caller }
func (e *testEnv) Current() common.AccountID { return tokenAcc }
func (e *testEnv) AttachedDeposit() *uint256.Int { return e.deposit.Clone() }
func (e *testEnv) PrepaidGas() ftconst.Gas { return e.gas }
func (e *testEnv) StorageBytePrice() *uint256.Int { return bytePrice.Clone() }
func (e *testEnv) ScheduleReceiverCall(id ft.TransferID) { e.scheduled = append(e.scheduled, id) }
func (e *testEnv) Emit(ev events.Event) { e.events = append(e.events, ev) }

func (e *testEnv) Refund(to common.AccountID, amount *uint256.Int) {
	e.refunds = append(e.refunds, refund{to: to, amount: amount.Clone()})
}

// ledger executes invocations over the shared committed store the way the
// host does: changes are persisted only on success.
type ledger struct {
	t     testing.TB
	store *storage.MemoryStore

	// side effects of the last successful invocation
	refunds   []refund
	scheduled []ft.TransferID
	events    []events.Event
}

// call describes a single invocation.
type call struct {
	caller  common.AccountID
	deposit uint64
	gas     ftconst.Gas
}

func from(caller common.AccountID) call {
	return call{caller: caller}
}

func (c call) attach(n uint64) call {
	c.deposit = n
	return c
}

func (c call) withGas(g ftconst.Gas) call {
	c.gas = g
	return c
}

// confirmed attaches one yocto.
func confirmed(caller common.AccountID) call {
	return from(caller).attach(1)
}

func newLedger(t testing.TB) *ledger {
	return &ledger{t: t, store: storage.NewMemoryStore()}
}

// newToken initializes the token with default metadata and the given supply
// owned by owner.
func newToken(t testing.TB, owner common.AccountID, supply uint64) *ledger {
	l := newLedger(t)
	require.NoError(t, l.init(ft.InitPrm{
		Owner:       owner,
		TotalSupply: uint256.NewInt(supply),
		Metadata:    ft.DefaultMetadata(),
	}))
	return l
}

func (l *ledger) env(c call) *testEnv {
	return &testEnv{
		caller:  c.caller,
		deposit: uint256.NewInt(c.deposit),
		gas:     c.gas,
	}
}

func (l *ledger) init(prm ft.InitPrm) error {
	env := l.env(from(tokenAcc))
	view := storage.NewMemCachedStore(l.store)

	c, err := ft.New(env, view, zaptest.NewLogger(l.t), prm)
	if err != nil {
		return err
	}

	l.commit(env, view, c)

	return nil
}

// invoke runs fn against the contract. The supply invariant is checked after
// every successful invocation.
func (l *ledger) invoke(cl call, fn func(*ft.Contract) error) error {
	env := l.env(cl)
	view := storage.NewMemCachedStore(l.store)

	c, err := ft.Load(env, view, zaptest.NewLogger(l.t))
	require.NoError(l.t, err)

	err = fn(c)
	if err != nil {
		return err
	}

	l.commit(env, view, c)

	return nil
}

func (l *ledger) commit(env *testEnv, view *storage.MemCachedStore, c *ft.Contract) {
	require.NoError(l.t, c.Flush())
	require.NoError(l.t, c.CheckSupply())

	_, err := view.Persist()
	require.NoError(l.t, err)

	l.refunds = env.refunds
	l.scheduled = env.scheduled
	l.events = env.events
}

// view runs fn over the committed state discarding any changes.
func (l *ledger) view(fn func(*ft.Contract)) {
	c, err := ft.Load(l.env(from(tokenAcc)), storage.NewMemCachedStore(l.store), zaptest.NewLogger(l.t))
	require.NoError(l.t, err)
	fn(c)
}

func (l *ledger) balance(acc common.AccountID) uint64 {
	var n *uint256.Int
	l.view(func(c *ft.Contract) {
		var err error
		n, err = c.BalanceOf(acc)
		require.NoError(l.t, err)
	})
	require.True(l.t, n.IsUint64())
	return n.Uint64()
}

func (l *ledger) totalSupply() uint64 {
	var n *uint256.Int
	l.view(func(c *ft.Contract) { n = c.TotalSupply() })
	return n.Uint64()
}

func (l *ledger) registered(acc common.AccountID) bool {
	var ok bool
	l.view(func(c *ft.Contract) {
		var err error
		ok, err = c.IsRegistered(acc)
		require.NoError(l.t, err)
	})
	return ok
}

func (l *ledger) requiredDeposit() *uint256.Int {
	var b ft.StorageBalanceBounds
	l.view(func(c *ft.Contract) {
		var err error
		b, err = c.StorageBalanceBounds()
		require.NoError(l.t, err)
	})
	return b.Min
}

// register pays exact storage deposit for acc on its own behalf.
func (l *ledger) register(acc common.AccountID) {
	required := l.requiredDeposit()
	require.True(l.t, required.IsUint64())

	err := l.invoke(from(acc).attach(required.Uint64()), func(c *ft.Contract) error {
		_, err := c.StorageDeposit(nil, true)
		return err
	})
	require.NoError(l.t, err)
}

func (l *ledger) transfer(sender, receiver common.AccountID, amount uint64) error {
	return l.invoke(confirmed(sender), func(c *ft.Contract) error {
		return c.Transfer(sender, receiver, uint256.NewInt(amount), nil)
	})
}

// transferCall executes phase 1 of the transfer call with enough gas.
func (l *ledger) transferCall(sender, receiver common.AccountID, amount uint64, msg string) ft.TransferID {
	var id ft.TransferID

	err := l.invoke(confirmed(sender).withGas(ftconst.GasForFtTransferCall+ftconst.Tgas), func(c *ft.Contract) error {
		var err error
		id, err = c.TransferCall(sender, receiver, uint256.NewInt(amount), nil, msg)
		return err
	})
	require.NoError(l.t, err)
	require.Equal(l.t, []ft.TransferID{id}, l.scheduled)

	return id
}

// dispatch executes phase 2 of the transfer call.
func (l *ledger) dispatch(id ft.TransferID) ft.ReceiverCall {
	var rc ft.ReceiverCall

	err := l.invoke(from(tokenAcc), func(c *ft.Contract) error {
		var err error
		rc, err = c.BeginReceiverCall(id)
		return err
	})
	require.NoError(l.t, err)

	return rc
}

func (l *ledger) resolve(id ft.TransferID, res ft.ReceiverResult) (ft.Settlement, error) {
	var s ft.Settlement

	err := l.invoke(from(tokenAcc).withGas(ftconst.GasForResolveTransfer), func(c *ft.Contract) error {
		var err error
		s, err = c.ResolveTransfer(id, res)
		return err
	})

	return s, err
}

func u(n uint64) *uint256.Int {
	return uint256.NewInt(n)
}
