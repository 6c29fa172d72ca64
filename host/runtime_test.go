package host_test

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/holiman/uint256"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/quigiaosu103/htpc/common"
	"github.com/quigiaosu103/htpc/contracts/ft"
	"github.com/quigiaosu103/htpc/events"
	"github.com/quigiaosu103/htpc/host"
	"github.com/quigiaosu103/htpc/internal/testcontracts/ftrecv"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const (
	tokenAcc common.AccountID = "htpc.near"
	aliceAcc common.AccountID = "alice.near"
	bobAcc   common.AccountID = "bob.near"
	dexAcc   common.AccountID = "dex.near"
)

type testRuntime struct {
	*host.Runtime

	t      testing.TB
	store  storage.Store
	events *events.Recorder
}

func newRuntime(t testing.TB, s storage.Store) *testRuntime {
	rec := new(events.Recorder)

	r, err := host.New(host.Prm{
		Logger:          zaptest.NewLogger(t),
		Store:           s,
		Contract:        tokenAcc,
		Emitter:         rec,
		CheckInvariants: true,
	})
	require.NoError(t, err)

	return &testRuntime{Runtime: r, t: t, store: s, events: rec}
}

// newToken returns initialized runtime with alice owning the supply.
func newToken(t testing.TB, supply uint64) *testRuntime {
	r := newRuntime(t, storage.NewMemoryStore())

	_, err := r.Init(context.Background(), ft.InitPrm{
		Owner:       aliceAcc,
		TotalSupply: uint256.NewInt(supply),
		Metadata:    ft.DefaultMetadata(),
	})
	require.NoError(t, err)

	return r
}

func (r *testRuntime) required() *uint256.Int {
	b, err := r.StorageBalanceBounds(context.Background())
	require.NoError(r.t, err)
	return b.Min
}

func (r *testRuntime) register(acc common.AccountID) {
	_, _, err := r.StorageDeposit(context.Background(), host.Call{Caller: acc, Deposit: r.required()}, nil, true)
	require.NoError(r.t, err)
}

func (r *testRuntime) balance(acc common.AccountID) uint64 {
	n, err := r.BalanceOf(context.Background(), acc)
	require.NoError(r.t, err)
	return n.Uint64()
}

func confirmed(acc common.AccountID) host.Call {
	return host.Call{Caller: acc, Deposit: common.OneYocto}
}

func TestRuntimeInit(t *testing.T) {
	ctx := context.Background()
	r := newRuntime(t, storage.NewMemoryStore())

	ok, err := r.Initialized(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = r.TotalSupply(ctx)
	require.ErrorIs(t, err, ft.ErrNotInitialized)

	out, err := r.Init(ctx, ft.InitPrm{Owner: aliceAcc, TotalSupply: uint256.NewInt(1000), Metadata: ft.DefaultMetadata()})
	require.NoError(t, err)
	require.EqualValues(t, 1, out.Height)
	require.Positive(t, out.StorageUsage)
	require.Len(t, out.Events, 1)
	require.Equal(t, out.Events, r.events.Events())

	ok, err = r.Initialized(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	supply, err := r.TotalSupply(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1000, supply.Uint64())

	m, err := r.Metadata(ctx)
	require.NoError(t, err)
	require.Equal(t, ft.DefaultMetadata(), m)

	// default byte price
	st, err := r.State(ctx)
	require.NoError(t, err)
	require.Equal(t, new(uint256.Int).Mul(uint256.NewInt(st.BytesForLongestAccountID), host.DefaultStorageBytePrice), r.required())

	_, err = r.Init(ctx, ft.InitPrm{Owner: bobAcc, TotalSupply: uint256.NewInt(1), Metadata: ft.DefaultMetadata()})
	require.ErrorIs(t, err, ft.ErrAlreadyInitialized)
	require.EqualValues(t, 1, r.Height())
}

func TestRuntimeSeek(t *testing.T) {
	r := newToken(t, 1000)
	r.register(bobAcc)

	var keys [][]byte

	require.NotPanics(t, func() {
		r.Seek(func(k, _ []byte) bool {
			keys = append(keys, bytes.Clone(k))
			return true
		})
	})

	require.Len(t, keys, 5)
	require.Equal(t, append([]byte{'a'}, aliceAcc...), keys[0])
	require.Equal(t, append([]byte{'a'}, bobAcc...), keys[1])
	require.Equal(t, []byte{'m'}, keys[2])
	require.Equal(t, []byte{'s'}, keys[3])
	require.Equal(t, []byte{0xff}, keys[4])

	var n int
	r.Seek(func(_, _ []byte) bool {
		n++
		return false
	})
	require.Equal(t, 1, n)
}

func TestRuntimeScenarios(t *testing.T) {
	ctx := context.Background()
	r := newToken(t, 1000)

	// A
	require.EqualValues(t, 1000, r.balance(aliceAcc))
	require.EqualValues(t, 0, r.balance(bobAcc))

	// B
	r.register(bobAcc)
	_, err := r.Transfer(ctx, confirmed(aliceAcc), bobAcc, uint256.NewInt(300), nil)
	require.NoError(t, err)
	require.EqualValues(t, 700, r.balance(aliceAcc))
	require.EqualValues(t, 300, r.balance(bobAcc))

	// C
	out, err := r.Transfer(ctx, confirmed(aliceAcc), bobAcc, uint256.NewInt(5000), nil)
	require.ErrorIs(t, err, ft.ErrInsufficientBalance)
	require.Equal(t, []host.Refund{{To: aliceAcc, Amount: common.OneYocto}}, out.Refunds)
	require.Empty(t, out.Events)
	require.EqualValues(t, 700, r.balance(aliceAcc))
	require.EqualValues(t, 300, r.balance(bobAcc))

	// D
	_, err = r.Transfer(ctx, confirmed(aliceAcc), dexAcc, uint256.NewInt(10), nil)
	require.ErrorIs(t, err, ft.ErrReceiverNotRegistered)
	require.EqualValues(t, 700, r.balance(aliceAcc))

	// F
	deposit := new(uint256.Int).SubUint64(r.required(), 1)
	sb, out, err := r.StorageDeposit(ctx, host.Call{Caller: dexAcc, Deposit: deposit}, nil, false)
	require.ErrorIs(t, err, ft.ErrInsufficientDeposit)
	require.Equal(t, ft.StorageBalance{}, sb)
	require.Equal(t, []host.Refund{{To: dexAcc, Amount: deposit}}, out.Refunds)

	sbo, err := r.StorageBalanceOf(ctx, dexAcc)
	require.NoError(t, err)
	require.Nil(t, sbo)

	require.NoError(t, r.CheckSupply(ctx))
}

func TestRuntimeStorageRefunds(t *testing.T) {
	ctx := context.Background()
	r := newToken(t, 1000)

	excess := uint256.NewInt(5)
	_, out, err := r.StorageDeposit(ctx, host.Call{Caller: bobAcc, Deposit: new(uint256.Int).Add(r.required(), excess)}, nil, false)
	require.NoError(t, err)
	require.Equal(t, []host.Refund{{To: bobAcc, Amount: excess}}, out.Refunds)

	_, out, err = r.StorageWithdraw(ctx, confirmed(bobAcc), nil)
	require.NoError(t, err)
	require.Empty(t, out.Refunds)

	ok, out, err := r.StorageUnregister(ctx, confirmed(bobAcc), false)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []host.Refund{{To: bobAcc, Amount: new(uint256.Int).AddUint64(r.required(), 1)}}, out.Refunds)
}

func TestRuntimeTransferCall(t *testing.T) {
	ctx := context.Background()
	r := newToken(t, 1000)
	r.register(dexAcc)

	dex := ftrecv.New()
	r.RegisterReceiver(dexAcc, dex)

	// Scenario E: receiver declines 50 of 300
	id, out, err := r.TransferCall(ctx, confirmed(aliceAcc), dexAcc, uint256.NewInt(300), nil, "50")
	require.NoError(t, err)
	require.Equal(t, []ft.TransferID{id}, out.Scheduled)
	require.Equal(t, 1, r.Scheduled())

	require.NoError(t, r.Drain(ctx))
	require.Zero(t, r.Scheduled())

	require.Equal(t, []ftrecv.Call{{Sender: aliceAcc, Amount: uint256.NewInt(300), Message: "50"}}, dex.Calls())
	require.EqualValues(t, 750, r.balance(aliceAcc))
	require.EqualValues(t, 250, r.balance(dexAcc))

	s, ok := r.Settlement(id)
	require.True(t, ok)
	require.Equal(t, ft.PartiallyReversed, s.Status)
	require.Equal(t, uint256.NewInt(250), s.Used)

	evs := r.events.Events()
	require.Equal(t, events.Transfer{
		OldOwnerID: dexAcc,
		NewOwnerID: aliceAcc,
		Amount:     uint256.NewInt(50),
		Memo:       common.Memo(common.RefundMemo),
	}, evs[len(evs)-1])
}

func TestRuntimeTransferCallReceiverFailure(t *testing.T) {
	ctx := context.Background()

	t.Run("no receiver", func(t *testing.T) {
		r := newToken(t, 1000)
		r.register(bobAcc)

		id, _, err := r.TransferCall(ctx, confirmed(aliceAcc), bobAcc, uint256.NewInt(100), nil, "")
		require.NoError(t, err)
		require.NoError(t, r.Drain(ctx))

		s, ok := r.Settlement(id)
		require.True(t, ok)
		require.Equal(t, ft.FullyReversed, s.Status)
		require.EqualValues(t, 1000, r.balance(aliceAcc))
		require.EqualValues(t, 0, r.balance(bobAcc))
	})
	t.Run("receiver error", func(t *testing.T) {
		r := newToken(t, 1000)
		r.register(dexAcc)
		r.RegisterReceiver(dexAcc, ftrecv.New())

		id, _, err := r.TransferCall(ctx, confirmed(aliceAcc), dexAcc, uint256.NewInt(100), nil, ftrecv.MsgFail)
		require.NoError(t, err)
		require.NoError(t, r.Drain(ctx))

		s, ok := r.Settlement(id)
		require.True(t, ok)
		require.Equal(t, ft.FullyReversed, s.Status)
		require.EqualValues(t, 1000, r.balance(aliceAcc))
	})
	t.Run("insufficient gas", func(t *testing.T) {
		r := newToken(t, 1000)
		r.register(dexAcc)

		call := confirmed(aliceAcc)
		call.Gas = 10

		_, out, err := r.TransferCall(ctx, call, dexAcc, uint256.NewInt(100), nil, "")
		require.ErrorIs(t, err, ft.ErrInsufficientGas)
		require.Empty(t, out.Scheduled)
		require.Zero(t, r.Scheduled())
	})
}

func TestRuntimeInterleaving(t *testing.T) {
	ctx := context.Background()
	r := newToken(t, 1000)
	r.register(bobAcc)
	r.register(dexAcc)

	dex := ftrecv.New()
	r.RegisterReceiver(dexAcc, dex)

	id, _, err := r.TransferCall(ctx, confirmed(aliceAcc), dexAcc, uint256.NewInt(300), nil, ftrecv.MsgFail)
	require.NoError(t, err)

	// notification
	ok, err := r.Step(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	// dex spends 280 before the resolution
	_, err = r.Transfer(ctx, confirmed(dexAcc), bobAcc, uint256.NewInt(280), nil)
	require.NoError(t, err)

	// resolution
	ok, err = r.Step(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = r.Step(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	s, found := r.Settlement(id)
	require.True(t, found)
	require.Equal(t, ft.PartiallyReversed, s.Status)
	require.Equal(t, uint256.NewInt(20), s.Refunded)

	require.EqualValues(t, 720, r.balance(aliceAcc))
	require.EqualValues(t, 280, r.balance(bobAcc))
	require.EqualValues(t, 0, r.balance(dexAcc))
}

func TestRuntimeRecoverPending(t *testing.T) {
	ctx := context.Background()
	r := newToken(t, 1000)
	r.register(dexAcc)

	id, _, err := r.TransferCall(ctx, confirmed(aliceAcc), dexAcc, uint256.NewInt(100), nil, ftrecv.MsgTakeAll)
	require.NoError(t, err)
	height := r.Height()

	// restart before the notification is dispatched
	restarted := newRuntime(t, r.store)
	require.Equal(t, height, restarted.Height())
	require.Equal(t, 1, restarted.Scheduled())

	dex := ftrecv.New()
	restarted.RegisterReceiver(dexAcc, dex)
	require.NoError(t, restarted.Drain(ctx))

	require.Len(t, dex.Calls(), 1)
	s, ok := restarted.Settlement(id)
	require.True(t, ok)
	require.Equal(t, ft.Finalized, s.Status)
	require.EqualValues(t, 100, restarted.balance(dexAcc))
}

// flakyStore fails to commit changes while broken is set.
type flakyStore struct {
	*storage.MemoryStore
	broken atomic.Bool
}

func (s *flakyStore) PutChangeSet(puts, stor map[string][]byte) error {
	if s.broken.Load() {
		return errors.New("disk failure")
	}
	return s.MemoryStore.PutChangeSet(puts, stor)
}

func TestRuntimeRetryPhases(t *testing.T) {
	ctx := context.Background()
	s := &flakyStore{MemoryStore: storage.NewMemoryStore()}

	r := newRuntime(t, s)
	_, err := r.Init(ctx, ft.InitPrm{Owner: aliceAcc, TotalSupply: uint256.NewInt(1000), Metadata: ft.DefaultMetadata()})
	require.NoError(t, err)
	r.register(dexAcc)
	r.RegisterReceiver(dexAcc, ftrecv.New())

	id, _, err := r.TransferCall(ctx, confirmed(aliceAcc), dexAcc, uint256.NewInt(100), nil, "40")
	require.NoError(t, err)

	t.Run("dispatch", func(t *testing.T) {
		s.broken.Store(true)
		ok, err := r.Step(ctx)
		require.True(t, ok)
		require.ErrorIs(t, err, host.ErrPersist)
		require.Equal(t, 1, r.Scheduled())

		s.broken.Store(false)
		ok, err = r.Step(ctx)
		require.True(t, ok)
		require.NoError(t, err)
		require.Equal(t, 1, r.Scheduled())
	})

	t.Run("resolve", func(t *testing.T) {
		s.broken.Store(true)
		require.ErrorIs(t, r.Drain(ctx), host.ErrPersist)
		require.Equal(t, 1, r.Scheduled())
		_, ok := r.Settlement(id)
		require.False(t, ok)

		s.broken.Store(false)
		require.NoError(t, r.Drain(ctx))
		require.Zero(t, r.Scheduled())
	})

	st, ok := r.Settlement(id)
	require.True(t, ok)
	require.Equal(t, ft.PartiallyReversed, st.Status)
	require.EqualValues(t, 940, r.balance(aliceAcc))
	require.EqualValues(t, 60, r.balance(dexAcc))
}

func TestRuntimeCanceled(t *testing.T) {
	r := newToken(t, 1000)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Transfer(ctx, confirmed(aliceAcc), bobAcc, uint256.NewInt(1), nil)
	require.True(t, errors.Is(err, context.Canceled))

	_, err = r.Step(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRuntimeInvalidContract(t *testing.T) {
	_, err := host.New(host.Prm{Contract: "X"})
	require.ErrorIs(t, err, common.ErrInvalidAccountID)
}
