package host

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/quigiaosu103/htpc/common"
	"github.com/quigiaosu103/htpc/contracts/ft"
	"github.com/quigiaosu103/htpc/contracts/ft/ftconst"
	"github.com/quigiaosu103/htpc/events"
	"go.uber.org/zap"
)

// ErrPersist is returned if changes of the successful invocation can't be
// committed to the store. The invocation has no effect.
var ErrPersist = errors.New("persist invocation changes")

// Prm groups parameters of the Runtime.
type Prm struct {
	// Logger is the runtime logger. Defaults to no-op.
	Logger *zap.Logger
	// Store is the committed contract storage. Defaults to a new in-memory
	// store.
	Store storage.Store
	// Contract is the account of the token contract. Required.
	Contract common.AccountID
	// Price provides storage byte price. Defaults to
	// DefaultStorageBytePrice.
	Price PriceOracle
	// Emitter receives events of the committed invocations. Defaults to
	// events.Discard.
	Emitter events.Emitter
	// CheckInvariants enables total supply check before every commit.
	CheckInvariants bool
}

// Runtime executes invocations of the token contract one at a time. Every
// invocation runs against a cached view of the committed store which is
// persisted only if the invocation succeeds.
type Runtime struct {
	mtx sync.RWMutex

	log             *zap.Logger
	store           storage.Store
	contract        common.AccountID
	price           PriceOracle
	emitter         events.Emitter
	checkInvariants bool
	height          uint64

	queueMtx    sync.Mutex
	queue       []task
	settlements map[ft.TransferID]ft.Settlement

	recvMtx   sync.RWMutex
	receivers map[common.AccountID]Receiver
}

// contractFunc opens the contract over the invocation view.
type contractFunc func(ft.Env, common.Storage, *zap.Logger) (*ft.Contract, error)

// New creates Runtime over the committed store. Transfer calls left pending
// in the store are scheduled for dispatch again.
func New(prm Prm) (*Runtime, error) {
	err := prm.Contract.Validate()
	if err != nil {
		return nil, fmt.Errorf("contract account: %w", err)
	}

	r := &Runtime{
		log:             prm.Logger,
		store:           prm.Store,
		contract:        prm.Contract,
		price:           prm.Price,
		emitter:         prm.Emitter,
		checkInvariants: prm.CheckInvariants,
		settlements:     make(map[ft.TransferID]ft.Settlement),
		receivers:       make(map[common.AccountID]Receiver),
	}

	if r.log == nil {
		r.log = zap.NewNop()
	}
	if r.store == nil {
		r.store = storage.NewMemoryStore()
	}
	if r.price == nil {
		r.price = NewFixedPrice(DefaultStorageBytePrice)
	}
	if r.emitter == nil {
		r.emitter = events.Discard
	}

	r.height, err = getHeight(r.store)
	if err != nil {
		return nil, fmt.Errorf("read height: %w", err)
	}

	err = r.recoverPending()
	if err != nil {
		return nil, err
	}

	return r, nil
}

// recoverPending schedules transfer calls interrupted before dispatch.
// Transfer calls awaiting receiver acknowledgement can't be completed
// since the notification outcome is lost, they are reported only.
func (r *Runtime) recoverPending() error {
	c, err := ft.Load(r.selfInvocation(), storage.NewMemCachedStore(r.store), r.log)
	if err != nil {
		if errors.Is(err, ft.ErrNotInitialized) {
			return nil
		}
		return fmt.Errorf("load contract: %w", err)
	}

	return c.PendingTransfers(func(id ft.TransferID, p ft.PendingTransfer) bool {
		switch p.Status {
		case ft.Pending:
			r.queue = append(r.queue, task{id: id})
			r.log.Info("pending transfer call rescheduled", zap.Stringer("id", id))
		default:
			r.log.Warn("transfer call lost receiver outcome",
				zap.Stringer("id", id), zap.Stringer("status", p.Status),
				zap.Stringer("sender", p.Sender), zap.Stringer("receiver", p.Receiver))
		}
		return true
	})
}

// Contract returns account of the token contract.
func (r *Runtime) Contract() common.AccountID {
	return r.contract
}

// Height returns the number of committed invocations.
func (r *Runtime) Height() uint64 {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.height
}

// Seek iterates over all committed storage items including the host ones
// and passes them into f until f returns false. Invocations wait until Seek
// returns.
func (r *Runtime) Seek(f func(k, v []byte) bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	seekAll(r.store, f)
}

func (r *Runtime) selfInvocation() *invocation {
	return newInvocation(r.selfCall(0), r.contract, r.price.StorageBytePrice())
}

// selfCall describes invocation of the contract by itself.
func (r *Runtime) selfCall(gas ftconst.Gas) Call {
	return Call{Caller: r.contract, Gas: gas}
}

// Invoke runs fn against the loaded contract as a single all-or-nothing
// invocation.
func (r *Runtime) Invoke(ctx context.Context, call Call, method string, fn func(*ft.Contract) error) (*Outcome, error) {
	return r.execute(ctx, call, method, ft.Load, fn)
}

func (r *Runtime) execute(ctx context.Context, call Call, method string, open contractFunc, fn func(*ft.Contract) error) (*Outcome, error) {
	err := ctx.Err()
	if err != nil {
		return nil, err
	}

	r.mtx.Lock()
	defer r.mtx.Unlock()

	var (
		inv  = newInvocation(call, r.contract, r.price.StorageBytePrice())
		view = storage.NewMemCachedStore(r.store)
		out  = &Outcome{ID: uuid.New(), Method: method, Height: r.height}
		log  = r.log.With(zap.Stringer("invocation", out.ID), zap.String("method", method), zap.Stringer("caller", call.Caller))
	)

	out.StorageUsage, err = r.run(inv, view, log, open, fn)
	if err != nil {
		if ft.IsFatal(err) {
			log.Error("invocation aborted", zap.Error(err))
		} else {
			log.Info("invocation failed", zap.Error(err))
		}

		out.Refunds = inv.depositRefund()

		return out, err
	}

	putHeight(view, r.height+1)

	_, err = view.PersistSync()
	if err != nil {
		log.Error("failed to persist invocation changes", zap.Error(err))
		out.Refunds = inv.depositRefund()
		return out, fmt.Errorf("%w: %w", ErrPersist, err)
	}

	r.height++
	out.Height = r.height
	out.Refunds = inv.refunds
	out.Events = inv.events
	out.Scheduled = inv.scheduled

	for i := range inv.events {
		r.emitter.Emit(inv.events[i])
	}

	if len(inv.scheduled) > 0 {
		r.queueMtx.Lock()
		for _, id := range inv.scheduled {
			r.queue = append(r.queue, task{id: id})
		}
		r.queueMtx.Unlock()
	}

	log.Debug("invocation committed",
		zap.Uint64("height", out.Height),
		zap.Int64("storage usage", out.StorageUsage),
		zap.Int("events", len(out.Events)))

	return out, nil
}

func (r *Runtime) run(inv *invocation, view *storage.MemCachedStore, log *zap.Logger, open contractFunc, fn func(*ft.Contract) error) (int64, error) {
	c, err := open(inv, view, log)
	if err != nil {
		return 0, err
	}

	if fn != nil {
		err = fn(c)
		if err != nil {
			return 0, err
		}
	}

	err = c.Flush()
	if err != nil {
		return 0, fmt.Errorf("flush state: %w", err)
	}

	if r.checkInvariants {
		err = c.CheckSupply()
		if err != nil {
			return 0, err
		}
	}

	return c.StorageUsage(), nil
}

// View runs fn against the contract loaded from the committed store. All
// changes made by fn are discarded.
func (r *Runtime) View(ctx context.Context, fn func(*ft.Contract) error) error {
	err := ctx.Err()
	if err != nil {
		return err
	}

	r.mtx.RLock()
	defer r.mtx.RUnlock()

	c, err := ft.Load(r.selfInvocation(), storage.NewMemCachedStore(r.store), r.log)
	if err != nil {
		return err
	}

	return fn(c)
}
