package host

import (
	"context"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/quigiaosu103/htpc/common"
	"github.com/quigiaosu103/htpc/contracts/ft"
	"github.com/quigiaosu103/htpc/contracts/ft/ftconst"
	"go.uber.org/zap"
)

// Receiver is a contract accepting tokens with transfer calls. OnTransfer
// returns the declined amount, which the token contract tries to return to
// the sender. An error means the notification failed and the whole amount is
// declined.
type Receiver interface {
	OnTransfer(ctx context.Context, sender common.AccountID, amount *uint256.Int, msg string) (*uint256.Int, error)
}

// ReceiverFunc is an adapter to allow the use of ordinary functions as
// Receiver.
type ReceiverFunc func(ctx context.Context, sender common.AccountID, amount *uint256.Int, msg string) (*uint256.Int, error)

// OnTransfer implements Receiver.
func (f ReceiverFunc) OnTransfer(ctx context.Context, sender common.AccountID, amount *uint256.Int, msg string) (*uint256.Int, error) {
	return f(ctx, sender, amount, msg)
}

// task is a scheduled phase of a transfer call: receiver notification if
// result is nil, resolution otherwise.
type task struct {
	id     ft.TransferID
	result *ft.ReceiverResult
}

// RegisterReceiver binds the receiver contract to the account. Transfer calls
// to accounts without receivers fail at notification.
func (r *Runtime) RegisterReceiver(account common.AccountID, recv Receiver) {
	r.recvMtx.Lock()
	r.receivers[account] = recv
	r.recvMtx.Unlock()
}

func (r *Runtime) receiver(account common.AccountID) (Receiver, bool) {
	r.recvMtx.RLock()
	defer r.recvMtx.RUnlock()

	recv, ok := r.receivers[account]
	return recv, ok
}

// Scheduled returns the number of queued transfer call phases.
func (r *Runtime) Scheduled() int {
	r.queueMtx.Lock()
	defer r.queueMtx.Unlock()
	return len(r.queue)
}

// Settlement returns the outcome of the resolved transfer call.
func (r *Runtime) Settlement(id ft.TransferID) (ft.Settlement, bool) {
	r.queueMtx.Lock()
	defer r.queueMtx.Unlock()

	s, ok := r.settlements[id]
	return s, ok
}

// Step executes the next queued phase of a transfer call. Other invocations
// may interleave between the phases. Returns false if the queue is empty.
func (r *Runtime) Step(ctx context.Context) (bool, error) {
	err := ctx.Err()
	if err != nil {
		return false, err
	}

	r.queueMtx.Lock()
	if len(r.queue) == 0 {
		r.queueMtx.Unlock()
		return false, nil
	}
	t := r.queue[0]
	r.queue = r.queue[1:]
	r.queueMtx.Unlock()

	if t.result == nil {
		return true, r.dispatch(ctx, t.id)
	}

	return true, r.resolve(ctx, t.id, *t.result)
}

// Drain executes queued phases until the queue is empty. Failed phases don't
// stop the others unless the failure is retryable, in which case the phase
// stays queued and Drain returns.
func (r *Runtime) Drain(ctx context.Context) error {
	var errs []error

	for {
		ok, err := r.Step(ctx)
		if err != nil {
			errs = append(errs, err)
			if retryable(err) {
				break
			}
		}
		if !ok {
			break
		}
	}

	return errors.Join(errs...)
}

// retryable checks whether the phase failed without reaching a contract
// decision, so it can be executed again.
func retryable(err error) bool {
	return errors.Is(err, ErrPersist) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func (r *Runtime) enqueue(t task) {
	r.queueMtx.Lock()
	r.queue = append(r.queue, t)
	r.queueMtx.Unlock()
}

// dispatch notifies the receiver and schedules the resolution.
func (r *Runtime) dispatch(ctx context.Context, id ft.TransferID) error {
	var call ft.ReceiverCall

	_, err := r.execute(ctx, r.selfCall(0), "begin_receiver_call", ft.Load, func(c *ft.Contract) error {
		var err error
		call, err = c.BeginReceiverCall(id)
		return err
	})
	if err != nil {
		if retryable(err) {
			r.enqueue(task{id: id})
		}
		return fmt.Errorf("dispatch transfer call %s: %w", id, err)
	}

	res := r.notify(ctx, call)

	r.enqueue(task{id: id, result: &res})

	return nil
}

// notify calls the receiver outside of the invocation lock.
func (r *Runtime) notify(ctx context.Context, call ft.ReceiverCall) ft.ReceiverResult {
	log := r.log.With(zap.Stringer("id", call.ID), zap.Stringer("receiver", call.Receiver))

	recv, ok := r.receiver(call.Receiver)
	if !ok {
		log.Info("receiver has no contract deployed")
		return ft.ReceiverResult{Failed: true}
	}

	unused, err := recv.OnTransfer(ctx, call.Sender, call.Amount.Clone(), call.Message)
	if err != nil {
		log.Info("receiver notification failed", zap.Error(err))
		return ft.ReceiverResult{Failed: true}
	}

	return ft.ReceiverResult{Unused: unused}
}

// resolve settles the transfer call with the notification outcome.
func (r *Runtime) resolve(ctx context.Context, id ft.TransferID, res ft.ReceiverResult) error {
	var s ft.Settlement

	_, err := r.execute(ctx, r.selfCall(ftconst.GasForResolveTransfer), "ft_resolve_transfer", ft.Load, func(c *ft.Contract) error {
		var err error
		s, err = c.ResolveTransfer(id, res)
		return err
	})
	if err != nil {
		if retryable(err) {
			r.enqueue(task{id: id, result: &res})
		}
		return fmt.Errorf("resolve transfer call %s: %w", id, err)
	}

	r.queueMtx.Lock()
	r.settlements[id] = s
	r.queueMtx.Unlock()

	return nil
}
