package ft

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/quigiaosu103/htpc/common"
	"github.com/quigiaosu103/htpc/contracts/ft/ftconst"
	"github.com/quigiaosu103/htpc/events"
	"go.uber.org/zap"
)

// ReceiverCall is the notification sent to the receiver in phase 2 of the
// transfer call.
type ReceiverCall struct {
	ID       TransferID
	Sender   common.AccountID
	Receiver common.AccountID
	Amount   *uint256.Int
	Message  string
	Gas      ftconst.Gas
}

// ReceiverResult is the outcome of the receiver notification.
type ReceiverResult struct {
	// Failed is set if the receiver call faulted or was never executed.
	Failed bool
	// Unused is the amount declined by the receiver. Nil means zero.
	Unused *uint256.Int
}

// Settlement is the outcome of the transfer call resolution.
type Settlement struct {
	ID     TransferID
	Status TransferStatus
	// Used is the amount finally kept by the receiver.
	Used *uint256.Int
	// Refunded is the amount returned to the sender or burned if the sender
	// is gone.
	Refunded *uint256.Int
	// Burned is set if the refund was burned.
	Burned bool
}

func (c *Contract) checkSender(sender common.AccountID) error {
	err := common.CheckOwnerWitness(c.env.Predecessor(), sender)
	if err == nil {
		err = common.CheckConfirmationDeposit(c.env.AttachedDeposit())
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return nil
}

// Transfer moves amount from the sender to the registered receiver. The
// caller must be the sender and attach exactly one yocto.
func (c *Contract) Transfer(sender, receiver common.AccountID, amount *uint256.Int, memo *string) error {
	err := c.checkSender(sender)
	if err != nil {
		return err
	}

	return c.internalTransfer(sender, receiver, amount, memo)
}

// TransferCall moves amount to the receiver and schedules the receiver
// notification with msg. Funds are moved immediately, the receiver may
// return part of them later, see ResolveTransfer.
func (c *Contract) TransferCall(sender, receiver common.AccountID, amount *uint256.Int, memo *string, msg string) (TransferID, error) {
	err := c.checkSender(sender)
	if err != nil {
		return "", err
	}

	prepaid := c.env.PrepaidGas()
	if prepaid <= ftconst.GasForFtTransferCall {
		return "", fmt.Errorf("%w: prepaid %d, required more than %d", ErrInsufficientGas, prepaid, ftconst.GasForFtTransferCall)
	}

	err = c.internalTransfer(sender, receiver, amount, memo)
	if err != nil {
		return "", err
	}

	id := c.newTransferID(sender, receiver, amount)

	err = c.putPending(id, &PendingTransfer{
		Sender:   sender,
		Receiver: receiver,
		Amount:   amount.Clone(),
		Memo:     memo,
		Message:  msg,
		Gas:      prepaid - ftconst.GasForFtTransferCall,
		Status:   Pending,
	})
	if err != nil {
		return "", err
	}

	c.env.ScheduleReceiverCall(id)

	c.log.Debug("transfer call scheduled", zap.Stringer("id", id),
		zap.Stringer("sender", sender), zap.Stringer("receiver", receiver), zap.String("amount", amount.Dec()))

	return id, nil
}

// BeginReceiverCall marks the transfer call as dispatched to the receiver
// and returns the notification. Only the contract itself may call it.
func (c *Contract) BeginReceiverCall(id TransferID) (ReceiverCall, error) {
	err := common.CheckPrivate(c.env.Predecessor(), c.env.Current())
	if err != nil {
		return ReceiverCall{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	p, err := c.PendingTransfer(id)
	if err != nil {
		return ReceiverCall{}, err
	}
	if p == nil || p.Status != Pending {
		return ReceiverCall{}, fmt.Errorf("%w: %s is not awaiting dispatch", ErrTransferNotPending, id)
	}

	p.Status = AwaitingReceiverAck

	err = c.putPending(id, p)
	if err != nil {
		return ReceiverCall{}, err
	}

	return ReceiverCall{
		ID:       id,
		Sender:   p.Sender,
		Receiver: p.Receiver,
		Amount:   p.Amount,
		Message:  p.Message,
		Gas:      p.Gas,
	}, nil
}

// ResolveTransfer finalizes the transfer call according to the receiver
// notification outcome and returns the settlement. The declined amount is
// returned to the sender as far as the current receiver balance allows. Only
// the contract itself may call it, at most once per transfer call.
func (c *Contract) ResolveTransfer(id TransferID, res ReceiverResult) (Settlement, error) {
	err := common.CheckPrivate(c.env.Predecessor(), c.env.Current())
	if err != nil {
		return Settlement{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	p, err := c.PendingTransfer(id)
	if err != nil {
		return Settlement{}, err
	}
	if p == nil || p.Status != AwaitingReceiverAck {
		return Settlement{}, fmt.Errorf("%w: %s is not awaiting resolution", ErrTransferNotPending, id)
	}

	// failed notification declines everything
	unused := p.Amount.Clone()
	if !res.Failed {
		unused.Clear()
		if res.Unused != nil {
			unused.Set(res.Unused)
			if unused.Gt(p.Amount) {
				unused.Set(p.Amount)
			}
		}
	}

	s := Settlement{
		ID:       id,
		Used:     p.Amount.Clone(),
		Refunded: new(uint256.Int),
	}

	if !unused.IsZero() {
		s.Refunded, s.Burned, err = c.refund(p, unused)
		if err != nil {
			return Settlement{}, err
		}
		s.Used.Sub(p.Amount, s.Refunded)
	}

	switch {
	case s.Refunded.IsZero():
		s.Status = Finalized
	case s.Refunded.Eq(p.Amount):
		s.Status = FullyReversed
	default:
		s.Status = PartiallyReversed
	}

	c.store.Delete(pendingKey(id))

	c.log.Debug("transfer call resolved", zap.Stringer("id", id), zap.Stringer("status", s.Status),
		zap.String("used", s.Used.Dec()), zap.String("refunded", s.Refunded.Dec()))

	return s, nil
}

// refund moves up to unused amount from the receiver back to the sender
// according to the receiver's current balance. If the sender is no longer
// registered, the amount is burned.
func (c *Contract) refund(p *PendingTransfer, unused *uint256.Int) (*uint256.Int, bool, error) {
	recvBalance, _, err := c.getBalance(p.Receiver)
	if err != nil {
		return nil, false, err
	}
	if recvBalance.IsZero() {
		return new(uint256.Int), false, nil
	}

	amount := unused.Clone()
	if recvBalance.Lt(amount) {
		amount.Set(recvBalance)
	}

	err = c.putBalance(p.Receiver, new(uint256.Int).Sub(recvBalance, amount))
	if err != nil {
		return nil, false, err
	}

	senderRegistered, err := c.IsRegistered(p.Sender)
	if err != nil {
		return nil, false, err
	}

	if !senderRegistered {
		c.log.Info("sender account was deleted, burning refund", zap.Stringer("sender", p.Sender), zap.String("amount", amount.Dec()))

		err = c.burn(p.Receiver, amount, common.Memo(common.RefundMemo))
		if err != nil {
			return nil, false, err
		}

		return amount, true, nil
	}

	err = c.internalDeposit(p.Sender, amount)
	if err != nil {
		return nil, false, err
	}

	c.env.Emit(events.Transfer{
		OldOwnerID: p.Receiver,
		NewOwnerID: p.Sender,
		Amount:     amount.Clone(),
		Memo:       common.Memo(common.RefundMemo),
	})

	return amount, false, nil
}
