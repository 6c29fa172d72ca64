package ft

import (
	"encoding/binary"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/quigiaosu103/htpc/common"
	"github.com/quigiaosu103/htpc/contracts/ft/ftconst"
)

// TransferID identifies a transfer call across its phases.
type TransferID string

// String implements fmt.Stringer.
func (id TransferID) String() string {
	return string(id)
}

// TransferStatus is a state of the transfer call.
//
//	Pending -> AwaitingReceiverAck -> {Finalized | PartiallyReversed | FullyReversed}
type TransferStatus uint8

const (
	// Pending means funds are moved and the receiver is not notified yet.
	Pending TransferStatus = iota
	// AwaitingReceiverAck means the receiver notification is dispatched.
	AwaitingReceiverAck
	// Finalized means nothing was returned to the sender.
	Finalized
	// PartiallyReversed means part of the amount was returned to the sender.
	PartiallyReversed
	// FullyReversed means the whole amount was returned to the sender.
	FullyReversed
)

// String implements fmt.Stringer.
func (s TransferStatus) String() string {
	switch s {
	case Pending:
		return "pending"
	case AwaitingReceiverAck:
		return "awaiting receiver ack"
	case Finalized:
		return "finalized"
	case PartiallyReversed:
		return "partially reversed"
	case FullyReversed:
		return "fully reversed"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// PendingTransfer is a transfer call persisted between its phases.
type PendingTransfer struct {
	Sender   common.AccountID
	Receiver common.AccountID
	Amount   *uint256.Int
	Memo     *string
	Message  string
	// Gas given to the receiver notification.
	Gas    ftconst.Gas
	Status TransferStatus
}

// ToStackItem implements stackitem.Convertible.
func (p *PendingTransfer) ToStackItem() (stackitem.Item, error) {
	return stackitem.NewStruct([]stackitem.Item{
		stackitem.NewByteArray([]byte(p.Sender)),
		stackitem.NewByteArray([]byte(p.Receiver)),
		common.UintToItem(p.Amount),
		optionalString(p.Memo),
		stackitem.NewByteArray([]byte(p.Message)),
		uint64ToItem(uint64(p.Gas)),
		stackitem.Make(int64(p.Status)),
	}), nil
}

// FromStackItem implements stackitem.Convertible.
func (p *PendingTransfer) FromStackItem(item stackitem.Item) error {
	fields, err := structFields(item, 7)
	if err != nil {
		return err
	}

	var b []byte
	if b, err = fields[0].TryBytes(); err != nil {
		return fmt.Errorf("invalid sender: %w", err)
	}
	p.Sender = common.AccountID(b)

	if b, err = fields[1].TryBytes(); err != nil {
		return fmt.Errorf("invalid receiver: %w", err)
	}
	p.Receiver = common.AccountID(b)

	if p.Amount, err = common.UintFromItem(fields[2]); err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}

	if p.Memo, err = fromOptionalString(fields[3]); err != nil {
		return fmt.Errorf("invalid memo: %w", err)
	}

	if b, err = fields[4].TryBytes(); err != nil {
		return fmt.Errorf("invalid message: %w", err)
	}
	p.Message = string(b)

	gas, err := uint64FromItem(fields[5])
	if err != nil {
		return fmt.Errorf("invalid gas: %w", err)
	}
	p.Gas = ftconst.Gas(gas)

	status, err := uint64FromItem(fields[6])
	if err != nil || status > uint64(FullyReversed) {
		return fmt.Errorf("invalid status %v", fields[6])
	}
	p.Status = TransferStatus(status)

	return nil
}

func pendingKey(id TransferID) []byte {
	return append([]byte{pendingPrefix}, id...)
}

// newTransferID derives unique identifier of the next transfer call.
func (c *Contract) newTransferID(sender, receiver common.AccountID, amount *uint256.Int) TransferID {
	c.state.TransferNonce++

	buf := make([]byte, 0, len(sender)+len(receiver)+2+32+8)
	buf = append(buf, sender...)
	buf = append(buf, 0)
	buf = append(buf, receiver...)
	buf = append(buf, 0)
	b32 := amount.Bytes32()
	buf = append(buf, b32[:]...)
	buf = binary.BigEndian.AppendUint64(buf, c.state.TransferNonce)

	return TransferID(base58.Encode(hash.Sha256(buf).BytesBE()))
}

// PendingTransfer returns the transfer call record or nil if there is no
// unresolved transfer call with such id.
func (c *Contract) PendingTransfer(id TransferID) (*PendingTransfer, error) {
	var p PendingTransfer

	ok, err := common.GetSerialized(c.store, pendingKey(id), &p)
	if err != nil {
		return nil, fmt.Errorf("%w: transfer %s: %w", ErrCorruptedState, id, err)
	}
	if !ok {
		return nil, nil
	}

	return &p, nil
}

func (c *Contract) putPending(id TransferID, p *PendingTransfer) error {
	return common.SetSerialized(c.store, pendingKey(id), p)
}

// PendingTransfers iterates over all unresolved transfer calls and passes
// them into f until f returns false.
func (c *Contract) PendingTransfers(f func(TransferID, PendingTransfer) bool) error {
	var iterErr error

	c.store.Seek(storage.SeekRange{Prefix: []byte{pendingPrefix}}, func(k, v []byte) bool {
		var p PendingTransfer

		iterErr = stackitem.DeserializeConvertible(v, &p)
		if iterErr != nil {
			iterErr = fmt.Errorf("%w: transfer %s: %w", ErrCorruptedState, k[1:], iterErr)
			return false
		}

		return f(TransferID(k[1:]), p)
	})

	return iterErr
}
