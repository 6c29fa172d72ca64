package host

import (
	"github.com/google/uuid"
	"github.com/holiman/uint256"
	"github.com/quigiaosu103/htpc/common"
	"github.com/quigiaosu103/htpc/contracts/ft"
	"github.com/quigiaosu103/htpc/contracts/ft/ftconst"
	"github.com/quigiaosu103/htpc/events"
)

// MaxGas is the gas limit of a single invocation.
const MaxGas = 300 * ftconst.Tgas

// Call describes an external invocation of the token contract.
type Call struct {
	// Caller is the authenticated account making the call.
	Caller common.AccountID
	// Deposit is the native payment attached to the call. Nil means zero.
	Deposit *uint256.Int
	// Gas is the gas attached to the call. Zero means MaxGas.
	Gas ftconst.Gas
}

// Refund is a native payment returned by the contract.
type Refund struct {
	To     common.AccountID
	Amount *uint256.Int
}

// Outcome is the result of a single invocation. Events and scheduled calls
// are set only for the committed invocations. On failure Refunds contains
// the attached deposit.
type Outcome struct {
	ID        uuid.UUID
	Method    string
	Height    uint64
	Refunds   []Refund
	Events    []events.Event
	Scheduled []ft.TransferID
	// StorageUsage is the storage delta in bytes.
	StorageUsage int64
}

// invocation implements ft.Env buffering all side effects until commit.
type invocation struct {
	call  Call
	self  common.AccountID
	price *uint256.Int

	refunds   []Refund
	events    []events.Event
	scheduled []ft.TransferID
}

func newInvocation(call Call, self common.AccountID, price *uint256.Int) *invocation {
	if call.Deposit == nil {
		call.Deposit = new(uint256.Int)
	} else {
		call.Deposit = call.Deposit.Clone()
	}
	if call.Gas == 0 {
		call.Gas = MaxGas
	}

	return &invocation{
		call:  call,
		self:  self,
		price: price,
	}
}

func (x *invocation) Predecessor() common.AccountID { return x.call.Caller }

func (x *invocation) Current() common.AccountID { return x.self }

func (x *invocation) AttachedDeposit() *uint256.Int { return x.call.Deposit.Clone() }

func (x *invocation) PrepaidGas() ftconst.Gas { return x.call.Gas }

func (x *invocation) StorageBytePrice() *uint256.Int { return x.price.Clone() }

func (x *invocation) Refund(to common.AccountID, amount *uint256.Int) {
	x.refunds = append(x.refunds, Refund{To: to, Amount: amount.Clone()})
}

func (x *invocation) ScheduleReceiverCall(id ft.TransferID) {
	x.scheduled = append(x.scheduled, id)
}

func (x *invocation) Emit(e events.Event) {
	x.events = append(x.events, e)
}

// depositRefund returns the attached deposit back to the caller.
func (x *invocation) depositRefund() []Refund {
	if x.call.Deposit.IsZero() {
		return nil
	}
	return []Refund{{To: x.call.Caller, Amount: x.call.Deposit.Clone()}}
}
