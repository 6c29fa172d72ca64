package ft

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/quigiaosu103/htpc/common"
	"github.com/quigiaosu103/htpc/contracts/ft/ftconst"
	"github.com/quigiaosu103/htpc/events"
	"go.uber.org/zap"
)

const (
	accPrefix      = 'a'
	metadataKey    = 'm'
	pendingPrefix  = 'p'
	stateKey       = 's'
	longestAccChar = 'a'
)

// KeyPrefixes returns first bytes of all contract storage keys in ascending
// order.
func KeyPrefixes() []byte {
	return []byte{accPrefix, metadataKey, pendingPrefix, stateKey}
}

// MaxBalance is the biggest amount a single balance or the total supply can
// hold.
var MaxBalance = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1))

// Env is the ambient environment of a single invocation provided by the
// host. Refunds, scheduled calls and events are applied by the host only if
// the invocation succeeds.
type Env interface {
	// Predecessor returns authenticated identity of the caller.
	Predecessor() common.AccountID
	// Current returns identity of the token contract itself.
	Current() common.AccountID
	// AttachedDeposit returns native payment attached to the invocation.
	AttachedDeposit() *uint256.Int
	// PrepaidGas returns gas attached to the invocation.
	PrepaidGas() ftconst.Gas
	// StorageBytePrice returns cost of a single stored byte in native
	// currency.
	StorageBytePrice() *uint256.Int
	// Refund returns native payment to the account.
	Refund(to common.AccountID, amount *uint256.Int)
	// ScheduleReceiverCall dispatches phase 2 of the transfer call
	// referenced by id.
	ScheduleReceiverCall(id TransferID)
	// Emit delivers the event record.
	Emit(events.Event)
}

// State is the contract-wide singleton record.
type State struct {
	Version                  int
	TotalSupply              *uint256.Int
	BytesForLongestAccountID uint64
	TransferNonce            uint64
}

// ToStackItem implements stackitem.Convertible.
func (s *State) ToStackItem() (stackitem.Item, error) {
	return stackitem.NewStruct([]stackitem.Item{
		stackitem.Make(int64(s.Version)),
		common.UintToItem(s.TotalSupply),
		uint64ToItem(s.BytesForLongestAccountID),
		uint64ToItem(s.TransferNonce),
	}), nil
}

// FromStackItem implements stackitem.Convertible.
func (s *State) FromStackItem(item stackitem.Item) error {
	fields, err := structFields(item, 4)
	if err != nil {
		return err
	}

	v, err := fields[0].TryInteger()
	if err != nil || !v.IsInt64() {
		return fmt.Errorf("invalid version: %v", fields[0])
	}
	s.Version = int(v.Int64())

	if s.TotalSupply, err = common.UintFromItem(fields[1]); err != nil {
		return fmt.Errorf("invalid total supply: %w", err)
	}

	if s.BytesForLongestAccountID, err = uint64FromItem(fields[2]); err != nil {
		return fmt.Errorf("invalid bytes for longest account: %w", err)
	}

	if s.TransferNonce, err = uint64FromItem(fields[3]); err != nil {
		return fmt.Errorf("invalid transfer nonce: %w", err)
	}

	return nil
}

// Contract is the fungible token contract bound to a single invocation. It
// is the only mutator of the ledger.
type Contract struct {
	env   Env
	store *common.Meter
	log   *zap.Logger

	state    State
	metadata *FungibleTokenMetadata
}

// InitPrm groups parameters of the contract initialization.
type InitPrm struct {
	Owner       common.AccountID
	TotalSupply *uint256.Int
	Metadata    FungibleTokenMetadata
}

// New initializes the contract in empty storage: measures storage cost of the
// longest account, registers the owner and credits it with the whole supply.
func New(env Env, s common.Storage, log *zap.Logger, prm InitPrm) (*Contract, error) {
	if _, err := s.Get([]byte{stateKey}); err == nil {
		return nil, ErrAlreadyInitialized
	}

	err := prm.Metadata.Validate()
	if err != nil {
		return nil, err
	}

	if prm.TotalSupply == nil || prm.TotalSupply.Gt(MaxBalance) {
		return nil, fmt.Errorf("%w: total supply exceeds %s", ErrBalanceOverflow, MaxBalance.Dec())
	}

	c := &Contract{
		env:   env,
		store: common.NewMeter(s),
		log:   log,
		state: State{
			Version:     common.Version,
			TotalSupply: prm.TotalSupply.Clone(),
		},
		metadata: &prm.Metadata,
	}

	err = common.SetSerialized(c.store, []byte{metadataKey}, &prm.Metadata)
	if err != nil {
		return nil, fmt.Errorf("store metadata: %w", err)
	}

	err = c.measureBytesForLongestAccountID()
	if err != nil {
		return nil, fmt.Errorf("measure storage of the longest account: %w", err)
	}

	err = c.register(prm.Owner)
	if err != nil {
		return nil, fmt.Errorf("register owner: %w", err)
	}

	err = c.internalDeposit(prm.Owner, prm.TotalSupply)
	if err != nil {
		return nil, fmt.Errorf("deposit initial supply: %w", err)
	}

	env.Emit(events.Mint{
		OwnerID: prm.Owner,
		Amount:  prm.TotalSupply.Clone(),
		Memo:    common.Memo(common.InitialSupplyMemo),
	})

	log.Info("contract initialized",
		zap.Stringer("owner", prm.Owner),
		zap.String("total supply", prm.TotalSupply.Dec()),
		zap.Uint64("bytes for longest account", c.state.BytesForLongestAccountID))

	return c, nil
}

// NewDefaultMeta is New with DefaultMetadata.
func NewDefaultMeta(env Env, s common.Storage, log *zap.Logger, owner common.AccountID, totalSupply *uint256.Int) (*Contract, error) {
	return New(env, s, log, InitPrm{
		Owner:       owner,
		TotalSupply: totalSupply,
		Metadata:    DefaultMetadata(),
	})
}

// Load reads the contract state from s. Use Flush to store it back after
// the invocation.
func Load(env Env, s common.Storage, log *zap.Logger) (*Contract, error) {
	c := &Contract{
		env:   env,
		store: common.NewMeter(s),
		log:   log,
	}

	ok, err := common.GetSerialized(c.store, []byte{stateKey}, &c.state)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptedState, err)
	}
	if !ok {
		return nil, ErrNotInitialized
	}

	err = common.CheckVersion(c.state.Version)
	if err != nil {
		return nil, err
	}

	return c, nil
}

// Flush stores the contract state.
func (c *Contract) Flush() error {
	c.state.Version = common.Version
	return common.SetSerialized(c.store, []byte{stateKey}, &c.state)
}

// State returns copy of the contract-wide state.
func (c *Contract) State() State {
	s := c.state
	s.TotalSupply = s.TotalSupply.Clone()
	return s
}

// StorageUsage returns storage usage delta of the current invocation.
func (c *Contract) StorageUsage() int64 {
	return c.store.Usage()
}

// TotalSupply returns the amount of tokens in circulation.
func (c *Contract) TotalSupply() *uint256.Int {
	return c.state.TotalSupply.Clone()
}

// CheckSupply scans the whole ledger and checks that balances sum up to the
// total supply.
func (c *Contract) CheckSupply() error {
	var (
		sum      = new(uint256.Int)
		overflow bool
		iterErr  error
	)

	c.store.Seek(storage.SeekRange{Prefix: []byte{accPrefix}}, func(k, v []byte) bool {
		var bal *uint256.Int

		bal, iterErr = decodeBalance(v)
		if iterErr != nil {
			iterErr = fmt.Errorf("account %s: %w", k[1:], iterErr)
			return false
		}

		_, overflow = sum.AddOverflow(sum, bal)

		return !overflow
	})
	if iterErr != nil {
		return fmt.Errorf("%w: %w", ErrCorruptedState, iterErr)
	}
	if overflow {
		return fmt.Errorf("%w: sum of balances overflows", ErrCorruptedState)
	}
	if !sum.Eq(c.state.TotalSupply) {
		return fmt.Errorf("%w: sum of balances %s differs from total supply %s", ErrCorruptedState, sum.Dec(), c.state.TotalSupply.Dec())
	}

	return nil
}

func uint64ToItem(n uint64) stackitem.Item {
	return stackitem.NewBigInteger(new(big.Int).SetUint64(n))
}

func uint64FromItem(item stackitem.Item) (uint64, error) {
	n, err := item.TryInteger()
	if err != nil {
		return 0, err
	}
	if !n.IsUint64() {
		return 0, fmt.Errorf("%s overflows uint64", n)
	}
	return n.Uint64(), nil
}
