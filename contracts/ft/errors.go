package ft

import (
	"errors"

	"github.com/quigiaosu103/htpc/common"
)

// Recoverable errors. The invocation is reverted and the caller receives the
// error.
var (
	ErrAlreadyInitialized    = errors.New("contract is already initialized")
	ErrNotInitialized        = errors.New("contract is not initialized")
	ErrAlreadyRegistered     = errors.New("account is already registered")
	ErrNotRegistered         = errors.New("account is not registered")
	ErrNonZeroBalance        = errors.New("can't unregister the account with the positive balance without force")
	ErrInsufficientDeposit   = errors.New("attached deposit is less than the minimum storage balance")
	ErrExcessiveWithdrawal   = errors.New("amount is greater than the available storage balance")
	ErrInsufficientBalance   = errors.New("account doesn't have enough balance")
	ErrSelfTransfer          = errors.New("sender and receiver should be different")
	ErrZeroAmount            = errors.New("amount should be a positive number")
	ErrReceiverNotRegistered = errors.New("receiver is not registered")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrInsufficientGas       = errors.New("more gas is required")
	ErrTransferNotPending    = errors.New("transfer is not pending")
	ErrInvalidMetadata       = errors.New("invalid metadata")
)

// Fatal errors signal caller or ledger integrity bugs.
var (
	ErrBalanceOverflow = errors.New("balance overflow")
	ErrMissingAccount  = errors.New("deposit to unregistered account")
	ErrCorruptedState  = errors.New("corrupted contract state")
)

// IsFatal checks whether err signals a bug rather than a user mistake.
func IsFatal(err error) bool {
	return errors.Is(err, ErrBalanceOverflow) ||
		errors.Is(err, ErrMissingAccount) ||
		errors.Is(err, ErrCorruptedState) ||
		errors.Is(err, common.ErrInvalidAccountID)
}
