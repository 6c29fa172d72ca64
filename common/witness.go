package common

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

var (
	// ErrOwnerWitnessFailed appears when the method must be called
	// by an owner of some assets but was not.
	ErrOwnerWitnessFailed = errors.New("owner witness check failed")
	// ErrPrivateCall appears when the method may only be called by the
	// contract itself but was not.
	ErrPrivateCall = errors.New("method is private")
	// ErrConfirmationDeposit appears when the method requires exactly one
	// yocto of attached deposit but a different amount was attached.
	ErrConfirmationDeposit = errors.New("requires attached deposit of exactly 1 yocto")
)

// CheckOwnerWitness checks that the caller is the owner of assets.
func CheckOwnerWitness(caller, owner AccountID) error {
	if caller != owner {
		return fmt.Errorf("%w: caller %s, owner %s", ErrOwnerWitnessFailed, caller, owner)
	}
	return nil
}

// CheckPrivate checks that the caller is the contract itself.
func CheckPrivate(caller, self AccountID) error {
	if caller != self {
		return fmt.Errorf("%w: called by %s", ErrPrivateCall, caller)
	}
	return nil
}

// CheckConfirmationDeposit checks that exactly one yocto is attached. Such
// deposit can only be attached with a full access key, so it confirms that
// the call is made deliberately by the account owner.
func CheckConfirmationDeposit(attached *uint256.Int) error {
	if attached == nil || !attached.Eq(OneYocto) {
		return ErrConfirmationDeposit
	}
	return nil
}
