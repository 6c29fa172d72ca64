package common

import (
	"errors"
	"fmt"
)

// AccountID is an opaque account identity. Valid identities follow NEAR
// account naming rules, see ValidateAccountID.
type AccountID string

const (
	// MinAccountIDLen is the minimal length of a valid account identity.
	MinAccountIDLen = 2
	// MaxAccountIDLen is the maximal length of a valid account identity. It
	// bounds the storage consumed by a single ledger entry.
	MaxAccountIDLen = 64
)

// ErrInvalidAccountID is returned for identities violating naming rules.
var ErrInvalidAccountID = errors.New("invalid account ID")

// String implements fmt.Stringer.
func (a AccountID) String() string {
	return string(a)
}

// Validate checks that a is a well-formed account identity.
func (a AccountID) Validate() error {
	return ValidateAccountID(string(a))
}

// ValidateAccountID checks that s is 2-64 characters long and consists of
// lowercase alphanumeric parts separated by single '-', '_' or '.'.
func ValidateAccountID(s string) error {
	if len(s) < MinAccountIDLen || len(s) > MaxAccountIDLen {
		return fmt.Errorf("%w: length %d is out of [%d, %d]", ErrInvalidAccountID, len(s), MinAccountIDLen, MaxAccountIDLen)
	}

	lastSep := true // no leading separator
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			lastSep = false
		case c == '-' || c == '_' || c == '.':
			if lastSep {
				return fmt.Errorf("%w: unexpected separator at %d", ErrInvalidAccountID, i)
			}
			lastSep = true
		default:
			return fmt.Errorf("%w: invalid character %q at %d", ErrInvalidAccountID, c, i)
		}
	}

	if lastSep {
		return fmt.Errorf("%w: trailing separator", ErrInvalidAccountID)
	}

	return nil
}
