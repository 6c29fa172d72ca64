package common

import (
	"errors"
	"fmt"
)

const (
	major = 0
	minor = 1
	patch = 0

	// Versions from which an upgrade can be performed.
	prevMajor = 0
	prevMinor = 1
	prevPatch = 0

	Version = major*1_000_000 + minor*1_000 + patch

	PrevVersion = prevMajor*1_000_000 + prevMinor*1_000 + prevPatch
)

// ErrVersionMismatch is returned by CheckVersion in case of error.
var ErrVersionMismatch = errors.New("stored version mismatch")

// CheckVersion checks that contract data of the given version can be served
// by the current code.
func CheckVersion(stored int) error {
	if stored < PrevVersion {
		return fmt.Errorf("%w: expected >=%d, got %d", ErrVersionMismatch, PrevVersion, stored)
	}
	if stored > Version {
		return fmt.Errorf("%w: data of newer version %d, current %d", ErrVersionMismatch, stored, Version)
	}
	return nil
}
