package common

import "github.com/holiman/uint256"

// Memos attached to event records produced by the contract itself.
const (
	InitialSupplyMemo = "Initial token supply is minted"
	RefundMemo        = "refund"
)

// OneYocto is the smallest unit of the native currency.
var OneYocto = uint256.NewInt(1)

// Memo returns pointer to s or nil if s is empty.
func Memo(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
