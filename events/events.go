// Package events defines event records produced by the fungible token
// contract and their NEP-297 representation.
package events

import (
	"encoding/json"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/quigiaosu103/htpc/common"
)

const (
	// Standard is the name of the implemented token standard.
	Standard = "nep141"
	// Version is the version of the implemented token standard.
	Version = "1.0.0"
	// Prefix precedes JSON-encoded event in the contract log.
	Prefix = "EVENT_JSON:"
)

// Event names.
const (
	NameMint     = "ft_mint"
	NameTransfer = "ft_transfer"
	NameBurn     = "ft_burn"
)

// Event is an immutable record of a supply or balance change.
type Event interface {
	// Name returns standard event name.
	Name() string

	payload() any
}

// Mint is produced when tokens are issued to the owner.
type Mint struct {
	OwnerID common.AccountID
	Amount  *uint256.Int
	Memo    *string
}

// Transfer is produced when tokens move between accounts.
type Transfer struct {
	OldOwnerID common.AccountID
	NewOwnerID common.AccountID
	Amount     *uint256.Int
	Memo       *string
}

// Burn is produced when tokens are destroyed.
type Burn struct {
	OwnerID common.AccountID
	Amount  *uint256.Int
	Memo    *string
}

// Name implements Event.
func (Mint) Name() string { return NameMint }

// Name implements Event.
func (Transfer) Name() string { return NameTransfer }

// Name implements Event.
func (Burn) Name() string { return NameBurn }

type ownerPayload struct {
	OwnerID common.AccountID `json:"owner_id"`
	Amount  string           `json:"amount"`
	Memo    *string          `json:"memo,omitempty"`
}

type transferPayload struct {
	OldOwnerID common.AccountID `json:"old_owner_id"`
	NewOwnerID common.AccountID `json:"new_owner_id"`
	Amount     string           `json:"amount"`
	Memo       *string          `json:"memo,omitempty"`
}

func (e Mint) payload() any {
	return ownerPayload{OwnerID: e.OwnerID, Amount: e.Amount.Dec(), Memo: e.Memo}
}

func (e Transfer) payload() any {
	return transferPayload{OldOwnerID: e.OldOwnerID, NewOwnerID: e.NewOwnerID, Amount: e.Amount.Dec(), Memo: e.Memo}
}

func (e Burn) payload() any {
	return ownerPayload{OwnerID: e.OwnerID, Amount: e.Amount.Dec(), Memo: e.Memo}
}

type envelope struct {
	Standard string `json:"standard"`
	Version  string `json:"version"`
	Event    string `json:"event"`
	Data     []any  `json:"data"`
}

// Format returns NEP-297 log line of e.
func Format(e Event) (string, error) {
	b, err := json.Marshal(envelope{
		Standard: Standard,
		Version:  Version,
		Event:    e.Name(),
		Data:     []any{e.payload()},
	})
	if err != nil {
		return "", fmt.Errorf("encode %s event: %w", e.Name(), err)
	}

	return Prefix + string(b), nil
}
