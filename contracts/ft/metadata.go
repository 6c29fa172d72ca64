package ft

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/quigiaosu103/htpc/common"
	"github.com/quigiaosu103/htpc/contracts/ft/ftconst"
)

// FungibleTokenMetadata holds display attributes of the token. It is set once
// at initialization and never changes.
type FungibleTokenMetadata struct {
	Spec          string  `json:"spec"`
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	Icon          *string `json:"icon"`
	Reference     *string `json:"reference"`
	ReferenceHash []byte  `json:"reference_hash"`
	Decimals      uint8   `json:"decimals"`
}

// DefaultMetadata returns metadata of the HTPC token.
func DefaultMetadata() FungibleTokenMetadata {
	icon := ftconst.DefaultIcon
	return FungibleTokenMetadata{
		Spec:     ftconst.MetadataSpec,
		Name:     ftconst.DefaultName,
		Symbol:   ftconst.DefaultSymbol,
		Icon:     &icon,
		Decimals: ftconst.DefaultDecimals,
	}
}

// Validate checks metadata consistency.
func (m FungibleTokenMetadata) Validate() error {
	if m.Spec != ftconst.MetadataSpec {
		return fmt.Errorf("%w: unsupported spec %q", ErrInvalidMetadata, m.Spec)
	}
	if (m.Reference == nil) != (m.ReferenceHash == nil) {
		return fmt.Errorf("%w: reference and reference hash must be present together", ErrInvalidMetadata)
	}
	if m.ReferenceHash != nil && len(m.ReferenceHash) != ftconst.ReferenceHashLen {
		return fmt.Errorf("%w: reference hash must be %d bytes, got %d", ErrInvalidMetadata, ftconst.ReferenceHashLen, len(m.ReferenceHash))
	}
	return nil
}

// ToStackItem implements stackitem.Convertible.
func (m *FungibleTokenMetadata) ToStackItem() (stackitem.Item, error) {
	var refHash stackitem.Item = stackitem.Null{}
	if m.ReferenceHash != nil {
		refHash = stackitem.NewByteArray(m.ReferenceHash)
	}

	return stackitem.NewStruct([]stackitem.Item{
		stackitem.NewByteArray([]byte(m.Spec)),
		stackitem.NewByteArray([]byte(m.Name)),
		stackitem.NewByteArray([]byte(m.Symbol)),
		optionalString(m.Icon),
		optionalString(m.Reference),
		refHash,
		stackitem.Make(int64(m.Decimals)),
	}), nil
}

// FromStackItem implements stackitem.Convertible.
func (m *FungibleTokenMetadata) FromStackItem(item stackitem.Item) error {
	fields, err := structFields(item, 7)
	if err != nil {
		return err
	}

	var b []byte
	if b, err = fields[0].TryBytes(); err != nil {
		return fmt.Errorf("invalid spec: %w", err)
	}
	m.Spec = string(b)

	if b, err = fields[1].TryBytes(); err != nil {
		return fmt.Errorf("invalid name: %w", err)
	}
	m.Name = string(b)

	if b, err = fields[2].TryBytes(); err != nil {
		return fmt.Errorf("invalid symbol: %w", err)
	}
	m.Symbol = string(b)

	if m.Icon, err = fromOptionalString(fields[3]); err != nil {
		return fmt.Errorf("invalid icon: %w", err)
	}

	if m.Reference, err = fromOptionalString(fields[4]); err != nil {
		return fmt.Errorf("invalid reference: %w", err)
	}

	m.ReferenceHash = nil
	if _, ok := fields[5].(stackitem.Null); !ok {
		if m.ReferenceHash, err = fields[5].TryBytes(); err != nil {
			return fmt.Errorf("invalid reference hash: %w", err)
		}
	}

	d, err := fields[6].TryInteger()
	if err != nil {
		return fmt.Errorf("invalid decimals: %w", err)
	}
	if !d.IsUint64() || d.Uint64() > 255 {
		return fmt.Errorf("decimals %s overflow uint8", d)
	}
	m.Decimals = uint8(d.Uint64())

	return nil
}

// Metadata returns token metadata. The record is read from the storage on
// the first request only.
func (c *Contract) Metadata() (FungibleTokenMetadata, error) {
	if c.metadata != nil {
		return *c.metadata, nil
	}

	var m FungibleTokenMetadata

	ok, err := common.GetSerialized(c.store, []byte{metadataKey}, &m)
	if err != nil {
		return m, fmt.Errorf("%w: metadata: %w", ErrCorruptedState, err)
	}
	if !ok {
		return m, fmt.Errorf("%w: metadata is missing", ErrCorruptedState)
	}

	c.metadata = &m

	return m, nil
}

func optionalString(s *string) stackitem.Item {
	if s == nil {
		return stackitem.Null{}
	}
	return stackitem.NewByteArray([]byte(*s))
}

func fromOptionalString(item stackitem.Item) (*string, error) {
	if _, ok := item.(stackitem.Null); ok {
		return nil, nil
	}

	b, err := item.TryBytes()
	if err != nil {
		return nil, err
	}

	s := string(b)

	return &s, nil
}

func structFields(item stackitem.Item, n int) ([]stackitem.Item, error) {
	fields, ok := item.Value().([]stackitem.Item)
	if !ok {
		return nil, errors.New("not a struct")
	}
	if len(fields) != n {
		return nil, fmt.Errorf("wrong number of struct fields: expected %d, got %d", n, len(fields))
	}
	return fields, nil
}
