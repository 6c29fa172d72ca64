package common

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// StorageRecordOverhead is the number of bytes charged for every stored
// key-value record on top of the key and value lengths.
const StorageRecordOverhead = 40

// Storage is a flat key-value substrate contract data lives in.
// *storage.MemCachedStore satisfies it.
type Storage interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte)
	Delete(key []byte)
	Seek(rng storage.SeekRange, f func(k, v []byte) bool)
}

// Meter is a Storage that counts consumed bytes of all records written or
// deleted through it.
type Meter struct {
	Storage

	usage int64
}

// NewMeter wraps s into a Meter with zero usage.
func NewMeter(s Storage) *Meter {
	return &Meter{Storage: s}
}

// Usage returns storage usage delta accumulated since the Meter creation.
// It is negative if more bytes were released than consumed.
func (m *Meter) Usage() int64 {
	return m.usage
}

// Put implements Storage.
func (m *Meter) Put(key, value []byte) {
	if old, err := m.Storage.Get(key); err == nil {
		m.usage -= recordSize(key, old)
	}
	m.usage += recordSize(key, value)
	m.Storage.Put(key, value)
}

// Delete implements Storage.
func (m *Meter) Delete(key []byte) {
	if old, err := m.Storage.Get(key); err == nil {
		m.usage -= recordSize(key, old)
		m.Storage.Delete(key)
	}
}

func recordSize(key, value []byte) int64 {
	return int64(len(key) + len(value) + StorageRecordOverhead)
}

// GetSerialized reads the record stored by key and decodes it into v. Missing
// record is reported with false and no error.
func GetSerialized(s Storage, key []byte, v stackitem.Convertible) (bool, error) {
	data, err := s.Get(key)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}

	err = stackitem.DeserializeConvertible(data, v)
	if err != nil {
		return true, fmt.Errorf("decode record: %w", err)
	}

	return true, nil
}

// SetSerialized serializes v and puts it into contract storage.
func SetSerialized(s Storage, key []byte, v stackitem.Convertible) error {
	data, err := stackitem.SerializeConvertible(v)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	s.Put(key, data)

	return nil
}

// GetUint reads unsigned integer stored by key. Missing record is reported
// with false and no error.
func GetUint(s Storage, key []byte) (*uint256.Int, bool, error) {
	data, err := s.Get(key)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	item, err := stackitem.Deserialize(data)
	if err != nil {
		return nil, true, fmt.Errorf("decode integer record: %w", err)
	}

	n, err := UintFromItem(item)
	if err != nil {
		return nil, true, err
	}

	return n, true, nil
}

// PutUint puts unsigned integer into contract storage.
func PutUint(s Storage, key []byte, n *uint256.Int) error {
	data, err := stackitem.Serialize(UintToItem(n))
	if err != nil {
		return fmt.Errorf("encode integer record: %w", err)
	}

	s.Put(key, data)

	return nil
}

// UintToItem converts n to the integer stack item.
func UintToItem(n *uint256.Int) stackitem.Item {
	return stackitem.NewBigInteger(n.ToBig())
}

// UintFromItem converts integer stack item to the unsigned integer. Negative
// and too big values are rejected.
func UintFromItem(item stackitem.Item) (*uint256.Int, error) {
	bi, err := item.TryInteger()
	if err != nil {
		return nil, fmt.Errorf("not an integer: %w", err)
	}

	return UintFromBig(bi)
}

// UintFromBig converts b to the unsigned 256-bit integer.
func UintFromBig(b *big.Int) (*uint256.Int, error) {
	if b.Sign() < 0 {
		return nil, fmt.Errorf("negative integer %s", b)
	}

	n, overflow := uint256.FromBig(b)
	if overflow {
		return nil, fmt.Errorf("integer %s overflows 256 bits", b)
	}

	return n, nil
}
