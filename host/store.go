package host

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/core/storage/dbconfig"
	"github.com/quigiaosu103/htpc/contracts/ft"
)

// heightKey stores the number of committed invocations. Contract keys
// never start with 0xff.
var heightKey = []byte{0xff}

// KeyPrefixes returns first bytes of all keys the runtime writes, contract
// and host ones, in ascending order.
func KeyPrefixes() []byte {
	return append(ft.KeyPrefixes(), heightKey[0])
}

// seekAll passes all items of the runtime keyspace into f until f returns
// false. Items are sorted by key. Stores can't seek with an empty prefix.
func seekAll(s storage.Store, f func(k, v []byte) bool) {
	next := true

	for _, p := range KeyPrefixes() {
		s.Seek(storage.SeekRange{Prefix: []byte{p}}, func(k, v []byte) bool {
			next = f(k, v)
			return next
		})
		if !next {
			return
		}
	}
}

// OpenStore opens the persistent store described by cfg. In-memory store is
// returned for the empty type.
func OpenStore(cfg dbconfig.DBConfiguration) (storage.Store, error) {
	if cfg.Type == "" {
		cfg.Type = dbconfig.InMemoryDB
	}

	s, err := storage.NewStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Type, err)
	}

	return s, nil
}

func getHeight(s interface{ Get([]byte) ([]byte, error) }) (uint64, error) {
	v, err := s.Get(heightKey)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, err
	}
	if len(v) != 8 {
		return 0, fmt.Errorf("invalid height record length %d", len(v))
	}
	return binary.BigEndian.Uint64(v), nil
}

func putHeight(s *storage.MemCachedStore, h uint64) {
	s.Put(heightKey, binary.BigEndian.AppendUint64(nil, h))
}
