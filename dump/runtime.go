package dump

import (
	"context"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/quigiaosu103/htpc/host"
)

// TokenContract is the name of the token contract in dumps.
const TokenContract = "token"

// Runtime dumps the token contract served by r into the given directory.
// Returns ID of the created dump.
func Runtime(ctx context.Context, dir, label string, r *host.Runtime) (ID, error) {
	st, err := r.State(ctx)
	if err != nil {
		return ID{}, fmt.Errorf("get contract state: %w", err)
	}

	meta, err := r.Metadata(ctx)
	if err != nil {
		return ID{}, fmt.Errorf("get contract metadata: %w", err)
	}

	id := ID{Label: label, Height: r.Height()}

	c, err := NewCreator(dir, id)
	if err != nil {
		return ID{}, fmt.Errorf("init dump creator: %w", err)
	}

	defer c.Close()

	w := c.AddContract(TokenContract, ContractInfo{
		Account:     r.Contract(),
		Version:     st.Version,
		TotalSupply: st.TotalSupply.Dec(),
		Metadata:    meta,
	})

	var wErr error

	r.Seek(func(k, v []byte) bool {
		wErr = w.Write(k, v)
		return wErr == nil
	})
	if wErr != nil {
		return ID{}, wErr
	}

	err = c.Flush()
	if err != nil {
		return ID{}, fmt.Errorf("flush dump: %w", err)
	}

	return id, nil
}

// ErrNotEmpty is returned by Restore if the destination store has data.
var ErrNotEmpty = errors.New("store is not empty")

// Restore writes storage of the named contract from the dump into the empty
// store s.
func Restore(rd *Reader, name string, s storage.Store) error {
	if _, ok := rd.Contract(name); !ok {
		return fmt.Errorf("contract '%s' is missing in the dump", name)
	}

	var empty = true

	for _, p := range host.KeyPrefixes() {
		s.Seek(storage.SeekRange{Prefix: []byte{p}}, func(_, _ []byte) bool {
			empty = false
			return false
		})
		if !empty {
			return ErrNotEmpty
		}
	}

	cache := storage.NewMemCachedStore(s)

	rd.IterateStorage(name, func(k, v []byte) {
		cache.Put(k, v)
	})

	_, err := cache.PersistSync()
	if err != nil {
		return fmt.Errorf("persist storage items: %w", err)
	}

	return nil
}
