package dump

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidLabel is returned by NewCreator for labels which can't be read
// back from dump file names.
var ErrInvalidLabel = errors.New("invalid dump label")

// Creator dumps states of the token contracts. Output file format:
//
//	'<label>-<height>-contracts.json': JSON array of contracts' summaries
//	'<label>-<height>-storage.csv': CSV of contracts' storages
//
// Storage CSV are 'name,key,value' where name stands for contract name and
// binary key-value are base64-encoded. Summary keeps the number of storage
// items of each contract, Reader checks it.
//
// Use IterateDumps or Open to access existing dumps.
type Creator struct {
	dumpStreams

	contracts []dumpContractState

	csv *csv.Writer
}

// NewCreator returns Creator which dumps contracts into given directory. The
// dump is identified by specified ID. Resulting Creator should be closed when
// finished working with it.
//
// NewCreator fails if dump with provided ID already exists or its label is
// empty or contains the word separator.
func NewCreator(dir string, id ID) (*Creator, error) {
	if id.Label == "" || strings.Contains(id.Label, sep) {
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidLabel, id.Label)
	}

	c := new(Creator)

	err := initDumpStreams(&c.dumpStreams, dir, id, false)
	if err != nil {
		return nil, err
	}

	c.csv = csv.NewWriter(c.storageItems)

	return c, nil
}

// AddContract adds summary of the named contract to the resulting dump and
// returns StorageWriter for the contract storage. Once all contracts are
// added, call Flush.
func (x *Creator) AddContract(name string, info ContractInfo) *StorageWriter {
	x.contracts = append(x.contracts, dumpContractState{
		Name:  name,
		State: info,
	})

	return &StorageWriter{
		creator: x,
		index:   len(x.contracts) - 1,
	}
}

// Flush writes accumulated dump to the file system.
func (x *Creator) Flush() error {
	x.csv.Flush()

	err := x.csv.Error()
	if err != nil {
		return fmt.Errorf("flush CSV data: %w", err)
	}

	enc := json.NewEncoder(x.dumpStreams.contracts)
	enc.SetIndent("", " ")

	err = enc.Encode(x.contracts)
	if err != nil {
		return fmt.Errorf("encode contract states to JSON: %w", err)
	}

	return nil
}

// Close releases underlying resources of the Creator and makes it unusable.
func (x *Creator) Close() {
	x.close()
}

// StorageWriter writes data into the superior contract's storage dump.
type StorageWriter struct {
	creator *Creator
	index   int
}

// Write saves given binary key-value into the contract dump as storage item.
func (x *StorageWriter) Write(key, value []byte) error {
	st := &x.creator.contracts[x.index]

	err := x.creator.csv.Write([]string{
		st.Name,
		_encoding.EncodeToString(key),
		_encoding.EncodeToString(value),
	})
	if err != nil {
		return fmt.Errorf("write storage item as CSV data: %w", err)
	}

	st.Items++

	return nil
}
