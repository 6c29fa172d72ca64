package ftconst

const (
	// MetadataSpec is the version of the metadata standard the token
	// implements.
	MetadataSpec = "ft-1.0.0"

	// DefaultName is the name of the token created with default metadata.
	DefaultName = "HarvardTp Token"
	// DefaultSymbol is the ticker of the token created with default metadata.
	DefaultSymbol = "HTPC"
	// DefaultDecimals is the precision of the token created with default
	// metadata.
	DefaultDecimals = 24

	// ReferenceHashLen is the length of the metadata reference hash.
	ReferenceHashLen = 32
)

// Gas is an amount of computation units attached to an invocation.
type Gas uint64

// Tgas is 10^12 gas units.
const Tgas Gas = 1_000_000_000_000

const (
	// GasForResolveTransfer is reserved for the transfer resolution callback.
	GasForResolveTransfer = 5 * Tgas
	// GasForFtTransferCall is the minimal prepaid gas of a transfer call,
	// the rest is given to the receiver notification.
	GasForFtTransferCall = 25*Tgas + GasForResolveTransfer
)
