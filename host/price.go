package host

import "github.com/holiman/uint256"

// DefaultStorageBytePrice is 10^19 yocto per byte, i.e. 1 native token per
// 100 KB.
var DefaultStorageBytePrice = uint256.NewInt(10_000_000_000_000_000_000)

// PriceOracle provides the current storage byte price.
type PriceOracle interface {
	StorageBytePrice() *uint256.Int
}

// FixedPrice is a PriceOracle with the constant price.
type FixedPrice uint256.Int

// NewFixedPrice returns PriceOracle always returning p.
func NewFixedPrice(p *uint256.Int) *FixedPrice {
	return (*FixedPrice)(p.Clone())
}

// StorageBytePrice implements PriceOracle.
func (p *FixedPrice) StorageBytePrice() *uint256.Int {
	return (*uint256.Int)(p).Clone()
}
