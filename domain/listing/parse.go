package listing

import (
	"math/big"

	"github.com/x-xyz/auctionhouse/domain"
)

// CheckPrice enforces the 128-bit price bound
func CheckPrice(price *big.Int) error {
	if price == nil || price.Sign() < 0 {
		return domain.ErrInvalidNumberFormat
	}
	if price.BitLen() > PriceBits {
		return domain.ErrPriceOverflow
	}
	return nil
}

// ParsePrice parses a decimal amount and enforces the 128-bit bound
func ParsePrice(s string) (*big.Int, error) {
	price, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, domain.ErrInvalidNumberFormat
	}
	if err := CheckPrice(price); err != nil {
		return nil, err
	}
	return price, nil
}

// ParseDuration parses decimal seconds and enforces the 64-bit bound
func ParseDuration(s string) (uint64, error) {
	d, ok := new(big.Int).SetString(s, 10)
	if !ok || d.Sign() < 0 {
		return 0, domain.ErrInvalidNumberFormat
	}
	if !d.IsUint64() {
		return 0, domain.ErrDurationOverflow
	}
	return d.Uint64(), nil
}
