package listing

import (
	"math/big"

	"github.com/x-xyz/auctionhouse/domain"
)

// MaxFeeRate is 100% in basis points
const MaxFeeRate = 10000

var bigMaxFeeRate = big.NewInt(MaxFeeRate)

// SplitFee returns platformCut = gross * rate / 10000 (truncated) and the seller remainder.
// cut + remainder always equals gross.
func SplitFee(gross *big.Int, rate uint16) (platformCut *big.Int, sellerAmount *big.Int) {
	platformCut = new(big.Int).Mul(gross, big.NewInt(int64(rate)))
	platformCut.Quo(platformCut, bigMaxFeeRate)
	sellerAmount = new(big.Int).Sub(gross, platformCut)
	return platformCut, sellerAmount
}

// ToFeeRate validates a configured basis point rate
func ToFeeRate(rate int64) (uint16, error) {
	if rate < 0 || rate > MaxFeeRate {
		return 0, domain.ErrBadParamInput
	}
	return uint16(rate), nil
}
