package domain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

type PayToken struct {
	Address  Address `mapstructure:"address" json:"address"`
	Symbol   string  `mapstructure:"symbol" json:"symbol"`
	Decimals int32   `mapstructure:"decimals" json:"decimals"`
}

// PayTokens is the configured allow list, an empty list allows any token
type PayTokens []PayToken

func (ts PayTokens) Find(address Address) (PayToken, bool) {
	for _, t := range ts {
		if t.Address.Equals(address) {
			return t, true
		}
	}
	return PayToken{}, false
}

func (ts PayTokens) IsAllowed(address Address) bool {
	if len(ts) == 0 {
		return true
	}
	_, ok := ts.Find(address)
	return ok
}

// DisplayPrice renders a raw amount with the token decimals, raw digits when the token is unknown
func (ts PayTokens) DisplayPrice(token Address, amount *big.Int) string {
	if amount == nil {
		return ""
	}
	t, ok := ts.Find(token)
	if !ok {
		return amount.String()
	}
	return decimal.NewFromBigInt(amount, -t.Decimals).String()
}
