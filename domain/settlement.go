package domain

import (
	"encoding/json"
	"math/big"

	"github.com/x-xyz/auctionhouse/base/ctx"
)

// SwapParams describes one two-sided exchange: asset from seller to buyer,
// price in token from buyer, split between seller and platform by FeeRate.
type SwapParams struct {
	Kind         SaleKind
	Asset        AssetId
	Seller       Address
	Buyer        Address
	PaymentToken Address
	Price        *big.Int
	// FeeRate in basis points, 0 disables the platform cut
	FeeRate uint16
}

type Receipt struct {
	Kind         SaleKind `json:"kind"`
	Asset        AssetId  `json:"asset"`
	Seller       Address  `json:"seller"`
	Buyer        Address  `json:"buyer"`
	PaymentToken Address  `json:"paymentToken"`
	Price        *big.Int `json:"-"`
	PlatformCut  *big.Int `json:"-"`
	SellerAmount *big.Int `json:"-"`
}

// MarshalJSON renders the amounts as decimal strings
func (r Receipt) MarshalJSON() ([]byte, error) {
	type plain Receipt
	str := func(v *big.Int) string {
		if v == nil {
			return "0"
		}
		return v.String()
	}
	return json.Marshal(struct {
		plain
		Price        string `json:"price"`
		PlatformCut  string `json:"platformCut"`
		SellerAmount string `json:"sellerAmount"`
	}{
		plain:        plain(r),
		Price:        str(r.Price),
		PlatformCut:  str(r.PlatformCut),
		SellerAmount: str(r.SellerAmount),
	})
}

// Swapper executes the swap all-or-nothing from the payer's point of view:
// either the buyer holds the asset and has paid, or nothing moved.
type Swapper interface {
	Swap(ctx ctx.Ctx, params SwapParams) (*Receipt, error)
}
