package domain

import (
	"math/big"

	"github.com/x-xyz/auctionhouse/base/ctx"
)

// AssetLedger is the non-fungible custody primitive. The marketplace moves
// assets as an approved operator and never owns them itself.
type AssetLedger interface {
	OwnerOf(ctx ctx.Ctx, asset AssetId) (Address, error)
	// IsApprovedForMarketplace reports whether the current owner lets the marketplace move asset
	IsApprovedForMarketplace(ctx ctx.Ctx, asset AssetId) (bool, error)
	// Transfer fails with ErrTransferRejected if from is not the owner or approval is missing
	Transfer(ctx ctx.Ctx, asset AssetId, from, to Address) error
}

// PaymentLedger is the fungible custody primitive, one ledger serves every payment token
type PaymentLedger interface {
	BalanceOf(ctx ctx.Ctx, token, owner Address) (*big.Int, error)
	// Allowance is what owner allows the marketplace to pull
	Allowance(ctx ctx.Ctx, token, owner Address) (*big.Int, error)
	// TransferFrom pulls amount from payer using the marketplace allowance.
	// Fails with ErrInsufficientBalance or ErrInsufficientAllowance.
	TransferFrom(ctx ctx.Ctx, token, payer, payee Address, amount *big.Int) error
	// Transfer spends the marketplace's own balance (escrow), no allowance involved
	Transfer(ctx ctx.Ctx, token, to Address, amount *big.Int) error
}
