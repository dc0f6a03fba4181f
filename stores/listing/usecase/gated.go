package usecase

import (
	"math/big"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/listing"
)

type gated struct {
	listing.UseCase
	gate domain.PauseGate
}

// NewGated rejects creation, bidding and settlement with ErrPaused while the gate
// is closed. Cancel and the queries pass straight through.
func NewGated(uc listing.UseCase, gate domain.PauseGate) listing.UseCase {
	return &gated{UseCase: uc, gate: gate}
}

func (g *gated) Create(ctx ctx.Ctx, p listing.CreateParams) (*listing.Entry, error) {
	if g.gate.IsPaused(ctx) {
		return nil, domain.ErrPaused
	}
	return g.UseCase.Create(ctx, p)
}

func (g *gated) PlaceBid(ctx ctx.Ctx, asset domain.AssetId, bidder domain.Address, amount *big.Int) error {
	if g.gate.IsPaused(ctx) {
		return domain.ErrPaused
	}
	return g.UseCase.PlaceBid(ctx, asset, bidder, amount)
}

func (g *gated) SettleAuction(ctx ctx.Ctx, asset domain.AssetId, caller domain.Address) (*domain.Receipt, error) {
	if g.gate.IsPaused(ctx) {
		return nil, domain.ErrPaused
	}
	return g.UseCase.SettleAuction(ctx, asset, caller)
}

func (g *gated) SettleFixedPrice(ctx ctx.Ctx, asset domain.AssetId, caller domain.Address, offeredPrice *big.Int) (*domain.Receipt, error) {
	if g.gate.IsPaused(ctx) {
		return nil, domain.ErrPaused
	}
	return g.UseCase.SettleFixedPrice(ctx, asset, caller, offeredPrice)
}
