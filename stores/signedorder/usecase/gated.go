package usecase

import (
	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/signedorder"
)

type gated struct {
	signedorder.UseCase
	gate domain.PauseGate
}

// NewGated rejects Fulfill with ErrPaused while the gate is closed
func NewGated(uc signedorder.UseCase, gate domain.PauseGate) signedorder.UseCase {
	return &gated{UseCase: uc, gate: gate}
}

func (g *gated) Fulfill(ctx ctx.Ctx, order signedorder.Order) (*domain.Receipt, error) {
	if g.gate.IsPaused(ctx) {
		return nil, domain.ErrPaused
	}
	return g.UseCase.Fulfill(ctx, order)
}
