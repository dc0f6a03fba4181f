package domain

import "github.com/x-xyz/auctionhouse/base/ctx"

// PauseGate suspends creation and bidding side entry points. Cancellation is never gated.
type PauseGate interface {
	IsPaused(ctx ctx.Ctx) bool
	Pause(ctx ctx.Ctx, caller Address) error
	Unpause(ctx ctx.Ctx, caller Address) error
}
