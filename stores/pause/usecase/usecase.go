package usecase

import (
	"sync/atomic"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/domain"
)

type impl struct {
	paused int32
	admins []domain.Address
}

// New returns an unpaused gate that only admins may flip
func New(admins []domain.Address) domain.PauseGate {
	return &impl{admins: admins}
}

func (im *impl) isAdmin(caller domain.Address) bool {
	if caller.IsEmpty() {
		return false
	}
	for _, a := range im.admins {
		if a.Equals(caller) {
			return true
		}
	}
	return false
}

func (im *impl) IsPaused(_ ctx.Ctx) bool {
	return atomic.LoadInt32(&im.paused) == 1
}

func (im *impl) Pause(ctx ctx.Ctx, caller domain.Address) error {
	return im.set(ctx, caller, 1)
}

func (im *impl) Unpause(ctx ctx.Ctx, caller domain.Address) error {
	return im.set(ctx, caller, 0)
}

func (im *impl) set(ctx ctx.Ctx, caller domain.Address, v int32) error {
	if !im.isAdmin(caller) {
		return domain.ErrNotAuthorizedCaller
	}
	if atomic.SwapInt32(&im.paused, v) != v {
		ctx.WithFields(log.Fields{"caller": caller, "paused": v == 1}).Info("marketplace pause toggled")
	}
	return nil
}
