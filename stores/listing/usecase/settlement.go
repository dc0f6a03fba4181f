package usecase

import (
	"math/big"

	"golang.org/x/xerrors"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/listing"
)

// SettleAuction can only be claimed by the recorded highest bidder once the window closed
func (im *impl) SettleAuction(ctx ctx.Ctx, asset domain.AssetId, caller domain.Address) (*domain.Receipt, error) {
	im.lock.Lock()
	defer im.lock.Unlock()

	entry, err := im.load(ctx, asset)
	if err != nil {
		return nil, err
	}
	if !entry.IsAuction {
		return nil, domain.ErrNotAuction
	}
	if entry.IsLive(timeNow()) {
		return nil, domain.ErrStillLive
	}
	if !entry.HasBid() || !entry.HighestBidder.Equals(caller) {
		return nil, domain.ErrNotWinner
	}

	return im.settle(ctx, entry, entry.HighestBidder, entry.HighestPrice)
}

// SettleFixedPrice treats offeredPrice as a ceiling, the buyer pays the listing price
func (im *impl) SettleFixedPrice(ctx ctx.Ctx, asset domain.AssetId, caller domain.Address, offeredPrice *big.Int) (*domain.Receipt, error) {
	im.lock.Lock()
	defer im.lock.Unlock()

	if err := listing.CheckPrice(offeredPrice); err != nil {
		return nil, err
	}
	if !caller.IsValid() || caller.IsEmpty() {
		return nil, domain.ErrInvalidAddress
	}

	entry, err := im.load(ctx, asset)
	if err != nil {
		return nil, err
	}
	if entry.IsAuction {
		return nil, xerrors.Errorf("%w: listing is an auction", domain.ErrBadParamInput)
	}
	if !entry.IsLive(timeNow()) {
		return nil, domain.ErrNotLive
	}
	if offeredPrice.Cmp(entry.StartingPrice) < 0 {
		return nil, domain.ErrPriceTooLow
	}

	return im.settle(ctx, entry, caller.ToLower(), entry.StartingPrice)
}

// settle leaves the entry untouched unless the asset reached the buyer
func (im *impl) settle(ctx ctx.Ctx, entry *listing.Entry, buyer domain.Address, price *big.Int) (*domain.Receipt, error) {
	receipt, err := im.swapper.Swap(ctx, domain.SwapParams{
		Kind:         entry.Kind(),
		Asset:        entry.Asset,
		Seller:       entry.Seller,
		Buyer:        buyer,
		PaymentToken: entry.PaymentToken,
		Price:        price,
		FeeRate:      im.feeRate,
	})
	if err != nil && !xerrors.Is(err, domain.ErrPayoutFailed) {
		ctx.WithFields(log.Fields{"err": err, "asset": entry.Asset, "buyer": buyer}).Warn("swapper.Swap failed")
		im.met.BumpSum("settle.err", 1, "kind", string(entry.Kind()))
		return nil, err
	}
	payoutErr := err

	if err := im.repo.Remove(ctx, entry.Asset); err != nil {
		// the asset already moved, a stale entry fails every later settle on ownership
		ctx.WithFields(log.Fields{"err": err, "asset": entry.Asset}).Error("repo.Remove failed after settlement")
	}

	im.met.BumpSum("settle.count", 1, "kind", string(entry.Kind()))
	im.notify(ctx, domain.Event{
		Type:         domain.EventSold,
		Kind:         entry.Kind(),
		Asset:        entry.Asset,
		Price:        receipt.Price.String(),
		PaymentToken: entry.PaymentToken,
		Seller:       entry.Seller,
		Buyer:        buyer,
		PlatformCut:  receipt.PlatformCut.String(),
	})
	return receipt, payoutErr
}
