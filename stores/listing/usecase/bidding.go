package usecase

import (
	"math/big"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/listing"
)

// PlaceBid records intent only, no funds move until settlement
func (im *impl) PlaceBid(ctx ctx.Ctx, asset domain.AssetId, bidder domain.Address, amount *big.Int) error {
	im.lock.Lock()
	defer im.lock.Unlock()

	if !bidder.IsValid() || bidder.IsEmpty() {
		return domain.ErrInvalidAddress
	}
	if err := listing.CheckPrice(amount); err != nil {
		return err
	}

	entry, err := im.load(ctx, asset)
	if err != nil {
		return err
	}
	if !entry.IsAuction {
		return domain.ErrNotAuction
	}
	if !entry.IsLive(timeNow()) {
		return domain.ErrNotLive
	}
	// equal bids lose, the earlier bidder keeps the lead
	if amount.Cmp(entry.HighestPrice) <= 0 {
		return domain.ErrBidTooLow
	}

	b := bidder.ToLower()
	if err := im.repo.Update(ctx, asset, listing.EntryPatchable{
		HighestBidder: &b,
		HighestPrice:  new(big.Int).Set(amount),
	}); err == domain.ErrNotFound {
		return domain.ErrNoSuchListing
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "asset": asset}).Error("repo.Update failed")
		return err
	}

	im.met.BumpSum("bid.count", 1)
	im.notify(ctx, domain.Event{
		Type:         domain.EventBidPlaced,
		Kind:         domain.SaleKindAuction,
		Asset:        entry.Asset,
		Price:        amount.String(),
		PaymentToken: entry.PaymentToken,
		Seller:       entry.Seller,
		Buyer:        b,
	})
	return nil
}
