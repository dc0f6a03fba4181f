package usecase

import (
	"math/big"

	"golang.org/x/xerrors"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/listing"
)

func (im *impl) Create(ctx ctx.Ctx, p listing.CreateParams) (*listing.Entry, error) {
	im.lock.Lock()
	defer im.lock.Unlock()

	if err := p.Asset.Validate(); err != nil {
		return nil, err
	}
	if !p.Seller.IsValid() || p.Seller.IsEmpty() || !p.PaymentToken.IsValid() {
		return nil, domain.ErrInvalidAddress
	}
	if !im.payTokens.IsAllowed(p.PaymentToken) {
		return nil, domain.ErrInvalidCurrency
	}
	if err := listing.CheckPrice(p.StartingPrice); err != nil {
		return nil, err
	}
	if p.Duration < listing.MinDuration {
		return nil, domain.ErrDurationTooShort
	}

	if _, err := im.repo.FindOne(ctx, p.Asset); err == nil {
		return nil, domain.ErrAlreadyListed
	} else if err != domain.ErrNotFound {
		ctx.WithFields(log.Fields{"err": err, "asset": p.Asset}).Error("repo.FindOne failed")
		return nil, err
	}

	if ok, err := im.verifier.VerifyOwnership(ctx, p.Asset, p.Seller); err != nil {
		return nil, err
	} else if !ok {
		return nil, domain.ErrNotOwner
	}
	if err := im.verifier.VerifyApproval(ctx, p.Asset); err != nil {
		return nil, err
	}

	entry := &listing.Entry{
		Asset:         domain.NewAssetId(p.Asset.Collection, p.Asset.TokenId),
		Seller:        p.Seller.ToLower(),
		StartingPrice: new(big.Int).Set(p.StartingPrice),
		PaymentToken:  p.PaymentToken.ToLower(),
		Duration:      p.Duration,
		StartedAt:     uint64(timeNow().Unix()),
		HighestPrice:  new(big.Int).Set(p.StartingPrice),
		IsAuction:     p.IsAuction,
	}
	if err := im.repo.Insert(ctx, entry); err != nil {
		if err != domain.ErrAlreadyListed {
			ctx.WithFields(log.Fields{"err": err, "asset": p.Asset}).Error("repo.Insert failed")
		}
		return nil, err
	}

	im.met.BumpSum("create.count", 1, "kind", string(entry.Kind()))
	im.notify(ctx, domain.Event{
		Type:         domain.EventListingCreated,
		Kind:         entry.Kind(),
		Asset:        entry.Asset,
		Price:        entry.StartingPrice.String(),
		PaymentToken: entry.PaymentToken,
		Seller:       entry.Seller,
	})
	return entry.Clone(), nil
}

// Cancel is allowed while live. Once the window elapsed a fixed price entry or
// an auction nobody bid on can still be withdrawn, an auction with a winner
// can only be settled.
func (im *impl) Cancel(ctx ctx.Ctx, asset domain.AssetId, caller domain.Address) error {
	im.lock.Lock()
	defer im.lock.Unlock()

	entry, err := im.load(ctx, asset)
	if err != nil {
		return err
	}
	if !entry.Seller.Equals(caller) {
		return domain.ErrNotSeller
	}
	if entry.IsAuction && entry.HasBid() && !entry.IsLive(timeNow()) {
		return domain.ErrNotLive
	}

	if err := im.repo.Remove(ctx, asset); err == domain.ErrNotFound {
		return domain.ErrNoSuchListing
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "asset": asset}).Error("repo.Remove failed")
		return xerrors.Errorf("failed to remove listing: %w", err)
	}

	im.met.BumpSum("cancel.count", 1, "kind", string(entry.Kind()))
	im.notify(ctx, domain.Event{
		Type:         domain.EventListingCancelled,
		Kind:         entry.Kind(),
		Asset:        entry.Asset,
		Price:        entry.HighestPrice.String(),
		PaymentToken: entry.PaymentToken,
		Seller:       entry.Seller,
	})
	return nil
}

func (im *impl) Get(ctx ctx.Ctx, asset domain.AssetId) (*listing.Entry, error) {
	im.lock.Lock()
	defer im.lock.Unlock()

	entry, err := im.load(ctx, asset)
	if err != nil {
		return nil, err
	}
	if !entry.IsLive(timeNow()) {
		return nil, domain.ErrNoSuchListing
	}
	return entry, nil
}

func (im *impl) GetHighestBid(ctx ctx.Ctx, asset domain.AssetId) (domain.Address, *big.Int, error) {
	entry, err := im.Get(ctx, asset)
	if err != nil {
		return "", nil, err
	}
	return entry.HighestBidder, entry.HighestPrice, nil
}

func (im *impl) Find(ctx ctx.Ctx, asset domain.AssetId) (*listing.Entry, error) {
	im.lock.Lock()
	defer im.lock.Unlock()

	return im.load(ctx, asset)
}

func (im *impl) FindAll(ctx ctx.Ctx, opts ...listing.FindAllOptionsFunc) ([]*listing.Entry, error) {
	im.lock.Lock()
	defer im.lock.Unlock()

	res, err := im.repo.FindAll(ctx, opts...)
	if err != nil {
		ctx.WithField("err", err).Error("repo.FindAll failed")
		return nil, err
	}
	return res, nil
}
