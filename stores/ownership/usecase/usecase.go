package usecase

import (
	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/listing"
)

type impl struct {
	assets domain.AssetLedger
}

func New(assets domain.AssetLedger) listing.OwnershipVerifier {
	return &impl{assets: assets}
}

// VerifyOwnership is false for unknown assets, other ledger failures are returned
func (im *impl) VerifyOwnership(ctx ctx.Ctx, asset domain.AssetId, claimant domain.Address) (bool, error) {
	owner, err := im.assets.OwnerOf(ctx, asset)
	if err == domain.ErrNotFound {
		return false, nil
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "asset": asset}).Error("assets.OwnerOf failed")
		return false, err
	}
	return !claimant.IsEmpty() && owner.Equals(claimant), nil
}

func (im *impl) VerifyApproval(ctx ctx.Ctx, asset domain.AssetId) error {
	approved, err := im.assets.IsApprovedForMarketplace(ctx, asset)
	if err == domain.ErrNotFound {
		return domain.ErrNotApproved
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "asset": asset}).Error("assets.IsApprovedForMarketplace failed")
		return err
	}
	if !approved {
		return domain.ErrNotApproved
	}
	return nil
}
