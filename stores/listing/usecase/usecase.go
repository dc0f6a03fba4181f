package usecase

import (
	"sync"
	"time"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/base/metrics"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/listing"
)

var timeNow = time.Now

type ListingUseCaseCfg struct {
	Repo      listing.Repo
	Verifier  listing.OwnershipVerifier
	Swapper   domain.Swapper
	Notifier  domain.Notifier
	PayTokens domain.PayTokens
	// FeeRate in basis points, fixed for the lifetime of the use case
	FeeRate uint16
	// Lock serializes every entry point of the engine, share it with the signed order use case
	Lock sync.Locker
}

type impl struct {
	repo      listing.Repo
	verifier  listing.OwnershipVerifier
	swapper   domain.Swapper
	notifier  domain.Notifier
	payTokens domain.PayTokens
	feeRate   uint16
	lock      sync.Locker
	met       metrics.Service
}

func New(cfg *ListingUseCaseCfg) listing.UseCase {
	lock := cfg.Lock
	if lock == nil {
		lock = &sync.Mutex{}
	}
	return &impl{
		repo:      cfg.Repo,
		verifier:  cfg.Verifier,
		swapper:   cfg.Swapper,
		notifier:  cfg.Notifier,
		payTokens: cfg.PayTokens,
		feeRate:   cfg.FeeRate,
		lock:      lock,
		met:       metrics.New("listing"),
	}
}

func (im *impl) FeeRate() uint16 {
	return im.feeRate
}

// load maps a missing entry to ErrNoSuchListing
func (im *impl) load(ctx ctx.Ctx, asset domain.AssetId) (*listing.Entry, error) {
	e, err := im.repo.FindOne(ctx, asset)
	if err == domain.ErrNotFound {
		return nil, domain.ErrNoSuchListing
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "asset": asset}).Error("repo.FindOne failed")
		return nil, err
	}
	return e, nil
}

func (im *impl) notify(ctx ctx.Ctx, evt domain.Event) {
	if im.notifier == nil {
		return
	}
	evt.Timestamp = timeNow()
	im.notifier.Notify(ctx, evt)
}
