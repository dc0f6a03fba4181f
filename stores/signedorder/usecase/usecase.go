package usecase

import (
	"sync"
	"time"

	"golang.org/x/xerrors"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/ethereum"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/base/metrics"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/listing"
	"github.com/x-xyz/auctionhouse/domain/signedorder"
)

var timeNow = time.Now

type SignedOrderUseCaseCfg struct {
	TrustedSigner domain.Address
	NonceRepo     signedorder.NonceRepo
	Swapper       domain.Swapper
	Notifier      domain.Notifier
	// Lock is the engine wide lock shared with the listing use case
	Lock sync.Locker
}

type impl struct {
	signer    domain.Address
	nonceRepo signedorder.NonceRepo
	swapper   domain.Swapper
	notifier  domain.Notifier
	lock      sync.Locker
	met       metrics.Service
}

func New(cfg *SignedOrderUseCaseCfg) signedorder.UseCase {
	lock := cfg.Lock
	if lock == nil {
		lock = &sync.Mutex{}
	}
	return &impl{
		signer:    cfg.TrustedSigner.ToLower(),
		nonceRepo: cfg.NonceRepo,
		swapper:   cfg.Swapper,
		notifier:  cfg.Notifier,
		lock:      lock,
		met:       metrics.New("signedorder"),
	}
}

func (im *impl) Nonce(ctx ctx.Ctx) (uint64, error) {
	return im.nonceRepo.Current(ctx)
}

func (im *impl) Message(ctx ctx.Ctx) ([]byte, error) {
	nonce, err := im.nonceRepo.Current(ctx)
	if err != nil {
		return nil, err
	}
	return signedorder.MessageFor(nonce), nil
}

func (im *impl) Verify(ctx ctx.Ctx, signature []byte) (bool, error) {
	nonce, err := im.nonceRepo.Current(ctx)
	if err != nil {
		return false, err
	}
	return im.verify(nonce, signature), nil
}

// verify treats any malformed signature as a mismatch
func (im *impl) verify(nonce uint64, signature []byte) bool {
	recovered, err := ethereum.RecoverSigner(signedorder.DigestFor(nonce), signature)
	if err != nil {
		return false
	}
	return domain.AddressFromCommon(recovered).Equals(im.signer)
}

// Fulfill settles an order that never touched the registry. No platform fee is charged.
func (im *impl) Fulfill(ctx ctx.Ctx, order signedorder.Order) (*domain.Receipt, error) {
	im.lock.Lock()
	defer im.lock.Unlock()

	if err := order.Asset.Validate(); err != nil {
		return nil, err
	}
	if err := listing.CheckPrice(order.Price); err != nil {
		return nil, err
	}
	if !order.Seller.IsValid() || !order.Buyer.IsValid() || !order.PaymentToken.IsValid() {
		return nil, domain.ErrInvalidAddress
	}

	nonce, err := im.nonceRepo.Current(ctx)
	if err != nil {
		ctx.WithField("err", err).Error("nonceRepo.Current failed")
		return nil, err
	}
	if !im.verify(nonce, order.Signature) {
		im.met.BumpSum("verify.err", 1)
		return nil, domain.ErrInvalidSignature
	}

	receipt, err := im.swapper.Swap(ctx, domain.SwapParams{
		Kind:         domain.SaleKindSignedOrder,
		Asset:        domain.NewAssetId(order.Asset.Collection, order.Asset.TokenId),
		Seller:       order.Seller.ToLower(),
		Buyer:        order.Buyer.ToLower(),
		PaymentToken: order.PaymentToken.ToLower(),
		Price:        order.Price,
	})
	if err != nil && !xerrors.Is(err, domain.ErrPayoutFailed) {
		ctx.WithFields(log.Fields{"err": err, "asset": order.Asset, "nonce": nonce}).Warn("swapper.Swap failed")
		return nil, err
	}
	resErr := err

	if _, err := im.nonceRepo.Increment(ctx); err != nil {
		// the asset already left the seller, so a replay fails on ownership
		ctx.WithFields(log.Fields{"err": err, "nonce": nonce}).Error("nonceRepo.Increment failed after settlement")
		im.met.BumpSum("nonce.err", 1)
		resErr = xerrors.Errorf("failed to advance nonce: %w", err)
	}

	im.met.BumpSum("fulfill.count", 1)
	if im.notifier != nil {
		im.notifier.Notify(ctx, domain.Event{
			Type:         domain.EventSold,
			Kind:         domain.SaleKindSignedOrder,
			Asset:        receipt.Asset,
			Price:        receipt.Price.String(),
			PaymentToken: receipt.PaymentToken,
			Seller:       receipt.Seller,
			Buyer:        receipt.Buyer,
			PlatformCut:  receipt.PlatformCut.String(),
			Timestamp:    timeNow(),
		})
	}
	return receipt, resErr
}
