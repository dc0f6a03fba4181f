package usecase

import (
	"math/big"
	"time"

	"golang.org/x/xerrors"

	"github.com/x-xyz/auctionhouse/base/backoff"
	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/base/metrics"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/listing"
)

const (
	defaultPayoutAttempts = 3
	defaultPayoutBackoff  = 50 * time.Millisecond
	payoutBackoffLimit    = 2 * time.Second
)

type SettlementUseCaseCfg struct {
	// Marketplace is the operator identity and the escrow account
	Marketplace  domain.Address
	FeeRecipient domain.Address
	Assets       domain.AssetLedger
	Payments     domain.PaymentLedger
	Verifier     listing.OwnershipVerifier

	PayoutAttempts int
	PayoutBackoff  time.Duration
}

type impl struct {
	marketplace    domain.Address
	feeRecipient   domain.Address
	assets         domain.AssetLedger
	payments       domain.PaymentLedger
	verifier       listing.OwnershipVerifier
	payoutAttempts int
	payoutBackoff  time.Duration
	met            metrics.Service
}

func New(cfg *SettlementUseCaseCfg) domain.Swapper {
	im := &impl{
		marketplace:    cfg.Marketplace.ToLower(),
		feeRecipient:   cfg.FeeRecipient.ToLower(),
		assets:         cfg.Assets,
		payments:       cfg.Payments,
		verifier:       cfg.Verifier,
		payoutAttempts: cfg.PayoutAttempts,
		payoutBackoff:  cfg.PayoutBackoff,
		met:            metrics.New("settlement"),
	}
	if im.payoutAttempts <= 0 {
		im.payoutAttempts = defaultPayoutAttempts
	}
	if im.payoutBackoff <= 0 {
		im.payoutBackoff = defaultPayoutBackoff
	}
	return im
}

// Swap moves the price through escrow:
//  1. read only pre-flight of ownership, approval, balance and allowance
//  2. pull the price from the buyer into escrow
//  3. move the asset, refunding the buyer if the asset ledger rejects
//  4. pay the seller and the platform out of escrow
//
// Once step 3 succeeded the sale stands. A payout that keeps failing is
// reported as ErrPayoutFailed together with the receipt.
func (im *impl) Swap(ctx ctx.Ctx, p domain.SwapParams) (*domain.Receipt, error) {
	defer im.met.BumpTime("swap.time", "kind", string(p.Kind)).End()

	ctx.Logger = ctx.WithFields(log.Fields{
		"kind":   p.Kind,
		"asset":  p.Asset.Key(),
		"seller": p.Seller,
		"buyer":  p.Buyer,
		"token":  p.PaymentToken,
		"price":  p.Price.String(),
	})

	if err := im.preflight(ctx, p); err != nil {
		im.met.BumpSum("swap.err", 1, "kind", string(p.Kind), "stage", "preflight")
		return nil, err
	}

	if p.Price.Sign() > 0 {
		if err := im.payments.TransferFrom(ctx, p.PaymentToken, p.Buyer, im.marketplace, p.Price); err != nil {
			ctx.WithField("err", err).Warn("payments.TransferFrom failed")
			im.met.BumpSum("swap.err", 1, "kind", string(p.Kind), "stage", "escrow")
			return nil, xerrors.Errorf("failed to escrow payment: %w", err)
		}
	}

	if err := im.assets.Transfer(ctx, p.Asset, p.Seller, p.Buyer); err != nil {
		ctx.WithField("err", err).Warn("assets.Transfer failed, refunding buyer")
		im.met.BumpSum("swap.err", 1, "kind", string(p.Kind), "stage", "asset")
		if p.Price.Sign() > 0 {
			if rerr := im.payout(ctx, p.PaymentToken, p.Buyer, p.Price); rerr != nil {
				ctx.WithField("err", rerr).Error("failed to refund buyer")
				im.met.BumpSum("refund.err", 1, "kind", string(p.Kind))
			}
		}
		if xerrors.Is(err, domain.ErrTransferRejected) {
			return nil, err
		}
		return nil, xerrors.Errorf("%w: %s", domain.ErrTransferRejected, err)
	}

	cut, sellerAmount := listing.SplitFee(p.Price, p.FeeRate)
	receipt := &domain.Receipt{
		Kind:         p.Kind,
		Asset:        p.Asset,
		Seller:       p.Seller,
		Buyer:        p.Buyer,
		PaymentToken: p.PaymentToken,
		Price:        new(big.Int).Set(p.Price),
		PlatformCut:  cut,
		SellerAmount: sellerAmount,
	}

	var payoutErr error
	if sellerAmount.Sign() > 0 {
		if err := im.payout(ctx, p.PaymentToken, p.Seller, sellerAmount); err != nil {
			ctx.WithFields(log.Fields{"err": err, "amount": sellerAmount.String()}).Error("failed to pay seller")
			payoutErr = domain.ErrPayoutFailed
		}
	}
	if cut.Sign() > 0 && !im.feeRecipient.IsEmpty() && !im.feeRecipient.Equals(im.marketplace) {
		if err := im.payout(ctx, p.PaymentToken, im.feeRecipient, cut); err != nil {
			ctx.WithFields(log.Fields{"err": err, "amount": cut.String()}).Error("failed to pay platform")
			payoutErr = domain.ErrPayoutFailed
		}
	}
	if payoutErr != nil {
		im.met.BumpSum("swap.err", 1, "kind", string(p.Kind), "stage", "payout")
	}

	im.met.BumpSum("swap.count", 1, "kind", string(p.Kind))
	return receipt, payoutErr
}

func (im *impl) preflight(ctx ctx.Ctx, p domain.SwapParams) error {
	if p.Price == nil || p.Price.Sign() < 0 {
		return domain.ErrInvalidNumberFormat
	}
	if p.Buyer.IsEmpty() || p.Seller.IsEmpty() {
		return domain.ErrInvalidAddress
	}

	if ok, err := im.verifier.VerifyOwnership(ctx, p.Asset, p.Seller); err != nil {
		return err
	} else if !ok {
		return domain.ErrNotOwner
	}
	if err := im.verifier.VerifyApproval(ctx, p.Asset); err != nil {
		return err
	}

	if p.Price.Sign() == 0 {
		return nil
	}
	if bal, err := im.payments.BalanceOf(ctx, p.PaymentToken, p.Buyer); err != nil {
		ctx.WithField("err", err).Error("payments.BalanceOf failed")
		return err
	} else if bal.Cmp(p.Price) < 0 {
		return domain.ErrInsufficientBalance
	}
	if allowance, err := im.payments.Allowance(ctx, p.PaymentToken, p.Buyer); err != nil {
		ctx.WithField("err", err).Error("payments.Allowance failed")
		return err
	} else if allowance.Cmp(p.Price) < 0 {
		return domain.ErrInsufficientAllowance
	}
	return nil
}

func (im *impl) payout(ctx ctx.Ctx, token, to domain.Address, amount *big.Int) error {
	b := backoff.NewExponential(im.payoutBackoff, payoutBackoffLimit)
	return b.Retry(ctx, im.payoutAttempts, func() error {
		return im.payments.Transfer(ctx, token, to, amount)
	})
}
