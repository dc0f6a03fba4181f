package http

import (
	"errors"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/labstack/echo/v4"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/delivery"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/listing"
	"github.com/x-xyz/auctionhouse/domain/signedorder"
)

type handler struct {
	uc signedorder.UseCase
}

func New(e *echo.Echo, uc signedorder.UseCase) {
	h := &handler{uc: uc}

	g := e.Group("/signed-orders")
	g.GET("/message", h.message)
	g.POST("/fulfill", h.fulfill)
}

type messageResp struct {
	Nonce   uint64 `json:"nonce"`
	Message string `json:"message"`
}

// message is what the trusted signer has to sign for the next order
func (h *handler) message(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	nonce, err := h.uc.Nonce(ctx)
	if err != nil {
		ctx.WithField("err", err).Error("uc.Nonce failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, messageResp{
		Nonce:   nonce,
		Message: hexutil.Encode(signedorder.MessageFor(nonce)),
	})
}

type fulfillParams struct {
	Collection   domain.Address `json:"collection" validate:"required,address"`
	TokenId      domain.TokenId `json:"tokenId" validate:"required,uint"`
	Price        string         `json:"price" validate:"required,uint"`
	PaymentToken domain.Address `json:"paymentToken" validate:"required,address"`
	Seller       domain.Address `json:"seller" validate:"required,address"`
	Buyer        domain.Address `json:"buyer" validate:"required,address"`
	Signature    string         `json:"signature" validate:"required"`
}

func (h *handler) fulfill(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &fulfillParams{}
	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Warn("bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}

	price, err := listing.ParsePrice(p.Price)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	sig, err := hexutil.Decode(p.Signature)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidSignature)
	}

	receipt, err := h.uc.Fulfill(ctx, signedorder.Order{
		Asset:        domain.NewAssetId(p.Collection, p.TokenId),
		Price:        price,
		PaymentToken: p.PaymentToken,
		Seller:       p.Seller,
		Buyer:        p.Buyer,
		Signature:    sig,
	})
	if receipt == nil {
		ctx.WithFields(log.Fields{"err": err, "collection": p.Collection, "tokenId": p.TokenId}).Warn("uc.Fulfill failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	if errors.Is(err, domain.ErrPayoutFailed) {
		return delivery.MakeJsonResp(c, http.StatusAccepted, receipt)
	}
	if err != nil {
		// sold, but the nonce did not advance
		ctx.WithField("err", err).Error("uc.Fulfill partially failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, receipt)
}
