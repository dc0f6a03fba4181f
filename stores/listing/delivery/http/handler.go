package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/delivery"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/listing"
	"github.com/x-xyz/auctionhouse/middleware"
	authMiddleware "github.com/x-xyz/auctionhouse/stores/auth/delivery/http/middleware"
)

var timeNow = time.Now

type handler struct {
	listing   listing.UseCase
	payTokens domain.PayTokens
}

func New(e *echo.Echo, uc listing.UseCase, payTokens domain.PayTokens, am *authMiddleware.AuthMiddleware) {
	h := &handler{
		listing:   uc,
		payTokens: payTokens,
	}

	g := e.Group("/listings")
	g.GET("", h.findAll)
	g.POST("", h.create, am.Auth())

	item := g.Group("/:collection/:tokenId", middleware.IsValidAddress("collection"))
	item.GET("", h.get)
	item.GET("/raw", h.find)
	item.GET("/bid", h.getHighestBid)
	item.DELETE("", h.cancel, am.Auth())
	item.POST("/bids", h.placeBid, am.Auth())
	item.POST("/settle", h.settle, am.Auth())
	item.POST("/buy", h.buy, am.Auth())
}

func assetOf(c echo.Context) (domain.AssetId, error) {
	asset := domain.NewAssetId(domain.Address(c.Param("collection")), domain.TokenId(c.Param("tokenId")))
	return asset, asset.Validate()
}

type createParams struct {
	Collection    domain.Address `json:"collection" validate:"required,address"`
	TokenId       domain.TokenId `json:"tokenId" validate:"required,uint"`
	StartingPrice string         `json:"startingPrice" validate:"required,uint"`
	Duration      string         `json:"duration" validate:"required,uint"`
	PaymentToken  domain.Address `json:"paymentToken" validate:"required,address"`
	IsAuction     bool           `json:"isAuction"`
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)

	p := &createParams{}
	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Warn("bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}

	price, err := listing.ParsePrice(p.StartingPrice)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	duration, err := listing.ParseDuration(p.Duration)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	entry, err := h.listing.Create(ctx, listing.CreateParams{
		Asset:         domain.NewAssetId(p.Collection, p.TokenId),
		Seller:        caller,
		StartingPrice: price,
		Duration:      duration,
		PaymentToken:  p.PaymentToken,
		IsAuction:     p.IsAuction,
	})
	if err != nil {
		ctx.WithFields(log.Fields{"err": err, "collection": p.Collection, "tokenId": p.TokenId}).Warn("listing.Create failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, h.toView(entry))
}

func (h *handler) findAll(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	opts := []listing.FindAllOptionsFunc{}
	if seller := c.QueryParam("seller"); seller != "" {
		if !domain.Address(seller).IsValid() {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidAddress)
		}
		opts = append(opts, listing.WithSeller(domain.Address(seller)))
	}
	if collection := c.QueryParam("collection"); collection != "" {
		if !domain.Address(collection).IsValid() {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidAddress)
		}
		opts = append(opts, listing.WithCollection(domain.Address(collection)))
	}
	if isAuction := c.QueryParam("isAuction"); isAuction != "" {
		v, err := strconv.ParseBool(isAuction)
		if err != nil {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
		}
		opts = append(opts, listing.WithIsAuction(v))
	}
	if c.QueryParam("offset") != "" || c.QueryParam("limit") != "" {
		offset, err1 := strconv.ParseInt(defaultStr(c.QueryParam("offset"), "0"), 10, 32)
		limit, err2 := strconv.ParseInt(defaultStr(c.QueryParam("limit"), "0"), 10, 32)
		if err1 != nil || err2 != nil {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
		}
		opts = append(opts, listing.WithPagination(int32(offset), int32(limit)))
	}

	entries, err := h.listing.FindAll(ctx, opts...)
	if err != nil {
		ctx.WithField("err", err).Warn("listing.FindAll failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}

	views := make([]entryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, h.toView(e))
	}
	return delivery.MakeJsonResp(c, http.StatusOK, views)
}

func defaultStr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	asset, err := assetOf(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	entry, err := h.listing.Get(ctx, asset)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, h.toView(entry))
}

// find returns the stored entry even after its window elapsed
func (h *handler) find(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	asset, err := assetOf(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	entry, err := h.listing.Find(ctx, asset)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, h.toView(entry))
}

func (h *handler) getHighestBid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	asset, err := assetOf(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	entry, err := h.listing.Get(ctx, asset)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	bidder, price, err := h.listing.GetHighestBid(ctx, asset)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, bidView{
		Bidder:       bidder,
		Price:        price.String(),
		DisplayPrice: h.payTokens.DisplayPrice(entry.PaymentToken, price),
	})
}

func (h *handler) cancel(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)
	asset, err := assetOf(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.listing.Cancel(ctx, asset, caller); err != nil {
		ctx.WithFields(log.Fields{"err": err, "asset": asset.Key()}).Warn("listing.Cancel failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

type amountParams struct {
	Amount string `json:"amount" validate:"required,uint"`
}

func (h *handler) bindAmount(c echo.Context) (*amountParams, error) {
	p := &amountParams{}
	if err := c.Bind(p); err != nil {
		return nil, err
	}
	if err := c.Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (h *handler) placeBid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)
	asset, err := assetOf(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	p, err := h.bindAmount(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}
	amount, err := listing.ParsePrice(p.Amount)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.listing.PlaceBid(ctx, asset, caller, amount); err != nil {
		ctx.WithFields(log.Fields{"err": err, "asset": asset.Key(), "amount": p.Amount}).Warn("listing.PlaceBid failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, nil)
}

func (h *handler) settle(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)
	asset, err := assetOf(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	receipt, err := h.listing.SettleAuction(ctx, asset, caller)
	return h.receiptResp(c, ctx, receipt, err)
}

func (h *handler) buy(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)
	asset, err := assetOf(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	p, err := h.bindAmount(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err.Error())
	}
	offered, err := listing.ParsePrice(p.Amount)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	receipt, err := h.listing.SettleFixedPrice(ctx, asset, caller, offered)
	return h.receiptResp(c, ctx, receipt, err)
}

func (h *handler) receiptResp(c echo.Context, ctx ctx.Ctx, receipt *domain.Receipt, err error) error {
	if errors.Is(err, domain.ErrPayoutFailed) && receipt != nil {
		ctx.WithFields(log.Fields{"err": err, "asset": receipt.Asset.Key()}).Error("sold with pending payout")
		return delivery.MakeJsonResp(c, http.StatusAccepted, receipt)
	}
	if err != nil {
		ctx.WithField("err", err).Warn("settlement failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, receipt)
}
