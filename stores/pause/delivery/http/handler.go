package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/delivery"
	"github.com/x-xyz/auctionhouse/domain"
	authMiddleware "github.com/x-xyz/auctionhouse/stores/auth/delivery/http/middleware"
)

type handler struct {
	gate domain.PauseGate
}

func New(e *echo.Echo, gate domain.PauseGate, am *authMiddleware.AuthMiddleware) {
	h := &handler{gate: gate}

	g := e.Group("/admin", am.Auth(), am.IsAdmin())
	g.GET("/pause", h.status)
	g.POST("/pause", h.pause)
	g.POST("/unpause", h.unpause)
}

func (h *handler) status(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	return delivery.MakeJsonResp(c, http.StatusOK, map[string]bool{"paused": h.gate.IsPaused(ctx)})
}

func (h *handler) pause(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)

	if err := h.gate.Pause(ctx, caller); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, map[string]bool{"paused": true})
}

func (h *handler) unpause(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)

	if err := h.gate.Unpause(ctx, caller); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, map[string]bool{"paused": false})
}
