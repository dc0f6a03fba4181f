package delivery

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/auctionhouse/domain"
)

type JsonResponseStatus string

const (
	JsonResponseStatusSuccess JsonResponseStatus = "success"
	JsonResponseStatusFail    JsonResponseStatus = "fail"
)

type JsonResponse struct {
	Data   interface{}        `json:"data"`
	Status JsonResponseStatus `json:"status"`
}

var errStatus = []struct {
	err    error
	status int
}{
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrNoSuchListing, http.StatusNotFound},

	{domain.ErrBadParamInput, http.StatusBadRequest},
	{domain.ErrInvalidNumberFormat, http.StatusBadRequest},
	{domain.ErrInvalidTokenId, http.StatusBadRequest},
	{domain.ErrInvalidCurrency, http.StatusBadRequest},
	{domain.ErrInvalidAddress, http.StatusBadRequest},
	{domain.ErrDurationTooShort, http.StatusBadRequest},
	{domain.ErrPriceOverflow, http.StatusBadRequest},
	{domain.ErrDurationOverflow, http.StatusBadRequest},

	{domain.ErrInvalidSignature, http.StatusUnauthorized},

	{domain.ErrNotOwner, http.StatusForbidden},
	{domain.ErrNotSeller, http.StatusForbidden},
	{domain.ErrNotWinner, http.StatusForbidden},
	{domain.ErrNotAuthorizedCaller, http.StatusForbidden},

	{domain.ErrAlreadyListed, http.StatusConflict},

	{domain.ErrNotAuction, http.StatusUnprocessableEntity},
	{domain.ErrNotLive, http.StatusUnprocessableEntity},
	{domain.ErrStillLive, http.StatusUnprocessableEntity},
	{domain.ErrBidTooLow, http.StatusUnprocessableEntity},
	{domain.ErrPriceTooLow, http.StatusUnprocessableEntity},
	{domain.ErrNotApproved, http.StatusUnprocessableEntity},
	{domain.ErrTransferRejected, http.StatusUnprocessableEntity},
	{domain.ErrInsufficientBalance, http.StatusUnprocessableEntity},
	{domain.ErrInsufficientAllowance, http.StatusUnprocessableEntity},

	{domain.ErrPaused, http.StatusServiceUnavailable},
	{domain.ErrPayoutFailed, http.StatusAccepted},
}

// StatusOf maps a domain error onto an http status, falling back to 500
func StatusOf(err error) int {
	for _, es := range errStatus {
		if errors.Is(err, es.err) {
			return es.status
		}
	}
	return http.StatusInternalServerError
}

// MakeJsonResp writes data in the common envelope. An error as data picks its own status.
func MakeJsonResp(c echo.Context, status int, data interface{}) error {
	if err, ok := data.(error); ok {
		status = StatusOf(err)
		data = err.Error()
	}

	if status >= 400 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusFail})
	}

	if status >= 200 && status < 300 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusSuccess})
	}

	return c.JSON(status, data)
}
