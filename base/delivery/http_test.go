package delivery

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"

	"github.com/x-xyz/auctionhouse/domain"
)

func TestStatusOf(t *testing.T) {
	req := require.New(t)

	req.Equal(http.StatusNotFound, StatusOf(domain.ErrNoSuchListing))
	req.Equal(http.StatusForbidden, StatusOf(xerrors.Errorf("%w", domain.ErrNotSeller)))
	req.Equal(http.StatusUnprocessableEntity, StatusOf(domain.ErrStillLive))
	req.Equal(http.StatusConflict, StatusOf(domain.ErrAlreadyListed))
	req.Equal(http.StatusServiceUnavailable, StatusOf(domain.ErrPaused))
	req.Equal(http.StatusInternalServerError, StatusOf(errors.New("boom")))
}

func TestMakeJsonResp(t *testing.T) {
	req := require.New(t)
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	req.NoError(MakeJsonResp(c, http.StatusOK, domain.ErrBidTooLow))
	req.Equal(http.StatusUnprocessableEntity, rec.Code)
	req.JSONEq(`{"data":"bid is not higher than the highest price","status":"fail"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	req.NoError(MakeJsonResp(c, http.StatusOK, map[string]string{"a": "b"}))
	req.Equal(http.StatusOK, rec.Code)
	req.JSONEq(`{"data":{"a":"b"},"status":"success"}`, rec.Body.String())
}
