package http

import (
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/ethereum"
	"github.com/x-xyz/auctionhouse/base/validator"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/middleware"
	authMiddleware "github.com/x-xyz/auctionhouse/stores/auth/delivery/http/middleware"
	authRepository "github.com/x-xyz/auctionhouse/stores/auth/repository"
	auth "github.com/x-xyz/auctionhouse/stores/auth/usecase"
	"github.com/x-xyz/auctionhouse/stores/custody/ledger"
	"github.com/x-xyz/auctionhouse/stores/listing/repository"
	listing "github.com/x-xyz/auctionhouse/stores/listing/usecase"
	ownership "github.com/x-xyz/auctionhouse/stores/ownership/usecase"
	settlement "github.com/x-xyz/auctionhouse/stores/settlement/usecase"
)

const (
	market     = domain.Address("0x00000000000000000000000000000000000000aa")
	platform   = domain.Address("0x00000000000000000000000000000000000000fe")
	token      = domain.Address("0x00000000000000000000000000000000000000e2")
	collection = domain.Address("0x00000000000000000000000000000000000000c1")
	template   = "Sign in: %s"
)

type user struct {
	address domain.Address
	token   string
}

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Status string          `json:"status"`
}

type handlerSuite struct {
	suite.Suite
	e        *echo.Echo
	assets   *ledger.Assets
	payments *ledger.Payments
	seller   user
	buyer    user
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(handlerSuite))
}

func (s *handlerSuite) SetupTest() {
	s.assets = ledger.NewAssets(market)
	s.payments = ledger.NewPayments(market)
	verifier := ownership.New(s.assets)

	uc := listing.New(&listing.ListingUseCaseCfg{
		Repo:     repository.NewMemoryRepo(),
		Verifier: verifier,
		Swapper: settlement.New(&settlement.SettlementUseCaseCfg{
			Marketplace:   market,
			FeeRecipient:  platform,
			Assets:        s.assets,
			Payments:      s.payments,
			Verifier:      verifier,
			PayoutBackoff: time.Millisecond,
		}),
		PayTokens: domain.PayTokens{{Address: token, Symbol: "USDC", Decimals: 2}},
		FeeRate:   250,
	})

	authUc := auth.New(&auth.AuthUseCaseCfg{
		JwtSecret:          "secret",
		SigningMsgTemplate: template,
		NonceRepo:          authRepository.NewLocalNonceRepo(1024 * 1024),
	})

	s.e = echo.New()
	s.e.Validator = validator.NewCustomValidator(validator.New())
	s.e.Use(middleware.InitMiddleware().AddContext())
	New(s.e, uc, domain.PayTokens{{Address: token, Symbol: "USDC", Decimals: 2}}, authMiddleware.New(authUc, nil))

	s.seller = s.login(authUc)
	s.buyer = s.login(authUc)

	s.payments.Mint(token, s.buyer.address, big.NewInt(10000))
	s.payments.Approve(token, s.buyer.address, big.NewInt(10000))
}

func (s *handlerSuite) login(uc domain.AuthUsecase) user {
	c := ctx.Background()
	key, _, err := ethereum.GenerateKey()
	s.Require().NoError(err)
	address := domain.AddressFromCommon(crypto.PubkeyToAddress(key.PublicKey)).ToLower()

	nonce, err := uc.GetNonce(c, address)
	s.Require().NoError(err)
	sig, err := ethereum.SignHash(accounts.TextHash([]byte(fmt.Sprintf(template, nonce))), key)
	s.Require().NoError(err)
	tkn, err := uc.SignToken(c, address, hexutil.Encode(sig))
	s.Require().NoError(err)
	return user{address: address, token: tkn}
}

func (s *handlerSuite) do(method, path string, u *user, body string) (int, envelope) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if u != nil {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+u.token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	env := envelope{}
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec.Code, env
}

func (s *handlerSuite) list(tokenId string, price string, isAuction bool) int {
	s.assets.Mint(domain.NewAssetId(collection, domain.TokenId(tokenId)), s.seller.address, true)
	body := fmt.Sprintf(`{"collection":"%s","tokenId":"%s","startingPrice":"%s","duration":"3600","paymentToken":"%s","isAuction":%t}`,
		collection, tokenId, price, token, isAuction)
	code, _ := s.do(http.MethodPost, "/listings", &s.seller, body)
	return code
}

func (s *handlerSuite) TestCreateRequiresAuth() {
	code, _ := s.do(http.MethodPost, "/listings", nil, `{}`)
	s.GreaterOrEqual(code, 400)
	s.Less(code, 500)
}

func (s *handlerSuite) TestAuctionFlow() {
	s.Equal(http.StatusCreated, s.list("1", "100", true))
	s.Equal(http.StatusConflict, s.list("1", "100", true))

	path := fmt.Sprintf("/listings/%s/1", collection)

	code, env := s.do(http.MethodGet, path, nil, "")
	s.Require().Equal(http.StatusOK, code)
	view := entryView{}
	s.Require().NoError(json.Unmarshal(env.Data, &view))
	s.Equal("100", view.StartingPrice)
	s.Equal("1", view.DisplayStartingPrice)
	s.True(view.IsLive)
	s.True(view.IsAuction)

	code, _ = s.do(http.MethodPost, path+"/bids", &s.buyer, `{"amount":"100"}`)
	s.Equal(http.StatusUnprocessableEntity, code)

	code, _ = s.do(http.MethodPost, path+"/bids", &s.buyer, `{"amount":"150"}`)
	s.Equal(http.StatusCreated, code)

	code, env = s.do(http.MethodGet, path+"/bid", nil, "")
	s.Require().Equal(http.StatusOK, code)
	bid := bidView{}
	s.Require().NoError(json.Unmarshal(env.Data, &bid))
	s.Equal(s.buyer.address, bid.Bidder)
	s.Equal("150", bid.Price)
	s.Equal("1.5", bid.DisplayPrice)

	code, _ = s.do(http.MethodPost, path+"/settle", &s.buyer, "")
	s.Equal(http.StatusUnprocessableEntity, code)

	code, _ = s.do(http.MethodDelete, path, &s.buyer, "")
	s.Equal(http.StatusForbidden, code)

	code, _ = s.do(http.MethodDelete, path, &s.seller, "")
	s.Equal(http.StatusOK, code)

	code, _ = s.do(http.MethodGet, path+"/raw", nil, "")
	s.Equal(http.StatusNotFound, code)
}

func (s *handlerSuite) TestBuy() {
	s.Require().Equal(http.StatusCreated, s.list("2", "500", false))
	path := fmt.Sprintf("/listings/%s/2", collection)

	code, _ := s.do(http.MethodPost, path+"/buy", &s.buyer, `{"amount":"400"}`)
	s.Equal(http.StatusUnprocessableEntity, code)

	code, env := s.do(http.MethodPost, path+"/buy", &s.buyer, `{"amount":"600"}`)
	s.Require().Equal(http.StatusOK, code)

	receipt := map[string]interface{}{}
	s.Require().NoError(json.Unmarshal(env.Data, &receipt))
	s.Equal("500", receipt["price"])
	s.Equal("12", receipt["platformCut"])
	s.Equal("488", receipt["sellerAmount"])

	owner, err := s.assets.OwnerOf(ctx.Background(), domain.NewAssetId(collection, "2"))
	s.Require().NoError(err)
	s.Equal(s.buyer.address, owner)

	code, _ = s.do(http.MethodGet, path, nil, "")
	s.Equal(http.StatusNotFound, code)
}

func (s *handlerSuite) TestFindAll() {
	s.Require().Equal(http.StatusCreated, s.list("3", "100", true))
	s.Require().Equal(http.StatusCreated, s.list("4", "100", false))

	code, env := s.do(http.MethodGet, "/listings?isAuction=false", nil, "")
	s.Require().Equal(http.StatusOK, code)
	views := []entryView{}
	s.Require().NoError(json.Unmarshal(env.Data, &views))
	s.Require().Len(views, 1)
	s.Equal(domain.TokenId("4"), views[0].TokenId)

	code, env = s.do(http.MethodGet, "/listings?seller="+string(s.seller.address), nil, "")
	s.Require().Equal(http.StatusOK, code)
	s.Require().NoError(json.Unmarshal(env.Data, &views))
	s.Len(views, 2)

	code, _ = s.do(http.MethodGet, "/listings?limit=-1", nil, "")
	s.Equal(http.StatusBadRequest, code)

	code, _ = s.do(http.MethodGet, "/listings?seller=nope", nil, "")
	s.Equal(http.StatusBadRequest, code)
}

func (s *handlerSuite) TestBadPath() {
	code, _ := s.do(http.MethodGet, "/listings/not-an-address/1", nil, "")
	s.Equal(http.StatusBadRequest, code)

	code, _ = s.do(http.MethodGet, fmt.Sprintf("/listings/%s/abc", collection), nil, "")
	s.Equal(http.StatusBadRequest, code)
}
