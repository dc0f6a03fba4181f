package usecase

import (
	"crypto/ecdsa"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/ethereum"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/signedorder"
	"github.com/x-xyz/auctionhouse/stores/custody/ledger"
	ownership "github.com/x-xyz/auctionhouse/stores/ownership/usecase"
	pause "github.com/x-xyz/auctionhouse/stores/pause/usecase"
	settlement "github.com/x-xyz/auctionhouse/stores/settlement/usecase"
	"github.com/x-xyz/auctionhouse/stores/signedorder/repository"
)

const (
	market = domain.Address("0x00000000000000000000000000000000000000aa")
	token  = domain.Address("0x00000000000000000000000000000000000000e2")
	seller = domain.Address("0x0000000000000000000000000000000000000a11")
	buyer  = domain.Address("0x0000000000000000000000000000000000000b0b")
)

var asset = domain.NewAssetId("0x00000000000000000000000000000000000000c1", "1")

type signedOrderSuite struct {
	suite.Suite
	ctx      ctx.Ctx
	key      *ecdsa.PrivateKey
	assets   *ledger.Assets
	payments *ledger.Payments
	nonces   signedorder.NonceRepo
	uc       signedorder.UseCase
}

func TestSignedOrderSuite(t *testing.T) {
	suite.Run(t, new(signedOrderSuite))
}

func (s *signedOrderSuite) SetupTest() {
	s.ctx = ctx.Background()

	key, _, err := ethereum.GenerateKey()
	s.Require().NoError(err)
	s.key = key

	s.assets = ledger.NewAssets(market)
	s.payments = ledger.NewPayments(market)
	s.nonces = repository.NewMemoryNonceRepo()

	s.uc = New(&SignedOrderUseCaseCfg{
		TrustedSigner: domain.AddressFromCommon(crypto.PubkeyToAddress(key.PublicKey)),
		NonceRepo:     s.nonces,
		Swapper: settlement.New(&settlement.SettlementUseCaseCfg{
			Marketplace:   market,
			FeeRecipient:  "0x00000000000000000000000000000000000000fe",
			Assets:        s.assets,
			Payments:      s.payments,
			Verifier:      ownership.New(s.assets),
			PayoutBackoff: time.Millisecond,
		}),
	})

	s.assets.Mint(asset, seller, true)
	s.payments.Mint(token, buyer, big.NewInt(1000))
	s.payments.Approve(token, buyer, big.NewInt(1000))
}

func (s *signedOrderSuite) sign(nonce uint64, key *ecdsa.PrivateKey) []byte {
	sig, err := ethereum.SignHash(signedorder.DigestFor(nonce), key)
	s.Require().NoError(err)
	return sig
}

func (s *signedOrderSuite) order(sig []byte) signedorder.Order {
	return signedorder.Order{
		Asset:        asset,
		Price:        big.NewInt(400),
		PaymentToken: token,
		Seller:       seller,
		Buyer:        buyer,
		Signature:    sig,
	}
}

func (s *signedOrderSuite) balance(owner domain.Address) string {
	b, err := s.payments.BalanceOf(s.ctx, token, owner)
	s.Require().NoError(err)
	return b.String()
}

func (s *signedOrderSuite) TestMessageAndVerify() {
	msg, err := s.uc.Message(s.ctx)
	s.Require().NoError(err)
	s.Equal(signedorder.MessageFor(0), msg)

	ok, err := s.uc.Verify(s.ctx, s.sign(0, s.key))
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.uc.Verify(s.ctx, s.sign(1, s.key))
	s.Require().NoError(err)
	s.False(ok)

	other, _, err := ethereum.GenerateKey()
	s.Require().NoError(err)
	ok, err = s.uc.Verify(s.ctx, s.sign(0, other))
	s.Require().NoError(err)
	s.False(ok)

	ok, err = s.uc.Verify(s.ctx, []byte{0x01, 0x02})
	s.Require().NoError(err)
	s.False(ok)
}

func (s *signedOrderSuite) TestFulfillAndReplay() {
	sig := s.sign(0, s.key)

	receipt, err := s.uc.Fulfill(s.ctx, s.order(sig))
	s.Require().NoError(err)
	s.Equal("0", receipt.PlatformCut.String())

	owner, err := s.assets.OwnerOf(s.ctx, asset)
	s.Require().NoError(err)
	s.Equal(buyer, owner)
	s.Equal("400", s.balance(seller))
	s.Equal("600", s.balance(buyer))

	nonce, err := s.uc.Nonce(s.ctx)
	s.Require().NoError(err)
	s.Equal(uint64(1), nonce)

	// the same signature is stale once the nonce advanced
	s.assets.Mint(asset, seller, true)
	_, err = s.uc.Fulfill(s.ctx, s.order(sig))
	s.Equal(domain.ErrInvalidSignature, err)

	_, err = s.uc.Fulfill(s.ctx, s.order(s.sign(1, s.key)))
	s.Require().NoError(err)
}

func (s *signedOrderSuite) TestFailedSwapKeepsNonce() {
	s.payments.Approve(token, buyer, big.NewInt(1))

	_, err := s.uc.Fulfill(s.ctx, s.order(s.sign(0, s.key)))
	s.ErrorIs(err, domain.ErrInsufficientAllowance)

	nonce, err := s.uc.Nonce(s.ctx)
	s.Require().NoError(err)
	s.Equal(uint64(0), nonce)

	// the signature stays usable
	s.payments.Approve(token, buyer, big.NewInt(1000))
	_, err = s.uc.Fulfill(s.ctx, s.order(s.sign(0, s.key)))
	s.NoError(err)
}

func (s *signedOrderSuite) TestWrongSigner() {
	other, _, err := ethereum.GenerateKey()
	s.Require().NoError(err)

	_, err = s.uc.Fulfill(s.ctx, s.order(s.sign(0, other)))
	s.Equal(domain.ErrInvalidSignature, err)
	s.Equal("0", s.balance(seller))
}

func (s *signedOrderSuite) TestPaused() {
	admin := domain.Address("0x00000000000000000000000000000000000000ad")
	gate := pause.New([]domain.Address{admin})
	uc := NewGated(s.uc, gate)

	s.Require().NoError(gate.Pause(s.ctx, admin))
	_, err := uc.Fulfill(s.ctx, s.order(s.sign(0, s.key)))
	s.Equal(domain.ErrPaused, err)

	msg, err := uc.Message(s.ctx)
	s.Require().NoError(err)
	s.Equal(signedorder.MessageFor(0), msg)

	s.Require().NoError(gate.Unpause(s.ctx, admin))
	_, err = uc.Fulfill(s.ctx, s.order(s.sign(0, s.key)))
	s.NoError(err)
}
