package usecase

import (
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/ethereum"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/stores/auth/repository"
)

const template = "Sign in to the auction house: %s"

func TestSignAndParseToken(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	u := New(&AuthUseCaseCfg{
		JwtSecret:          "jwt-secret",
		SigningMsgTemplate: template,
		NonceRepo:          repository.NewLocalNonceRepo(1024 * 1024),
	})

	key, _, err := ethereum.GenerateKey()
	req.NoError(err)
	address := domain.AddressFromCommon(crypto.PubkeyToAddress(key.PublicKey))

	nonce, err := u.GetNonce(c, address)
	req.NoError(err)

	sig, err := ethereum.SignHash(accounts.TextHash([]byte(fmt.Sprintf(template, nonce))), key)
	req.NoError(err)

	tkn, err := u.SignToken(c, address, hexutil.Encode(sig))
	req.NoError(err)
	req.NotEmpty(tkn)

	ads, err := u.ParseToken(c, tkn)
	req.NoError(err)
	req.Equal(address, ads)

	// the nonce is consumed
	_, err = u.SignToken(c, address, hexutil.Encode(sig))
	req.ErrorIs(err, domain.ErrInvalidSignature)
}

func TestSignTokenWrongSigner(t *testing.T) {
	req := require.New(t)
	c := ctx.Background()

	u := New(&AuthUseCaseCfg{
		JwtSecret:          "jwt-secret",
		SigningMsgTemplate: template,
		NonceRepo:          repository.NewLocalNonceRepo(1024 * 1024),
	})

	key, _, err := ethereum.GenerateKey()
	req.NoError(err)
	other, _, err := ethereum.GenerateKey()
	req.NoError(err)
	address := domain.AddressFromCommon(crypto.PubkeyToAddress(key.PublicKey))

	nonce, err := u.GetNonce(c, address)
	req.NoError(err)
	sig, err := ethereum.SignHash(accounts.TextHash([]byte(fmt.Sprintf(template, nonce))), other)
	req.NoError(err)

	_, err = u.SignToken(c, address, hexutil.Encode(sig))
	req.ErrorIs(err, domain.ErrInvalidSignature)

	_, err = u.ParseToken(c, "not-a-token")
	req.Error(err)
}
