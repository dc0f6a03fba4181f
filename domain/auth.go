package domain

import (
	"github.com/golang-jwt/jwt"
	"github.com/x-xyz/auctionhouse/base/ctx"
)

type JwtCustomClaims struct {
	Address string `json:"data"`
	jwt.StandardClaims
}

type AuthUsecase interface {
	// GetNonce returns the one-time nonce the wallet has to sign to log in
	GetNonce(ctx ctx.Ctx, address Address) (string, error)
	// SignToken checks signature over the login message and issues a JWT
	SignToken(ctx ctx.Ctx, address Address, signature string) (string, error)
	ParseToken(ctx ctx.Ctx, token string) (address Address, err error)
}

// LoginNonceRepo keeps the pending login nonce per address
type LoginNonceRepo interface {
	Get(ctx ctx.Ctx, address Address) (string, error)
	Set(ctx ctx.Ctx, address Address, nonce string) error
	Del(ctx ctx.Ctx, address Address) error
}
