package main

import (
	"math/big"

	"github.com/spf13/viper"

	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/stores/custody/ledger"
)

type assetSeed struct {
	Collection domain.Address `mapstructure:"collection"`
	TokenId    domain.TokenId `mapstructure:"tokenId"`
	Owner      domain.Address `mapstructure:"owner"`
	Approved   bool           `mapstructure:"approved"`
}

type balanceSeed struct {
	Token     domain.Address `mapstructure:"token"`
	Owner     domain.Address `mapstructure:"owner"`
	Amount    string         `mapstructure:"amount"`
	Allowance string         `mapstructure:"allowance"`
}

func mustAmount(s string) *big.Int {
	if s == "" {
		return new(big.Int)
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		log.Log().WithField("amount", s).Panic("invalid seed amount")
	}
	return v
}

// seedLedgers loads custody.seed into the in-process ledgers
func seedLedgers(assets *ledger.Assets, payments *ledger.Payments) {
	assetSeeds := []assetSeed{}
	if err := viper.UnmarshalKey("custody.seed.assets", &assetSeeds); err != nil {
		log.Log().WithField("err", err).Panic("invalid custody.seed.assets")
	}
	for _, s := range assetSeeds {
		asset := domain.NewAssetId(s.Collection, s.TokenId)
		if err := asset.Validate(); err != nil || !s.Owner.IsValid() {
			log.Log().WithFields(log.Fields{"asset": asset, "owner": s.Owner}).Panic("invalid asset seed")
		}
		assets.Mint(asset, s.Owner, s.Approved)
	}

	balanceSeeds := []balanceSeed{}
	if err := viper.UnmarshalKey("custody.seed.balances", &balanceSeeds); err != nil {
		log.Log().WithField("err", err).Panic("invalid custody.seed.balances")
	}
	for _, s := range balanceSeeds {
		if !s.Token.IsValid() || !s.Owner.IsValid() {
			log.Log().WithFields(log.Fields{"token": s.Token, "owner": s.Owner}).Panic("invalid balance seed")
		}
		payments.Mint(s.Token.ToLower(), s.Owner.ToLower(), mustAmount(s.Amount))
		payments.Approve(s.Token.ToLower(), s.Owner.ToLower(), mustAmount(s.Allowance))
	}

	log.Log().WithFields(log.Fields{"assets": len(assetSeeds), "balances": len(balanceSeeds)}).Info("custody ledgers seeded")
}
