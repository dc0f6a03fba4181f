package http

import (
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/listing"
)

// entryView carries raw amounts as decimal strings next to their display form
type entryView struct {
	Collection           domain.Address `json:"collection"`
	TokenId              domain.TokenId `json:"tokenId"`
	Seller               domain.Address `json:"seller"`
	PaymentToken         domain.Address `json:"paymentToken"`
	StartingPrice        string         `json:"startingPrice"`
	DisplayStartingPrice string         `json:"displayStartingPrice"`
	HighestBidder        domain.Address `json:"highestBidder,omitempty"`
	HighestPrice         string         `json:"highestPrice"`
	DisplayHighestPrice  string         `json:"displayHighestPrice"`
	Duration             uint64         `json:"duration"`
	StartedAt            uint64         `json:"startedAt"`
	EndsAt               int64          `json:"endsAt"`
	IsAuction            bool           `json:"isAuction"`
	IsLive               bool           `json:"isLive"`
}

type bidView struct {
	Bidder       domain.Address `json:"bidder,omitempty"`
	Price        string         `json:"price"`
	DisplayPrice string         `json:"displayPrice"`
}

func (h *handler) toView(e *listing.Entry) entryView {
	return entryView{
		Collection:           e.Asset.Collection,
		TokenId:              e.Asset.TokenId,
		Seller:               e.Seller,
		PaymentToken:         e.PaymentToken,
		StartingPrice:        e.StartingPrice.String(),
		DisplayStartingPrice: h.payTokens.DisplayPrice(e.PaymentToken, e.StartingPrice),
		HighestBidder:        e.HighestBidder,
		HighestPrice:         e.HighestPrice.String(),
		DisplayHighestPrice:  h.payTokens.DisplayPrice(e.PaymentToken, e.HighestPrice),
		Duration:             e.Duration,
		StartedAt:            e.StartedAt,
		EndsAt:               e.EndsAt().Unix(),
		IsAuction:            e.IsAuction,
		IsLive:               e.IsLive(timeNow()),
	}
}
