package domain

import (
	"time"

	"github.com/x-xyz/auctionhouse/base/ctx"
)

type EventType string

const (
	EventListingCreated   EventType = "listing_created"
	EventListingCancelled EventType = "listing_cancelled"
	EventBidPlaced        EventType = "bid_placed"
	EventSold             EventType = "sold"
)

type SaleKind string

const (
	SaleKindFixedPrice  SaleKind = "fixed_price"
	SaleKindAuction     SaleKind = "auction"
	SaleKindSignedOrder SaleKind = "signed_order"
)

// Event is what observers (indexers, bots, UIs) receive. Prices are decimal strings.
type Event struct {
	Id           string    `json:"id"`
	Type         EventType `json:"type"`
	Kind         SaleKind  `json:"kind"`
	Asset        AssetId   `json:"asset"`
	Price        string    `json:"price"`
	PaymentToken Address   `json:"paymentToken"`
	Seller       Address   `json:"seller"`
	Buyer        Address   `json:"buyer,omitempty"`
	PlatformCut  string    `json:"platformCut,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Notifier is fire-and-forget, a failing sink never fails the operation that emitted
type Notifier interface {
	Notify(ctx ctx.Ctx, evt Event)
}

// EventSink is one destination behind the notifier
type EventSink interface {
	Name() string
	Send(ctx ctx.Ctx, evt Event) error
}
