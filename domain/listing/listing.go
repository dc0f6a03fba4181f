package listing

import (
	"math"
	"math/big"
	"time"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/domain"
)

const (
	// MinDuration is the shortest live window, in seconds
	MinDuration uint64 = 60
	// PriceBits bounds every price and bid
	PriceBits = 128
)

// Entry is the sale record of one asset. Removal from the registry is the
// terminal state; there is no status flag, liveness is derived from time.
type Entry struct {
	Asset         domain.AssetId
	Seller        domain.Address
	StartingPrice *big.Int
	PaymentToken  domain.Address
	// Duration of the live window in seconds
	Duration uint64
	// StartedAt is a unix timestamp in seconds
	StartedAt     uint64
	HighestBidder domain.Address
	HighestPrice  *big.Int
	IsAuction     bool
}

// IsLive is true iff now - StartedAt < Duration
func (e *Entry) IsLive(now time.Time) bool {
	ts := now.Unix()
	if ts < 0 || uint64(ts) < e.StartedAt {
		return true
	}
	return uint64(ts)-e.StartedAt < e.Duration
}

// EndsAt saturates at the largest representable unix time
func (e *Entry) EndsAt() time.Time {
	end := e.StartedAt + e.Duration
	if end < e.StartedAt || end > math.MaxInt64 {
		end = math.MaxInt64
	}
	return time.Unix(int64(end), 0)
}

func (e *Entry) HasBid() bool {
	return !e.HighestBidder.IsEmpty()
}

// Kind is the sale kind this entry settles as
func (e *Entry) Kind() domain.SaleKind {
	if e.IsAuction {
		return domain.SaleKindAuction
	}
	return domain.SaleKindFixedPrice
}

func (e *Entry) Clone() *Entry {
	c := *e
	if e.StartingPrice != nil {
		c.StartingPrice = new(big.Int).Set(e.StartingPrice)
	}
	if e.HighestPrice != nil {
		c.HighestPrice = new(big.Int).Set(e.HighestPrice)
	}
	return &c
}

type EntryPatchable struct {
	HighestBidder *domain.Address
	HighestPrice  *big.Int
}

type CreateParams struct {
	Asset         domain.AssetId
	Seller        domain.Address
	StartingPrice *big.Int
	Duration      uint64
	PaymentToken  domain.Address
	IsAuction     bool
}

type FindAllOptions struct {
	Seller     *domain.Address
	Collection *domain.Address
	IsAuction  *bool
	Offset     *int32
	Limit      *int32
}

type FindAllOptionsFunc func(*FindAllOptions) error

func GetFindAllOptions(opts ...FindAllOptionsFunc) (FindAllOptions, error) {
	res := FindAllOptions{}

	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}

	return res, nil
}

func WithSeller(seller domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		s := seller.ToLower()
		options.Seller = &s
		return nil
	}
}

func WithCollection(collection domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		c := collection.ToLower()
		options.Collection = &c
		return nil
	}
}

func WithIsAuction(isAuction bool) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.IsAuction = &isAuction
		return nil
	}
}

func WithPagination(offset int32, limit int32) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		if offset < 0 || limit < 0 {
			return domain.ErrBadParamInput
		}
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

// Repo is the registry backing store keyed by AssetId. Only the listing use case holds one.
type Repo interface {
	// FindOne returns domain.ErrNotFound when no entry exists
	FindOne(ctx ctx.Ctx, asset domain.AssetId) (*Entry, error)
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Entry, error)
	// Insert returns domain.ErrAlreadyListed when an entry exists for the asset
	Insert(ctx ctx.Ctx, entry *Entry) error
	Update(ctx ctx.Ctx, asset domain.AssetId, patchable EntryPatchable) error
	Remove(ctx ctx.Ctx, asset domain.AssetId) error
}

// OwnershipVerifier confirms control of an asset before it is listed or moved
type OwnershipVerifier interface {
	VerifyOwnership(ctx ctx.Ctx, asset domain.AssetId, claimant domain.Address) (bool, error)
	// VerifyApproval returns domain.ErrNotApproved when the marketplace cannot move asset
	VerifyApproval(ctx ctx.Ctx, asset domain.AssetId) error
}

type UseCase interface {
	Create(ctx ctx.Ctx, params CreateParams) (*Entry, error)
	Cancel(ctx ctx.Ctx, asset domain.AssetId, caller domain.Address) error

	// Get and GetHighestBid fail with ErrNoSuchListing once the window elapsed
	Get(ctx ctx.Ctx, asset domain.AssetId) (*Entry, error)
	GetHighestBid(ctx ctx.Ctx, asset domain.AssetId) (domain.Address, *big.Int, error)
	// Find returns the stored entry whether live or not
	Find(ctx ctx.Ctx, asset domain.AssetId) (*Entry, error)
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Entry, error)

	PlaceBid(ctx ctx.Ctx, asset domain.AssetId, bidder domain.Address, amount *big.Int) error

	SettleAuction(ctx ctx.Ctx, asset domain.AssetId, caller domain.Address) (*domain.Receipt, error)
	SettleFixedPrice(ctx ctx.Ctx, asset domain.AssetId, caller domain.Address, offeredPrice *big.Int) (*domain.Receipt, error)

	FeeRate() uint16
}
