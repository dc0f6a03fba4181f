package repository

import (
	"math/big"
	"sort"
	"sync"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/ptr"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/listing"
)

type memoryRepo struct {
	mu      sync.RWMutex
	entries map[string]*listing.Entry
}

// NewMemoryRepo keeps entries in a map keyed by AssetId.Key
func NewMemoryRepo() listing.Repo {
	return &memoryRepo{entries: map[string]*listing.Entry{}}
}

func (r *memoryRepo) FindOne(_ ctx.Ctx, asset domain.AssetId) (*listing.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[asset.Key()]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e.Clone(), nil
}

func (r *memoryRepo) FindAll(_ ctx.Ctx, opts ...listing.FindAllOptionsFunc) ([]*listing.Entry, error) {
	o, err := listing.GetFindAllOptions(opts...)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	res := []*listing.Entry{}
	for _, e := range r.entries {
		if o.Seller != nil && !e.Seller.Equals(*o.Seller) {
			continue
		}
		if o.Collection != nil && !e.Asset.Collection.Equals(*o.Collection) {
			continue
		}
		if e.IsAuction != ptr.BoolValue(o.IsAuction, e.IsAuction) {
			continue
		}
		res = append(res, e.Clone())
	}
	r.mu.RUnlock()

	// newest first, key breaks ties so paging is stable
	sort.Slice(res, func(i, j int) bool {
		if res[i].StartedAt != res[j].StartedAt {
			return res[i].StartedAt > res[j].StartedAt
		}
		return res[i].Asset.Key() < res[j].Asset.Key()
	})

	offset := int(ptr.Int32Value(o.Offset, 0))
	if offset >= len(res) {
		return []*listing.Entry{}, nil
	}
	res = res[offset:]
	if limit := int(ptr.Int32Value(o.Limit, 0)); limit > 0 && limit < len(res) {
		res = res[:limit]
	}
	return res, nil
}

func (r *memoryRepo) Insert(_ ctx.Ctx, entry *listing.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := entry.Asset.Key()
	if _, ok := r.entries[k]; ok {
		return domain.ErrAlreadyListed
	}
	r.entries[k] = entry.Clone()
	return nil
}

func (r *memoryRepo) Update(_ ctx.Ctx, asset domain.AssetId, patchable listing.EntryPatchable) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[asset.Key()]
	if !ok {
		return domain.ErrNotFound
	}
	if patchable.HighestBidder != nil {
		e.HighestBidder = patchable.HighestBidder.ToLower()
	}
	if patchable.HighestPrice != nil {
		e.HighestPrice = new(big.Int).Set(patchable.HighestPrice)
	}
	return nil
}

func (r *memoryRepo) Remove(_ ctx.Ctx, asset domain.AssetId) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := asset.Key()
	if _, ok := r.entries[k]; !ok {
		return domain.ErrNotFound
	}
	delete(r.entries, k)
	return nil
}
