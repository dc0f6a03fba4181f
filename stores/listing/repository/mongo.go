package repository

import (
	"math/big"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/database/mongoclient"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/base/ptr"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/listing"
	"github.com/x-xyz/auctionhouse/service/query"
)

// entryDoc stores prices as decimal strings, bson has no 128 bit integer
type entryDoc struct {
	Collection    domain.Address `bson:"collection"`
	TokenId       domain.TokenId `bson:"tokenId"`
	Seller        domain.Address `bson:"seller"`
	StartingPrice string         `bson:"startingPrice"`
	PaymentToken  domain.Address `bson:"paymentToken"`
	Duration      int64          `bson:"duration"`
	StartedAt     int64          `bson:"startedAt"`
	HighestBidder domain.Address `bson:"highestBidder"`
	HighestPrice  string         `bson:"highestPrice"`
	IsAuction     bool           `bson:"isAuction"`
}

type entryDocPatchable struct {
	HighestBidder *domain.Address `bson:"highestBidder,omitempty"`
	HighestPrice  *string         `bson:"highestPrice,omitempty"`
}

// bson only has signed 64 bit integers, uint64 is stored bit for bit
func toDoc(e *listing.Entry) *entryDoc {
	return &entryDoc{
		Collection:    e.Asset.Collection.ToLower(),
		TokenId:       e.Asset.TokenId,
		Seller:        e.Seller.ToLower(),
		StartingPrice: e.StartingPrice.String(),
		PaymentToken:  e.PaymentToken.ToLower(),
		Duration:      int64(e.Duration),
		StartedAt:     int64(e.StartedAt),
		HighestBidder: e.HighestBidder.ToLower(),
		HighestPrice:  e.HighestPrice.String(),
		IsAuction:     e.IsAuction,
	}
}

func (d *entryDoc) toEntry() (*listing.Entry, error) {
	startingPrice, ok := new(big.Int).SetString(d.StartingPrice, 10)
	if !ok {
		return nil, domain.ErrInvalidNumberFormat
	}
	highestPrice, ok := new(big.Int).SetString(d.HighestPrice, 10)
	if !ok {
		return nil, domain.ErrInvalidNumberFormat
	}
	return &listing.Entry{
		Asset:         domain.NewAssetId(d.Collection, d.TokenId),
		Seller:        d.Seller,
		StartingPrice: startingPrice,
		PaymentToken:  d.PaymentToken,
		Duration:      uint64(d.Duration),
		StartedAt:     uint64(d.StartedAt),
		HighestBidder: d.HighestBidder,
		HighestPrice:  highestPrice,
		IsAuction:     d.IsAuction,
	}, nil
}

func assetSelector(asset domain.AssetId) bson.M {
	return bson.M{
		"collection": asset.Collection.ToLower(),
		"tokenId":    asset.TokenId,
	}
}

type mongoRepo struct {
	q query.Mongo
}

// NewMongoRepo creates the unique (collection, tokenId) index the registry relies on
func NewMongoRepo(ctx ctx.Ctx, q query.Mongo) (listing.Repo, error) {
	if err := q.EnsureIndexes(ctx, domain.TableListings,
		query.Index{Keys: []string{"collection", "tokenId"}, Unique: true},
		query.Index{Keys: []string{"seller", "-startedAt"}},
	); err != nil {
		return nil, err
	}
	return &mongoRepo{q: q}, nil
}

func (r *mongoRepo) FindOne(ctx ctx.Ctx, asset domain.AssetId) (*listing.Entry, error) {
	doc := &entryDoc{}
	if err := r.q.FindOne(ctx, domain.TableListings, assetSelector(asset), doc); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "asset": asset}).Error("q.FindOne failed")
		return nil, err
	}
	return doc.toEntry()
}

func (r *mongoRepo) FindAll(ctx ctx.Ctx, opts ...listing.FindAllOptionsFunc) ([]*listing.Entry, error) {
	o, err := listing.GetFindAllOptions(opts...)
	if err != nil {
		return nil, err
	}

	qry := bson.M{}
	if o.Seller != nil {
		qry["seller"] = *o.Seller
	}
	if o.Collection != nil {
		qry["collection"] = *o.Collection
	}
	if o.IsAuction != nil {
		qry["isAuction"] = *o.IsAuction
	}
	offset := int(ptr.Int32Value(o.Offset, 0))
	limit := int(ptr.Int32Value(o.Limit, 0))

	docs := []entryDoc{}
	if err := r.q.Search(ctx, domain.TableListings, offset, limit, "-startedAt", qry, &docs); err != nil {
		ctx.WithFields(log.Fields{"err": err, "query": qry}).Error("q.Search failed")
		return nil, err
	}

	res := make([]*listing.Entry, 0, len(docs))
	for i := range docs {
		e, err := docs[i].toEntry()
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, nil
}

func (r *mongoRepo) Insert(ctx ctx.Ctx, entry *listing.Entry) error {
	if err := r.q.Insert(ctx, domain.TableListings, toDoc(entry)); err == query.ErrDuplicateKey {
		return domain.ErrAlreadyListed
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "asset": entry.Asset}).Error("q.Insert failed")
		return err
	}
	return nil
}

func (r *mongoRepo) Update(ctx ctx.Ctx, asset domain.AssetId, patchable listing.EntryPatchable) error {
	p := entryDocPatchable{}
	if patchable.HighestBidder != nil {
		b := patchable.HighestBidder.ToLower()
		p.HighestBidder = &b
	}
	if patchable.HighestPrice != nil {
		s := patchable.HighestPrice.String()
		p.HighestPrice = &s
	}
	updater, err := mongoclient.MakeBsonM(p)
	if err != nil {
		return err
	}
	if len(updater) == 0 {
		return nil
	}
	if err := r.q.Patch(ctx, domain.TableListings, assetSelector(asset), updater); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "asset": asset}).Error("q.Patch failed")
		return err
	}
	return nil
}

func (r *mongoRepo) Remove(ctx ctx.Ctx, asset domain.AssetId) error {
	if err := r.q.Remove(ctx, domain.TableListings, assetSelector(asset)); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "asset": asset}).Error("q.Remove failed")
		return err
	}
	return nil
}
