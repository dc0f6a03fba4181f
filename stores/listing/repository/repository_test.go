package repository

import (
	"math/big"
	"os"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/database/mongoclient"
	"github.com/x-xyz/auctionhouse/base/metrics"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/listing"
	"github.com/x-xyz/auctionhouse/service/query"
)

const (
	collection = domain.Address("0x00000000000000000000000000000000000000c1")
	alice      = domain.Address("0x0000000000000000000000000000000000000A11")
	bob        = domain.Address("0x0000000000000000000000000000000000000b0b")
)

type repoSuite struct {
	suite.Suite
	ctx     ctx.Ctx
	newRepo func() listing.Repo
	repo    listing.Repo
}

func TestMemoryRepo(t *testing.T) {
	suite.Run(t, &repoSuite{newRepo: NewMemoryRepo})
}

func TestMongoRepo(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	client := mongoclient.MustConnectMongoClient(uri, "auctionhouse_test", 1)
	q := query.New(client, metrics.New("query"))

	suite.Run(t, &repoSuite{newRepo: func() listing.Repo {
		c := ctx.Background()
		if err := client.Database(client.DbName).Collection(string(domain.TableListings)).Drop(c); err != nil {
			t.Fatal(err)
		}
		repo, err := NewMongoRepo(c, q)
		if err != nil {
			t.Fatal(err)
		}
		return repo
	}})
}

func (s *repoSuite) SetupTest() {
	s.ctx = ctx.Background()
	s.repo = s.newRepo()
}

func entry(tokenId domain.TokenId, seller domain.Address, startedAt uint64, isAuction bool) *listing.Entry {
	return &listing.Entry{
		Asset:         domain.NewAssetId(collection, tokenId),
		Seller:        seller.ToLower(),
		StartingPrice: big.NewInt(1000),
		PaymentToken:  "0x00000000000000000000000000000000000000e2",
		Duration:      60,
		StartedAt:     startedAt,
		HighestPrice:  big.NewInt(1000),
		IsAuction:     isAuction,
	}
}

func (s *repoSuite) TestInsertFindRemove() {
	e := entry("1", alice, 100, true)
	s.Require().NoError(s.repo.Insert(s.ctx, e))
	s.Equal(domain.ErrAlreadyListed, s.repo.Insert(s.ctx, entry("1", bob, 200, false)))

	got, err := s.repo.FindOne(s.ctx, domain.NewAssetId("0x00000000000000000000000000000000000000C1", "1"))
	s.Require().NoError(err)
	s.Equal(alice.ToLower(), got.Seller)
	s.Equal("1000", got.HighestPrice.String())
	s.True(got.IsAuction)
	s.False(got.HasBid())

	s.Require().NoError(s.repo.Remove(s.ctx, e.Asset))
	_, err = s.repo.FindOne(s.ctx, e.Asset)
	s.Equal(domain.ErrNotFound, err)
	s.Equal(domain.ErrNotFound, s.repo.Remove(s.ctx, e.Asset))
}

func (s *repoSuite) TestUpdate() {
	e := entry("2", alice, 100, true)
	s.Require().NoError(s.repo.Insert(s.ctx, e))
	bidder := bob

	// large prices survive the round trip
	price, _ := new(big.Int).SetString("340282366920938463463374607431768211455", 10)
	s.Require().NoError(s.repo.Update(s.ctx, e.Asset, listing.EntryPatchable{
		HighestBidder: &bidder,
		HighestPrice:  price,
	}))

	got, err := s.repo.FindOne(s.ctx, e.Asset)
	s.Require().NoError(err)
	s.Equal(bob, got.HighestBidder)
	s.Equal(0, price.Cmp(got.HighestPrice))
	s.Equal("1000", got.StartingPrice.String())

	s.Equal(domain.ErrNotFound, s.repo.Update(s.ctx, domain.NewAssetId(collection, "404"), listing.EntryPatchable{HighestBidder: &bidder}))
}

func (s *repoSuite) TestFindAll() {
	s.Require().NoError(s.repo.Insert(s.ctx, entry("1", alice, 100, true)))
	s.Require().NoError(s.repo.Insert(s.ctx, entry("2", alice, 300, false)))
	s.Require().NoError(s.repo.Insert(s.ctx, entry("3", bob, 200, true)))

	all, err := s.repo.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal(domain.TokenId("2"), all[0].Asset.TokenId)
	s.Equal(domain.TokenId("3"), all[1].Asset.TokenId)

	mine, err := s.repo.FindAll(s.ctx, listing.WithSeller(alice))
	s.Require().NoError(err)
	s.Len(mine, 2)

	auctions, err := s.repo.FindAll(s.ctx, listing.WithIsAuction(true), listing.WithCollection(collection))
	s.Require().NoError(err)
	s.Len(auctions, 2)

	page, err := s.repo.FindAll(s.ctx, listing.WithPagination(1, 1))
	s.Require().NoError(err)
	s.Require().Len(page, 1)
	s.Equal(domain.TokenId("3"), page[0].Asset.TokenId)
}
