package repository

import (
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/database/mongoclient"
	"github.com/x-xyz/auctionhouse/base/database/redisclient"
	"github.com/x-xyz/auctionhouse/base/metrics"
	"github.com/x-xyz/auctionhouse/domain/signedorder"
	"github.com/x-xyz/auctionhouse/service/query"
	"github.com/x-xyz/auctionhouse/service/redis"
)

func testNonceRepo(t *testing.T, repo signedorder.NonceRepo) {
	req := require.New(t)
	c := ctx.Background()

	n, err := repo.Current(c)
	req.NoError(err)
	req.Equal(uint64(0), n)

	for i := uint64(1); i <= 3; i++ {
		n, err = repo.Increment(c)
		req.NoError(err)
		req.Equal(i, n)
	}

	n, err = repo.Current(c)
	req.NoError(err)
	req.Equal(uint64(3), n)
}

func TestMemoryNonceRepo(t *testing.T) {
	testNonceRepo(t, NewMemoryNonceRepo())
}

func TestRedisNonceRepo(t *testing.T) {
	uri := os.Getenv("REDIS_URI")
	if uri == "" {
		t.Skip("REDIS_URI not set")
	}
	pool := redisclient.MustConnectRedis(uri, os.Getenv("REDIS_PASSWORD"))
	r := redis.New("test", metrics.New("redis"), pool)
	testNonceRepo(t, NewRedisNonceRepo(r, uuid.NewString()))
}

func TestMongoNonceRepo(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	client := mongoclient.MustConnectMongoClient(uri, "auctionhouse_test", 1)
	testNonceRepo(t, NewMongoNonceRepo(query.New(client, metrics.New("query")), uuid.NewString()))
}
