package repository

import (
	"strconv"
	"sync"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/keys"
	"github.com/x-xyz/auctionhouse/domain/signedorder"
	"github.com/x-xyz/auctionhouse/service/query"
	"github.com/x-xyz/auctionhouse/service/redis"
)

type memoryNonceRepo struct {
	mu    sync.Mutex
	nonce uint64
}

func NewMemoryNonceRepo() signedorder.NonceRepo {
	return &memoryNonceRepo{}
}

func (r *memoryNonceRepo) Current(_ ctx.Ctx) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.nonce, nil
}

func (r *memoryNonceRepo) Increment(_ ctx.Ctx) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nonce++
	return r.nonce, nil
}

type redisNonceRepo struct {
	redis redis.Service
	key   string
}

// NewRedisNonceRepo keeps the nonce in one INCR counter, scope separates deployments sharing a redis
func NewRedisNonceRepo(r redis.Service, scope string) signedorder.NonceRepo {
	return &redisNonceRepo{
		redis: r,
		key:   keys.RedisKey(keys.PfxOrderNonce, scope),
	}
}

func (r *redisNonceRepo) Current(ctx ctx.Ctx) (uint64, error) {
	val, err := r.redis.Get(ctx, r.key)
	if err == redis.ErrNotFound {
		return 0, nil
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "key": r.key}).Error("redis.Get failed")
		return 0, err
	}
	return strconv.ParseUint(string(val), 10, 64)
}

func (r *redisNonceRepo) Increment(ctx ctx.Ctx) (uint64, error) {
	n, err := r.redis.Incr(ctx, r.key)
	if err != nil {
		return 0, err
	}
	return uint64(n), nil
}

type nonceDoc struct {
	Scope string `bson:"scope"`
	Nonce int64  `bson:"nonce"`
}

type mongoNonceRepo struct {
	q     query.Mongo
	scope string
}

func NewMongoNonceRepo(q query.Mongo, scope string) signedorder.NonceRepo {
	return &mongoNonceRepo{q: q, scope: scope}
}

func (r *mongoNonceRepo) Current(ctx ctx.Ctx) (uint64, error) {
	doc := nonceDoc{}
	if err := r.q.FindOne(ctx, domain.TableSignedOrderNonce, bson.M{"scope": r.scope}, &doc); err == query.ErrNotFound {
		return 0, nil
	} else if err != nil {
		ctx.WithFields(log.Fields{"err": err, "scope": r.scope}).Error("q.FindOne failed")
		return 0, err
	}
	return uint64(doc.Nonce), nil
}

func (r *mongoNonceRepo) Increment(ctx ctx.Ctx) (uint64, error) {
	doc := nonceDoc{}
	if err := r.q.Increment(ctx, domain.TableSignedOrderNonce, bson.M{"scope": r.scope}, &doc, "nonce", int64(1)); err != nil {
		ctx.WithFields(log.Fields{"err": err, "scope": r.scope}).Error("q.Increment failed")
		return 0, err
	}
	return uint64(doc.Nonce), nil
}
