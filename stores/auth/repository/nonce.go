package repository

import (
	"time"

	"github.com/coocood/freecache"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/keys"
	"github.com/x-xyz/auctionhouse/service/redis"
)

// NonceTTL is how long a login nonce stays signable
const NonceTTL = 10 * time.Minute

type redisNonceRepo struct {
	redis redis.Service
}

func NewRedisNonceRepo(r redis.Service) domain.LoginNonceRepo {
	return &redisNonceRepo{redis: r}
}

func nonceKey(address domain.Address) string {
	return keys.RedisKey(keys.PfxLoginNonce, address.ToLowerStr())
}

func (im *redisNonceRepo) Get(ctx ctx.Ctx, address domain.Address) (string, error) {
	val, err := im.redis.Get(ctx, nonceKey(address))
	if err == redis.ErrNotFound {
		return "", domain.ErrNotFound
	} else if err != nil {
		return "", err
	}
	return string(val), nil
}

func (im *redisNonceRepo) Set(ctx ctx.Ctx, address domain.Address, nonce string) error {
	return im.redis.Set(ctx, nonceKey(address), []byte(nonce), NonceTTL)
}

func (im *redisNonceRepo) Del(ctx ctx.Ctx, address domain.Address) error {
	_, err := im.redis.Del(ctx, nonceKey(address))
	return err
}

type localNonceRepo struct {
	cache *freecache.Cache
}

// NewLocalNonceRepo keeps nonces in process, sizeBytes is the cache capacity
func NewLocalNonceRepo(sizeBytes int) domain.LoginNonceRepo {
	return &localNonceRepo{cache: freecache.NewCache(sizeBytes)}
}

func (im *localNonceRepo) Get(_ ctx.Ctx, address domain.Address) (string, error) {
	val, err := im.cache.Get([]byte(nonceKey(address)))
	if err == freecache.ErrNotFound {
		return "", domain.ErrNotFound
	} else if err != nil {
		return "", err
	}
	return string(val), nil
}

func (im *localNonceRepo) Set(_ ctx.Ctx, address domain.Address, nonce string) error {
	return im.cache.Set([]byte(nonceKey(address)), []byte(nonce), int(NonceTTL.Seconds()))
}

func (im *localNonceRepo) Del(_ ctx.Ctx, address domain.Address) error {
	im.cache.Del([]byte(nonceKey(address)))
	return nil
}
