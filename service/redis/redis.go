package redis

import (
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/x-xyz/auctionhouse/base/ctx"
)

// Forever is the expire value for keys that never expire
const Forever time.Duration = -1

// Service is the redis surface the stores depend on
type Service interface {
	Get(ctx ctx.Ctx, key string) ([]byte, error)
	Set(ctx ctx.Ctx, key string, val []byte, expire time.Duration) error
	Del(ctx ctx.Ctx, keys ...string) (int, error)
	Exists(ctx ctx.Ctx, key string) (bool, error)
	Incr(ctx ctx.Ctx, key string) (int64, error)
	Publish(ctx ctx.Ctx, channel string, payload []byte) (int, error)
	GetConn() (redis.Conn, error)
	Name() string
}
