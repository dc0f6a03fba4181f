package healthcheck

import (
	"github.com/x-xyz/auctionhouse/base/ctx"
)

// HealthCheckUsecase represents the healthCheck's usecases
type HealthCheckUsecase interface {
	Check(ctx ctx.Ctx) error
}

// HealthCheckRepo pings the backing stores that are configured
type HealthCheckRepo interface {
	PingMongo(ctx ctx.Ctx) error
	PingRedis(ctx ctx.Ctx) error
}
