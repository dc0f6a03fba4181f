package usecase

import (
	"github.com/x-xyz/auctionhouse/base/ctx"
	hcdomain "github.com/x-xyz/auctionhouse/domain/healthcheck"
)

type impl struct {
	repo hcdomain.HealthCheckRepo
}

func New(repo hcdomain.HealthCheckRepo) hcdomain.HealthCheckUsecase {
	return &impl{
		repo: repo,
	}
}

func (im *impl) Check(ctx ctx.Ctx) error {
	if err := im.repo.PingMongo(ctx); err != nil {
		return err
	}
	return im.repo.PingRedis(ctx)
}
