package main

import (
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/base/database/mongoclient"
	"github.com/x-xyz/auctionhouse/base/database/redisclient"
	"github.com/x-xyz/auctionhouse/base/env"
	"github.com/x-xyz/auctionhouse/base/goroutine"
	"github.com/x-xyz/auctionhouse/base/log"
	"github.com/x-xyz/auctionhouse/base/metrics"
	bValidator "github.com/x-xyz/auctionhouse/base/validator"
	"github.com/x-xyz/auctionhouse/domain"
	"github.com/x-xyz/auctionhouse/domain/listing"
	"github.com/x-xyz/auctionhouse/domain/signedorder"
	mmiddleware "github.com/x-xyz/auctionhouse/middleware"
	"github.com/x-xyz/auctionhouse/service/query"
	"github.com/x-xyz/auctionhouse/service/redis"
	auth_delivery "github.com/x-xyz/auctionhouse/stores/auth/delivery/http"
	auth_middleware "github.com/x-xyz/auctionhouse/stores/auth/delivery/http/middleware"
	auth_repository "github.com/x-xyz/auctionhouse/stores/auth/repository"
	auth_usecase "github.com/x-xyz/auctionhouse/stores/auth/usecase"
	"github.com/x-xyz/auctionhouse/stores/custody/ledger"
	hc_delivery "github.com/x-xyz/auctionhouse/stores/healthcheck/delivery/http"
	hc_repo "github.com/x-xyz/auctionhouse/stores/healthcheck/repository"
	hc_usecase "github.com/x-xyz/auctionhouse/stores/healthcheck/usecase"
	listing_delivery "github.com/x-xyz/auctionhouse/stores/listing/delivery/http"
	listing_repository "github.com/x-xyz/auctionhouse/stores/listing/repository"
	listing_usecase "github.com/x-xyz/auctionhouse/stores/listing/usecase"
	notify_usecase "github.com/x-xyz/auctionhouse/stores/notify/usecase"
	ownership_usecase "github.com/x-xyz/auctionhouse/stores/ownership/usecase"
	pause_delivery "github.com/x-xyz/auctionhouse/stores/pause/delivery/http"
	pause_usecase "github.com/x-xyz/auctionhouse/stores/pause/usecase"
	settlement_usecase "github.com/x-xyz/auctionhouse/stores/settlement/usecase"
	signedorder_delivery "github.com/x-xyz/auctionhouse/stores/signedorder/delivery/http"
	signedorder_repository "github.com/x-xyz/auctionhouse/stores/signedorder/repository"
	signedorder_usecase "github.com/x-xyz/auctionhouse/stores/signedorder/usecase"
)

const localNonceCacheSize = 16 * 1024 * 1024

func init() {
	configPath := pflag.String("config", env.ConfigPath("infra/configs/config.yaml"), "path of the yaml config")
	pflag.Parse()
	_ = viper.BindPFlags(pflag.CommandLine)

	viper.SetConfigType("yaml")
	viper.SetConfigFile(*configPath)
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		panic(err)
	}

	log.SetDebug(viper.GetBool("debug"))
	if viper.GetBool("debug") {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func mustAddress(key string) domain.Address {
	a := viper.GetString(key)
	if !common.IsHexAddress(a) {
		log.Log().WithFields(log.Fields{"key": key, "value": a}).Panic("invalid address in config")
	}
	return domain.Address(a).ToLower()
}

func main() {
	defer log.Sync()

	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.AddContext())
	e.Use(middL.ResponseLogger())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(bValidator.New())

	context := ctx.Background()

	registryBackend := viper.GetString("registry.backend")
	nonceBackend := viper.GetString("nonce.backend")
	notifyChannel := viper.GetString("notify.redis.channel")

	// init mongo client
	var mongoClient *mongoclient.Client
	var q query.Mongo
	if registryBackend == "mongo" || nonceBackend == "mongo" {
		context.Info("init mongo")
		mongoClient = mongoclient.MustConnectMongoClient(
			viper.GetString("mongo.uri"),
			viper.GetString("mongo.dbName"),
			viper.GetFloat64("mongo.poolMultiplier"),
		)
		q = query.New(mongoClient, metrics.New("mongo"))
	}

	// init redis service
	var redisCache redis.Service
	if viper.GetString("redis.uri") != "" {
		context.Info("init redis")
		redisName := viper.GetString("redis.name")
		pool := redisclient.MustConnectRedis(viper.GetString("redis.uri"), viper.GetString("redis.password"), redisclient.RedisParam{
			PoolMultiplier: viper.GetFloat64("redis.poolMultiplier"),
			Retry:          true,
		})
		redisCache = redis.New(redisName, metrics.New(redisName), pool)
	} else if nonceBackend == "redis" || notifyChannel != "" {
		context.Panic("redis.uri is required by nonce.backend or notify.redis.channel")
	}

	// marketplace
	marketplace := mustAddress("marketplace.address")
	feeRecipient := mustAddress("marketplace.feeRecipient")
	trustedSigner := mustAddress("marketplace.trustedSigner")
	feeRate, err := listing.ToFeeRate(viper.GetInt64("marketplace.feeRateBasisPoints"))
	if err != nil {
		context.WithField("feeRate", viper.GetInt64("marketplace.feeRateBasisPoints")).Panic("invalid marketplace.feeRateBasisPoints")
	}
	payTokens := domain.PayTokens{}
	if err := viper.UnmarshalKey("marketplace.payTokens", &payTokens); err != nil {
		context.WithField("err", err).Panic("invalid marketplace.payTokens")
	}

	adminAddresses := []domain.Address{}
	for _, a := range viper.GetStringSlice("admin.addresses") {
		adminAddresses = append(adminAddresses, domain.Address(a).ToLower())
	}

	// custody
	assets := ledger.NewAssets(marketplace)
	payments := ledger.NewPayments(marketplace)
	seedLedgers(assets, payments)

	// notify
	sinks := []domain.EventSink{notify_usecase.NewLogSink()}
	if notifyChannel != "" {
		sinks = append(sinks, notify_usecase.NewRedisSink(redisCache, notifyChannel))
	}
	if botKey := viper.GetString("notify.discord.botKey"); botKey != "" {
		discord, err := notify_usecase.NewDiscordSink(botKey, viper.GetString("notify.discord.channelId"), payTokens)
		if err != nil {
			context.WithField("err", err).Panic("failed to init discord sink")
		}
		sinks = append(sinks, discord)
	}
	dispatcher := notify_usecase.New(&notify_usecase.DispatcherCfg{
		Sinks:   sinks,
		Workers: viper.GetInt("notify.workers"),
	})
	defer dispatcher.Close()

	// repositories
	var registry listing.Repo
	switch registryBackend {
	case "mongo":
		if registry, err = listing_repository.NewMongoRepo(context, q); err != nil {
			context.WithField("err", err).Panic("failed to init mongo registry")
		}
	case "memory", "":
		registry = listing_repository.NewMemoryRepo()
	default:
		context.WithField("backend", registryBackend).Panic("unknown registry.backend")
	}

	scope := viper.GetString("nonce.scope")
	var nonceRepo signedorder.NonceRepo
	switch nonceBackend {
	case "mongo":
		nonceRepo = signedorder_repository.NewMongoNonceRepo(q, scope)
	case "redis":
		nonceRepo = signedorder_repository.NewRedisNonceRepo(redisCache, scope)
	case "memory", "":
		nonceRepo = signedorder_repository.NewMemoryNonceRepo()
	default:
		context.WithField("backend", nonceBackend).Panic("unknown nonce.backend")
	}

	var loginNonceRepo domain.LoginNonceRepo
	if redisCache != nil {
		loginNonceRepo = auth_repository.NewRedisNonceRepo(redisCache)
	} else {
		loginNonceRepo = auth_repository.NewLocalNonceRepo(localNonceCacheSize)
	}

	// usecases
	engineLock := &sync.Mutex{}
	gate := pause_usecase.New(adminAddresses)
	verifier := ownership_usecase.New(assets)
	swapper := settlement_usecase.New(&settlement_usecase.SettlementUseCaseCfg{
		Marketplace:    marketplace,
		FeeRecipient:   feeRecipient,
		Assets:         assets,
		Payments:       payments,
		Verifier:       verifier,
		PayoutAttempts: viper.GetInt("marketplace.payoutAttempts"),
		PayoutBackoff:  viper.GetDuration("marketplace.payoutBackoff"),
	})

	listingUC := listing_usecase.NewGated(listing_usecase.New(&listing_usecase.ListingUseCaseCfg{
		Repo:      registry,
		Verifier:  verifier,
		Swapper:   swapper,
		Notifier:  dispatcher,
		PayTokens: payTokens,
		FeeRate:   feeRate,
		Lock:      engineLock,
	}), gate)

	signedOrderUC := signedorder_usecase.NewGated(signedorder_usecase.New(&signedorder_usecase.SignedOrderUseCaseCfg{
		TrustedSigner: trustedSigner,
		NonceRepo:     nonceRepo,
		Swapper:       swapper,
		Notifier:      dispatcher,
		Lock:          engineLock,
	}), gate)

	signatureMsg := viper.GetString("auth.signatureMsg")
	auth := auth_usecase.New(&auth_usecase.AuthUseCaseCfg{
		JwtSecret:          viper.GetString("auth.jwtSecret"),
		SigningMsgTemplate: signatureMsg,
		NonceRepo:          loginNonceRepo,
	})
	authMiddleware := auth_middleware.New(auth, adminAddresses)

	hc := hc_usecase.New(hc_repo.New(mongoClient, redisCache))

	hc_delivery.New(e, hc)
	auth_delivery.New(e, auth, signatureMsg)
	listing_delivery.New(e, listingUC, payTokens, authMiddleware)
	signedorder_delivery.New(e, signedOrderUC)
	pause_delivery.New(e, gate, authMiddleware)

	context.WithFields(log.Fields{
		"marketplace": marketplace,
		"feeRate":     feeRate,
		"registry":    registryBackend,
		"nonce":       nonceBackend,
		"sinks":       len(sinks),
	}).Info("auction house ready")

	serverDone := goroutine.RecoverableGo(func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	})

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	select {
	case sig := <-quit:
		log.Log().WithField("signal", sig).Info("received signal")
	case pe := <-serverDone:
		if pe != nil {
			log.Log().WithField("panic", pe.Panic).Error("server goroutine panicked")
		}
	}

	sctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
	if mongoClient != nil {
		_ = mongoClient.Disconnect(sctx)
	}
}
