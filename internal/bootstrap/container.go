package bootstrap

import (
	"context"
	"log"

	"workspace-disputes-be/internal/config"
	"workspace-disputes-be/internal/controller"
	"workspace-disputes-be/internal/pkg/logger"
	"workspace-disputes-be/internal/repository/memory"
	"workspace-disputes-be/internal/repository/unitofwork"
	"workspace-disputes-be/internal/service"
	pktNats "workspace-disputes-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	DisputeController controller.IDisputeController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis (stats snapshot cache; the service degrades to direct reads
	// when unreachable)
	var rdb *redis.Client
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb = redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	identityCache := memory.NewIdentityCache()

	// Services
	publisherService := service.NewPublisherService(pubSub, cfg.App.DisputeEventsTopic, sysLogger)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.DisputeEventsTopic,
		natsPub,
		sysLogger,
	)

	disputeService := service.NewDisputeService(uowFactory, publisherService, identityCache, sysLogger)
	statsService := service.NewStatsService(uowFactory, rdb, sysLogger)

	// Controllers
	disputeController := controller.NewDisputeController(disputeService, statsService)

	return &Container{
		DisputeController: disputeController,
		ConsumerService:   consumerService,
		Logger:            sysLogger,
	}
}
