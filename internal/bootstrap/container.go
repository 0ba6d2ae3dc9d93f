package bootstrap

import (
	"context"
	"log"
	"time"

	"asset-management-be/internal/config"
	"asset-management-be/internal/controller"
	"asset-management-be/internal/pkg/logger"
	"asset-management-be/internal/pkg/mailer"
	"asset-management-be/internal/pkg/serverutils"
	"asset-management-be/internal/repository/cache"
	"asset-management-be/internal/repository/contract"
	"asset-management-be/internal/repository/memory"
	"asset-management-be/internal/repository/unitofwork"
	"asset-management-be/internal/service"
	"asset-management-be/pkg/access"
	pktNats "asset-management-be/pkg/nats"
	"asset-management-be/pkg/token"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	CategoryController controller.ICategoryController
	AssetController    controller.IAssetController
	UserController     controller.IUserController
	AuthController     controller.IAuthController

	// Middleware
	AuthMiddleware fiber.Handler

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger

	pubSub  *gochannel.GoChannel
	natsPub *pktNats.Publisher
	rdb     *redis.Client
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	eventLogger := logger.NewIsolatedLogger(cfg.App.EventLogFilePath)
	policy := access.NewPolicy(sysLogger)
	tokens := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)

	var emailService mailer.IEmailService
	if cfg.SMTP.Host != "" {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.SenderName,
			sysLogger,
		)
	}

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)

	// 3. Infrastructure
	var relay service.EventRelay
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		relay = natsPub
	}

	rdb, attempts := newLoginAttempts(cfg)

	// 4. Services
	publisherService := service.NewPublisherService(cfg.App.EventsTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.App.EventsTopic, relay, eventLogger)

	categoryService := service.NewCategoryService(uowFactory, policy, publisherService, sysLogger)
	assetService := service.NewAssetService(uowFactory, policy, publisherService, sysLogger)
	userService := service.NewUserService(uowFactory, policy, publisherService, sysLogger)
	authService := service.NewAuthService(
		uowFactory,
		tokens,
		attempts,
		emailService,
		publisherService,
		sysLogger,
		service.AuthOptions{
			MaxAttempts:     cfg.Auth.LoginMaxAttempts,
			LockoutWindow:   cfg.Auth.LoginLockoutWindow,
			RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
		},
	)

	// 5. Controllers
	return &Container{
		CategoryController: controller.NewCategoryController(categoryService),
		AssetController:    controller.NewAssetController(assetService),
		UserController:     controller.NewUserController(userService),
		AuthController:     controller.NewAuthController(authService),
		AuthMiddleware:     serverutils.NewJwtMiddleware(tokens, userService),
		ConsumerService:    consumerService,
		Logger:             sysLogger,
		pubSub:             pubSub,
		natsPub:            natsPub,
		rdb:                rdb,
	}
}

// newLoginAttempts prefers redis so lockouts hold across instances, and falls
// back to process memory when redis is not reachable.
func newLoginAttempts(cfg *config.Config) (*redis.Client, contract.LoginAttemptRepository) {
	if cfg.App.RedisURL == "" {
		return nil, memory.NewLoginAttemptRepository(cfg.Auth.LoginLockoutWindow)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Login throttling stays in memory", err)
		_ = rdb.Close()
		return nil, memory.NewLoginAttemptRepository(cfg.Auth.LoginLockoutWindow)
	}
	return rdb, cache.NewLoginAttemptRepository(rdb)
}

// Close releases the event bus and broker connections.
func (c *Container) Close() {
	if c.pubSub != nil {
		_ = c.pubSub.Close()
	}
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if c.rdb != nil {
		_ = c.rdb.Close()
	}
	_ = c.Logger.Sync()
}
