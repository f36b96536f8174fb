package bootstrap

import (
	"context"
	"log"
	"os"
	"time"

	"jaspel-be/internal/config"
	"jaspel-be/internal/constant"
	"jaspel-be/internal/controller"
	"jaspel-be/internal/pkg/logger"
	"jaspel-be/internal/repository/unitofwork"
	"jaspel-be/internal/service"
	"jaspel-be/pkg/cache"
	"jaspel-be/pkg/metrics"
	pktNats "jaspel-be/pkg/nats"
	"jaspel-be/pkg/ratelimit"
	"jaspel-be/pkg/usage"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	JaspelController     controller.IJaspelController
	ValidationController controller.IValidationController
	FlowController       controller.IFlowController
	OperationsController controller.IOperationsController
	HealthController     controller.IHealthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	NatsSubscriber  *pktNats.Subscriber

	Logger    logger.ILogger
	closeFunc []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	usageLogger := logger.NewIsolatedLogger(cfg.App.UsageLogFilePath)
	jaspelCfg := cfg.Jaspel

	c := &Container{Logger: sysLogger}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Infrastructure
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		var err error
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			c.closeFunc = append(c.closeFunc, natsPub.Close)
		}
		c.NatsSubscriber, err = pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		} else {
			c.closeFunc = append(c.closeFunc, c.NatsSubscriber.Close)
		}
	}

	store, limiter := newCacheBackends(cfg, sysLogger)

	// 4. Services
	tracker := usage.NewTracker(usageLogger, store, jaspelCfg.UsageRetention)
	guard := service.NewGuard(limiter, store, tracker, jaspelCfg, sysLogger)
	publisherService := service.NewPublisherService(pubSub)

	var forwarder service.EventForwarder
	if natsPub != nil {
		forwarder = natsPub
	}
	c.ConsumerService = service.NewConsumerService(pubSub, guard, forwarder, sysLogger)

	aggregationService := service.NewJaspelAggregationService(uowFactory, publisherService, jaspelCfg, sysLogger)
	validationService := service.NewJaspelValidationService(uowFactory, aggregationService, publisherService, jaspelCfg, sysLogger)
	flowService := service.NewFlowComplianceService(uowFactory, jaspelCfg, sysLogger)
	exportService := service.NewExportService(aggregationService, publisherService, sysLogger)
	healthService := service.NewHealthService(uowFactory, store, jaspelCfg, sysLogger)

	// 5. Controllers
	c.JaspelController = controller.NewJaspelController(aggregationService, guard)
	c.ValidationController = controller.NewValidationController(validationService, guard)
	c.FlowController = controller.NewFlowController(flowService, guard)
	c.OperationsController = controller.NewOperationsController(exportService, guard, tracker)
	c.HealthController = controller.NewHealthController(healthService)

	return c
}

// newCacheBackends picks Redis or process memory for the cache and the
// rate limiter. Redis is only used when it answers a ping at startup.
func newCacheBackends(cfg *config.Config, sysLogger logger.ILogger) (cache.Store, ratelimit.Limiter) {
	jaspelCfg := cfg.Jaspel
	if jaspelCfg.CacheDriver == "redis" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_, err = rdb.Ping(ctx).Result()
		if err == nil {
			settings := cache.DefaultBreakerSettings()
			settings.OnStateChange = func(name string, from, to gobreaker.State) {
				metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
				sysLogger.Warn(constant.ModuleGuard, "Redis circuit breaker changed state", map[string]interface{}{
					"breaker": name,
					"from":    from.String(),
					"to":      to.String(),
				})
			}
			return cache.NewRedisStore(rdb, settings), ratelimit.NewRedisLimiter(rdb, jaspelCfg.RateLimitWindow)
		}
		log.Printf("[WARN] Failed to connect to Redis: %v. Falling back to memory cache", err)
		_ = rdb.Close()
	}

	return cache.NewMemoryStore(jaspelCfg.ReportTTL, 10*time.Minute), ratelimit.NewMemoryLimiter(jaspelCfg.RateLimitWindow)
}

// StartBackground runs the in-process consumer and, when a broker is
// connected, the durable subscriptions that keep this instance's cache fresh.
func (c *Container) StartBackground(ctx context.Context) error {
	if err := c.ConsumerService.Consume(ctx); err != nil {
		return err
	}
	if c.NatsSubscriber == nil {
		return nil
	}

	host, _ := os.Hostname()
	for _, subject := range []string{constant.TopicJaspelStatusUpdated, constant.TopicJaspelEntriesChanged} {
		durable := "jaspel-cache-" + sanitizeDurable(host) + "-" + sanitizeDurable(subject)
		if err := c.NatsSubscriber.Subscribe(ctx, subject, durable, c.ConsumerService.HandleBrokerEvent); err != nil {
			c.Logger.Warn(constant.ModuleEvents, "Broker subscription failed", map[string]interface{}{
				"subject": subject,
				"error":   err.Error(),
			})
		}
	}
	return nil
}

// durable names may not contain '.', '*', '>' or whitespace.
func sanitizeDurable(s string) string {
	out := []rune(s)
	for i, r := range out {
		switch r {
		case '.', '*', '>', ' ', '\t':
			out[i] = '_'
		}
	}
	return string(out)
}

func (c *Container) Close() {
	for i := len(c.closeFunc) - 1; i >= 0; i-- {
		c.closeFunc[i]()
	}
	_ = c.Logger.Sync()
}
