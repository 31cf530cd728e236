package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/checkout-system/checkout-orchestrator/internal/api"
	"github.com/checkout-system/checkout-orchestrator/internal/config"
	"github.com/checkout-system/checkout-orchestrator/internal/currency"
	"github.com/checkout-system/checkout-orchestrator/internal/events"
	"github.com/checkout-system/checkout-orchestrator/internal/gateway"
	"github.com/checkout-system/checkout-orchestrator/internal/handlers"
	"github.com/checkout-system/checkout-orchestrator/internal/interfaces"
	"github.com/checkout-system/checkout-orchestrator/internal/localization"
	"github.com/checkout-system/checkout-orchestrator/internal/models"
	"github.com/checkout-system/checkout-orchestrator/internal/repository"
	"github.com/checkout-system/checkout-orchestrator/internal/security"
	"github.com/checkout-system/checkout-orchestrator/internal/service"
	"github.com/checkout-system/checkout-orchestrator/internal/telemetry"
)

func main() {
	cfg := config.Load()

	if err := telemetry.Init("checkout-orchestrator"); err != nil {
		panic(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	}
	defer telemetry.Shutdown(context.Background())

	telemetry.Logger.Info("Starting Checkout Orchestrator")

	// Redis backs the submission guard and the exchange-rate cache.
	// Without it the in-process fallbacks keep the checkout running.
	var redisClient *redis.Client
	var locker interfaces.Locker = repository.NewMemoryLocker()
	if cfg.RedisURL != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
		locker = repository.NewRedisLocker(redisClient)
	} else {
		telemetry.Logger.Warn("REDIS_URL not set, using in-process submission guard")
	}

	var publisher interfaces.EventPublisher = events.NopPublisher{}
	if cfg.KafkaBrokers != "" {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers, "checkout.state.changed")
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	} else {
		telemetry.Logger.Warn("KAFKA_BROKERS not set, state change events disabled")
	}

	var sink security.AlertSink = security.NopSink{}
	if cfg.NatsURL != "" {
		nc, err := nats.Connect(cfg.NatsURL)
		if err != nil {
			telemetry.Logger.Warn("Failed to connect to NATS, alert broadcast disabled", zap.Error(err))
		} else {
			defer nc.Close()
			sink = security.NewNATSSink(nc)
		}
	}

	product := models.DefaultProduct()
	product.BaseCurrency = cfg.BaseCurrency

	converter := currency.NewConverter(cfg.BaseCurrency, cfg.ExchangeServiceURL, redisClient)
	geo := localization.NewHTTPGeoClient(cfg.GeoServiceURL)
	resolver := localization.NewResolver(geo, converter, cfg.BaseCurrency, cfg.DefaultLocale)
	gw := gateway.NewHTTPClient(cfg.GatewayAPIURL, cfg.GatewayPublishableKey)
	orders := service.NewOrderClient(cfg.APIBaseURL)

	orchestrator := service.NewOrchestrator(
		repository.NewSessionRepository(),
		locker,
		publisher,
		gw,
		resolver,
		orders,
		product,
	)

	// Alert broker and monitor; countermeasures ship disabled and are
	// enabled per flag over the security config endpoint.
	broker := security.NewBroker(security.DebounceWindow, sink)
	defer broker.Close()

	console := security.NewConsole(
		func(msg string) { telemetry.Logger.Info(msg) },
		func(msg string) { telemetry.Logger.Warn(msg) },
		func(msg string) { telemetry.Logger.Error(msg) },
	)
	monitor := security.NewMonitor(broker, console, security.NewReportedViewport(), func() {}, nil)
	monitor.Configure(models.DefaultSecurityConfig())
	defer monitor.Teardown()

	checkoutHandler := handlers.NewCheckoutHandler(orchestrator, resolver, product)
	securityHandler := handlers.NewSecurityHandler(monitor, broker)

	r := api.NewRouter(checkoutHandler, securityHandler)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		telemetry.Logger.Info("Checkout Orchestrator starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			telemetry.Logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	telemetry.Logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		telemetry.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	telemetry.Logger.Info("Server exited")
}
