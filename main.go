package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/caesariomj/jogjaelectrik-sub000/authz"
	"github.com/caesariomj/jogjaelectrik-sub000/controllers"
	"github.com/caesariomj/jogjaelectrik-sub000/database"
	"github.com/caesariomj/jogjaelectrik-sub000/kafka"
	"github.com/caesariomj/jogjaelectrik-sub000/middleware"
	"github.com/caesariomj/jogjaelectrik-sub000/models"
	"github.com/caesariomj/jogjaelectrik-sub000/pii"
	aws_pkg "github.com/caesariomj/jogjaelectrik-sub000/pkg/aws"
	"github.com/caesariomj/jogjaelectrik-sub000/providers"
	"github.com/caesariomj/jogjaelectrik-sub000/repository"
	"github.com/caesariomj/jogjaelectrik-sub000/routes"
	"github.com/caesariomj/jogjaelectrik-sub000/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	cfg, err := LoadConfig()
	if err != nil {
		logger.Fatal("Config load failed", zap.Error(err))
	}

	// --- Database ---
	pgCfg := database.PostgresConfig{
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		User:     cfg.PostgresUser,
		Password: cfg.PostgresPassword,
		DBName:   cfg.PostgresDB,
		SSLMode:  cfg.PostgresSSLMode,
		TimeZone: cfg.PostgresTimeZone,
	}
	if err := database.Connect(pgCfg, logger,
		&models.ProductVariant{},
		&models.Cart{},
		&models.CartItem{},
		&models.Discount{},
		&models.DiscountUsage{},
		&models.Order{},
		&models.OrderDetail{},
		&models.Payment{},
		&models.Refund{},
		&models.Review{},
		&models.ShippingProfile{},
	); err != nil {
		logger.Fatal("DB connection failed", zap.Error(err))
	}

	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		logger.Fatal("Redis connection failed", zap.Error(err))
	}

	// --- AWS setup (non-fatal for local runs) ---
	var snsClient aws_pkg.SNSPublisher
	if awsCfg, err := aws_pkg.LoadAWSConfig(context.Background()); err == nil {
		snsClient = aws_pkg.NewSNSClient(awsCfg)
	} else {
		logger.Warn("AWS config load failed, SNS publishing disabled", zap.Error(err))
	}
	metricsClient, err := aws_pkg.NewMetricsClient(context.Background())
	if err != nil {
		logger.Warn("CloudWatch metrics client init failed (non-fatal)", zap.Error(err))
	}

	// --- Kafka ---
	var producer kafka.ProducerAPI
	if cfg.KafkaBrokers != "" {
		p := kafka.NewProducer(strings.Split(cfg.KafkaBrokers, ","), cfg.OrderEventTopic)
		defer p.Close()
		producer = p
	} else {
		logger.Warn("KAFKA_BROKERS not set, order events disabled")
	}

	// --- Providers ---
	courierGateway := providers.NewRajaOngkirGateway(cfg.RajaOngkirBaseURL, cfg.RajaOngkirAPIKey, cfg.OriginCityID)
	paymentGateway := providers.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.StripeSuccessURL, cfg.StripeCancelURL, cfg.StripeCurrency)

	codec, err := pii.NewCodec(cfg.PIIKey)
	if err != nil {
		logger.Fatal("PII codec init failed", zap.Error(err))
	}

	// --- HTTP router ---
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.CORSAllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.Metrics(metricsClient, "storefront"))
	r.Use(middleware.RequestLogger(logger))

	// Request timeout middleware
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// --- Dependency injection ---
	policy := authz.NewRolePolicy()

	variantRepo := repository.NewGormVariantRepository(database.DB)
	cartRepo := repository.NewGormCartRepository(database.DB)
	discountRepo := repository.NewGormDiscountRepository(database.DB)
	checkoutRepo := repository.NewGormCheckoutRepository(database.DB)
	orderRepo := repository.NewGormOrderRepository(database.DB)
	paymentRepo := repository.NewGormPaymentRepository(database.DB)
	rateCache := repository.NewRedisRateCache(redisClient, 15*time.Minute)

	discountService := services.NewDiscountService(discountRepo, logger)
	cartService := services.NewCartService(cartRepo, variantRepo, discountService, logger)
	shippingService := services.NewShippingService(courierGateway, rateCache, logger)
	checkoutService := services.NewCheckoutService(
		cartRepo, variantRepo, checkoutRepo, discountRepo,
		shippingService, paymentGateway, policy, codec,
		producer, snsClient, cfg.OrderSNSTopicARN, metricsClient, logger,
	)
	orderService := services.NewOrderService(
		orderRepo, paymentRepo, paymentGateway, policy,
		producer, snsClient, cfg.OrderSNSTopicARN, metricsClient, logger,
	)
	invoiceService := services.NewInvoiceService(orderService, logger)

	routes.Register(r, routes.Controllers{
		Cart:     controllers.NewCartController(cartService),
		Discount: controllers.NewDiscountController(discountService),
		Shipping: controllers.NewShippingController(shippingService, cartService),
		Checkout: controllers.NewCheckoutController(checkoutService),
		Order:    controllers.NewOrderController(orderService, invoiceService),
		Payment:  controllers.NewPaymentController(orderService, paymentGateway, logger),
	}, []byte(cfg.JWTSecret))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": "storefront"})
	})

	// --- HTTP server ---
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	go func() {
		logger.Info("Storefront started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Initiating graceful shutdown...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}
	if err := redisClient.Close(); err != nil {
		logger.Error("Redis close error", zap.Error(err))
	}
	if err := database.Close(); err != nil {
		logger.Error("Database close error", zap.Error(err))
	}

	logger.Info("Storefront stopped gracefully")
}
