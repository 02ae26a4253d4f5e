package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"order-loom/internal/config"
	"order-loom/internal/controller"
	"order-loom/internal/logger"
	"order-loom/internal/middleware"
	"order-loom/internal/model"
	"order-loom/internal/rabbit"
	"order-loom/internal/repository"
	"order-loom/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// todavía no hay logger
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Conexión a MongoDB
	client, err := repository.Connect(ctx, cfg.MongoURI, cfg.MongoConnectTimeout, log)
	if err != nil {
		log.Fatal("mongo unavailable", zap.Error(err))
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	db := client.Database(cfg.MongoDBName)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		log.Fatal("ensure indexes", zap.Error(err))
	}

	// Repositorios
	orderRepo := repository.NewMongoOrderRepository(db)
	ledger := repository.NewMongoTrackingLedger(db)
	userRepo := repository.NewMongoUserRepository(db)
	productRepo := repository.NewMongoProductRepository(db)

	// RabbitMQ es opcional; sin él los eventos no se publican
	var (
		publisher service.EventPublisher
		ch        *amqp091.Channel
	)
	if cfg.RabbitEnabled {
		conn, err := rabbit.Dial(ctx, cfg.RabbitURL, cfg.RabbitDialTimeout, log)
		if err != nil {
			log.Fatal("rabbit unavailable", zap.Error(err))
		}
		defer conn.Close()

		ch, err = conn.Channel()
		if err != nil {
			log.Fatal("rabbit channel", zap.Error(err))
		}
		p, err := rabbit.NewPublisher(ch, log)
		if err != nil {
			log.Fatal("rabbit publisher", zap.Error(err))
		}
		publisher = p
	}

	// Servicios
	gate := service.NewAccessGate(userRepo)
	orderService := service.NewOrderService(orderRepo, ledger, productRepo, publisher, log,
		service.WithStrictTransitions(cfg.StrictTransitions),
	)
	productService := service.NewProductService(productRepo)
	userService := service.NewUserService(userRepo)

	var verifier service.IdentityVerifier
	switch cfg.AuthMode {
	case config.AuthModeJWT:
		verifier = service.NewJWTVerifier(cfg.JWTSecret)
	default:
		verifier = service.NewAuthService(cfg.AuthURL)
	}

	if ch != nil {
		consumer := rabbit.NewCheckoutCompletedConsumer(orderService, gate, log)
		if err := rabbit.SetupConsumers(ctx, ch, consumer, log); err != nil {
			log.Fatal("rabbit consumers", zap.Error(err))
		}
	}

	// Handlers
	orders := controller.NewOrderController(orderService, log)
	products := controller.NewProductController(productService, log)
	users := controller.NewUserController(userService, log)

	// Router
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Metrics(log), middleware.Timeout(cfg.RequestTimeout))

	// Rutas públicas
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/products", products.GetAll)
	r.GET("/products/latest", products.GetLatest)
	r.GET("/products/:id", products.GetByID)

	// Rutas protegidas (requieren token)
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(verifier, log))

	buyer := middleware.RequireRole(gate, log, model.RoleBuyer)
	manager := middleware.RequireRole(gate, log, model.RoleManager)
	staff := middleware.RequireRole(gate, log, model.RoleManager, model.RoleAdmin)
	admin := middleware.RequireRole(gate, log, model.RoleAdmin)
	anyRole := middleware.RequireRole(gate, log, model.RoleBuyer, model.RoleManager, model.RoleAdmin)

	auth.POST("/users", users.Register)
	auth.GET("/users/me", users.Me)
	auth.GET("/trackings/:trackingId", orders.GetTrackingLog)

	auth.POST("/products", manager, products.Create)

	auth.POST("/orders", buyer, orders.CreateOrder)
	auth.GET("/orders/mine", buyer, orders.GetMyOrders)
	auth.GET("/orders/flow", manager, orders.GetOrderFlow)
	auth.GET("/orders/status/:status", staff, orders.GetOrdersByStatus)
	auth.PATCH("/orders/:orderId/status", staff, orders.UpdateStatus)
	auth.GET("/orders/:orderId", anyRole, orders.GetOrder)

	// Rutas admin
	auth.GET("/orders", admin, orders.GetAllOrders)
	auth.DELETE("/orders/:orderId", admin, orders.DeleteOrder)
	auth.GET("/admin/users", admin, users.GetAll)
	auth.PATCH("/admin/users/:email/approval", admin, users.SetApproval)
	auth.PATCH("/admin/users/:email/role", admin, users.SetRole)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("order-loom listening", zap.String("port", cfg.Port), zap.Bool("strictTransitions", cfg.StrictTransitions))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
