package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/storefront/internal/api"
	"github.com/example/storefront/internal/command"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/coupon"
	"github.com/example/storefront/internal/domain/product"
	"github.com/example/storefront/internal/infrastructure/kafka"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/example/storefront/internal/projection"
	"github.com/example/storefront/internal/query"
	"github.com/example/storefront/internal/tracing"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("[API] Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[API] Invalid configuration: %v", err)
	}

	log.Println("[API] ========================================")
	log.Println("[API] Storefront - CQRS Mode")
	log.Println("[API] ========================================")

	// Initialize tracing (no-op unless enabled)
	if _, err := tracing.Init(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: "storefront",
		Environment: cfg.Tracing.Environment,
	}); err != nil {
		log.Fatalf("[API] Failed to initialize tracing: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracing.Shutdown(shutdownCtx); err != nil {
			log.Printf("[API] Tracing shutdown error: %v", err)
		}
	}()

	// Initialize Kafka producer (optional; events still flow in-process)
	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		producer = kafka.NewProducer(cfg.Kafka.BrokerList(), cfg.Kafka.Topic)
		defer producer.Close()
		log.Printf("[API] Kafka: %v topic=%s", cfg.Kafka.BrokerList(), cfg.Kafka.Topic)
	} else {
		log.Println("[API] Kafka disabled, using in-process projection only")
	}

	// Initialize stores
	eventStore := store.NewEventStore(producer)
	readStore := store.NewReadStore()

	// Projection is synchronous: read models are updated before Append
	// returns, so queries never observe a stale catalog or cart.
	projector := projection.NewProjector(readStore)
	eventStore.Subscribe(projector.HandleEvent)

	// Initialize domain services
	productSvc := product.NewService(eventStore)
	couponSvc := coupon.NewService(eventStore)
	cartSvc := cart.NewService(eventStore)

	// Initialize handlers
	cmdHandler := command.NewHandler(productSvc, couponSvc, cartSvc, readStore)
	queryHandler := query.NewHandler(readStore)

	if cfg.Seed.Enabled {
		seedDemoData(context.Background(), cmdHandler)
	}

	// Initialize API
	handlers := api.NewHandlers(cmdHandler, queryHandler).WithMaxBodySize(cfg.Server.MaxBodyBytes)
	router := api.NewRouter(api.RouterConfig{
		Handlers:       handlers,
		AllowedOrigins: cfg.Server.OriginList(),
		EnableTracing:  cfg.Tracing.Enabled,
	})

	// Start HTTP server
	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	go func() {
		log.Printf("[API] Server started on %s", cfg.Addr())
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[API] Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[API] Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	server.Shutdown(shutdownCtx)
}

// seedDemoData loads the demo catalog: three products with quantity
// discounts and two coupons. Errors abort startup since an empty or
// half-seeded catalog is worse than a clean failure.
func seedDemoData(ctx context.Context, h *command.Handler) {
	log.Println("[API] Seeding demo catalog...")

	products := []struct {
		create command.CreateProduct
		tiers  []command.AddDiscountTier
	}{
		{
			create: command.CreateProduct{Name: "Product 1", Price: 10000, Stock: 20},
			tiers: []command.AddDiscountTier{
				{Quantity: 10, Rate: 0.1},
				{Quantity: 20, Rate: 0.2},
			},
		},
		{
			create: command.CreateProduct{Name: "Product 2", Price: 20000, Stock: 20},
			tiers: []command.AddDiscountTier{
				{Quantity: 10, Rate: 0.15},
			},
		},
		{
			create: command.CreateProduct{Name: "Product 3", Price: 30000, Stock: 20},
			tiers: []command.AddDiscountTier{
				{Quantity: 10, Rate: 0.2},
			},
		},
	}

	for _, seed := range products {
		p, err := h.CreateProduct(ctx, seed.create)
		if err != nil {
			log.Fatalf("[API] Failed to seed product %q: %v", seed.create.Name, err)
		}
		for _, tier := range seed.tiers {
			tier.ProductID = p.ID
			if err := h.AddDiscountTier(ctx, tier); err != nil {
				log.Fatalf("[API] Failed to seed discount tier for %q: %v", seed.create.Name, err)
			}
		}
	}

	coupons := []command.CreateCoupon{
		{Name: "5000 yen off coupon", Code: "AMOUNT5000", DiscountType: coupon.TypeAmount, DiscountValue: 5000},
		{Name: "10% off coupon", Code: "PERCENT10", DiscountType: coupon.TypePercentage, DiscountValue: 10},
	}
	for _, seed := range coupons {
		if _, err := h.CreateCoupon(ctx, seed); err != nil {
			log.Fatalf("[API] Failed to seed coupon %q: %v", seed.Code, err)
		}
	}

	log.Printf("[API] Seeded %d products and %d coupons", len(products), len(coupons))
}
