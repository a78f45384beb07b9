package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/infrastructure/kafka"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/example/storefront/internal/projection"
)

// Standalone projector: consumes the event topic and maintains its own copy
// of the read models. The API server projects in-process; this binary exists
// for running extra read-side consumers off the same Kafka stream.
func main() {
	configFile := flag.String("config", "", "Path to YAML config file")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("[Projector] Failed to load configuration: %v", err)
	}
	if !cfg.Kafka.Enabled {
		log.Fatal("[Projector] Kafka must be enabled for the standalone projector")
	}

	log.Println("[Projector] ========================================")
	log.Println("[Projector] Storefront - CQRS Projector")
	log.Println("[Projector] ========================================")
	log.Printf("[Projector] Kafka: %v", cfg.Kafka.BrokerList())
	log.Printf("[Projector] Topic: %s", cfg.Kafka.Topic)
	log.Printf("[Projector] Group: %s", cfg.Kafka.GroupID)

	readStore := store.NewReadStore()
	projector := projection.NewProjector(readStore)

	consumer := kafka.NewConsumer(cfg.Kafka.BrokerList(), cfg.Kafka.Topic, cfg.Kafka.GroupID)
	defer consumer.Close()

	go func() {
		log.Println("[Projector] Starting event consumer...")
		if err := consumer.Consume(ctx, projector.HandleEvent); err != nil {
			log.Printf("[Projector] Consumer error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[Projector] Shutting down...")
	cancel()
}
