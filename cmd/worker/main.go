package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-storefront.git/internal/config"
	kafkax "github.com/ariefcatur/go-storefront.git/internal/kafka"
	"github.com/ariefcatur/go-storefront.git/internal/mailer"
	"github.com/ariefcatur/go-storefront.git/internal/orders"
	"github.com/ariefcatur/go-storefront.git/internal/redisx"
	"github.com/ariefcatur/go-storefront.git/internal/telemetry"
	"github.com/ariefcatur/go-storefront.git/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	telemetry.InitLogger(cfg.ServiceName + "-worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &worker.Service{
		Redis:       rdb,
		Mailer:      mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.EmailFrom),
		ServiceName: cfg.ServiceName + "-worker",
	}

	group := getenv("WORKER_GROUP", "storefront-worker")
	workers := mustAtoi(os.Getenv("WORKER_CONCURRENCY"), "8")

	consumers := []struct {
		topic   string
		handler kafkax.Handler
	}{
		{orders.TopicOrderCreated, svc.HandleOrderCreated},
		{orders.TopicOrderCanceled, svc.HandleOrderCanceled},
		{orders.TopicOrderStatusUpdated, svc.HandleStatusUpdated},
	}
	for _, c := range consumers {
		cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, c.topic, workers)
		go func(topic string, h kafkax.Handler) {
			log.Printf("consumer started: group=%s topic=%s workers=%d", group, topic, workers)
			if err := cons.Start(ctx, h); err != nil {
				log.Printf("consumer exit: topic=%s err=%v", topic, err)
				cancel()
			}
		}(c.topic, c.handler)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Println("shutting down consumers...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
