package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-storefront.git/internal/cart"
	"github.com/ariefcatur/go-storefront.git/internal/catalog"
	"github.com/ariefcatur/go-storefront.git/internal/config"
	"github.com/ariefcatur/go-storefront.git/internal/httpx"
	kafkax "github.com/ariefcatur/go-storefront.git/internal/kafka"
	"github.com/ariefcatur/go-storefront.git/internal/mailer"
	"github.com/ariefcatur/go-storefront.git/internal/orders"
	"github.com/ariefcatur/go-storefront.git/internal/payments"
	"github.com/ariefcatur/go-storefront.git/internal/postgres"
	"github.com/ariefcatur/go-storefront.git/internal/redisx"
	"github.com/ariefcatur/go-storefront.git/internal/telemetry"
	"github.com/ariefcatur/go-storefront.git/internal/users"
	"github.com/ariefcatur/go-storefront.git/internal/wishlist"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	telemetry.InitLogger(cfg.ServiceName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers, one per topic
	pCreated := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024)
	pCanceled := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCanceled, 1024)
	pStatus := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderStatusUpdated, 1024)
	pPayAuth := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicPaymentAuthorized, 1024)
	pPayFailed := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicPaymentFailed, 1024)
	producers := []*kafkax.Producer{pCreated, pCanceled, pStatus, pPayAuth, pPayFailed}
	for _, p := range producers {
		p.Start(ctx)
	}

	// Repos
	userRepo := &users.Repo{DB: db}
	orderRepo := &orders.Repo{DB: db}
	catalogRepo := &catalog.Repo{DB: db}
	cartRepo := &cart.Repo{DB: db}
	wishlistRepo := &wishlist.Repo{DB: db, Catalog: catalogRepo}

	ml := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.EmailFrom)
	authMW := &httpx.Auth{Secret: cfg.JWTSecret, Users: userRepo}

	router := httpx.NewRouter()
	router.Route("/api", func(r chi.Router) {
		r.Use(httpx.RateLimit(rdb, cfg.RateLimitPerMinute))

		(&httpx.UserHandler{
			Users:             userRepo,
			Orders:            orderRepo,
			Redis:             rdb,
			Mailer:            ml,
			Auth:              authMW,
			Secret:            cfg.JWTSecret,
			AdminEmail:        cfg.AdminEmail,
			AdminPasswordHash: cfg.AdminPasswordHash,
		}).Register(r)

		(&httpx.ProductHandler{Catalog: catalogRepo, Auth: authMW}).Register(r)
		(&httpx.CartHandler{Cart: cartRepo, Auth: authMW}).Register(r)
		(&httpx.WishlistHandler{Wishlist: wishlistRepo, Auth: authMW}).Register(r)

		(&httpx.OrderHandler{
			Orders:   orderRepo,
			Users:    userRepo,
			Cart:     cartRepo,
			Stripe:   payments.NewStripe(cfg.StripeSecretKey, cfg.Currency),
			Razorpay: payments.NewRazorpay(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.Currency),
			Redis:    rdb,
			Auth:     authMW,

			ProducerCreated:   pCreated,
			ProducerCanceled:  pCanceled,
			ProducerStatus:    pStatus,
			ProducerPayAuth:   pPayAuth,
			ProducerPayFailed: pPayFailed,

			Service:             cfg.ServiceName,
			DeliveryChargeCents: int64(cfg.DeliveryChargeCents),
		}).Register(r)
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	for _, p := range producers {
		p.Close()
	}
	cancel()
	for _, p := range producers {
		p.WaitClosed()
	}
}
