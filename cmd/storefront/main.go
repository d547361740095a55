package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kadeksinduarta/selat-frontend/internal/api"
	"github.com/kadeksinduarta/selat-frontend/internal/cart"
	"github.com/kadeksinduarta/selat-frontend/internal/catalog"
	"github.com/kadeksinduarta/selat-frontend/internal/checkout"
	"github.com/kadeksinduarta/selat-frontend/internal/config"
	"github.com/kadeksinduarta/selat-frontend/internal/events"
	h "github.com/kadeksinduarta/selat-frontend/internal/http"
	"github.com/kadeksinduarta/selat-frontend/internal/logging"
	"github.com/kadeksinduarta/selat-frontend/internal/session"
	"github.com/kadeksinduarta/selat-frontend/internal/storage"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "storefront",
		Usage: "Selat village storefront backend",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP server",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "port", Usage: "override HTTP_PORT"},
				},
				Action: serve,
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("storefront stopped")
	}
}

func serve(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if port := c.String("port"); port != "" {
		cfg.HTTPPort = port
	}
	log := logging.New(cfg.LogLevel, os.Stdout)
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	client := api.NewClient(api.Config{
		BaseURL:    cfg.APIURL,
		StorageURL: cfg.StorageURL,
		Timeout:    cfg.APITimeout,
	}, log.WithField("component", "api"))

	var (
		cartStore    storage.Storage = storage.NewMemoryStore()
		catalogStore storage.Storage = storage.NewMemoryStore()
		broker       cart.Broker     = cart.NewHub()
	)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(c.Context, 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return fmt.Errorf("connect to redis %s: %w", cfg.RedisAddr, err)
		}
		cartStore = storage.NewRedisStore(rdb, "cart", cfg.CartTTL)
		catalogStore = storage.NewRedisStore(rdb, "catalog", cfg.CatalogTTL)
		broker = cart.NewRedisHub(rdb, log.WithField("component", "cart-events"))
		log.WithField("addr", cfg.RedisAddr).Info("using redis for carts and catalog cache")
	} else {
		log.Warn("REDIS_ADDR not set, carts are kept in memory")
	}

	var publisher events.Publisher = events.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.OrdersTopic, log.WithField("component", "events"), cfg.KafkaBrokers...)
		log.WithFields(logrus.Fields{"brokers": cfg.KafkaBrokers, "topic": cfg.OrdersTopic}).Info("publishing order events")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.WithError(err).Warn("close event publisher")
		}
	}()

	carts := cart.NewService(cartStore, broker, log.WithField("component", "cart"))
	cat := catalog.NewService(client, catalogStore, log.WithField("component", "catalog"))
	orchestrator := checkout.NewOrchestrator(client, publisher, log.WithField("component", "checkout"), checkout.WithLocation(loc))
	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL, cfg.SecureCookies, log.WithField("component", "session"))
	images := h.ImageResolver(client.StorageURL)

	router := h.NewRouter(h.RouterConfig{
		RequestTimeout: cfg.RequestTimeout,
		MaxBodySize:    cfg.MaxBodySize,
	}, h.Handlers{
		Catalog:  h.NewCatalogHandler(cat, images, cfg.RequestTimeout),
		Cart:     h.NewCartHandler(carts, cat, broker, images, cfg.RequestTimeout, log),
		Checkout: h.NewCheckoutHandler(orchestrator, carts, images, cfg.RequestTimeout),
		Auth:     h.NewAuthHandler(client, sessions, cfg.RequestTimeout, log),
		Orders:   h.NewOrdersHandler(client, cfg.RequestTimeout),
	}, sessions, log)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}
	// open event streams end when shutdown starts
	baseCtx, stopStreams := context.WithCancel(context.Background())
	defer stopStreams()
	srv.BaseContext = func(net.Listener) context.Context { return baseCtx }
	srv.RegisterOnShutdown(stopStreams)

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.HTTPPort).Info("storefront starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("shutting down server")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server exited")
	return nil
}
