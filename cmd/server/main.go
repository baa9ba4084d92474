package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/cinema-seat-map/internal/applog"
	"github.com/iliyamo/cinema-seat-map/internal/backend"
	"github.com/iliyamo/cinema-seat-map/internal/config"
	"github.com/iliyamo/cinema-seat-map/internal/database"
	"github.com/iliyamo/cinema-seat-map/internal/handler"
	"github.com/iliyamo/cinema-seat-map/internal/middleware"
	"github.com/iliyamo/cinema-seat-map/internal/notify"
	"github.com/iliyamo/cinema-seat-map/internal/queue"
	"github.com/iliyamo/cinema-seat-map/internal/repository"
	"github.com/iliyamo/cinema-seat-map/internal/router"
	"github.com/iliyamo/cinema-seat-map/internal/scheduler"
	"github.com/iliyamo/cinema-seat-map/internal/seatmap"
	"github.com/iliyamo/cinema-seat-map/internal/service"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
	logger := applog.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalogCfg := config.LoadCatalogConfig()
	seatCfg := config.LoadSeatConfig()
	queueCfg := config.LoadQueueConfig()

	client := backend.New(logger, catalogCfg.BackendURL, catalogCfg.BackendTimeout)
	shows, db, err := openCatalog(ctx, logger, catalogCfg, client)
	if err != nil {
		logger.WithError(err).Fatal("catalog")
	}
	if db != nil {
		defer db.Close()
	}

	// redis is optional: without it cache and rate limit are disabled
	var rdb *redis.Client
	if c, err := config.NewRedisClient(ctx, config.LoadRedisConfig()); err != nil {
		logger.WithError(err).Warn("redis unavailable, running without cache and rate limit")
	} else {
		rdb = c
		defer rdb.Close()
	}

	memo := seatmap.NewMemo()
	sched, err := scheduler.StartMemoPruner(logger, memo, seatCfg.MemoPruneEvery, seatCfg.MemoMaxIdle)
	if err != nil {
		logger.WithError(err).Fatal("scheduler")
	}
	defer func() { _ = sched.Shutdown() }()

	publisher := queue.NewPublisher(logger, queueCfg.URL)
	svc := service.NewSeatMapService(logger, shows, client, publisher, memo, seatmap.Rules{
		MaxSeats:          seatCfg.MaxSeats,
		BookingFeePerSeat: seatCfg.BookingFeePerSeat,
	})

	if queueCfg.ConsumerEnabled {
		var notifier queue.Notifier
		if smtp := config.LoadSMTPConfig(); smtp.Enabled() {
			notifier = notify.NewMailer(logger, smtp)
		}
		consumer := queue.NewConsumer(logger, queueCfg.URL, queueCfg.LogDir, notifier)
		go func() { _ = consumer.Run(ctx) }()
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, middleware.HeaderRequestID},
	}))

	cacheCfg := config.LoadCacheConfig()
	svc.UseSeatMapCache(router.SeatMapCache{Invalidator: middleware.NewCacheInvalidator(logger, cacheCfg, rdb)})

	h := handler.NewSeatMapHandler(svc, logger)
	opts := router.Options{
		JWTSecret: cfg.JWTSecret,
		Cache:     middleware.RedisCache(logger, cacheCfg, rdb),
		RateLimit: middleware.RateLimit(logger, config.LoadRateLimitConfig(), rdb),
	}
	router.RegisterRoutes(e)
	router.RegisterPublic(e, h, opts)
	router.RegisterCustomer(e, h, opts)

	addr := ":" + cfg.Port
	go func() {
		logger.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env, "catalog": catalogCfg.Source}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server")
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("shutdown")
	}
}

// openCatalog picks the show source. The sql sources return the opened
// handle so main can close it.
func openCatalog(ctx context.Context, logger *logrus.Logger, cfg config.CatalogConfig, client *backend.Client) (service.ShowSource, *sql.DB, error) {
	switch cfg.Source {
	case config.CatalogHTTP:
		return client, nil, nil
	case config.CatalogMySQL, config.CatalogPostgres:
		db, err := database.Open(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		dialect := repository.MySQL
		if cfg.Source == config.CatalogPostgres {
			dialect = repository.Postgres
		}
		return repository.NewShowRepo(logger, db, dialect), db, nil
	}
	return nil, nil, errors.New("unknown CATALOG_SOURCE " + cfg.Source)
}
