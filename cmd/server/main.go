package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock_watchlist/internal/app/router"
	"stock_watchlist/internal/app/scheduler"
	"stock_watchlist/internal/config"
	"stock_watchlist/internal/feature/quotes/adapters/finnhub"
	stocksadapters "stock_watchlist/internal/feature/stocks/adapters"
	stockhandler "stock_watchlist/internal/feature/stocks/transport/handler"
	stocksusecase "stock_watchlist/internal/feature/stocks/usecase"
	watchlistadapters "stock_watchlist/internal/feature/watchlist/adapters"
	watchlisthandler "stock_watchlist/internal/feature/watchlist/transport/handler"
	watchlistusecase "stock_watchlist/internal/feature/watchlist/usecase"
	"stock_watchlist/internal/platform/cache"
	infradb "stock_watchlist/internal/platform/db"
	infrahttp "stock_watchlist/internal/platform/http"
	infraredis "stock_watchlist/internal/platform/redis"
	"stock_watchlist/internal/shared/ratelimiter"
)

func main() {
	// 設定読み込み
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config validation: %v", err)
	}

	// db
	db := infradb.OpenDB(cfg.Database)

	// Redis（任意。接続できない場合はキャッシュなしで継続する）
	rdb, err := infraredis.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	}
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository
	priceRepo := stocksadapters.NewPriceRepository(db)
	watchlistRepo := watchlistadapters.NewWatchlistRepository(db)
	quoteClient := finnhub.NewClient(finnhub.Config{
		APIKey:  cfg.Finnhub.APIKey,
		BaseURL: cfg.Finnhub.BaseURL,
		Timeout: cfg.FinnhubTimeout(),
	}, infrahttp.NewHTTPClient(cfg.FinnhubTimeout()))

	// Redisキャッシュでラップ
	cachedPriceRepo := cache.NewCachingPriceRepository(rdb, cfg.PollInterval(), priceRepo, "prices")

	// レジストリを永続化済みの監視銘柄でウォームアップ
	registry := watchlistusecase.NewRegistry(watchlistRepo)
	if err := registry.Load(context.Background()); err != nil {
		log.Fatalf("warm up registry: %v", err)
	}

	// Usecase
	stockUC := stocksusecase.NewStockUsecase(cachedPriceRepo, quoteClient, registry, cfg.Poll.WindowSize)
	limiter := ratelimiter.NewRateLimiter(cfg.Poll.RequestsPerMinute, time.Minute)
	pollUC := stocksusecase.NewPollUsecase(quoteClient, cachedPriceRepo, registry, limiter,
		cfg.Poll.WindowSize, cfg.TickTimeout())

	// Handler
	stockH := stockhandler.NewStockHandler(stockUC)
	watchlistH := watchlisthandler.NewWatchlistHandler(registry)

	// グレースフルシャットダウン用コンテキスト
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// スケジューラ起動
	sched := scheduler.New(ctx, pollUC)
	if err := sched.Register(cfg.PollInterval()); err != nil {
		log.Fatalf("register poll task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// HTTPサーバ起動
	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router.NewRouter(stockH, watchlistH),
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()
	log.Printf("listening on %s", cfg.Server.Addr)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
}
