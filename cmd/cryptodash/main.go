package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cryptodash/internal/adapters/cache"
	"cryptodash/internal/adapters/coingecko"
	"cryptodash/internal/adapters/storage"
	"cryptodash/internal/app"
	"cryptodash/internal/config"
	"cryptodash/internal/http"
	"cryptodash/internal/logging"
	"cryptodash/internal/ports"
)

const usageText = `Usage:
  cryptodash [--port <N>] [--config <path>]
  cryptodash --help

Options:
  --port N        Port number (overrides env SERVER_PORT)
  --config PATH   JSON config file
`

func main() {
	portFlag := flag.Int("port", 0, "Port number (overrides env SERVER_PORT)")
	configFlag := flag.String("config", "", "JSON config file")
	help := flag.Bool("help", false, "Show help")
	flag.Parse()

	if *help {
		fmt.Print(usageText)
		return
	}

	logger := logging.NewLogger(slog.LevelInfo)

	// Graceful context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("cryptodash starting")

	// --- конфиг: файл, затем ENV, затем флаги ---
	cfg := config.Default()
	if *configFlag != "" {
		loaded, err := config.Load(*configFlag)
		if err != nil {
			logger.Error("config load failed", "path", *configFlag, "err", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	httpPort := getEnvAsInt("SERVER_PORT", cfg.HTTPPort)
	if *portFlag != 0 {
		httpPort = *portFlag
	}

	cacheTTL := getEnvAsDuration("CACHE_TTL", config.ParseDuration(cfg.CacheTTL, 60*time.Second))
	redisAddr := getEnv("REDIS_ADDR", cfg.Redis.Addr)
	redisPass := getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	redisDB := getEnvAsInt("REDIS_DB", cfg.Redis.DB)
	upstreamURL := getEnv("COINGECKO_URL", cfg.Upstream.BaseURL)
	upstreamTimeout := getEnvAsDuration("UPSTREAM_TIMEOUT", config.ParseDuration(cfg.Upstream.Timeout, 10*time.Second))

	// --- кэш: Redis, при недоступности in-memory ---
	var c ports.Cache
	redisCache, err := cache.NewRedisCache(ctx, redisAddr, redisPass, redisDB, cacheTTL)
	if err != nil {
		logger.Warn("redis not available, using in-memory cache", "err", err)
		c = cache.NewMemoryCache(cacheTTL)
	} else {
		logger.Info("redis cache connected", "addr", redisAddr)
		c = redisCache
		defer func() {
			if err := redisCache.Close(); err != nil {
				logger.Warn("error closing redis cache", "err", err)
			}
		}()
	}

	// --- зависимости сервиса ---
	market := coingecko.NewClient(upstreamURL, upstreamTimeout)
	store := storage.NewMemoryStore()

	svc := app.NewService(logger, c, market, store)

	// --- HTTP сервер ---
	addr := fmt.Sprintf(":%d", httpPort)
	httpSrv := http.NewServer(addr, svc, logger)

	if err := httpSrv.Start(ctx); err != nil {
		logger.Error("http server failed", "err", err)
		stop()
	}

	logger.Info("cryptodash stopped")
}

// --- helpers ---

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvAsInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var val int
		fmt.Sscanf(v, "%d", &val)
		return val
	}
	return def
}

func getEnvAsDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}
