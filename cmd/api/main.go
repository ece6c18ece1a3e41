package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/tokoline/tokochat/internal/api/router"
	"github.com/tokoline/tokochat/internal/catalog"
	"github.com/tokoline/tokochat/internal/chat"
	appconfig "github.com/tokoline/tokochat/internal/config"
	"github.com/tokoline/tokochat/internal/observability/metrics"
	"github.com/tokoline/tokochat/internal/orders"
	"github.com/tokoline/tokochat/internal/users"
	"github.com/tokoline/tokochat/internal/webchat"
	"github.com/tokoline/tokochat/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting tokochat API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Session store
	var store chat.SessionStore
	switch cfg.SessionStore {
	case "redis":
		redisOpts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
		if cfg.RedisTLS {
			redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient := redis.NewClient(redisOpts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error("failed to connect to redis", "error", err, "addr", cfg.RedisAddr)
			os.Exit(1)
		}
		store = chat.NewRedisStore(redisClient, cfg.SessionTTL, nil)
		logger.Info("using redis session store", "addr", cfg.RedisAddr)
	default:
		memStore := chat.NewMemoryStore(chat.WithSessionTTL(cfg.SessionTTL))
		defer memStore.Close()
		store = memStore
		logger.Info("using in-memory session store", "ttl", cfg.SessionTTL.String())
	}

	// LLM: Bedrock primary, Gemini fallback when configured. Explicit
	// credentials in config win over the SDK's default chain; the endpoint
	// override points Bedrock at a proxy or local stand-in.
	awsOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		awsOpts = append(awsOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsOpts...)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}
	var bedrockOpts []func(*bedrockruntime.Options)
	if cfg.AWSEndpointOverride != "" {
		bedrockOpts = append(bedrockOpts, func(o *bedrockruntime.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointOverride)
		})
	}
	primary := chat.NewBedrockLLMClient(bedrockruntime.NewFromConfig(awsCfg, bedrockOpts...))

	var fallback chat.LLMClient
	if cfg.GeminiAPIKey != "" {
		gemini, err := chat.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Error("failed to create gemini client", "error", err)
			os.Exit(1)
		}
		defer func() { _ = gemini.Close() }()
		fallback = gemini
	}

	llm := chat.NewFallbackLLMClient(primary, fallback, logger)
	responder, err := chat.NewLLMResponder(llm, cfg.BedrockModelID)
	if err != nil {
		logger.Error("failed to create responder", "error", err)
		os.Exit(1)
	}

	// Optional transcript persistence
	var transcripts *chat.TranscriptStore
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()
		if err := db.PingContext(ctx); err != nil {
			logger.Error("failed to ping database", "error", err)
			os.Exit(1)
		}
		transcripts = chat.NewTranscriptStore(db)
		logger.Info("transcript persistence enabled")
	}

	chatMetrics := metrics.NewChatMetrics(nil)

	actions := chat.Actions{
		Products:      searcherOrNil(catalog.NewClient(cfg.CatalogBaseURL, cfg.ActionTimeout)),
		LocalProducts: catalog.NewLocalCatalog(),
		Orders:        lookupOrNil(orders.NewClient(cfg.OrdersBaseURL, cfg.ActionTimeout)),
		LocalOrders:   orders.NewLocalOrders(),
		Users:         statusOrNil(users.NewClient(cfg.UsersBaseURL, cfg.ActionTimeout)),
		Responder:     responder,
	}

	engineOpts := []chat.EngineOption{
		chat.WithMetrics(chatMetrics),
		chat.WithCallTimeout(cfg.ActionTimeout),
	}
	if transcripts != nil {
		engineOpts = append(engineOpts, chat.WithTranscript(transcripts))
	}
	engine := chat.NewEngine(store, actions, logger, engineOpts...)

	chatHandler := chat.NewHandler(engine, logger)
	webchatHandler := webchat.NewHandler(engine, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		ChatHandler:        chatHandler,
		WebchatHandler:     webchatHandler,
		MetricsHandler:     promhttp.Handler(),
		AuthJWTSecret:      cfg.AuthJWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		TLSConfig:    &tls.Config{MinVersion: tls.VersionTLS12},
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// The typed-nil helpers keep a nil *Client from hiding inside a non-nil
// interface value, which would defeat the engine's nil checks.

func searcherOrNil(c *catalog.Client) chat.ProductSearcher {
	if c == nil {
		return nil
	}
	return c
}

func lookupOrNil(c *orders.Client) chat.OrderLookup {
	if c == nil {
		return nil
	}
	return c
}

func statusOrNil(c *users.Client) chat.StatusLookup {
	if c == nil {
		return nil
	}
	return c
}
