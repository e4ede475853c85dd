package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/rudazy/warden-yield-agent/internal/analytics"
	"github.com/rudazy/warden-yield-agent/internal/cache"
	"github.com/rudazy/warden-yield-agent/internal/classifier"
	"github.com/rudazy/warden-yield-agent/internal/config"
	"github.com/rudazy/warden-yield-agent/internal/defillama"
	"github.com/rudazy/warden-yield-agent/internal/pipeline"
	"github.com/rudazy/warden-yield-agent/internal/server"
)

// env bootstrap function
func loadEnv(logger *logrus.Logger) {
	// Get the project root directory (where go.mod is)
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	envPath := filepath.Join(projectRoot, ".env")

	if err := godotenv.Load(envPath); err != nil {
		logger.Warnf("no .env file found at %s, using system environment variables", envPath)
	} else {
		logger.Infof("loaded .env from %s", envPath)
	}
}

// main initializes all dependencies and starts the HTTP server with
// graceful shutdown. Redis, ClickHouse and the intent model are optional:
// the agent answers with rule-tier classification and live fetches when
// they are absent.
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.InfoLevel)

	// load .env BEFORE anything reads os.Getenv
	loadEnv(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Optional Redis snapshot cache.
	var store *cache.SnapshotStore
	if cfg.RedisAddr != "" {
		rclient := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
			DB:   0,
		})
		if err := rclient.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Warn("redis unreachable, running without snapshot cache")
		} else {
			s, err := cache.NewSnapshotStore(rclient)
			if err != nil {
				logger.WithError(err).Warn("failed to create snapshot store")
			} else {
				store = s
			}
		}
	}

	// Optional ClickHouse analytics sink.
	var sink *analytics.Sink
	if cfg.ClickHouseAddr != "" {
		s, err := analytics.NewSink(ctx, analytics.Config{
			Addr:     cfg.ClickHouseAddr,
			Database: cfg.ClickHouseDatabase,
			Username: cfg.ClickHouseUsername,
			Password: cfg.ClickHousePassword,
			Logger:   logger,
		})
		if err != nil {
			logger.WithError(err).Warn("failed to initialize analytics sink")
		} else {
			sink = s
			defer func() {
				_ = sink.Close()
			}()
		}
	}

	// Intent classifier; the model tier attaches only with an API key.
	cls, err := classifier.New(classifier.Config{
		OpenRouterAPIKey: cfg.OpenRouterAPIKey,
		Model:            cfg.IntentModel,
		Logger:           logger,
	})
	if err != nil {
		logger.WithError(err).Warn("failed to initialize intent model tier, using rules only")
		cls, _ = classifier.New(classifier.Config{Logger: logger})
	}

	source := pipeline.NewLlamaSource(defillama.NewClient(cfg.DefiLlamaBaseURL), store, logger)
	source.SetTTL(cfg.PoolSnapshotTTL)
	gas := pipeline.NewStaticGasEstimator(store, logger)
	gas.SetTTL(cfg.GasSnapshotTTL)

	pipe := pipeline.New(pipeline.Config{
		Classifier: cls,
		Source:     source,
		Gas:        gas,
		Logger:     logger,
	})

	h := &server.Handlers{
		Pipeline:       pipe,
		Analytics:      sink,
		RequestTimeout: cfg.RequestTimeout,
		DevMode:        cfg.DevMode,
		Logger:         logger,
	}

	srv, err := server.NewServer(server.ServerDeps{
		Handlers: h,
		Config: server.ServerConfig{
			Addr:    cfg.APIAddr,
			DevMode: cfg.DevMode,
			APIKey:  cfg.APIKey,
		},
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create http server")
	}

	go func() {
		<-sigCh
		logger.Info("shutting down")
		cancel()
		_ = srv.Shutdown(context.Background())
	}()

	logger.WithField("addr", cfg.APIAddr).Info("api server starting")
	if err := srv.Start(); err != nil {
		// "http: Server closed" is expected during graceful shutdown
		if err.Error() == "http: Server closed" {
			return
		}
		logger.WithError(err).Fatal("api server failed")
	}

	if err := srv.WaitClosed(context.Background()); err != nil {
		fmt.Println(err)
	}
}
