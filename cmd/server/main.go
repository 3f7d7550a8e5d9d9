package main

import (
	"context"
	"errors"
	"lostfound/internal/common/enum"
	"lostfound/internal/handler"
	"lostfound/internal/handler/page"
	uploadHandler "lostfound/internal/handler/upload"
	"lostfound/internal/pkg/config"
	database "lostfound/internal/pkg/db"
	"lostfound/internal/pkg/jwt"
	"lostfound/internal/pkg/logger"
	"lostfound/internal/pkg/mqtt"
	"lostfound/internal/pkg/rabbitmq"
	"lostfound/internal/pkg/redis"
	"lostfound/internal/pkg/validation"
	"lostfound/internal/service/account"
	"lostfound/internal/service/item"
	"lostfound/internal/service/migrate"
	"lostfound/internal/service/notification"
	"lostfound/internal/service/storage"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	uploadIdle  = 30 * time.Minute
	sweepEvery  = time.Minute
	stopTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	logger.Setup()
	defer logger.Sync()

	if cfg.App.Env == enum.PRODUCTION {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := validation.Setup(); err != nil {
		logger.Error.Fatalf("Failed to set up validation: %v", err)
	}

	db, err := database.Setup(&cfg.DB)
	if err != nil {
		logger.Error.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := migrate.Run(db); err != nil {
		logger.Error.Fatalf("Failed to migrate database: %v", err)
	}

	var rds redis.IRedis = redis.NewMemory()
	if cfg.Redis != nil {
		rds, err = redis.Setup(ctx, cfg.Redis)
		if err != nil {
			logger.Error.Fatalf("Failed to connect to redis: %v", err)
		}
	}
	defer rds.Close()

	jwtOpts := jwt.DefaultOptions(cfg.App.Secret)
	jwtOpts.TokenExpiredTime = cfg.TokenTTL
	jwtOpts.SaveMethod = jwt.REDIS
	jwtAuth := jwt.New(rds, jwtOpts)

	var notifier notification.INotifier = notification.Log{}
	if cfg.RabbitMQ != nil {
		manager, err := rabbitmq.NewConnectionManager(ctx, cfg.RabbitMQ)
		if err != nil {
			logger.Error.Fatalf("Failed to connect to rabbitmq: %v", err)
		}
		defer manager.Close()
		publisher := rabbitmq.NewPublisher(ctx, manager)
		defer publisher.Close()
		notifier = notification.NewQueueNotifier(publisher)
	}

	var events item.IEventPublisher = item.NoopEvents{}
	if cfg.MQTT != nil {
		client, err := mqtt.Setup(cfg.MQTT)
		if err != nil {
			logger.Error.Fatalf("Failed to connect to mqtt: %v", err)
		}
		defer client.Close()
		events = item.NewMQTTEvents(client)
	}

	store, uploadDir, err := setupStorage(ctx, cfg)
	if err != nil {
		logger.Error.Fatalf("Failed to set up storage: %v", err)
	}

	view, err := page.Load()
	if err != nil {
		logger.Error.Fatalf("Failed to load templates: %v", err)
	}

	accounts := account.NewService(db, account.NewCodeStore(rds, cfg.CodeTTL), notifier, jwtAuth)
	items := item.NewService(db, store, events)

	registry := uploadHandler.NewReportRegistry(items, uploadIdle)
	go registry.Run(ctx, sweepEvery)

	r := handler.NewRouter(&handler.Deps{
		Auth:      jwtAuth,
		Accounts:  accounts,
		Items:     items,
		Uploads:   registry,
		View:      view,
		Origins:   cfg.App.Origins,
		UploadDir: uploadDir,
		UploadURL: cfg.Storage.PublicURL,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info.Printf("Listening on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error.Fatalf("Server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error.Printf("Shutdown failed: %v", err)
	}
}

// setupStorage returns the photo store and, for local storage, the
// directory the router should serve.
func setupStorage(ctx context.Context, cfg *config.Config) (storage.IService, string, error) {
	if cfg.Storage.Driver == "gcs" {
		gcs, err := storage.NewGCS(ctx, storage.GCSConfigFromEnv(cfg.Storage.Bucket))
		if err != nil {
			return nil, "", err
		}
		return gcs, "", nil
	}
	local, err := storage.NewLocal(cfg.Storage.Dir, cfg.Storage.PublicURL)
	if err != nil {
		return nil, "", err
	}
	return local, cfg.Storage.Dir, nil
}
