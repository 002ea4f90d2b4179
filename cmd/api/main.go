package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/maxi-cmyk/poop-tracker/internal/adapters/activity/kafkabus"
	"github.com/maxi-cmyk/poop-tracker/internal/adapters/auth/gotrue"
	pg "github.com/maxi-cmyk/poop-tracker/internal/adapters/storage/postgres"
	"github.com/maxi-cmyk/poop-tracker/internal/platform/config"
	"github.com/maxi-cmyk/poop-tracker/internal/platform/logger"
	"github.com/maxi-cmyk/poop-tracker/internal/platform/metrics"
	"github.com/maxi-cmyk/poop-tracker/internal/ports/activity"
	"github.com/maxi-cmyk/poop-tracker/internal/ports/auth"
	"github.com/maxi-cmyk/poop-tracker/internal/router"
)

//go:generate swag init -g main.go -d ./,../../internal -o ../../docs

// @title PooPals API
// @version 1.0
// @description Registro de visitas al baño, rachas, logros, círculo de amigos y baños públicos.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewFromEnv().Error("invalid config", map[string]any{"error": err})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := router.Options{
		Log:             log,
		DefaultLocation: cfg.Location(),
	}

	if cfg.DBDSN != "" {
		db, err := pg.Open(cfg.DBDSN)
		if err != nil {
			log.Error("postgres open failed", map[string]any{"error": err})
			os.Exit(1)
		}
		defer db.Close()

		mctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		err = pg.Migrate(mctx, db)
		cancel()
		if err != nil {
			log.Error("postgres migrate failed", map[string]any{"error": err})
			os.Exit(1)
		}
		opts.DB = db
		log.Info("storage: postgres", nil)
	} else {
		log.Warn("storage: in-memory (DB_DSN not set)", nil)
	}

	opts.AuthVerifier = newVerifier(cfg, log)

	var pub activity.Publisher = activity.Discard{}
	if len(cfg.Kafka.Brokers) > 0 {
		kp, err := kafkabus.NewPublisher(kafkabus.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.ActivityTopic,
		}, log)
		if err != nil {
			log.Error("kafka publisher failed", map[string]any{"error": err})
			os.Exit(1)
		}
		defer kp.Close()
		pub = kp
		log.Info("activity: kafka", map[string]any{"topic": cfg.Kafka.ActivityTopic, "brokers": cfg.Kafka.Brokers})
	}
	opts.Activity = pub

	if cfg.Metrics.Enabled {
		opts.Metrics = metrics.New()
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.NewRouter(opts),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server error", map[string]any{"error": err})
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	sctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error("shutdown failed", map[string]any{"error": err})
	}
}

// newVerifier: sin auth configurado => nil (modo dev con X-Debug-User-ID).
func newVerifier(cfg config.Config, log logger.Logger) auth.AuthVerifier {
	client, err := gotrue.NewClient(gotrue.Config{
		BaseURL: cfg.Auth.BaseURL,
		APIKey:  cfg.Auth.APIKey,
	})
	if err != nil {
		if !errors.Is(err, gotrue.ErrNotConfigured) {
			log.Error("auth client failed", map[string]any{"error": err})
			os.Exit(1)
		}
		log.Warn("auth: dev mode, X-Debug-User-ID accepted", nil)
		return nil
	}
	return gotrue.NewVerifier(client)
}
