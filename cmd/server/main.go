package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	apigin "github.com/sharpeagle50/AI-Research-Assistant/adapters/gin"
	"github.com/sharpeagle50/AI-Research-Assistant/config"
	"github.com/sharpeagle50/AI-Research-Assistant/entitlement"
	memorystore "github.com/sharpeagle50/AI-Research-Assistant/entitlement/memory"
	redisstore "github.com/sharpeagle50/AI-Research-Assistant/entitlement/redis"
	"github.com/sharpeagle50/AI-Research-Assistant/gateway"
	"github.com/sharpeagle50/AI-Research-Assistant/provider"
	"github.com/sharpeagle50/AI-Research-Assistant/redeem"
	"github.com/sharpeagle50/AI-Research-Assistant/sweep"
)

var (
	configPath = flag.String("config", "", "path to configuration file (optional)")
	version    = "1.0.0"
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("failed to load configuration: %v", err)
	}
	log := newLogger(cfg.Logging)

	var store entitlement.Store
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store = redisstore.New(rdb, "")
		log.WithField("addr", cfg.Redis.Addr).Info("using redis entitlement store")
	} else {
		store = memorystore.New()
		log.Info("using in-memory entitlement store")
	}
	defer store.Close()

	codes := redeem.NewRegistry(cfg.AdminCodes)
	if codes.Len() == 0 {
		log.Warn("no admin codes configured; code redemption will always fail")
	}

	gw := gateway.New(
		store,
		[]provider.Provider{
			provider.NewOpenAI(cfg.Providers.OpenAIKey, cfg.Providers.Timeout),
			provider.NewAnthropic(cfg.Providers.AnthropicKey, cfg.Providers.Timeout),
		},
		cfg.Models,
		codes,
		cfg.Quota.DailyLimit,
		log,
	)

	runner, err := sweep.New(store, log, cfg.Sessions.ExpirySweepSchedule, cfg.Quota.ResetSchedule)
	if err != nil {
		log.Fatalf("failed to schedule maintenance: %v", err)
	}
	runner.Start()
	defer runner.Stop()

	router := apigin.NewRouter(apigin.Options{
		Gateway:        gw,
		Log:            log,
		Version:        version,
		UpgradeURL:     cfg.UpgradeURL,
		AllowedOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"addr":        srv.Addr,
			"admin_codes": codes.Len(),
			"models":      len(cfg.Models),
		}).Info("research assistant backend listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("forced shutdown: %v", err)
	}
}

func newLogger(cfg config.LoggingConfig) *logrus.Logger {
	log := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.Level); err == nil {
		log.SetLevel(lvl)
	}
	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log
}
