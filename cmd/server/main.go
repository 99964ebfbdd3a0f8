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

	"chronicles/backend/internal/auth"
	"chronicles/backend/internal/config"
	"chronicles/backend/internal/database"
	"chronicles/backend/internal/handler"
	"chronicles/backend/internal/hub"
	"chronicles/backend/internal/i18n"
	"chronicles/backend/internal/logger"
	"chronicles/backend/internal/mail"
	"chronicles/backend/internal/search"
	"chronicles/backend/internal/store"
	"chronicles/backend/internal/translate"

	"github.com/redis/go-redis/v9"

	// Swagger imports
	_ "chronicles/backend/docs" // This is important for swag to find the generated docs
)

const translationTTL = 24 * time.Hour

func init() {
	config.LoadConfig()
}

// @title           Chronicles API
// @version         1.0
// @description     This is the API for the Chronicles microblog.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.AppConfig
	appLog := logger.Setup(cfg.LogLevel)

	// Connect to the database
	database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)

	indexer, err := search.Open(cfg.ElasticsearchURL, cfg.IndexTimeout, appLog)
	if err != nil {
		log.Fatalf("Failed to configure search: %v", err)
	}
	if !indexer.Enabled() {
		appLog.Warn("ELASTICSEARCH_URL is not set, search is disabled")
	}
	database.Manager.Register(search.NewSynchronizer(indexer))

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
	}

	from := ""
	if len(cfg.Admins) > 0 {
		from = cfg.Admins[0]
	}
	mailer, err := mail.NewSender(mail.Settings{
		Server:   cfg.MailServer,
		Port:     cfg.MailPort,
		UseTLS:   cfg.MailUseTLS,
		Username: cfg.MailUsername,
		Password: cfg.MailPassword,
		From:     from,
	}, appLog)
	if err != nil {
		log.Fatalf("Failed to configure mail: %v", err)
	}

	handler.Init(handler.Services{
		Users:        store.NewUsers(database.Manager, indexer),
		Posts:        store.NewPosts(database.Manager, indexer),
		Translator:   translate.NewCached(translate.NewMicrosoft(cfg.MSTranslatorKey, cfg.MSTranslatorRegion), rdb, translationTTL, appLog),
		Mailer:       mailer,
		Hub:          hub.GlobalHub,
		PostsPerPage: cfg.PostsPerPage,
	})

	router := handler.NewRouter(handler.RouterOptions{
		Log:            appLog,
		Locales:        i18n.NewLocales(cfg.Languages),
		Limiter:        auth.NewLimiter(rdb, appLog),
		AuthRateBurst:  cfg.RateLimitAuthBurst,
		AuthRatePerSec: cfg.RateLimitAuthRPS,
	}, logger.RequestLogger(appLog))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		appLog.Infof("Server is running on :%s", cfg.Port)
		appLog.Infof("Swagger UI is available at http://localhost:%s/swagger/index.html", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	<-sigCh
	appLog.Info("Gracefully shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLog.WithError(err).Error("server shutdown")
	}
	mailer.Wait()
}
