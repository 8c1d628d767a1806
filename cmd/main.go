package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bankpoc/banking-ui/internal/client"
	"github.com/bankpoc/banking-ui/internal/command"
	"github.com/bankpoc/banking-ui/internal/config"
	"github.com/bankpoc/banking-ui/internal/handler"
	"github.com/bankpoc/banking-ui/internal/query"
	"github.com/bankpoc/banking-ui/internal/repository"
	"github.com/bankpoc/banking-ui/internal/session"
	"github.com/bankpoc/banking-ui/internal/view"
	"github.com/bankpoc/banking-ui/shared/events"
	"github.com/bankpoc/banking-ui/shared/middleware"
	"github.com/bankpoc/banking-ui/shared/models"
	redisClient "github.com/bankpoc/banking-ui/shared/redis"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	credentials := credentialVerifier(cfg)

	// Redis is optional: without it sessions live in this process only.
	var (
		mirror    session.Mirror
		publisher events.Emitter = events.NopPublisher{}
		redis     *redisClient.Client
	)
	if cfg.RedisAddr != "" {
		redis, err = redisClient.NewClient(ctx, redisClient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redis.Close()
		mirror = redisClient.NewViewCache[models.User](redis.Client, session.KeyPrefix, 0)
		publisher = events.NewPublisher(redis.Client)
	} else {
		log.Println("REDIS_ADDR not set; sessions are kept in memory only")
	}

	// --- CQRS wiring ---
	bank := client.NewBankClient(cfg.GatewayURL, cfg.CoreURL, cfg.HTTPTimeout)
	sessions := session.NewManager(
		session.NewStore(mirror),
		session.NewTokenIssuer(cfg.SessionSecret, cfg.SessionTTL),
		publisher,
		cfg.InstanceID,
	)

	authQuery := query.NewAuthQueryService(credentials)
	customerQuery := query.NewCustomerQueryService(bank)
	adminQuery := query.NewAdminQueryService(bank)
	transactionCmd := command.NewTransactionCommandService(bank, publisher)

	secure := strings.HasPrefix(cfg.SelfURL, "https://")

	// Setup router
	router := gin.Default()
	router.SetHTMLTemplate(view.Templates())
	router.Use(middleware.SessionMiddleware(sessions))
	router.Use(middleware.LoggingMiddleware())

	router.Any(config.GatewayProxyPath+"/*path", handler.ProxyTo(cfg.GatewayUpstream, config.GatewayProxyPath, cfg.HTTPTimeout))
	router.Any(config.CoreProxyPath+"/*path", handler.ProxyTo(cfg.CoreUpstream, config.CoreProxyPath, cfg.HTTPTimeout))

	handler.Register(router, handler.Handlers{
		Auth:     handler.NewAuthHandler(authQuery, sessions, secure),
		Customer: handler.NewCustomerHandler(customerQuery, transactionCmd, secure),
		Admin:    handler.NewAdminHandler(adminQuery),
		Health:   handler.Health(bank),
	})

	// Session revocations from other instances
	if redis != nil {
		go func() {
			subscriber := events.NewSubscriber(redis.Client, events.SubscriberConfig{
				Stream:    events.SessionEventsStream,
				Group:     "banking-ui-" + cfg.InstanceID,
				Handler:   sessions.HandleSessionEvent,
				Ephemeral: true,
			})
			if err := subscriber.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("Subscriber stopped: %v", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down...")
		cancel()

		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Banking UI starting on port %s (gateway=%s, core=%s, instance=%s)",
		cfg.Port, bank.GatewayURL(), bank.CoreURL(), cfg.InstanceID)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// credentialVerifier uses the users table when CREDENTIALS_DATABASE_URL is
// set and the built-in demo users otherwise.
func credentialVerifier(cfg *config.Config) query.CredentialVerifier {
	if cfg.CredentialsDatabaseURL == "" {
		repo, err := repository.NewStaticCredentialRepository(repository.DemoUsers)
		if err != nil {
			log.Fatalf("Failed to build credential table: %v", err)
		}
		return repo
	}

	db, err := sql.Open("postgres", cfg.CredentialsDatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	return repository.NewPostgresCredentialRepository(db)
}
