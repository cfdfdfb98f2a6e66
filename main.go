package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"hr-portal/config"
	"hr-portal/internal/app"
	"hr-portal/internal/blob"
	"hr-portal/internal/database"
	"hr-portal/internal/identity"
	"hr-portal/internal/logging"
	"hr-portal/internal/models"
	"hr-portal/internal/notify"
	"hr-portal/internal/server"
	"hr-portal/internal/storage"
	"hr-portal/internal/storage/memory"
	"hr-portal/internal/storage/postgres"

	_ "hr-portal/docs" // Registers the swagger document

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// @title           HR Portal API
// @version         1.0
// @description     Job postings, candidate profiles and the application lifecycle.

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	issueToken := pflag.Bool("issue-token", false, "print a development token signed with jwt.secret and exit")
	role := pflag.String("role", string(models.RoleCandidate), "role of the issued token (candidate or recruiter)")
	email := pflag.String("email", "dev@example.com", "email of the issued token")
	subject := pflag.String("subject", "", "user id of the issued token (random when empty)")
	migrateDown := pflag.Bool("migrate-down", false, "roll back all migrations and exit")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logging.Setup(cfg.Log)

	if *issueToken {
		if err := printToken(cfg, *subject, *email, models.Role(*role)); err != nil {
			log.Fatalf("Failed to issue token: %v", err)
		}
		return
	}
	if *migrateDown {
		if err := database.MigrateDown(cfg.DB.DSN()); err != nil {
			log.Fatalf("Failed to roll back migrations: %v", err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	var (
		store  storage.Store
		dbPool *pgxpool.Pool
	)
	switch cfg.DB.Driver {
	case "memory":
		log.Warn("Using the in-memory store; data is lost on restart")
		store = memory.NewStore()
	default:
		if cfg.DB.Migrate {
			if err := database.Migrate(cfg.DB.DSN()); err != nil {
				log.Fatalf("Failed to apply migrations: %v", err)
			}
		}
		dbPool, err = database.NewConnectionPool(ctx, cfg.DB)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer dbPool.Close()
		store = postgres.NewStore(dbPool)
	}

	blobs, err := blob.NewOSStore(cfg.Blob.Root, cfg.Blob.PublicBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize blob store: %v", err)
	}

	// --- Notifications ---
	hub := notify.NewHub()
	var (
		notifier    notify.Publisher = hub
		redisClient *redis.Client
		bridgeDone  <-chan struct{}
	)
	if cfg.Redis.Enabled {
		redisClient, err = database.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()

		bridge := notify.NewRedisBridge(redisClient, cfg.Redis.Channel, hub)
		bridgeDone, err = bridge.Run(ctx)
		if err != nil {
			log.Fatalf("Failed to subscribe to %s: %v", cfg.Redis.Channel, err)
		}
		notifier = bridge
		log.Printf("Notifications fan out through Redis channel %s", cfg.Redis.Channel)
	}

	application := app.New(cfg, store, blobs, hub, notifier)
	application.DBPool = dbPool
	application.RedisClient = redisClient

	srv := server.NewServer(application)

	// --- Graceful Shutdown Handling ---
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Errorf("Server error: %v", err)
		}
	case <-ctx.Done():
		log.Println("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}
	hub.Close() // ends open notification streams

	stop()
	if bridgeDone != nil {
		<-bridgeDone // the relay must stop before the deferred client Close
	}

	log.Println("Application gracefully stopped.")
}

func printToken(cfg *config.Config, subject, email string, role models.Role) error {
	if !role.Valid() {
		return fmt.Errorf("unknown role %q", role)
	}
	id := uuid.New()
	if subject != "" {
		parsed, err := uuid.Parse(subject)
		if err != nil {
			return fmt.Errorf("subject must be a uuid: %w", err)
		}
		id = parsed
	}
	token, err := identity.NewIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Lifetime).
		Issue(models.Principal{ID: id, Email: email, Role: role})
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, token)
	return nil
}
