package main // Entry point package

import (
	"context"
	"errors"
	"log" // Logging library
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4" // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/spott-events/spott/internal/checkin"
	"github.com/spott-events/spott/internal/clock"
	"github.com/spott-events/spott/internal/config" // Internal config loader
	"github.com/spott-events/spott/internal/database"
	"github.com/spott-events/spott/internal/explore"
	"github.com/spott-events/spott/internal/handler"
	"github.com/spott-events/spott/internal/middleware"
	"github.com/spott-events/spott/internal/queue"
	"github.com/spott-events/spott/internal/repository"
	"github.com/spott-events/spott/internal/router" // Internal router setup
	"github.com/spott-events/spott/internal/service"
)

func main() {
	// A missing .env is fine; the real environment wins either way.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("env: %v", err)
	}
	cfg := config.Load() // Load environment config

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB(ctx, cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb != nil {
		defer rdb.Close()
	}

	var pub queue.Publisher = queue.NopPublisher{}
	if bc := config.LoadBrokerConfig(); bc.Enabled {
		pub = queue.NewAMQPPublisher(bc.URL)
		if bc.Consumer {
			consumer := &queue.CheckinConsumer{URL: bc.URL, LogDir: bc.LogDir}
			go func() {
				if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Printf("checkin-consumer: stopped: %v", err)
				}
			}()
		}
	}

	clk := clock.System{}
	notifier := service.NewNotifier(pub)

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	events := repository.NewEventRepo(db)
	regs := repository.NewRegistrationRepo(db)

	policyName := config.LoadExploreConfig().Policy
	exploreSvc := explore.NewService(events, clk, explore.PolicyByName(policyName))
	checkinSvc := checkin.NewService(regs, clk, notifier)
	eventSvc := service.NewEventService(events, users, regs, clk, notifier)
	onboarding := service.NewOnboarding(users, clk)

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())
	e.Use(echomw.CORS())

	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e, db) // Register application routes
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens, onboarding, clk), cfg.JWTSecret, limit)
	router.RegisterExplore(e, handler.NewExploreHandler(exploreSvc, users), cfg.JWTSecret, cache)
	eventHandler := handler.NewEventHandler(eventSvc, users)
	router.RegisterOrganizer(e, eventHandler, handler.NewCheckinHandler(checkinSvc), cfg.JWTSecret, limit)
	router.RegisterAttendee(e, eventHandler, cfg.JWTSecret)

	addr := ":" + cfg.Port // Address string with port
	log.Printf("listening on %s (env=%s, db=%s, policy=%s)", addr, cfg.Env, cfg.DBDriver, policyName) // Print startup info

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) { // Start HTTP server
			log.Fatal(err) // Log and exit if server fails
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// openDB connects and migrates.  DB_DRIVER=sqlite with DB_NAME=:memory:
// runs against a throwaway in-memory database.
func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	if cfg.DBDriver == config.DriverSQLite && cfg.DBName == ":memory:" {
		return database.OpenMemory(ctx, "spott")
	}
	db, err := database.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return nil, err
	}
	mctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := database.Migrate(mctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
