package main // Entry point package

import (
	"context"
	"log"

	_ "github.com/joho/godotenv/autoload" // load .env before config reads the environment
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/asoline/lawncare-booking/internal/config"
	"github.com/asoline/lawncare-booking/internal/database"
	"github.com/asoline/lawncare-booking/internal/handler"
	"github.com/asoline/lawncare-booking/internal/middleware"
	"github.com/asoline/lawncare-booking/internal/payments"
	"github.com/asoline/lawncare-booking/internal/queue"
	"github.com/asoline/lawncare-booking/internal/router"
	"github.com/asoline/lawncare-booking/internal/store"
	"github.com/asoline/lawncare-booking/internal/utils"
)

func main() {
	cfg := config.Load()

	st := openStore(cfg)
	defer func() { _ = st.Close() }()

	if err := seedAdmin(context.Background(), st, cfg); err != nil {
		log.Fatalf("seed admin user: %v", err)
	}

	// Redis is optional; without it the contact form runs unlimited.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, rate limiting disabled")
	}
	contactLimiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// Background consumer that turns broker events into notification
	// log lines. Runs its own reconnect loop forever.
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	gateway := payments.NewSquareSimulator()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.Register(e, router.Handlers{
		Auth:        handler.NewAuthHandler(cfg, st),
		Contact:     handler.NewContactHandler(st),
		Appointment: handler.NewAppointmentHandler(st),
		Payment:     handler.NewPaymentHandler(cfg, st, gateway),
	}, cfg.JWTSecret, contactLimiter)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s store=%s)", addr, cfg.Env, cfg.StoreDriver)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// openStore builds the entity store selected by STORE_DRIVER.
func openStore(cfg config.Config) store.Store {
	switch cfg.StoreDriver {
	case "mysql":
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Fatalf("open mysql: %v", err)
		}
		s := store.NewMySQLStore(db)
		if err := s.EnsureSchema(context.Background()); err != nil {
			log.Fatalf("ensure schema: %v", err)
		}
		return s
	case "memory":
		return store.NewMemoryStore()
	default:
		log.Fatalf("unknown STORE_DRIVER %q (want memory or mysql)", cfg.StoreDriver)
		return nil
	}
}

// seedAdmin creates the admin account on first start. An existing
// username means a previous run already seeded it.
func seedAdmin(ctx context.Context, st store.Store, cfg config.Config) error {
	hash, err := utils.HashPassword(cfg.AdminPass, cfg.BcryptCost)
	if err != nil {
		return err
	}
	_, err = st.CreateUser(ctx, store.NewUser{
		Username:     cfg.AdminUser,
		PasswordHash: hash,
		IsAdmin:      true,
	})
	if err == store.ErrUsernameExists {
		return nil
	}
	return err
}
