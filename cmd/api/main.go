package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/spacevoyager/bookings/internal/booking"
	"github.com/spacevoyager/bookings/internal/catalog"
	"github.com/spacevoyager/bookings/internal/domain"
	"github.com/spacevoyager/bookings/internal/http/handlers"
	sessionmw "github.com/spacevoyager/bookings/internal/http/middleware"
	"github.com/spacevoyager/bookings/internal/kv"
	"github.com/spacevoyager/bookings/internal/platform/mailer"
	"github.com/spacevoyager/bookings/internal/session"
	"github.com/spacevoyager/bookings/pkg/config"
	"github.com/spacevoyager/bookings/pkg/events"
	"github.com/spacevoyager/bookings/pkg/logger"
	mw "github.com/spacevoyager/bookings/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open storage backend", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// Catalog load is fail-open: on any fetch or parse error the form
	// runs with empty options instead of the process refusing to start.
	var cat = loadCatalog(ctx, cfg)

	bus := openBus(cfg)
	defer bus.Close()

	var mail mailer.Service
	if cfg.Email.DevMode {
		mail = mailer.NewDevMailer()
	} else {
		mail = mailer.NewMailer(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.FromEmail)
	}

	sessions := session.NewStore(store)
	manager := booking.NewManager(cat)
	svc := booking.NewService(manager, sessions, bus, mail)

	authHandler := handlers.NewAuthHandler(sessions, bus, cfg.Auth.SessionTTL)
	bookingHandler := handlers.NewBookingHandler(manager, svc, sessions)
	catalogHandler := handlers.NewCatalogHandler(cat)

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("bookings"))
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(sessionmw.OptionalSession)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Mount("/auth", authHandler.Routes())
	r.Mount("/catalog", catalogHandler.Routes())
	r.Mount("/bookings", bookingHandler.Routes())

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down bookings service...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Bookings service shutdown error", "error", err)
		}
	}()

	logger.Info("Starting bookings service", "port", cfg.Server.Port, "storage", cfg.Storage.Backend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Bookings service error", "error", err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (kv.Store, func(), error) {
	switch cfg.Storage.Backend {
	case "redis":
		store, err := kv.NewRedisStore(cfg.Redis.URL, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	case "postgres":
		store, err := kv.NewPostgresStore(ctx, cfg.Storage.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return kv.NewMemoryStore(), func() {}, nil
	}
}

func loadCatalog(ctx context.Context, cfg *config.Config) *domain.Catalog {
	loader := catalog.NewLoader(cfg.Catalog.Source)
	cat, err := loader.Load(ctx)
	if err != nil {
		logger.Error("Error loading booking data", "source", cfg.Catalog.Source, "error", err)
		return nil
	}
	logger.Info("Booking catalog loaded",
		"source", cfg.Catalog.Source,
		"destinations", len(cat.Destinations),
		"extras", len(cat.Extras),
	)
	return cat
}

func openBus(cfg *config.Config) events.Publisher {
	if cfg.NATS.URL == "" {
		return events.NewNoopBus()
	}
	bus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Warn("NATS unavailable, events disabled", "error", err)
		return events.NewNoopBus()
	}
	return bus
}
