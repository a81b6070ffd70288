package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "travellink/internal/config"
	router "travellink/internal/http"
	"travellink/internal/http/handlers"
	"travellink/internal/layout"
	"travellink/internal/repositories"
	"travellink/internal/services"
	"travellink/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}
	utils.SetupLogger(env.GinMode)

	bookings, leads, itineraries, closeStores := openStores(env)
	defer closeStores()

	accounts, err := services.NewDemoDirectory(bcrypt.DefaultCost)
	if err != nil {
		logrus.Fatalf("demo accounts: %v", err)
	}

	flows := services.NewFlowRegistry(services.FlowDeps{
		Gateway:       services.NewSimulatedGateway(env.PaymentLatency, env.PaymentSuccessRate),
		Store:         bookings,
		Notifier:      services.SimulatedNotifier{Latency: env.NotifyLatency},
		NotifyTimeout: 30 * time.Second,
	})
	flows.TTL = env.FlowTTL

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go flows.Run(sweepCtx, time.Minute)

	app := &handlers.App{
		Flows:       flows,
		Bookings:    bookings,
		Leads:       leads,
		Itineraries: itineraries,
		Accounts:    accounts,
		Tokens:      services.TokenService{Secret: []byte(env.JWTSecret), TTL: env.JWTTTL},
		Engine:      layout.NewEngine(),
	}

	r := router.NewRouter(env, app)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logrus.Infof("server listening on http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down server...")
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("shutdown failed: %v", err)
	}

	logrus.Info("server stopped")
}

// openStores picks MySQL when DB_DSN is set and memory otherwise. REDIS_ADDR moves leads to Redis.
func openStores(env intconfig.Env) (services.BookingStore, services.LeadStore, services.ItineraryStore, func()) {
	var (
		bookings    services.BookingStore   = repositories.NewMemoryBookingStore()
		leads       services.LeadStore      = repositories.NewMemoryLeadStore()
		itineraries services.ItineraryStore = repositories.NewMemoryItineraryStore()
		closers     []func()
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if env.DBDSN != "" {
		db, err := intconfig.ConnectDB(env.DBDSN)
		if err != nil {
			logrus.Fatalf("database: %v", err)
		}
		closers = append(closers, intconfig.CloseDB)

		br := repositories.BookingRepository{DB: db}
		lr := repositories.LeadRepository{DB: db}
		if err := br.EnsureSchema(ctx); err != nil {
			logrus.Fatalf("booking schema: %v", err)
		}
		if err := lr.EnsureSchema(ctx); err != nil {
			logrus.Fatalf("lead schema: %v", err)
		}
		ir := repositories.ItineraryRepository{DB: db}
		if err := ir.EnsureSchema(ctx); err != nil {
			logrus.Fatalf("itinerary schema: %v", err)
		}
		bookings, leads, itineraries = br, lr, ir
	} else {
		logrus.Warn("DB_DSN not set, bookings, leads and itineraries are kept in memory")
	}

	if env.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     env.RedisAddr,
			Password: env.RedisPassword,
			DB:       env.RedisDB,
		})
		rs, err := repositories.NewRedisLeadStore(ctx, client)
		if err != nil {
			logrus.Fatalf("redis: %v", err)
		}
		closers = append(closers, func() { _ = client.Close() })
		leads = rs
		logrus.Infof("leads stored in redis at %s", env.RedisAddr)
	}

	return bookings, leads, itineraries, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
}
