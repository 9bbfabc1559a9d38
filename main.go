package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	intconfig "busline/internal/config"
	router "busline/internal/http"
	"busline/internal/http/handlers"
	"busline/internal/hub"
	"busline/internal/seed"
	"busline/internal/services"
	"busline/internal/store"
	"busline/internal/tracking"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	var st store.Store
	if env.DBDSN != "" {
		db, err := intconfig.ConnectDB(env.DBDSN)
		if err != nil {
			log.Fatalf("database connect failed: %v", err)
		}
		defer db.Close()
		mysqlStore, err := store.NewMySQL(db)
		if err != nil {
			log.Fatalf("store init failed: %v", err)
		}
		st = mysqlStore
	} else {
		log.Println("DB_DSN not set, using in-memory store")
		st = store.NewMemory()
	}

	if env.SeedDemo {
		if err := seed.Demo(st); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	eventHub := hub.New()
	payments := &services.PaymentService{
		Gateway: services.SimGateway{Delay: 50 * time.Millisecond},
		Timeout: env.PaymentTimeout,
	}
	bookings := services.NewBookingService(st, eventHub, payments)

	ingest := &tracking.Ingestor{
		Store:    st,
		Events:   eventHub,
		Source:   tracking.NewRandomWalk(time.Now().UnixNano()),
		Interval: env.TickInterval,
	}
	ingestCtx, stopIngest := context.WithCancel(context.Background())
	defer stopIngest()
	go ingest.Run(ingestCtx)

	h := handlers.New(st, bookings, payments, eventHub, []byte(env.JWTSecret))
	r := router.NewRouter(env, h)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	stopIngest()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}

	log.Println("server stopped cleanly")
}
