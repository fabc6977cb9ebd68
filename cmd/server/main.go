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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ncastellano/ecommerce_backend/internal/config"
	"github.com/ncastellano/ecommerce_backend/internal/httpserver"
	"github.com/ncastellano/ecommerce_backend/internal/logging"
	"github.com/ncastellano/ecommerce_backend/internal/mail"
	"github.com/ncastellano/ecommerce_backend/internal/middleware/loggingmw"
	"github.com/ncastellano/ecommerce_backend/internal/mykafka"
	"github.com/ncastellano/ecommerce_backend/internal/repo"
	"github.com/ncastellano/ecommerce_backend/internal/service"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	ctx := context.Background()
	db, err := config.InitDB(ctx, configuration)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)

	producer := mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
	mailer := mail.NewSMTPMailer(
		configuration.SMTP_ADDR,
		configuration.SMTP_FROM,
		configuration.SMTP_USER,
		configuration.SMTP_PASSWORD,
	)

	stores := repo.New(db)
	set := stores.Set()

	deps := &httpserver.Deps{
		JWTSecret: jwtSecret,
		Auth:      &httpserver.AuthHTTP{Svc: &service.AuthService{Stores: set, JWTSecret: jwtSecret, Events: producer}},
		Products:  &httpserver.ProductHTTP{Svc: &service.ProductService{Stores: set, Events: producer}},
		Carts:     &httpserver.CartHTTP{Svc: &service.CartService{Stores: set, Events: producer}},
		Checkout: &httpserver.CheckoutHTTP{
			Svc:   &service.CheckoutService{Stores: set, Tx: stores, Events: producer},
			Users: set.Users,
		},
		Recovery: &httpserver.RecoveryHTTP{Svc: &service.RecoveryService{
			Stores:  set,
			Tx:      stores,
			Mailer:  mailer,
			BaseURL: configuration.BASE_URL,
		}},
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:         ":8080",
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
