package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/riddlebox/riddle-api/internal/config"
	"github.com/riddlebox/riddle-api/internal/es"
	"github.com/riddlebox/riddle-api/internal/handlers"
	"github.com/riddlebox/riddle-api/internal/logging"
	authmw "github.com/riddlebox/riddle-api/internal/middleware/auth"
	"github.com/riddlebox/riddle-api/internal/mykafka"
	"github.com/riddlebox/riddle-api/internal/repo"
	"github.com/riddlebox/riddle-api/internal/service"
	"github.com/riddlebox/riddle-api/internal/tokens"
	httpserver "github.com/riddlebox/riddle-api/internal/transport/http"
	loggingmw "github.com/riddlebox/riddle-api/pkg/middleware/logging"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmpty(configuration.JWT_SECRET, "JWT_SECRET")

	logger := logging.New(configuration.LogLevel)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(initCtx, configuration)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	var prod *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		prod = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
	}

	esClient, err := es.NewClient(configuration)
	if err != nil {
		// Search degrades, the rest of the API keeps working.
		logger.Warn("elasticsearch unavailable, search disabled", "error", err)
		esClient = nil
	}

	gormRepo := &repo.GormRepo{DB: db}
	issuer := tokens.NewIssuer([]byte(configuration.JWT_SECRET), configuration.TOKEN_TTL)
	authSvc := &service.AuthService{
		Repo:      gormRepo,
		Issuer:    issuer,
		AdminCode: configuration.ADMIN_CODE,
		Producer:  prod,
	}
	playerSvc := &service.PlayerService{Repo: gormRepo, Producer: prod}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.HTTPErrorHandler = httpserver.ErrorHandler(configuration.AppEnv == "development")

	deps := httpserver.Deps{
		AuthHandler:   &handlers.AuthHandler{Svc: authSvc},
		PlayerHandler: &handlers.PlayerHandler{Svc: playerSvc},
		RiddleHandler: &handlers.RiddleHandler{Repo: gormRepo, Producer: prod, ES: esClient, Index: "riddles"},
		SearchHandler: &handlers.SearchHandler{ES: esClient, Index: "riddles"},
		HealthHandler: &handlers.HealthHandler{Start: time.Now()},
		AuthMW:        &authmw.Middleware{Issuer: issuer, Svc: authSvc},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", configuration.ServerPort),
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
